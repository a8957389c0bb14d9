package powerfulcases

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// writeTestFile creates a file with the given content, creating parent
// directories as needed.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestManager creates a Manager over a fresh cases dir and cache dir.
func newTestManager(t *testing.T, opts ...ManagerOption) (Manager, string, string) {
	t.Helper()
	t.Setenv(cacheDirEnvVar, "")
	casesDir := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	mgr, err := NewManager(Config{CasesDir: casesDir, CacheDir: cacheDir}, opts...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr, casesDir, cacheDir
}

// writeTestCase creates a case directory with a minimal manifest under dir.
func writeTestCase(t *testing.T, dir, name string) string {
	t.Helper()
	caseDir := filepath.Join(dir, name)
	writeTestFile(t, filepath.Join(caseDir, ManifestFilename), fmt.Sprintf(`
name = "%s"

[[files]]
path = "%s.raw"
format = "psse_raw"
default = true
`, name, name))
	writeTestFile(t, filepath.Join(caseDir, name+".raw"), "raw data for "+name)
	return caseDir
}

// testLogger records log calls for assertions.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+msg)
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.log("debug", msg) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.log("info", msg) }
func (l *testLogger) Warn(msg string, keysAndValues ...any)  { l.log("warn", msg) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.log("error", msg) }

func (l *testLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
