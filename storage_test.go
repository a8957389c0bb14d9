package powerfulcases

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewStorage_DirPriority(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		envDir := t.TempDir()
		t.Setenv(cacheDirEnvVar, envDir)

		s, err := newStorage(Config{CasesDir: "/cases", CacheDir: "/config/dir"})
		if err != nil {
			t.Fatalf("newStorage: %v", err)
		}
		if s.cacheDir != envDir {
			t.Errorf("cacheDir = %q, want env %q", s.cacheDir, envDir)
		}
	})

	t.Run("config dir", func(t *testing.T) {
		t.Setenv(cacheDirEnvVar, "")
		cfgDir := t.TempDir()

		s, err := newStorage(Config{CasesDir: "/cases", CacheDir: cfgDir})
		if err != nil {
			t.Fatalf("newStorage: %v", err)
		}
		if s.cacheDir != cfgDir {
			t.Errorf("cacheDir = %q, want %q", s.cacheDir, cfgDir)
		}
	})

	t.Run("platform default", func(t *testing.T) {
		t.Setenv(cacheDirEnvVar, "")

		s, err := newStorage(Config{CasesDir: "/cases"})
		if err != nil {
			t.Fatalf("newStorage: %v", err)
		}
		if s.cacheDir == "" {
			t.Error("cacheDir is empty, want platform default")
		}
		if filepath.Base(s.cacheDir) != "powerfulcases" {
			t.Errorf("cacheDir = %q, want a powerfulcases directory", s.cacheDir)
		}
	})
}

func TestStorageCasePath(t *testing.T) {
	s := &storage{cacheDir: filepath.Join("cache")}

	if got, want := s.casePath("wecc179"), filepath.Join("cache", "wecc179"); got != want {
		t.Errorf("casePath = %q, want %q", got, want)
	}
	if got, want := s.casePath("synthetic/texas2000"), filepath.Join("cache", "synthetic", "texas2000"); got != want {
		t.Errorf("casePath = %q, want %q", got, want)
	}
	if got, want := s.registryPath(), filepath.Join("cache", RegistryFilename); got != want {
		t.Errorf("registryPath = %q, want %q", got, want)
	}
}

func TestStorageIsCached(t *testing.T) {
	s := &storage{cacheDir: t.TempDir()}

	if s.isCached("wecc179") {
		t.Error("absent case should not be cached")
	}

	// A directory without a manifest is an interrupted download, not a
	// cached case.
	writeTestFile(t, filepath.Join(s.casePath("wecc179"), "wecc179.raw"), "data")
	if s.isCached("wecc179") {
		t.Error("manifest-less directory should not count as cached")
	}

	writeTestFile(t, filepath.Join(s.casePath("wecc179"), ManifestFilename), "name = \"wecc179\"")
	if !s.isCached("wecc179") {
		t.Error("case with manifest should be cached")
	}
}

func TestStorageCachedCases(t *testing.T) {
	s := &storage{cacheDir: t.TempDir()}

	writeTestFile(t, filepath.Join(s.casePath("wecc179"), ManifestFilename), "name = \"wecc179\"")
	writeTestFile(t, filepath.Join(s.casePath("synthetic/texas2000"), ManifestFilename), "name = \"texas2000\"")
	// Incomplete download: no manifest marker.
	writeTestFile(t, filepath.Join(s.casePath("partial"), "partial.raw"), "data")

	want := []string{"synthetic/texas2000", "wecc179"}
	if got := s.cachedCases(); !reflect.DeepEqual(got, want) {
		t.Errorf("cachedCases = %v, want %v", got, want)
	}
}

func TestStorageRemoveCase(t *testing.T) {
	s := &storage{cacheDir: t.TempDir()}
	writeTestFile(t, filepath.Join(s.casePath("wecc179"), ManifestFilename), "name = \"wecc179\"")

	if err := s.removeCase("wecc179"); err != nil {
		t.Fatalf("removeCase: %v", err)
	}
	if s.isCached("wecc179") {
		t.Error("case still cached after removal")
	}

	// Removing a non-existent case is not an error.
	if err := s.removeCase("wecc179"); err != nil {
		t.Errorf("second removeCase: %v", err)
	}
}

func TestStorageRemoveCase_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	s := &storage{cacheDir: filepath.Join(base, "cache")}
	victim := filepath.Join(base, "victim")
	writeTestFile(t, filepath.Join(victim, "important.txt"), "keep")

	for _, id := range []string{"../victim", "a/../../victim", "..", "/victim", `..\victim`} {
		if err := s.removeCase(id); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("removeCase(%q) = %v, want ErrInvalidPath", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(victim, "important.txt")); err != nil {
		t.Errorf("directory outside the cache root was touched: %v", err)
	}
}

func TestStorageClearAll(t *testing.T) {
	s := &storage{cacheDir: filepath.Join(t.TempDir(), "cache")}
	writeTestFile(t, filepath.Join(s.casePath("wecc179"), ManifestFilename), "name = \"wecc179\"")

	if err := s.clearAll(); err != nil {
		t.Fatalf("clearAll: %v", err)
	}
	if got := s.cachedCases(); len(got) != 0 {
		t.Errorf("cachedCases after clear = %v, want none", got)
	}
}

func TestStorageInfo(t *testing.T) {
	t.Run("missing cache dir", func(t *testing.T) {
		s := &storage{cacheDir: filepath.Join(t.TempDir(), "never-created")}
		ci, err := s.info()
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		if ci.Exists {
			t.Error("Exists = true for missing dir")
		}
		if ci.NumCases != 0 || ci.TotalSize != 0 {
			t.Errorf("got %+v, want zero counts", ci)
		}
		if ci.Cases == nil {
			t.Error("Cases = nil, want empty slice")
		}
	})

	t.Run("populated cache", func(t *testing.T) {
		s := &storage{cacheDir: t.TempDir()}
		writeTestFile(t, filepath.Join(s.casePath("wecc179"), ManifestFilename), "name = \"wecc179\"")
		writeTestFile(t, filepath.Join(s.casePath("wecc179"), "wecc179.raw"), "0123456789")

		ci, err := s.info()
		if err != nil {
			t.Fatalf("info: %v", err)
		}
		if !ci.Exists {
			t.Error("Exists = false")
		}
		if ci.NumCases != 1 {
			t.Errorf("NumCases = %d, want 1", ci.NumCases)
		}
		if ci.TotalSize < 10 {
			t.Errorf("TotalSize = %d, want at least the raw file's 10 bytes", ci.TotalSize)
		}
		if !reflect.DeepEqual(ci.Cases, []string{"wecc179"}) {
			t.Errorf("Cases = %v", ci.Cases)
		}
	})
}
