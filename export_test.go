package powerfulcases

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("bundled case", func(t *testing.T) {
		mgr, casesDir, _ := newTestManager(t)
		caseDir := writeTestCase(t, casesDir, "ieee14")
		writeTestFile(t, filepath.Join(caseDir, "docs", "readme.txt"), "notes")
		dest := t.TempDir()

		out, err := mgr.Export(ctx, "ieee14", dest)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if want := filepath.Join(dest, "ieee14"); out != want {
			t.Errorf("out = %q, want %q", out, want)
		}

		for _, rel := range []string{ManifestFilename, "ieee14.raw", filepath.Join("docs", "readme.txt")} {
			if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
				t.Errorf("missing exported file %s: %v", rel, err)
			}
		}

		data, _ := os.ReadFile(filepath.Join(out, "ieee14.raw"))
		if string(data) != "raw data for ieee14" {
			t.Errorf("exported content = %q", data)
		}
	})

	t.Run("existing destination", func(t *testing.T) {
		mgr, casesDir, _ := newTestManager(t)
		writeTestCase(t, casesDir, "ieee14")
		dest := t.TempDir()

		if _, err := mgr.Export(ctx, "ieee14", dest); err != nil {
			t.Fatalf("first Export: %v", err)
		}
		_, err := mgr.Export(ctx, "ieee14", dest)
		if !errors.Is(err, ErrDirectoryExists) {
			t.Fatalf("err = %v, want ErrDirectoryExists", err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		mgr, casesDir, _ := newTestManager(t)
		writeTestCase(t, casesDir, "ieee14")
		dest := t.TempDir()

		if _, err := mgr.Export(ctx, "ieee14", dest); err != nil {
			t.Fatalf("first Export: %v", err)
		}
		// Plant a file the overwrite must remove.
		stale := filepath.Join(dest, "ieee14", "stale.txt")
		writeTestFile(t, stale, "old")

		if _, err := mgr.Export(ctx, "ieee14", dest, WithOverwrite()); err != nil {
			t.Fatalf("overwrite Export: %v", err)
		}
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Error("stale file survived overwrite")
		}
	})

	t.Run("unknown case", func(t *testing.T) {
		mgr, _, _ := newTestManager(t)
		_, err := mgr.Export(ctx, "nothere", t.TempDir())
		if !errors.Is(err, ErrUnknownCase) {
			t.Errorf("err = %v, want ErrUnknownCase", err)
		}
	})
}
