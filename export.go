package powerfulcases

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// exportProgressThreshold is the case size above which exports log progress.
const exportProgressThreshold = 100 * 1024 * 1024

// Export copies a case into dest/name and returns the created directory.
// Loading the case first means remote cases are downloaded into the cache
// before being copied out.
func (m *manager) Export(ctx context.Context, name, dest string, opts ...ExportOption) (string, error) {
	cfg := &exportConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	bundle, err := m.Load(ctx, name)
	if err != nil {
		return "", err
	}

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", ErrStorageError, dest, err)
	}
	destDir := filepath.Join(destAbs, bundle.Name)

	if _, err := os.Stat(destDir); err == nil {
		if !cfg.overwrite {
			return "", fmt.Errorf("%w: %s (use overwrite to replace it)", ErrDirectoryExists, destDir)
		}
		if err := os.RemoveAll(destDir); err != nil {
			return "", fmt.Errorf("%w: removing %s: %v", ErrStorageError, destDir, err)
		}
	}

	if m.logger != nil {
		if size, err := dirSize(bundle.Dir); err == nil && size > exportProgressThreshold {
			m.logger.Info("exporting large case", "case", bundle.Name, "bytes", size)
		}
	}

	if err := copyDir(bundle.Dir, destDir); err != nil {
		return "", err
	}

	if m.logger != nil {
		m.logger.Info("exported case", "case", bundle.Name, "dir", destDir)
	}

	return destDir, nil
}

// copyDir recursively copies src into dst, preserving the directory
// structure. Symlinked files are followed.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrStorageError, path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageError, err)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: creating %s: %v", ErrStorageError, target, err)
			}
			return nil
		}
		return copyFile(path, target)
	})
}

// copyFile copies a single regular file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrStorageError, src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageError, dst, err)
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: copying %s: %v", ErrStorageError, dst, err)
	}
	return nil
}
