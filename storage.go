package powerfulcases

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// cacheDirEnvVar overrides the cache directory process-wide.
const cacheDirEnvVar = "POWERFULCASES_CACHE_DIR"

// storage manages the local cache of downloaded cases. Cached cases live at
// {cacheDir}/{name} or {cacheDir}/{collection}/{name}, mirroring their
// manifest-relative layout. A case counts as cached only when its directory
// contains manifest.toml; an interrupted download leaves no marker and is
// re-fetched.
type storage struct {
	cacheDir string
}

// newStorage resolves the cache directory.
// Priority: env var > Config.CacheDir > platform default.
// The directory itself is created lazily by downloads.
func newStorage(cfg Config) (*storage, error) {
	var dir string
	if envDir := os.Getenv(cacheDirEnvVar); envDir != "" {
		dir = envDir
	} else if cfg.CacheDir != "" {
		dir = cfg.CacheDir
	} else {
		defaultDir, err := getDefaultCacheDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolving default cache dir: %v", ErrStorageError, err)
		}
		dir = defaultDir
	}
	return &storage{cacheDir: dir}, nil
}

// casePath returns the cache directory for a case identifier
// ("name" or "collection/name").
func (s *storage) casePath(id string) string {
	return filepath.Join(s.cacheDir, filepath.FromSlash(id))
}

// registryPath returns the path of the cached registry copy.
func (s *storage) registryPath() string {
	return filepath.Join(s.cacheDir, RegistryFilename)
}

// isCached reports whether a case is validly cached: its directory exists
// and contains manifest.toml.
func (s *storage) isCached(id string) bool {
	info, err := os.Stat(filepath.Join(s.casePath(id), ManifestFilename))
	return err == nil && info.Mode().IsRegular()
}

// cachedCases lists the identifiers of validly cached cases, sorted. Both
// flat ("name") and collection-qualified ("collection/name") layouts are
// scanned, one level deep each.
func (s *storage) cachedCases() []string {
	var ids []string
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return ids
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if s.isCached(name) {
			ids = append(ids, name)
			continue
		}
		subEntries, err := os.ReadDir(filepath.Join(s.cacheDir, name))
		if err != nil {
			continue
		}
		for _, sub := range subEntries {
			if sub.IsDir() && s.isCached(name+"/"+sub.Name()) {
				ids = append(ids, name+"/"+sub.Name())
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// removeCase deletes one cached case directory. The identifier is
// validated component by component before it is joined onto the cache
// root, so a traversal identifier can never delete outside the cache.
func (s *storage) removeCase(id string) error {
	if err := validateCaseID(id); err != nil {
		return err
	}
	if err := os.RemoveAll(s.casePath(id)); err != nil {
		return fmt.Errorf("%w: removing cached case %q: %v", ErrStorageError, id, err)
	}
	return nil
}

// clearAll deletes the entire cache directory.
func (s *storage) clearAll() error {
	if err := os.RemoveAll(s.cacheDir); err != nil {
		return fmt.Errorf("%w: clearing cache: %v", ErrStorageError, err)
	}
	return nil
}

// ensureDir creates a directory and all parent directories.
func (s *storage) ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %v", ErrStorageError, path, err)
	}
	return nil
}

// info summarizes the cache contents.
func (s *storage) info() (CacheInfo, error) {
	ci := CacheInfo{
		Directory: s.cacheDir,
		Cases:     []string{},
	}
	if _, err := os.Stat(s.cacheDir); err != nil {
		if os.IsNotExist(err) {
			return ci, nil
		}
		return ci, fmt.Errorf("%w: reading cache: %v", ErrStorageError, err)
	}
	ci.Exists = true
	ci.Cases = s.cachedCases()
	ci.NumCases = len(ci.Cases)

	size, err := dirSize(s.cacheDir)
	if err != nil {
		return ci, fmt.Errorf("%w: sizing cache: %v", ErrStorageError, err)
	}
	ci.TotalSize = size
	return ci, nil
}

// dirSize sums the sizes of all regular files under root.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
