package powerfulcases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// downloader fetches a remote case into the local cache: manifest first,
// then every referenced file and include, sequentially. No retry layer
// exists; a failed fetch aborts the operation and leaves a partially
// populated directory the cache-validity marker ignores.
type downloader struct {
	fetch   *fetchClient
	storage *storage
	logger  Logger
}

func newDownloader(fetch *fetchClient, storage *storage, logger Logger) *downloader {
	return &downloader{fetch: fetch, storage: storage, logger: logger}
}

// download fetches the case identified by id ("name" or "collection/name")
// and returns its cache directory. Already-cached cases short-circuit
// unless force is set, in which case the cached copy is removed first.
func (d *downloader) download(ctx context.Context, id string, reg *Registry, cfg *downloadConfig) (string, error) {
	if !reg.isRemoteCase(id) {
		return "", fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownRemoteCase, id, joinOrNone(reg.RemoteCases))
	}
	// Registry identifiers come from a file on disk; a tampered registry
	// must not be able to direct writes outside the cache root.
	if err := validateCaseID(id); err != nil {
		return "", err
	}

	dest := d.storage.casePath(id)
	if d.storage.isCached(id) {
		if !cfg.force {
			return dest, nil
		}
		if err := d.storage.removeCase(id); err != nil {
			return "", err
		}
	}

	if err := d.storage.ensureDir(dest); err != nil {
		return "", err
	}

	var bytesFetched int64
	report := func(path string, total, completed int) {
		if cfg.progressFn != nil {
			cfg.progressFn(DownloadProgress{
				Case:           id,
				Path:           path,
				FilesTotal:     total,
				FilesCompleted: completed,
				BytesFetched:   bytesFetched,
			})
		}
	}
	onBytes := func(delta int64) { bytesFetched += delta }

	manifestPath := filepath.Join(dest, ManifestFilename)
	if _, err := d.fetch.fetchFile(ctx, id+"/"+ManifestFilename, manifestPath, onBytes); err != nil {
		return "", fmt.Errorf("downloading case %q: %w", id, err)
	}
	report(ManifestFilename, 0, 0)

	m, err := parseManifest(manifestPath)
	if err != nil {
		return "", fmt.Errorf("downloading case %q: %w", id, err)
	}
	if len(m.Files) == 0 {
		// A manifest without files signals corrupted remote data. Remove
		// the fetched marker so the partial directory is never treated as
		// a valid cached case.
		os.Remove(manifestPath)
		return "", fmt.Errorf("%w: remote manifest for %q lists no files", ErrInvalidManifest, id)
	}

	paths, err := manifestFilePaths(m)
	if err != nil {
		return "", fmt.Errorf("downloading case %q: %w", id, err)
	}

	if d.logger != nil {
		d.logger.Info("downloading case", "case", id, "files", len(paths))
	}

	for i, rel := range paths {
		local := filepath.Join(dest, filepath.FromSlash(rel))
		if _, err := d.fetch.fetchFile(ctx, id+"/"+rel, local, onBytes); err != nil {
			// The manifest is the cache-validity marker. Dropping it keeps
			// an interrupted download from ever looking complete.
			os.Remove(manifestPath)
			return "", fmt.Errorf("downloading case %q: %w", id, err)
		}
		report(rel, len(paths), i+1)
	}

	return dest, nil
}

// manifestFilePaths collects the relative paths a manifest references, in
// manifest order with includes following their entry, de-duplicated so a
// path shared by several entries is fetched once. Paths that would escape
// the case directory are rejected.
func manifestFilePaths(m *Manifest) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	add := func(rel string) error {
		if rel == "" || seen[rel] {
			return nil
		}
		if err := validateRelativePath(rel); err != nil {
			return err
		}
		seen[rel] = true
		paths = append(paths, rel)
		return nil
	}
	for _, f := range m.Files {
		if err := add(f.Path); err != nil {
			return nil, err
		}
		for _, inc := range f.Includes {
			if err := add(inc); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

// validateRelativePath rejects manifest paths that are absolute or contain
// parent-directory components.
func validateRelativePath(rel string) error {
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "\\") {
		return fmt.Errorf("%w: absolute manifest path %q", ErrInvalidPath, rel)
	}
	for _, part := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%w: manifest path %q escapes the case directory", ErrInvalidPath, rel)
		}
	}
	return nil
}
