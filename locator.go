package powerfulcases

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// caseMatch records one place a bare case name was found.
type caseMatch struct {
	// source is "bundled" or "remote".
	source string

	// collection is the collection name, or "(root)" for flat-layout cases.
	collection string

	// location is the bundled directory path or the remote identifier.
	location string
}

func (m caseMatch) String() string {
	return m.source + ":" + m.collection
}

// Load resolves a case by name or path. Resolution order: an existing local
// directory, a collection-qualified bundled or remote case, then a search
// by bare name across every bundled collection and the remote registry at
// once. Finding the name in more than one place fails with ErrAmbiguousCase
// so the caller can switch to the qualified "collection/case" form.
func (m *manager) Load(ctx context.Context, nameOrPath string) (*CaseBundle, error) {
	if info, err := os.Stat(nameOrPath); err == nil && info.IsDir() {
		return m.loadLocal(nameOrPath)
	}

	if strings.ContainsAny(nameOrPath, "/\\") {
		return m.loadQualified(ctx, nameOrPath)
	}

	if err := validatePathComponent(nameOrPath); err != nil {
		return nil, err
	}

	matches := m.findBundled(nameOrPath)
	reg, err := m.registrySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range reg.findByName(nameOrPath) {
		coll := collectionOf(id)
		if coll == "" {
			coll = "(root)"
		}
		matches = append(matches, caseMatch{source: "remote", collection: coll, location: id})
	}

	switch len(matches) {
	case 0:
		available, _ := m.Cases(ctx)
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownCase, nameOrPath, joinOrNone(boundedList(available, 10)))
	case 1:
		if matches[0].source == "bundled" {
			coll := matches[0].collection
			if coll == "(root)" {
				coll = ""
			}
			return m.loadBundled(nameOrPath, coll, matches[0].location)
		}
		return m.loadRemote(ctx, matches[0].location)
	default:
		descs := make([]string, len(matches))
		for i, match := range matches {
			descs[i] = match.String()
		}
		return nil, fmt.Errorf("%w: %q found in multiple locations: %s; use the 'collection/case' form",
			ErrAmbiguousCase, nameOrPath, strings.Join(descs, ", "))
	}
}

// loadQualified resolves a "collection/case" identifier against the bundled
// cases root, then the remote registry.
func (m *manager) loadQualified(ctx context.Context, id string) (*CaseBundle, error) {
	parts := strings.Split(id, "/")
	for _, part := range parts {
		if err := validatePathComponent(part); err != nil {
			return nil, err
		}
	}

	dir := filepath.Join(append([]string{m.cfg.CasesDir}, parts...)...)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		if !isWithinRoot(dir, m.cfg.CasesDir) {
			return nil, fmt.Errorf("%w: %q resolves outside the bundled-cases root", ErrInvalidPath, id)
		}
		coll := ""
		if len(parts) > 1 {
			coll = parts[len(parts)-2]
		}
		return m.loadBundled(parts[len(parts)-1], coll, dir)
	}

	reg, err := m.registrySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if reg.isRemoteCase(id) {
		return m.loadRemote(ctx, id)
	}

	available, _ := m.Cases(ctx)
	return nil, fmt.Errorf("%w: %q (available: %s)",
		ErrUnknownCase, id, joinOrNone(boundedList(available, 10)))
}

// findBundled searches the bundled-cases root, legacy flat layout included,
// for every directory named name.
func (m *manager) findBundled(name string) []caseMatch {
	var matches []caseMatch
	root := m.cfg.CasesDir
	if root == "" {
		return matches
	}

	if flat := filepath.Join(root, name); isDir(flat) && isWithinRoot(flat, root) {
		matches = append(matches, caseMatch{source: "bundled", collection: "(root)", location: flat})
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return matches
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name(), name)
		if isDir(dir) && isWithinRoot(dir, root) {
			matches = append(matches, caseMatch{source: "bundled", collection: entry.Name(), location: dir})
		}
	}
	return matches
}

func (m *manager) loadLocal(path string) (*CaseBundle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrStorageError, path, err)
	}
	manifest, err := loadManifest(abs)
	if err != nil {
		return nil, err
	}
	return &CaseBundle{Name: filepath.Base(abs), Dir: abs, Manifest: manifest}, nil
}

func (m *manager) loadBundled(name, collection, dir string) (*CaseBundle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrStorageError, dir, err)
	}
	manifest, err := loadManifest(abs)
	if err != nil {
		return nil, err
	}
	return &CaseBundle{Name: name, Dir: abs, Manifest: manifest, collection: collection}, nil
}

// loadRemote loads a case from the download cache, fetching it first when
// it is not yet cached.
func (m *manager) loadRemote(ctx context.Context, id string) (*CaseBundle, error) {
	if !m.storage.isCached(id) {
		if _, err := m.Download(ctx, id); err != nil {
			return nil, err
		}
	}
	dir := m.storage.casePath(id)
	manifest, err := loadManifest(dir)
	if err != nil {
		return nil, err
	}
	return &CaseBundle{
		Name:       caseNameOf(id),
		Dir:        dir,
		Manifest:   manifest,
		IsRemote:   true,
		collection: collectionOf(id),
	}, nil
}

// Cases lists all known case names across bundled collections, the remote
// registry, and the cache, deduplicated and sorted. WithCollection and
// WithTag narrow the listing.
func (m *manager) Cases(ctx context.Context, opts ...ListOption) ([]string, error) {
	var cfg listConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	type caseInfo struct {
		collection string
		tags       []string
	}
	known := map[string]caseInfo{}

	root := m.cfg.CasesDir
	if root != "" && isDir(root) {
		// Cases with manifests, anywhere under the root.
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || d.Name() != ManifestFilename {
				return nil
			}
			caseDir := filepath.Dir(path)
			if caseDir == filepath.Clean(root) {
				return nil
			}
			name := filepath.Base(caseDir)
			if strings.HasPrefix(name, ".") {
				return nil
			}
			collection := ""
			if parent := filepath.Dir(caseDir); parent != filepath.Clean(root) {
				collection = filepath.Base(parent)
			}
			var tags []string
			if manifest, err := parseManifest(path); err == nil {
				tags = manifest.Tags
			}
			known[name] = caseInfo{collection: collection, tags: tags}
			return nil
		})

		// Manifest-less case directories inside collections.
		entries, _ := os.ReadDir(root)
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			subEntries, _ := os.ReadDir(filepath.Join(root, entry.Name()))
			for _, sub := range subEntries {
				if sub.IsDir() && !strings.HasPrefix(sub.Name(), ".") {
					if _, ok := known[sub.Name()]; !ok {
						known[sub.Name()] = caseInfo{collection: entry.Name()}
					}
				}
			}
		}
	}

	reg, err := m.registrySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range reg.RemoteCases {
		name := caseNameOf(id)
		if _, ok := known[name]; !ok {
			known[name] = caseInfo{collection: collectionOf(id)}
		}
	}

	for _, id := range m.storage.cachedCases() {
		name := caseNameOf(id)
		if _, ok := known[name]; !ok {
			known[name] = caseInfo{collection: collectionOf(id)}
		}
	}

	var names []string
	for name, info := range known {
		if cfg.collection != "" && info.collection != cfg.collection {
			continue
		}
		if cfg.tag != "" && !containsString(info.tags, cfg.tag) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Collections lists the collection names under the bundled-cases root,
// sorted. A subdirectory counts as a collection when it carries a
// collection.toml marker or contains at least one case directory.
func (m *manager) Collections(ctx context.Context) ([]string, error) {
	names := []string{}
	root := m.cfg.CasesDir
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return names, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageError, root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if isFile(filepath.Join(dir, "collection.toml")) || hasSubdirectory(dir) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RemoteCases lists the registry's downloadable case identifiers.
func (m *manager) RemoteCases(ctx context.Context) ([]string, error) {
	reg, err := m.registrySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{}, reg.RemoteCases...), nil
}

// validatePathComponent rejects empty components, parent-directory
// references, embedded separators, and absolute paths.
func validatePathComponent(component string) error {
	if component == "" {
		return fmt.Errorf("%w: empty path component", ErrInvalidPath)
	}
	if component == "." || component == ".." || strings.Contains(component, "..") {
		return fmt.Errorf("%w: component %q contains a parent-directory reference", ErrInvalidPath, component)
	}
	if strings.ContainsAny(component, "/\\") {
		return fmt.Errorf("%w: component %q contains a path separator", ErrInvalidPath, component)
	}
	if len(component) > 1 && component[1] == ':' {
		return fmt.Errorf("%w: component %q is an absolute path", ErrInvalidPath, component)
	}
	return nil
}

// validateCaseID validates every "/"-separated component of a case
// identifier ("name" or "collection/name"). Identifiers are joined onto
// directory roots, so every component must be a safe path segment.
func validateCaseID(id string) error {
	for _, part := range strings.Split(id, "/") {
		if err := validatePathComponent(part); err != nil {
			return err
		}
	}
	return nil
}

// isWithinRoot reports whether path, with symlinks resolved, still lies
// under root.
func isWithinRoot(path, root string) bool {
	resolvedPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(resolvedRoot, resolvedPath)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasSubdirectory(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			return true
		}
	}
	return false
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func boundedList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
