package powerfulcases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
)

// Manager provides programmatic access to case bundles.
// All methods are safe for concurrent use.
// For CLI integration, use NewCommand instead.
type Manager interface {
	// Load resolves a case by name, collection-qualified name, or local
	// directory path, downloading a remote case on first use.
	// Returns ErrUnknownCase, ErrAmbiguousCase, or ErrInvalidPath.
	Load(ctx context.Context, nameOrPath string) (*CaseBundle, error)

	// Cases lists all known case names across bundled collections, the
	// remote registry, and the cache. WithCollection and WithTag filter.
	Cases(ctx context.Context, opts ...ListOption) ([]string, error)

	// Collections lists the bundled collection names.
	Collections(ctx context.Context) ([]string, error)

	// RemoteCases lists the registry's downloadable case identifiers.
	RemoteCases(ctx context.Context) ([]string, error)

	// Download fetches a remote case into the cache and returns its
	// directory. Already-cached cases return immediately unless
	// WithForce() is given. Returns ErrUnknownRemoteCase for identifiers
	// absent from the registry.
	Download(ctx context.Context, name string, opts ...DownloadOption) (string, error)

	// Export copies a case (bundled, cached, or local) into dest/name and
	// returns the created directory. Returns ErrDirectoryExists when the
	// target exists and WithOverwrite() is not given.
	Export(ctx context.Context, name, dest string, opts ...ExportOption) (string, error)

	// ClearCache removes one cached case.
	ClearCache(ctx context.Context, name string) error

	// ClearCacheAll removes the entire download cache.
	ClearCacheAll(ctx context.Context) error

	// CacheInfo summarizes the download cache.
	CacheInfo(ctx context.Context) (CacheInfo, error)

	// GenerateManifest infers a manifest for a directory of case files and
	// writes it as manifest.toml, returning the written path.
	GenerateManifest(ctx context.Context, dir string, opts ...GenerateOption) (string, error)

	// RefreshRegistry discards the in-memory registry snapshot so the next
	// operation reloads it from disk.
	RefreshRegistry(ctx context.Context) error
}

// manager is the concrete implementation of the Manager interface.
type manager struct {
	// cfg holds the module configuration.
	cfg Config

	// httpClient is used for all HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// storage handles the local download cache.
	storage *storage

	// registryMu guards the lazily loaded registry snapshot.
	registryMu sync.Mutex

	// registry is the loaded snapshot, nil until first use.
	registry *Registry

	// downloadMu serializes download operations.
	downloadMu sync.Mutex
}

// Ensure manager implements Manager.
var _ Manager = (*manager)(nil)

// NewManager creates a new Manager with the given configuration.
// Returns an error if CasesDir is empty.
func NewManager(cfg Config, opts ...ManagerOption) (Manager, error) {
	if cfg.CasesDir == "" {
		return nil, errors.New("powerfulcases: CasesDir is required")
	}
	if cfg.RegistryFile == "" {
		cfg.RegistryFile = filepath.Join(cfg.CasesDir, RegistryFilename)
	}

	mcfg := &managerConfig{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(mcfg)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return &manager{
		cfg:        cfg,
		httpClient: mcfg.httpClient,
		logger:     mcfg.logger,
		storage:    storage,
	}, nil
}

// registrySnapshot returns the loaded registry, loading it on first use.
// Loading falls back cached copy, then bundled copy, then empty, and never
// fails; the error return exists for interface symmetry with callers that
// must propagate context cancellation in the future.
func (m *manager) registrySnapshot(ctx context.Context) (*Registry, error) {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()
	if m.registry == nil {
		m.registry = loadRegistry(m.storage.registryPath(), m.cfg.RegistryFile, m.logger)
	}
	return m.registry, nil
}

// RefreshRegistry discards the in-memory registry snapshot.
func (m *manager) RefreshRegistry(ctx context.Context) error {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()
	m.registry = nil
	return nil
}

// Download fetches a remote case into the cache.
func (m *manager) Download(ctx context.Context, name string, opts ...DownloadOption) (string, error) {
	cfg := &downloadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	reg, err := m.registrySnapshot(ctx)
	if err != nil {
		return "", err
	}
	if !reg.isRemoteCase(name) {
		return "", fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownRemoteCase, name, joinOrNone(reg.RemoteCases))
	}
	if reg.BaseURL == "" {
		return "", fmt.Errorf("%w: registry declares no base_url", ErrRegistryError)
	}

	m.downloadMu.Lock()
	defer m.downloadMu.Unlock()

	fetch := newFetchClient(reg.BaseURL, m.httpClient, m.logger)
	return newDownloader(fetch, m.storage, m.logger).download(ctx, name, reg, cfg)
}

// ClearCache removes one cached case.
func (m *manager) ClearCache(ctx context.Context, name string) error {
	return m.storage.removeCase(name)
}

// ClearCacheAll removes the entire download cache.
func (m *manager) ClearCacheAll(ctx context.Context) error {
	return m.storage.clearAll()
}

// CacheInfo summarizes the download cache.
func (m *manager) CacheInfo(ctx context.Context) (CacheInfo, error) {
	return m.storage.info()
}
