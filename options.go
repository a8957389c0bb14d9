package powerfulcases

import "net/http"

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zerolog, zap, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

// managerConfig holds configuration for Manager construction.
type managerConfig struct {
	httpClient HTTPClient
	logger     Logger
}

// WithHTTPClient sets a custom HTTP client for registry downloads.
// Useful for testing with mock servers or customizing timeouts.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) ManagerOption {
	return func(c *managerConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// FileOption refines a CaseBundle.File query.
type FileOption func(*fileQuery)

// fileQuery holds the selectors of a single File call.
type fileQuery struct {
	version  string
	variant  string
	required bool
}

// WithVersion restricts matching to entries with the given format version,
// e.g. "33" for PSS/E v33.
func WithVersion(version string) FileOption {
	return func(q *fileQuery) {
		q.version = version
	}
}

// WithVariant selects a named variant, e.g. "genrou". The special variant
// "default" selects the entry marked default.
func WithVariant(variant string) FileOption {
	return func(q *fileQuery) {
		q.variant = variant
	}
}

// Optional makes File return ("", nil) instead of ErrFileNotFound when no
// entry matches.
func Optional() FileOption {
	return func(q *fileQuery) {
		q.required = false
	}
}

// DownloadOption configures a download operation.
type DownloadOption func(*downloadConfig)

// downloadConfig holds configuration for a download operation.
type downloadConfig struct {
	force      bool
	progressFn func(DownloadProgress)
}

// WithForce re-fetches a case even when it is already cached. The cached
// copy is removed first.
func WithForce() DownloadOption {
	return func(c *downloadConfig) {
		c.force = true
	}
}

// WithProgress sets a callback for progress updates during download.
// The callback is invoked synchronously from the downloading goroutine.
func WithProgress(fn func(DownloadProgress)) DownloadOption {
	return func(c *downloadConfig) {
		c.progressFn = fn
	}
}

// DownloadProgress reports download progress for a single case.
type DownloadProgress struct {
	// Case is the case identifier being downloaded.
	Case string

	// Path is the relative path of the file just fetched ("manifest.toml"
	// for the initial manifest fetch).
	Path string

	// FilesTotal is the number of files the manifest references, including
	// de-duplicated includes. Zero until the manifest has been fetched.
	FilesTotal int

	// FilesCompleted is the number of files fetched so far.
	FilesCompleted int

	// BytesFetched is the cumulative bytes fetched from the network.
	BytesFetched int64
}

// ListOption filters a Cases listing.
type ListOption func(*listConfig)

// listConfig holds the filters of a Cases call.
type listConfig struct {
	collection string
	tag        string
}

// WithCollection restricts the listing to one collection.
func WithCollection(collection string) ListOption {
	return func(c *listConfig) {
		c.collection = collection
	}
}

// WithTag restricts the listing to cases carrying a tag.
func WithTag(tag string) ListOption {
	return func(c *listConfig) {
		c.tag = tag
	}
}

// ExportOption configures an export operation.
type ExportOption func(*exportConfig)

// exportConfig holds configuration for an export operation.
type exportConfig struct {
	overwrite bool
}

// WithOverwrite replaces an existing destination directory.
func WithOverwrite() ExportOption {
	return func(c *exportConfig) {
		c.overwrite = true
	}
}

// GenerateOption configures manifest generation.
type GenerateOption func(*generateConfig)

// generateConfig holds configuration for manifest generation.
type generateConfig struct {
	name        string
	description string
}

// WithName overrides the generated manifest's case name.
// Defaults to the directory's base name.
func WithName(name string) GenerateOption {
	return func(c *generateConfig) {
		c.name = name
	}
}

// WithDescription sets the generated manifest's description.
func WithDescription(description string) GenerateOption {
	return func(c *generateConfig) {
		c.description = description
	}
}
