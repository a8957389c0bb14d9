package powerfulcases

// Config configures the case library.
type Config struct {
	// CasesDir is the bundled-cases root directory. Each immediate
	// subdirectory is a collection of cases; case directories placed
	// directly under the root (legacy flat layout) are also recognized.
	CasesDir string

	// CacheDir overrides the per-user cache directory for downloaded
	// remote cases. If empty, a platform-appropriate default is used.
	// Can also be set via the POWERFULCASES_CACHE_DIR environment variable.
	CacheDir string

	// RegistryFile is the path to the bundled registry.toml.
	// If empty, CasesDir/registry.toml is used.
	RegistryFile string
}

// FileEntry describes one data file within a case bundle.
type FileEntry struct {
	// Path is the file's path relative to the case directory.
	Path string

	// Format identifies the file's structural type, e.g. "psse_raw",
	// "psse_dyr", "matpower", "psat", "json", "xlsx", "csv".
	Format string

	// FormatVersion is the optional format version, e.g. "33" for PSS/E v33.
	FormatVersion string

	// Variant names an alternative file for the same format, e.g. a
	// dynamic-model parameter set like "genrou".
	Variant string

	// Default marks the entry returned when no variant is requested.
	// Producers should mark at most one default per (format, version) pair.
	Default bool

	// Includes lists additional relative paths bundled with this entry.
	Includes []string
}

// Citation is a publication to cite when using a case.
type Citation struct {
	Text string
	DOI  string
}

// Credits holds attribution information for a case.
type Credits struct {
	// License is an SPDX identifier, or empty.
	License string

	// Authors are the original data authors/creators, in order.
	Authors []string

	// Maintainers are the dataset maintainers, in order.
	Maintainers []string

	// Citations are publications to cite, in order.
	Citations []Citation
}

// Manifest is the parsed metadata of a case bundle. It is immutable after
// construction and owned by the CaseBundle that loaded it.
type Manifest struct {
	Name        string
	Description string
	DataVersion string

	// Collection is the collection identifier declared in the manifest,
	// or empty when the case is not part of a collection.
	Collection string

	Tags []string

	// Files lists the bundle's data files in manifest order.
	Files []FileEntry

	// Credits is nil when the manifest declares no credits.
	Credits *Credits

	// Extra preserves unknown top-level manifest keys opaquely.
	Extra map[string]any
}

// CaseBundle is a loaded case: a name, an absolute directory, and the parsed
// manifest. Bundles are created fresh on every Load call and hold no
// resources needing release.
type CaseBundle struct {
	// Name is the case name, e.g. "ieee14".
	Name string

	// Dir is the absolute path to the case directory.
	Dir string

	// Manifest is the parsed (or inferred) case metadata.
	Manifest *Manifest

	// IsRemote reports whether the case was loaded from the download cache.
	IsRemote bool

	// collection is the collection the loader resolved the case under,
	// or empty for flat-layout and local-path cases.
	collection string
}

// CacheInfo summarizes the local download cache.
type CacheInfo struct {
	// Directory is the cache root path.
	Directory string `json:"directory"`

	// Exists reports whether the cache directory exists on disk.
	Exists bool `json:"exists"`

	// NumCases is the number of validly cached cases.
	NumCases int `json:"num_cases"`

	// TotalSize is the total size of the cache in bytes.
	TotalSize int64 `json:"total_size"`

	// Cases lists the cached case identifiers, sorted.
	Cases []string `json:"cases"`
}
