package powerfulcases

import "errors"

// Sentinel errors for case resolution and cache operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrManifestNotFound indicates a manifest.toml was expected but absent.
	ErrManifestNotFound = errors.New("powerfulcases: manifest not found")

	// ErrFileNotFound indicates no manifest entry matches a file query.
	ErrFileNotFound = errors.New("powerfulcases: no matching file in case")

	// ErrUnknownCase indicates the case name matched no bundled, cached,
	// or remote case.
	ErrUnknownCase = errors.New("powerfulcases: unknown case")

	// ErrAmbiguousCase indicates a bare case name matched more than one
	// source; the collection-qualified form must be used.
	ErrAmbiguousCase = errors.New("powerfulcases: ambiguous case name")

	// ErrInvalidPath indicates a case identifier contains unsafe path
	// components or escapes the bundled-cases root.
	ErrInvalidPath = errors.New("powerfulcases: invalid path")

	// ErrUnknownRemoteCase indicates a download target absent from the
	// remote registry.
	ErrUnknownRemoteCase = errors.New("powerfulcases: case not in remote registry")

	// ErrInvalidManifest indicates a fetched manifest parsed to zero file
	// entries, signaling corrupted remote data.
	ErrInvalidManifest = errors.New("powerfulcases: invalid manifest")

	// ErrAmbiguousFormat indicates a file extension that cannot be
	// classified without a manifest (".m" is both MATPOWER and PSAT).
	ErrAmbiguousFormat = errors.New("powerfulcases: ambiguous file extension")

	// ErrDirectoryExists indicates an export target already exists and
	// overwriting was not requested.
	ErrDirectoryExists = errors.New("powerfulcases: directory already exists")

	// ErrNotADirectory indicates a path that was expected to be a directory.
	ErrNotADirectory = errors.New("powerfulcases: not a directory")

	// ErrNetworkError indicates a network or connection failure.
	ErrNetworkError = errors.New("powerfulcases: network error")

	// ErrStorageError indicates a filesystem operation failed.
	ErrStorageError = errors.New("powerfulcases: storage error")

	// ErrRegistryError indicates the remote-case registry is missing,
	// unusable, or declares no base URL.
	ErrRegistryError = errors.New("powerfulcases: invalid registry data")
)
