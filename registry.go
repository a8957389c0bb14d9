package powerfulcases

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// RegistryFilename is the remote-case index file name.
const RegistryFilename = "registry.toml"

// Registry is the index of remotely downloadable cases. Immutable once
// loaded; a Manager reloads it on demand via RefreshRegistry.
type Registry struct {
	// Version is the registry schema version.
	Version string `toml:"version"`

	// BaseURL is the base download URL. For a remote case id, files live
	// under {BaseURL}/{id}/manifest.toml and {BaseURL}/{id}/{relative_path}.
	BaseURL string `toml:"base_url"`

	// RemoteCases lists the downloadable case identifiers, each either a
	// bare name or "collection/name".
	RemoteCases []string `toml:"remote_cases"`
}

// loadRegistry loads the registry with fallback: the cached copy first,
// then the bundled copy, then an empty registry. Nothing in this package
// writes the cached copy; a deployment can drop an updated registry.toml
// into the cache directory to override the bundled index. A corrupt file
// is downgraded to a warning and the next source is tried; registry
// problems never fail a load outright.
func loadRegistry(cachedPath, bundledPath string, logger Logger) *Registry {
	for _, path := range []string{cachedPath, bundledPath} {
		if path == "" {
			continue
		}
		var reg Registry
		if _, err := toml.DecodeFile(path, &reg); err != nil {
			if !os.IsNotExist(err) && logger != nil {
				logger.Warn("skipping unreadable registry", "path", path, "error", err)
			}
			continue
		}
		return &reg
	}
	return &Registry{}
}

// isRemoteCase reports whether id exactly matches a registry identifier.
func (r *Registry) isRemoteCase(id string) bool {
	for _, remote := range r.RemoteCases {
		if remote == id {
			return true
		}
	}
	return false
}

// findByName returns every registry identifier whose trailing component
// equals name, in registry order.
func (r *Registry) findByName(name string) []string {
	var matches []string
	for _, remote := range r.RemoteCases {
		if caseNameOf(remote) == name {
			matches = append(matches, remote)
		}
	}
	return matches
}

// caseNameOf extracts the case name from "collection/name" or a bare name.
func caseNameOf(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// collectionOf extracts the collection from "collection/name", or "" for a
// bare name.
func collectionOf(id string) string {
	if idx := strings.Index(id, "/"); idx >= 0 {
		return id[:idx]
	}
	return ""
}
