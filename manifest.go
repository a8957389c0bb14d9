package powerfulcases

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestFilename is the per-case metadata file name.
const ManifestFilename = "manifest.toml"

// extensionFormats maps known file extensions (lower case, no dot) to
// canonical formats for manifest inference.
var extensionFormats = map[string]string{
	"raw":  "psse_raw",
	"dyr":  "psse_dyr",
	"xlsx": "xlsx",
	"csv":  "csv",
	"json": "json",
}

// ambiguousExtensions cannot be classified without a manifest. ".m" holds
// both MATPOWER and PSAT data and inference refuses to guess.
var ambiguousExtensions = map[string]bool{
	"m": true,
}

// formatAliases maps caller-supplied short names to canonical formats.
// The table is intentionally small and explicit.
var formatAliases = map[string]string{
	"raw": "psse_raw",
	"dyr": "psse_dyr",
}

// normalizeFormat resolves short format aliases to canonical names.
func normalizeFormat(format string) string {
	if canonical, ok := formatAliases[format]; ok {
		return canonical
	}
	return format
}

// parseManifest reads and parses a manifest.toml file.
// Returns ErrManifestNotFound if the file does not exist.
func parseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageError, path, err)
	}
	return buildManifest(parseTOMLSubset(string(data))), nil
}

// manifestKeys are the top-level keys the builder consumes; everything else
// is preserved opaquely in Manifest.Extra.
var manifestKeys = map[string]bool{
	"name":         true,
	"description":  true,
	"data_version": true,
	"collection":   true,
	"tags":         true,
	"files":        true,
}

// buildManifest populates a Manifest from a parsed document tree. Absent
// fields take their zero values.
func buildManifest(doc tomlDoc) *Manifest {
	m := &Manifest{
		Name:        doc.str("name"),
		Description: doc.str("description"),
		DataVersion: doc.str("data_version"),
		Collection:  doc.str("collection"),
		Tags:        doc.strList("tags"),
	}

	for _, entry := range doc.entries("files") {
		m.Files = append(m.Files, FileEntry{
			Path:          entryStr(entry, "path"),
			Format:        entryStr(entry, "format"),
			FormatVersion: entryStr(entry, "format_version"),
			Variant:       entryStr(entry, "variant"),
			Default:       entryBool(entry, "default"),
			Includes:      entryStrList(entry, "includes"),
		})
	}

	credits := &Credits{
		License:     doc.str("credits.license"),
		Authors:     doc.strList("credits.authors"),
		Maintainers: doc.strList("credits.maintainers"),
	}
	for _, entry := range doc.entries("credits.citations") {
		credits.Citations = append(credits.Citations, Citation{
			Text: entryStr(entry, "text"),
			DOI:  entryStr(entry, "doi"),
		})
	}
	if credits.License != "" || len(credits.Authors) > 0 ||
		len(credits.Maintainers) > 0 || len(credits.Citations) > 0 {
		m.Credits = credits
	}

	for key, value := range doc {
		if manifestKeys[key] || strings.Contains(key, ".") {
			continue
		}
		if m.Extra == nil {
			m.Extra = map[string]any{}
		}
		m.Extra[key] = value
	}

	return m
}

// inferManifest builds a manifest by scanning a directory's immediate files
// (non-recursive, directories skipped) and mapping known extensions to
// formats. The first file of each format becomes that format's default.
// A ".m" file fails with ErrAmbiguousFormat: it could be MATPOWER or PSAT
// and silently guessing would misclassify data. Other unrecognized
// extensions are ignored.
func inferManifest(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageError, dir, err)
	}

	m := &Manifest{Name: filepath.Base(dir)}
	seen := map[string]bool{}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ManifestFilename {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if ambiguousExtensions[ext] {
			return nil, fmt.Errorf(
				"%w: %q could be matpower or psat; add a %s to %s to disambiguate",
				ErrAmbiguousFormat, entry.Name(), ManifestFilename, dir)
		}
		format, ok := extensionFormats[ext]
		if !ok {
			continue
		}
		m.Files = append(m.Files, FileEntry{
			Path:    entry.Name(),
			Format:  format,
			Default: !seen[format],
		})
		seen[format] = true
	}

	return m, nil
}

// findFileEntry picks the manifest entry matching a (format, version,
// variant) query. Matching modes:
//
//   - variant "default": first format(+version) match with Default set.
//   - variant set to anything else: first format(+version) match whose
//     Variant equals it exactly.
//   - variant empty: first format(+version) match with Default set, falling
//     back to the first format(+version) match of any kind.
//
// The format must already be normalized. Returns nil when nothing matches.
func findFileEntry(m *Manifest, format, version, variant string) *FileEntry {
	matches := func(f *FileEntry) bool {
		if f.Format != format {
			return false
		}
		return version == "" || f.FormatVersion == version
	}

	switch {
	case variant == "default":
		for i := range m.Files {
			if f := &m.Files[i]; matches(f) && f.Default {
				return f
			}
		}
	case variant != "":
		for i := range m.Files {
			if f := &m.Files[i]; matches(f) && f.Variant == variant {
				return f
			}
		}
	default:
		for i := range m.Files {
			if f := &m.Files[i]; matches(f) && f.Default {
				return f
			}
		}
		for i := range m.Files {
			if f := &m.Files[i]; matches(f) {
				return f
			}
		}
	}
	return nil
}

// manifestFormats lists the distinct formats present in a manifest, sorted.
func manifestFormats(m *Manifest) []string {
	seen := map[string]bool{}
	var formats []string
	for _, f := range m.Files {
		if f.Format != "" && !seen[f.Format] {
			seen[f.Format] = true
			formats = append(formats, f.Format)
		}
	}
	sort.Strings(formats)
	return formats
}

// manifestVariants lists the distinct non-empty variants of a format, sorted.
// The format must already be normalized.
func manifestVariants(m *Manifest, format string) []string {
	seen := map[string]bool{}
	var variants []string
	for _, f := range m.Files {
		if f.Format == format && f.Variant != "" && !seen[f.Variant] {
			seen[f.Variant] = true
			variants = append(variants, f.Variant)
		}
	}
	sort.Strings(variants)
	return variants
}

// loadManifest parses the directory's manifest.toml, or infers one when the
// file is absent.
func loadManifest(dir string) (*Manifest, error) {
	m, err := parseManifest(filepath.Join(dir, ManifestFilename))
	if errors.Is(err, ErrManifestNotFound) {
		return inferManifest(dir)
	}
	return m, err
}
