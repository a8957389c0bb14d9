package powerfulcases

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File returns the absolute path to the case file matching a format, with
// optional version and variant selectors. Short aliases ("raw", "dyr") are
// normalized before matching. When nothing matches, the error lists the
// formats or variants actually available; with Optional() the method
// returns ("", nil) instead.
func (b *CaseBundle) File(format string, opts ...FileOption) (string, error) {
	q := fileQuery{required: true}
	for _, opt := range opts {
		opt(&q)
	}

	canonical := normalizeFormat(format)
	entry := findFileEntry(b.Manifest, canonical, q.version, q.variant)
	if entry == nil {
		if !q.required {
			return "", nil
		}
		return "", b.fileNotFound(format, canonical, q)
	}

	return filepath.Join(b.Dir, entry.Path), nil
}

// fileNotFound builds a diagnostic listing what the case actually offers.
func (b *CaseBundle) fileNotFound(format, canonical string, q fileQuery) error {
	switch {
	case q.variant != "" && q.variant != "default":
		variants := manifestVariants(b.Manifest, canonical)
		return fmt.Errorf("%w: format %q variant %q in case %q (available variants: %s)",
			ErrFileNotFound, format, q.variant, b.Name, joinOrNone(variants))
	case q.version != "":
		return fmt.Errorf("%w: format %q version %q in case %q (available formats: %s)",
			ErrFileNotFound, format, q.version, b.Name, joinOrNone(b.Formats()))
	default:
		return fmt.Errorf("%w: format %q in case %q (available formats: %s)",
			ErrFileNotFound, format, b.Name, joinOrNone(b.Formats()))
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// Raw returns the path to the default PSS/E RAW file.
func (b *CaseBundle) Raw() (string, error) {
	return b.File("psse_raw")
}

// Dyr returns the path to the default PSS/E DYR file.
func (b *CaseBundle) Dyr() (string, error) {
	return b.File("psse_dyr")
}

// Matpower returns the path to the MATPOWER file.
func (b *CaseBundle) Matpower() (string, error) {
	return b.File("matpower")
}

// Psat returns the path to the PSAT file.
func (b *CaseBundle) Psat() (string, error) {
	return b.File("psat")
}

// Formats lists the formats available in the bundle, sorted.
func (b *CaseBundle) Formats() []string {
	return manifestFormats(b.Manifest)
}

// Variants lists the variants available for a format, sorted.
func (b *CaseBundle) Variants(format string) []string {
	return manifestVariants(b.Manifest, normalizeFormat(format))
}

// Files returns the bundle's file entries in manifest order.
func (b *CaseBundle) Files() []FileEntry {
	return b.Manifest.Files
}

// Collection returns the collection the case belongs to: the manifest's
// declared collection when present, otherwise the collection the loader
// resolved the case under. Returns "" for flat-layout and local-path
// cases.
func (b *CaseBundle) Collection() string {
	if b.Manifest.Collection != "" {
		return b.Manifest.Collection
	}
	return b.collection
}

// Tags returns the case's tags, or an empty slice.
func (b *CaseBundle) Tags() []string {
	return b.Manifest.Tags
}

// String implements fmt.Stringer.
func (b *CaseBundle) String() string {
	return fmt.Sprintf("CaseBundle(%q)", b.Name)
}
