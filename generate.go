package powerfulcases

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Wire structs for manifest encoding. Generated manifests are strict TOML;
// the lenient subset reader accepts everything the encoder emits, so a
// generated manifest round-trips through parseManifest unchanged.

type manifestDoc struct {
	Name        string      `toml:"name"`
	Description string      `toml:"description,omitempty"`
	DataVersion string      `toml:"data_version,omitempty"`
	Collection  string      `toml:"collection,omitempty"`
	Tags        []string    `toml:"tags,omitempty"`
	Credits     *creditsDoc `toml:"credits,omitempty"`
	Files       []fileDoc   `toml:"files"`
}

type creditsDoc struct {
	License     string        `toml:"license,omitempty"`
	Authors     []string      `toml:"authors,omitempty"`
	Maintainers []string      `toml:"maintainers,omitempty"`
	Citations   []citationDoc `toml:"citations,omitempty"`
}

type citationDoc struct {
	Text string `toml:"text"`
	DOI  string `toml:"doi,omitempty"`
}

type fileDoc struct {
	Path          string   `toml:"path"`
	Format        string   `toml:"format"`
	FormatVersion string   `toml:"format_version,omitempty"`
	Variant       string   `toml:"variant,omitempty"`
	Default       bool     `toml:"default,omitempty"`
	Includes      []string `toml:"includes,omitempty"`
}

// encodeManifest renders a Manifest as manifest.toml text.
func encodeManifest(m *Manifest) ([]byte, error) {
	doc := manifestDoc{
		Name:        m.Name,
		Description: m.Description,
		DataVersion: m.DataVersion,
		Collection:  m.Collection,
		Tags:        m.Tags,
	}
	if m.Credits != nil {
		credits := creditsDoc{
			License:     m.Credits.License,
			Authors:     m.Credits.Authors,
			Maintainers: m.Credits.Maintainers,
		}
		for _, c := range m.Credits.Citations {
			credits.Citations = append(credits.Citations, citationDoc{Text: c.Text, DOI: c.DOI})
		}
		doc.Credits = &credits
	}
	for _, f := range m.Files {
		doc.Files = append(doc.Files, fileDoc{
			Path:          f.Path,
			Format:        f.Format,
			FormatVersion: f.FormatVersion,
			Variant:       f.Variant,
			Default:       f.Default,
			Includes:      f.Includes,
		})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: encoding manifest: %v", ErrStorageError, err)
	}
	return buf.Bytes(), nil
}

// GenerateManifest infers a manifest from a directory's files and writes it
// as manifest.toml, returning the written path. Fails when the directory
// already has a manifest, when the path is not a directory, or when a ".m"
// file makes inference ambiguous.
func (m *manager) GenerateManifest(ctx context.Context, dir string, opts ...GenerateOption) (string, error) {
	cfg := &generateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStorageError, dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	manifestPath := filepath.Join(dir, ManifestFilename)
	if isFile(manifestPath) {
		return "", fmt.Errorf("%w: %s already exists", ErrDirectoryExists, manifestPath)
	}

	manifest, err := inferManifest(dir)
	if err != nil {
		return "", err
	}
	if cfg.name != "" {
		manifest.Name = cfg.name
	}
	manifest.Description = cfg.description

	data, err := encodeManifest(manifest)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", ErrStorageError, manifestPath, err)
	}

	if m.logger != nil {
		m.logger.Info("generated manifest", "path", manifestPath, "files", len(manifest.Files))
	}

	return manifestPath, nil
}
