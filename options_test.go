package powerfulcases

import (
	"net/http"
	"testing"
)

func TestManagerOptions(t *testing.T) {
	cfg := &managerConfig{}

	client := &http.Client{}
	WithHTTPClient(client)(cfg)
	if cfg.httpClient != HTTPClient(client) {
		t.Error("WithHTTPClient not applied")
	}

	logger := &testLogger{}
	WithLogger(logger)(cfg)
	if cfg.logger != Logger(logger) {
		t.Error("WithLogger not applied")
	}
}

func TestFileOptions(t *testing.T) {
	q := fileQuery{required: true}

	WithVersion("33")(&q)
	if q.version != "33" {
		t.Errorf("version = %q", q.version)
	}

	WithVariant("genrou")(&q)
	if q.variant != "genrou" {
		t.Errorf("variant = %q", q.variant)
	}

	Optional()(&q)
	if q.required {
		t.Error("Optional did not clear required")
	}
}

func TestDownloadOptions(t *testing.T) {
	cfg := &downloadConfig{}

	WithForce()(cfg)
	if !cfg.force {
		t.Error("WithForce not applied")
	}

	var called bool
	WithProgress(func(DownloadProgress) { called = true })(cfg)
	if cfg.progressFn == nil {
		t.Fatal("WithProgress not applied")
	}
	cfg.progressFn(DownloadProgress{})
	if !called {
		t.Error("progress callback not invoked")
	}
}

func TestListOptions(t *testing.T) {
	cfg := &listConfig{}

	WithCollection("ieee")(cfg)
	if cfg.collection != "ieee" {
		t.Errorf("collection = %q", cfg.collection)
	}

	WithTag("benchmark")(cfg)
	if cfg.tag != "benchmark" {
		t.Errorf("tag = %q", cfg.tag)
	}
}

func TestExportAndGenerateOptions(t *testing.T) {
	ecfg := &exportConfig{}
	WithOverwrite()(ecfg)
	if !ecfg.overwrite {
		t.Error("WithOverwrite not applied")
	}

	gcfg := &generateConfig{}
	WithName("ieee14")(gcfg)
	WithDescription("bus system")(gcfg)
	if gcfg.name != "ieee14" || gcfg.description != "bus system" {
		t.Errorf("generate config = %+v", gcfg)
	}
}
