package powerfulcases

import (
	"reflect"
	"testing"
)

func TestParseTOMLSubset_Scalars(t *testing.T) {
	doc := parseTOMLSubset(`
name = "ieee14"
description = 'IEEE 14-bus system'
bus_count = 14
frequency = 60.0
validated = true
draft = false
codename = kundur
`)

	if got := doc.str("name"); got != "ieee14" {
		t.Errorf("name = %q, want %q", got, "ieee14")
	}
	if got := doc.str("description"); got != "IEEE 14-bus system" {
		t.Errorf("description = %q, want %q", got, "IEEE 14-bus system")
	}
	if got, ok := doc["bus_count"].(int64); !ok || got != 14 {
		t.Errorf("bus_count = %v (%T), want int64 14", doc["bus_count"], doc["bus_count"])
	}
	if got, ok := doc["frequency"].(float64); !ok || got != 60.0 {
		t.Errorf("frequency = %v (%T), want float64 60", doc["frequency"], doc["frequency"])
	}
	if got, ok := doc["validated"].(bool); !ok || !got {
		t.Errorf("validated = %v, want true", doc["validated"])
	}
	if got, ok := doc["draft"].(bool); !ok || got {
		t.Errorf("draft = %v, want false", doc["draft"])
	}
	// Unquoted tokens come through as raw strings.
	if got := doc.str("codename"); got != "kundur" {
		t.Errorf("codename = %q, want %q", got, "kundur")
	}
}

func TestParseTOMLSubset_Tables(t *testing.T) {
	doc := parseTOMLSubset(`
name = "kundur"

[credits]
license = "MIT"
authors = ["P. Kundur"]
`)

	if got := doc.str("credits.license"); got != "MIT" {
		t.Errorf("credits.license = %q, want %q", got, "MIT")
	}
	if got := doc.strList("credits.authors"); !reflect.DeepEqual(got, []string{"P. Kundur"}) {
		t.Errorf("credits.authors = %v, want [P. Kundur]", got)
	}
}

func TestParseTOMLSubset_ArrayOfTables(t *testing.T) {
	doc := parseTOMLSubset(`
[[files]]
path = "ieee14.raw"
format = "psse_raw"
default = true

[[files]]
path = "ieee14.dyr"
format = "psse_dyr"
`)

	entries := doc.entries("files")
	if len(entries) != 2 {
		t.Fatalf("got %d file entries, want 2", len(entries))
	}
	if got := entryStr(entries[0], "path"); got != "ieee14.raw" {
		t.Errorf("files[0].path = %q, want %q", got, "ieee14.raw")
	}
	if !entryBool(entries[0], "default") {
		t.Error("files[0].default = false, want true")
	}
	if got := entryStr(entries[1], "format"); got != "psse_dyr" {
		t.Errorf("files[1].format = %q, want %q", got, "psse_dyr")
	}
}

func TestParseTOMLSubset_MultilineArray(t *testing.T) {
	doc := parseTOMLSubset(`
tags = [
    "transmission",
    # benchmark systems
    "benchmark",
    "ieee",
]
`)

	want := []string{"transmission", "benchmark", "ieee"}
	if got := doc.strList("tags"); !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestParseTOMLSubset_EmptyArray(t *testing.T) {
	doc := parseTOMLSubset(`tags = []`)
	got := doc.strList("tags")
	if got == nil || len(got) != 0 {
		t.Errorf("tags = %v, want empty non-nil slice", got)
	}
}

func TestParseTOMLSubset_MalformedLinesSkipped(t *testing.T) {
	doc := parseTOMLSubset(`
name = "ieee14"
this line has no equals sign
= valueless
description = "ok"
`)

	if got := doc.str("name"); got != "ieee14" {
		t.Errorf("name = %q, want %q", got, "ieee14")
	}
	if got := doc.str("description"); got != "ok" {
		t.Errorf("description = %q, want %q", got, "ok")
	}
}

func TestParseTOMLSubset_TrailingEntryNeedsIdentity(t *testing.T) {
	// A trailing [[files]] entry without a path is dropped; one with a
	// path is kept.
	doc := parseTOMLSubset(`
[[files]]
format = "psse_raw"
`)
	if entries := doc.entries("files"); len(entries) != 0 {
		t.Errorf("got %d entries for path-less trailing entry, want 0", len(entries))
	}

	doc = parseTOMLSubset(`
[[files]]
path = "ieee14.raw"
`)
	if entries := doc.entries("files"); len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestParseTOMLSubset_SectionAfterArrayOfTables(t *testing.T) {
	// A [table] header closes the open array entry.
	doc := parseTOMLSubset(`
[[files]]
path = "ieee14.raw"

[credits]
license = "MIT"
`)

	if entries := doc.entries("files"); len(entries) != 1 {
		t.Fatalf("got %d file entries, want 1", len(entries))
	}
	if got := doc.str("credits.license"); got != "MIT" {
		t.Errorf("credits.license = %q, want %q", got, "MIT")
	}
}

func TestParseTOMLSubset_DottedArrayOfTables(t *testing.T) {
	doc := parseTOMLSubset(`
[[credits.citations]]
text = "Kundur, Power System Stability and Control, 1994"
doi = "10.0000/example"
`)

	entries := doc.entries("credits.citations")
	if len(entries) != 1 {
		t.Fatalf("got %d citations, want 1", len(entries))
	}
	if got := entryStr(entries[0], "doi"); got != "10.0000/example" {
		t.Errorf("doi = %q, want %q", got, "10.0000/example")
	}
}

func TestDecodeScalar(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"false", false},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{`"true"`, "true"},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.14", 3.14},
		{"bare_token", "bare_token"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := decodeScalar(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeScalar(%q) = %v (%T), want %v (%T)",
					tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestDecodeArray(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", "", []string{}},
		{"quoted", `"a", "b"`, []string{"a", "b"}},
		{"bare", "a, b, c", []string{"a", "b", "c"}},
		{"trailing comma", `"a", "b",`, []string{"a", "b"}},
		// The splitter tracks brackets, not quotes: a comma inside a
		// quoted element splits it. Manifest authors use separate array
		// elements instead.
		{"comma inside quotes splits", `"Kundur, P.", "other"`, []string{`"Kundur`, `P."`, "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeArray(tt.body); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeArray(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestStripQuotes(t *testing.T) {
	if s, ok := stripQuotes(`"hello"`); !ok || s != "hello" {
		t.Errorf(`stripQuotes("hello") = %q, %v`, s, ok)
	}
	if s, ok := stripQuotes(`'hello'`); !ok || s != "hello" {
		t.Errorf(`stripQuotes('hello') = %q, %v`, s, ok)
	}
	if _, ok := stripQuotes(`"mismatched'`); ok {
		t.Error("mismatched quotes should not strip")
	}
	if _, ok := stripQuotes("bare"); ok {
		t.Error("bare token should not strip")
	}
	// No escape processing: backslashes pass through.
	if s, ok := stripQuotes(`"a\nb"`); !ok || s != `a\nb` {
		t.Errorf(`stripQuotes("a\nb") = %q, %v, want literal backslash-n`, s, ok)
	}
}
