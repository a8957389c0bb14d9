package powerfulcases

import (
	"strconv"
	"strings"
)

// The manifest reader parses a restricted TOML grammar rather than full TOML:
// key=value lines, [table] and [[array-of-tables]] headers, booleans,
// numbers, quoted strings without escape processing, and arrays that may span
// multiple lines tracked by bracket counting. The leniency is deliberate so
// that hand-edited manifests with unquoted tokens still load; registry.toml
// and generated manifests use a conformant TOML codec instead.

// tomlDoc maps dotted-section-qualified keys to values: top-level keys map
// to scalars or arrays ("name", "tags"), table keys are prefixed with the
// section name ("credits.license"), and array-of-tables headers collect
// entries under their dotted name ("files", "credits.citations") as
// []map[string]any.
type tomlDoc map[string]any

// parseTOMLSubset parses the restricted grammar. It never fails: malformed
// lines that are neither headers nor key=value pairs are skipped.
func parseTOMLSubset(text string) tomlDoc {
	doc := tomlDoc{}
	lines := strings.Split(text, "\n")

	section := ""           // active [section] prefix
	arrayKey := ""          // active [[collection]] name
	var open map[string]any // most recently opened array-of-tables entry

	// finalize appends the open entry to its collection. Mid-stream
	// finalization (a new header) is unconditional; at end of input the
	// entry must carry its identifying field to count.
	finalize := func(atEOF bool) {
		if open == nil {
			return
		}
		if !atEOF || entryIdentified(arrayKey, open) {
			entries, _ := doc[arrayKey].([]map[string]any)
			doc[arrayKey] = append(entries, open)
		}
		open = nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "[[") && strings.HasSuffix(line, "]]"):
			finalize(false)
			section = ""
			arrayKey = strings.TrimSpace(line[2 : len(line)-2])
			open = map[string]any{}

		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			finalize(false)
			arrayKey = ""
			section = strings.TrimSpace(line[1 : len(line)-1])

		default:
			eq := strings.Index(line, "=")
			if eq < 0 {
				continue
			}
			key := strings.TrimSpace(line[:eq])
			raw := strings.TrimSpace(line[eq+1:])

			// Arrays may span multiple lines: accumulate until the
			// brackets balance, skipping interior comment lines.
			if strings.HasPrefix(raw, "[") {
				for bracketDepth(raw) > 0 && i+1 < len(lines) {
					i++
					next := strings.TrimSpace(lines[i])
					if strings.HasPrefix(next, "#") {
						continue
					}
					raw += " " + next
				}
			}

			value := decodeScalar(raw)
			switch {
			case open != nil:
				open[key] = value
			case section != "":
				doc[section+"."+key] = value
			default:
				doc[key] = value
			}
		}
	}
	finalize(true)

	return doc
}

// entryIdentified reports whether a trailing array-of-tables entry carries
// the field that identifies it: path for files, text for citations. Entries
// of other collections count as soon as they have any key.
func entryIdentified(collection string, entry map[string]any) bool {
	switch collection {
	case "files":
		s, _ := entry["path"].(string)
		return s != ""
	case "credits.citations":
		s, _ := entry["text"].(string)
		return s != ""
	default:
		return len(entry) > 0
	}
}

// bracketDepth counts '[' minus ']' across s. A crude approximation of
// array nesting, sufficient for the manifest grammar.
func bracketDepth(s string) int {
	return strings.Count(s, "[") - strings.Count(s, "]")
}

// decodeScalar decodes a trimmed value, trying in order: boolean literal,
// quoted string, array, number, raw text.
func decodeScalar(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}

	if unquoted, ok := stripQuotes(raw); ok {
		return unquoted
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return decodeArray(raw[1 : len(raw)-1])
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	return raw
}

// stripQuotes removes matching single or double quotes. No escape
// processing is performed.
func stripQuotes(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}

// decodeArray splits the bracket-stripped body on top-level commas and
// decodes each element as a quoted string or raw token. Elements are not
// recursively type-decoded. An empty body yields an empty array.
func decodeArray(body string) []string {
	out := []string{}
	depth := 0
	start := 0
	flushElem := func(end int) {
		elem := strings.TrimSpace(body[start:end])
		if elem == "" {
			return
		}
		if unquoted, ok := stripQuotes(elem); ok {
			elem = unquoted
		}
		out = append(out, elem)
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				flushElem(i)
				start = i + 1
			}
		}
	}
	flushElem(len(body))
	return out
}

// Typed accessors over a tomlDoc. Absent keys yield zero values.

func (d tomlDoc) str(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func (d tomlDoc) strList(key string) []string {
	v, _ := d[key].([]string)
	return v
}

func (d tomlDoc) entries(key string) []map[string]any {
	v, _ := d[key].([]map[string]any)
	return v
}

func entryStr(entry map[string]any, key string) string {
	switch v := entry[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func entryBool(entry map[string]any, key string) bool {
	v, _ := entry[key].(bool)
	return v
}

func entryStrList(entry map[string]any, key string) []string {
	v, _ := entry[key].([]string)
	return v
}
