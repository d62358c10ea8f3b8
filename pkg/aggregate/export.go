package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportDoc is the top-level JSON document: a single key, "tracestats",
// holding every TraceResult accumulated across a run. Results is typed as
// json.Marshaler rather than []TraceResult so that Join mode can splice
// in already-serialized entries read back from disk without re-deriving
// them through a ParseState.
type ExportDoc struct {
	Results []json.Marshaler `json:"tracestats"`
}

// Append adds a freshly built TraceResult to doc.
func (d *ExportDoc) Append(r TraceResult) {
	d.Results = append(d.Results, r)
}

// Write serializes doc with 4-space indentation to path, first copying
// any existing file at path to a sibling ".bak" (best-effort: a failed
// backup never blocks the write).
func Write(path string, doc ExportDoc) error {
	if _, err := os.Stat(path); err == nil {
		backup(path)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshal export document: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func backup(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()

	dst, err := os.Create(path + ".bak")
	if err != nil {
		return
	}
	defer dst.Close()

	io.Copy(dst, src)
}

// Join implements "join" mode: every "*.json" file in dir, in sorted
// filename order, has its "tracestats" array read and concatenated into
// one combined ExportDoc. No de-duplication is performed, matching the
// reference tool's documented behavior.
func Join(dir string) (ExportDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ExportDoc{}, fmt.Errorf("read export directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var combined ExportDoc
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return ExportDoc{}, fmt.Errorf("read %s: %w", name, err)
		}
		var part rawExportDoc
		if err := json.Unmarshal(data, &part); err != nil {
			return ExportDoc{}, fmt.Errorf("parse %s: %w", name, err)
		}
		combined.Results = append(combined.Results, part.results()...)
	}
	return combined, nil
}

// rawExportDoc decodes a previously written export document into
// already-serialized categories, since join mode only needs to
// concatenate and re-emit, never re-derive, category contents.
type rawExportDoc struct {
	TraceStats []map[string]json.RawMessage `json:"tracestats"`
}

func (r rawExportDoc) results() []json.Marshaler {
	out := make([]json.Marshaler, 0, len(r.TraceStats))
	for _, obj := range r.TraceStats {
		out = append(out, rawTraceResult(obj))
	}
	return out
}

// rawTraceResult wraps an already-decoded trace object so Join can
// re-serialize it byte-for-byte without re-parsing into ParseState.
type rawTraceResult map[string]json.RawMessage

func (r rawTraceResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]json.RawMessage(r))
}
