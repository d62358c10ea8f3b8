// Package sidetable loads the optional binary_name -> (name, link, api)
// lookup table used to enrich TraceResults and cross-check detected APIs.
// Modeled on the teacher's config.Sync: a small Loader interface with a
// single blocking Load method, since the side table is read exactly
// once per process run and never watched for changes.
package sidetable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one side-table record.
type Entry struct {
	Name string `json:"name"`
	Link string `json:"link"`
	API  string `json:"api"`
}

// Table maps a binary stem to its Entry.
type Table map[string]Entry

// Loader produces a Table once per process run.
type Loader interface {
	Load() (Table, error)
}

// DirLoader loads a Table from a directory of "<binary_name>.json" files,
// each decoding to an Entry. A missing directory yields an empty table,
// not an error: absence of a side table is the expected common case.
type DirLoader struct {
	Dir string
}

var _ Loader = DirLoader{}

// Load scans Dir non-recursively for "*.json" files.
func (l DirLoader) Load() (Table, error) {
	table := Table{}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("read side table directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		binaryName := strings.TrimSuffix(e.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(l.Dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		table[binaryName] = entry
	}

	return table, nil
}
