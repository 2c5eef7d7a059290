// Package manifest parses the input manifest: the JSON list of expected
// databases and their nominal table names, as known by the manifest's
// source of truth. Table-name casing may differ from the live database.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schemaport/schemaport/internal/errs"
)

// Database is one expected database: an identifier plus the tables the
// manifest claims it contains, in order.
type Database struct {
	DbID               string   `json:"db_id"`
	TableNamesOriginal []string `json:"table_names_original"`
}

// Manifest is the ordered list of expected databases.
type Manifest []Database

// Load reads and parses the manifest file at path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("reading manifest %s", path), err)
	}
	return Parse(data)
}

// Parse decodes manifest JSON and validates the entries.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "parsing manifest", err)
	}

	for i, db := range m {
		if db.DbID == "" {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "manifest entry %d has no db_id", i)
		}
	}
	return m, nil
}
