package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Marshal renders the document as indented JSON, the on-disk output format.
func Marshal(doc *SchemaDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// WriteFile atomically writes the document to path: the JSON is written to a
// temporary file in the same directory and renamed over the target, so a
// failed run never leaves a partial document behind.
func WriteFile(path string, doc *SchemaDocument) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling schema document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing schema document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp output file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming output into place: %w", err)
	}
	return nil
}

// ReadFile parses a previously written schema document.
func ReadFile(path string) (*SchemaDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema document: %w", err)
	}
	doc := NewSchemaDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	return doc, nil
}
