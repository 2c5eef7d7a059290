package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/schemaport/schemaport/internal/introspect"
)

// DatabaseRecord is the output entry for one manifest database.
type DatabaseRecord struct {
	Name   string    `json:"name"`
	Tables *TableMap `json:"tables"`
}

// NewDatabaseRecord creates an empty record for the given db_id.
func NewDatabaseRecord(dbID string) *DatabaseRecord {
	return &DatabaseRecord{Name: dbID, Tables: NewTableMap()}
}

// TableMap maps resolved table names to their records, preserving insertion
// order. Plain Go maps marshal with sorted keys, which would destroy the
// manifest iteration order the output format requires.
type TableMap struct {
	names   []string
	records map[string]*introspect.TableRecord
}

// NewTableMap returns an empty TableMap.
func NewTableMap() *TableMap {
	return &TableMap{records: make(map[string]*introspect.TableRecord)}
}

// Set stores rec under name. Re-setting an existing name overwrites in place
// and keeps its original position.
func (t *TableMap) Set(name string, rec *introspect.TableRecord) {
	if _, exists := t.records[name]; !exists {
		t.names = append(t.names, name)
	}
	t.records[name] = rec
}

// Get returns the record stored under name.
func (t *TableMap) Get(name string) (*introspect.TableRecord, bool) {
	rec, ok := t.records[name]
	return rec, ok
}

// Len returns the number of tables.
func (t *TableMap) Len() int {
	return len(t.names)
}

// Names returns the table names in insertion order.
func (t *TableMap) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// MarshalJSON emits the tables as a JSON object in insertion order.
func (t *TableMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(t.names, func(name string) (any, error) {
		return t.records[name], nil
	})
}

// UnmarshalJSON decodes a JSON object, recording key order as it appears.
func (t *TableMap) UnmarshalJSON(data []byte) error {
	t.names = nil
	t.records = make(map[string]*introspect.TableRecord)
	return unmarshalOrdered(data, func(dec *json.Decoder, key string) error {
		rec := &introspect.TableRecord{}
		if err := dec.Decode(rec); err != nil {
			return err
		}
		t.Set(key, rec)
		return nil
	})
}

// SchemaDocument is the top-level output mapping from db_id to its record,
// in manifest order.
type SchemaDocument struct {
	ids       []string
	databases map[string]*DatabaseRecord
}

// NewSchemaDocument returns an empty document.
func NewSchemaDocument() *SchemaDocument {
	return &SchemaDocument{databases: make(map[string]*DatabaseRecord)}
}

// Set stores rec under dbID, preserving first-insertion order.
func (d *SchemaDocument) Set(dbID string, rec *DatabaseRecord) {
	if _, exists := d.databases[dbID]; !exists {
		d.ids = append(d.ids, dbID)
	}
	d.databases[dbID] = rec
}

// Get returns the record stored under dbID.
func (d *SchemaDocument) Get(dbID string) (*DatabaseRecord, bool) {
	rec, ok := d.databases[dbID]
	return rec, ok
}

// Len returns the number of databases.
func (d *SchemaDocument) Len() int {
	return len(d.ids)
}

// IDs returns the db_ids in insertion order.
func (d *SchemaDocument) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

// MarshalJSON emits the document as a JSON object keyed by db_id,
// in insertion order.
func (d *SchemaDocument) MarshalJSON() ([]byte, error) {
	return marshalOrdered(d.ids, func(id string) (any, error) {
		return d.databases[id], nil
	})
}

// UnmarshalJSON decodes a JSON object, recording key order as it appears.
func (d *SchemaDocument) UnmarshalJSON(data []byte) error {
	d.ids = nil
	d.databases = make(map[string]*DatabaseRecord)
	return unmarshalOrdered(data, func(dec *json.Decoder, key string) error {
		rec := &DatabaseRecord{}
		if err := dec.Decode(rec); err != nil {
			return err
		}
		d.Set(key, rec)
		return nil
	})
}

// marshalOrdered writes a JSON object with keys in the given order.
func marshalOrdered(keys []string, value func(string) (any, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := value(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalOrdered walks a JSON object token by token so key order survives
// decoding, calling decodeValue once per key.
func unmarshalOrdered(data []byte, decodeValue func(dec *json.Decoder, key string) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := decodeValue(dec, key); err != nil {
			return err
		}
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
