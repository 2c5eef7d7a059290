package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemaport/schemaport/internal/database"
)

// MySQL implements Driver for MySQL using information_schema.
// The "schema" is the database named in the DSN.
type MySQL struct {
	db     database.DB
	schema string
}

// NewMySQL creates a MySQL introspector scoped to the given database.
func NewMySQL(db database.DB, schema string) *MySQL {
	return &MySQL{db: db, schema: schema}
}

// ListTables returns all table and view names in the database, sorted
// ascending.
func (m *MySQL) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		ORDER BY table_name`

	rows, err := m.db.Query(ctx, q, m.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// SchemaExists reports whether the target database is present on the server.
func (m *MySQL) SchemaExists(ctx context.Context) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.schemata
			WHERE schema_name = ?)`

	var exists bool
	if err := m.db.QueryRow(ctx, q, m.schema).Scan(&exists); err != nil {
		return false, fmt.Errorf("check schema %q: %w", m.schema, err)
	}
	return exists, nil
}

// PrimaryKeys returns the set of columns in the table's PRIMARY KEY constraint.
func (m *MySQL) PrimaryKeys(ctx context.Context, table string) (map[string]bool, error) {
	const q = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = ?
		  AND tc.table_name      = ?`

	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return nil, fmt.Errorf("fetch primary keys: %w", err)
	}
	defer rows.Close()

	pks := make(map[string]bool)
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("scan primary key column: %w", err)
		}
		pks[col] = true
	}
	return pks, rows.Err()
}

// ForeignKeys returns every foreign-key constraint on the table, keyed by
// source column. MySQL exposes targets directly on key_column_usage.
func (m *MySQL) ForeignKeys(ctx context.Context, table string) (map[string][]ForeignKeyRef, error) {
	const q = `
		SELECT kcu.column_name,
		       kcu.referenced_table_name,
		       kcu.referenced_column_name
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
		  AND kcu.table_name   = ?
		  AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position`

	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return nil, fmt.Errorf("fetch foreign keys: %w", err)
	}
	defer rows.Close()

	fks := make(map[string][]ForeignKeyRef)
	for rows.Next() {
		var col string
		var ref ForeignKeyRef
		if err := rows.Scan(&col, &ref.TargetTable, &ref.TargetColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks[col] = append(fks[col], ref)
	}
	return fks, rows.Err()
}

// ColumnTypes returns the table's columns in ordinal position order.
func (m *MySQL) ColumnTypes(ctx context.Context, table string) ([]ColumnType, error) {
	const q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return nil, fmt.Errorf("fetch columns: %w", err)
	}
	defer rows.Close()

	var cols []ColumnType
	for rows.Next() {
		var ct ColumnType
		if err := rows.Scan(&ct.Name, &ct.DataType); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, ct)
	}
	return cols, rows.Err()
}

// SampleValues returns up to limit non-null values from the column, rendered
// as strings. Identifiers are backtick-quoted, never interpolated raw.
func (m *MySQL) SampleValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	qcol := quoteIdent(column)
	qtable := quoteIdent(m.schema) + "." + quoteIdent(table)
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL LIMIT ?", qcol, qtable, qcol)

	rows, err := m.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("sample values: %w", err)
	}
	defer rows.Close()

	samples := []string{}
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan sample value: %w", err)
		}
		samples = append(samples, RenderValue(v))
	}
	return samples, rows.Err()
}

// quoteIdent wraps a MySQL identifier in backticks, doubling any embedded
// backtick per MySQL's quoting rules.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
