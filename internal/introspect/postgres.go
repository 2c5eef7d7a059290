package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schemaport/schemaport/internal/database"
)

// Postgres implements Driver for PostgreSQL using information_schema.
type Postgres struct {
	db     database.DB
	schema string
}

// NewPostgres creates a Postgres introspector scoped to the given schema
// (usually "public").
func NewPostgres(db database.DB, schema string) *Postgres {
	if schema == "" {
		schema = "public"
	}
	return &Postgres{db: db, schema: schema}
}

// ListTables returns all table and view names in the target schema,
// sorted ascending. Views count: a manifest may name one.
func (p *Postgres) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name`

	rows, err := p.db.Query(ctx, q, p.schema)
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

// SchemaExists reports whether the target schema is present in the catalog.
// Checked once at startup so a typo fails fast instead of exporting an empty
// document full of skip warnings.
func (p *Postgres) SchemaExists(ctx context.Context) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.schemata
			WHERE schema_name = $1)`

	var exists bool
	if err := p.db.QueryRow(ctx, q, p.schema).Scan(&exists); err != nil {
		return false, fmt.Errorf("check schema %q: %w", p.schema, err)
	}
	return exists, nil
}

// PrimaryKeys returns the set of columns in the table's PRIMARY KEY constraint.
func (p *Postgres) PrimaryKeys(ctx context.Context, table string) (map[string]bool, error) {
	const q = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = $1
		  AND tc.table_name      = $2`

	rows, err := p.db.Query(ctx, q, p.schema, table)
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

// ForeignKeys returns every FOREIGN KEY constraint on the table, keyed by
// source column, in query return order.
func (p *Postgres) ForeignKeys(ctx context.Context, table string) (map[string][]ForeignKeyRef, error) {
	const q = `
		SELECT kcu.column_name,
		       ccu.table_name  AS target_table,
		       ccu.column_name AS target_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema    = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema    = $1
		  AND tc.table_name      = $2`

	rows, err := p.db.Query(ctx, q, p.schema, table)
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
func (p *Postgres) ColumnTypes(ctx context.Context, table string) ([]ColumnType, error) {
	const q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name   = $2
		ORDER BY ordinal_position`

	rows, err := p.db.Query(ctx, q, p.schema, table)
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
// as strings. Identifiers come from the catalog (ultimately the manifest), so
// they are sanitized with pgx's identifier quoting — never interpolated raw.
func (p *Postgres) SampleValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	qcol := pgx.Identifier{column}.Sanitize()
	qtable := pgx.Identifier{p.schema, table}.Sanitize()
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL LIMIT $1", qcol, qtable, qcol)

	rows, err := p.db.Query(ctx, q, limit)
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
