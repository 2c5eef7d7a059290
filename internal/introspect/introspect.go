// Package introspect reads table structure out of a live database's catalog
// views and assembles it into per-table metadata records.
//
// Each backend implements the Driver queries; BuildTable is the shared
// assembly and is identical across engines.
package introspect

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultSampleLimit caps how many non-null values are sampled per column.
const DefaultSampleLimit = 5

// Driver is the set of catalog queries a backend must answer.
// All methods run against the single connection owned by the run.
type Driver interface {
	// ListTables returns all table and view names in the target schema,
	// sorted lexicographically ascending. Downstream consumers diff the
	// emitted document, so this order must be deterministic.
	ListTables(ctx context.Context) ([]string, error)

	// PrimaryKeys returns the set of column names covered by the table's
	// primary-key constraint. Membership test only — no order.
	PrimaryKeys(ctx context.Context, table string) (map[string]bool, error)

	// ForeignKeys returns every foreign-key constraint on the table,
	// keyed by source column, in query return order.
	ForeignKeys(ctx context.Context, table string) (map[string][]ForeignKeyRef, error)

	// ColumnTypes returns the table's columns and declared data types in
	// ordinal position order. This ordering is authoritative.
	ColumnTypes(ctx context.Context, table string) ([]ColumnType, error)

	// SampleValues returns up to limit string-rendered non-null values
	// observed in the column. An empty table yields an empty slice.
	SampleValues(ctx context.Context, table, column string, limit int) ([]string, error)
}

// BuildTable combines the Driver's catalog answers into one TableRecord.
// Constraint info is fetched before column assembly because each descriptor
// embeds its primary-key flag and foreign-key targets.
func BuildTable(ctx context.Context, d Driver, table string, sampleLimit int) (*TableRecord, error) {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	pks, err := d.PrimaryKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("primary keys for %q: %w", table, err)
	}

	fks, err := d.ForeignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("foreign keys for %q: %w", table, err)
	}

	colTypes, err := d.ColumnTypes(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("columns for %q: %w", table, err)
	}

	columns := make([]ColumnDescriptor, 0, len(colTypes))
	for _, ct := range colTypes {
		samples, err := d.SampleValues(ctx, table, ct.Name, sampleLimit)
		if err != nil {
			return nil, fmt.Errorf("sampling %s.%s: %w", table, ct.Name, err)
		}
		if samples == nil {
			samples = []string{}
		}

		refs := fks[ct.Name]
		if refs == nil {
			refs = []ForeignKeyRef{}
		}

		columns = append(columns, ColumnDescriptor{
			Name:         ct.Name,
			Type:         strings.ToUpper(ct.DataType),
			IsPrimaryKey: pks[ct.Name],
			ForeignKeys:  refs,
			Description:  "",
			ValueSamples: samples,
		})
	}

	return &TableRecord{
		Name:        table,
		Columns:     columns,
		Description: "",
		TableStr:    "",
	}, nil
}

// RenderValue converts a sampled database value to its string form.
// Nulls never reach this point — sampling queries filter them out.
func RenderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		// Date columns scan as midnight time.Time values; render those
		// without the clock.
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
