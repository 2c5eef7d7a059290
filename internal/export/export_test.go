package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaport/schemaport/internal/errs"
	"github.com/schemaport/schemaport/internal/introspect"
	"github.com/schemaport/schemaport/internal/logger"
	"github.com/schemaport/schemaport/internal/manifest"
)

// fakeDriver is a canned introspect.Driver backed by in-memory fixtures.
type fakeDriver struct {
	tables  []string
	pks     map[string]map[string]bool
	fks     map[string]map[string][]introspect.ForeignKeyRef
	cols    map[string][]introspect.ColumnType
	samples map[string][]string // "table.column"
	listErr error
}

func (f *fakeDriver) ListTables(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tables, nil
}

func (f *fakeDriver) PrimaryKeys(_ context.Context, table string) (map[string]bool, error) {
	return f.pks[table], nil
}

func (f *fakeDriver) ForeignKeys(_ context.Context, table string) (map[string][]introspect.ForeignKeyRef, error) {
	return f.fks[table], nil
}

func (f *fakeDriver) ColumnTypes(_ context.Context, table string) ([]introspect.ColumnType, error) {
	return f.cols[table], nil
}

func (f *fakeDriver) SampleValues(_ context.Context, table, column string, limit int) ([]string, error) {
	s := f.samples[table+"."+column]
	if len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}

func liveDriver() *fakeDriver {
	return &fakeDriver{
		tables: []string{"Customers", "orders"},
		pks: map[string]map[string]bool{
			"Customers": {"id": true},
			"orders":    {"id": true},
		},
		fks: map[string]map[string][]introspect.ForeignKeyRef{
			"orders": {
				"customer_id": {{TargetTable: "Customers", TargetColumn: "id"}},
			},
		},
		cols: map[string][]introspect.ColumnType{
			"Customers": {
				{Name: "id", DataType: "integer"},
				{Name: "name", DataType: "text"},
			},
			"orders": {
				{Name: "id", DataType: "integer"},
				{Name: "customer_id", DataType: "integer"},
			},
		},
		samples: map[string][]string{
			"Customers.id":   {"1", "2", "3", "4", "5", "6", "7"},
			"Customers.name": {"alice"},
		},
	}
}

// testLogger returns a logger writing JSON lines into buf so tests can
// observe warnings without any global state.
func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(&logger.Config{Level: "debug", Format: "json", Output: buf})
}

func TestExport_CaseInsensitiveResolution(t *testing.T) {
	buf := &bytes.Buffer{}
	exp := New(liveDriver(), testLogger(buf), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"customers"}},
	})
	require.NoError(t, err)

	rec, ok := doc.Get("shop")
	require.True(t, ok)
	require.Equal(t, 1, rec.Tables.Len())

	// The live casing wins, both as map key and record name
	table, ok := rec.Tables.Get("Customers")
	require.True(t, ok)
	assert.Equal(t, "Customers", table.Name)

	assert.Contains(t, buf.String(), "case-insensitive match")
}

func TestExport_ExactMatchIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	exp := New(liveDriver(), testLogger(buf), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"orders"}},
	})
	require.NoError(t, err)

	rec, _ := doc.Get("shop")
	_, ok := rec.Tables.Get("orders")
	assert.True(t, ok)
	assert.NotContains(t, buf.String(), "case-insensitive")
	assert.NotContains(t, buf.String(), "skipping")
}

func TestExport_GhostTableIsSkipped(t *testing.T) {
	buf := &bytes.Buffer{}
	exp := New(liveDriver(), testLogger(buf), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"ghost_table", "orders"}},
	})
	require.NoError(t, err)

	// The database record is still produced for its other tables
	rec, ok := doc.Get("shop")
	require.True(t, ok)
	assert.Equal(t, []string{"orders"}, rec.Tables.Names())

	_, ok = rec.Tables.Get("ghost_table")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "ghost_table")
	assert.Contains(t, buf.String(), "skipping")
}

func TestExport_PrimaryAndForeignKeyFlags(t *testing.T) {
	exp := New(liveDriver(), testLogger(&bytes.Buffer{}), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"orders"}},
	})
	require.NoError(t, err)

	rec, _ := doc.Get("shop")
	table, _ := rec.Tables.Get("orders")
	require.Len(t, table.Columns, 2)

	id, customerID := table.Columns[0], table.Columns[1]
	assert.True(t, id.IsPrimaryKey)
	assert.Empty(t, id.ForeignKeys)

	assert.False(t, customerID.IsPrimaryKey)
	assert.Equal(t,
		[]introspect.ForeignKeyRef{{TargetTable: "Customers", TargetColumn: "id"}},
		customerID.ForeignKeys)
}

func TestExport_SampleCap(t *testing.T) {
	exp := New(liveDriver(), testLogger(&bytes.Buffer{}), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"Customers"}},
	})
	require.NoError(t, err)

	rec, _ := doc.Get("shop")
	table, _ := rec.Tables.Get("Customers")
	assert.LessOrEqual(t, len(table.Columns[0].ValueSamples), 5)
}

func TestExport_ManifestOrderPreserved(t *testing.T) {
	exp := New(liveDriver(), testLogger(&bytes.Buffer{}), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "zoo", TableNamesOriginal: []string{"orders"}},
		{DbID: "alpha", TableNamesOriginal: []string{"Customers"}},
	})
	require.NoError(t, err)

	// Top-level order follows the manifest, not lexicographic order
	assert.Equal(t, []string{"zoo", "alpha"}, doc.IDs())
}

func TestExport_AmbiguousNameFailsLoudly(t *testing.T) {
	d := liveDriver()
	d.tables = []string{"Users", "users"}

	exp := New(d, testLogger(&bytes.Buffer{}), 5)

	_, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"USERS"}},
	})
	require.Error(t, err)
	assert.True(t, errs.IsAmbiguousTable(err))
}

func TestExport_ListTablesFailureAborts(t *testing.T) {
	d := liveDriver()
	d.listErr = errs.New(errs.ErrKindConnectionFailed, "connection lost")

	exp := New(d, testLogger(&bytes.Buffer{}), 5)

	_, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "shop", TableNamesOriginal: []string{"orders"}},
	})
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestExport_EmptyManifestDatabase(t *testing.T) {
	exp := New(liveDriver(), testLogger(&bytes.Buffer{}), 5)

	doc, err := exp.Export(context.Background(), manifest.Manifest{
		{DbID: "empty_db", TableNamesOriginal: nil},
	})
	require.NoError(t, err)

	rec, ok := doc.Get("empty_db")
	require.True(t, ok)
	assert.Equal(t, "empty_db", rec.Name)
	assert.Equal(t, 0, rec.Tables.Len())
}
