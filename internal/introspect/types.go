package introspect

// ForeignKeyRef is one foreign-key target for a source column. A column can
// participate in more than one foreign key, so descriptors carry a list.
type ForeignKeyRef struct {
	TargetTable  string `json:"target_table"`
	TargetColumn string `json:"target_column"`
}

// ColumnDescriptor describes one column, enriched with constraint membership
// and a small sample of observed non-null values.
type ColumnDescriptor struct {
	Name string `json:"name"`
	// Type is the catalog-reported data type, normalized to upper-case.
	Type         string          `json:"type"`
	IsPrimaryKey bool            `json:"primary_key"`
	ForeignKeys  []ForeignKeyRef `json:"foreign_keys"`
	// Description is always empty at generation time; it is reserved for
	// later manual annotation of the emitted document.
	Description  string   `json:"description"`
	ValueSamples []string `json:"value_samples"`
}

// TableRecord is the assembled metadata for one resolved table.
// Columns follow the table's physical (ordinal) column order.
type TableRecord struct {
	Name        string             `json:"name"`
	Columns     []ColumnDescriptor `json:"columns"`
	Description string             `json:"description"`
	TableStr    string             `json:"table_str"`
}

// ColumnType is a bare (name, declared type) pair in ordinal position order,
// before constraint and sample enrichment.
type ColumnType struct {
	Name     string
	DataType string
}
