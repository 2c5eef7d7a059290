// Package export reconciles a manifest of expected databases and tables
// against a live database and assembles the normalized schema document.
//
// An unresolved table is a soft failure: it is logged and omitted. Every
// other failure (connection, catalog query, ambiguous name) aborts the run
// with no output written.
package export

import (
	"context"

	"github.com/schemaport/schemaport/internal/introspect"
	"github.com/schemaport/schemaport/internal/logger"
	"github.com/schemaport/schemaport/internal/manifest"
)

// Exporter drives one export run over a single live connection.
// The logger is injected so callers (and tests) observe warnings without
// any process-global logging state.
type Exporter struct {
	driver      introspect.Driver
	log         *logger.Logger
	sampleLimit int
}

// New creates an Exporter. sampleLimit ≤ 0 uses introspect.DefaultSampleLimit.
func New(d introspect.Driver, log *logger.Logger, sampleLimit int) *Exporter {
	if sampleLimit <= 0 {
		sampleLimit = introspect.DefaultSampleLimit
	}
	return &Exporter{driver: d, log: log, sampleLimit: sampleLimit}
}

// Export builds the schema document for every database in the manifest,
// in manifest order. Within each database, each nominal table name is
// resolved against the live tables (exact first, then case-insensitive);
// unresolved names are skipped with a warning.
func (e *Exporter) Export(ctx context.Context, m manifest.Manifest) (*SchemaDocument, error) {
	live, err := e.driver.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	resolver := NewResolver(live)

	doc := NewSchemaDocument()

	for _, db := range m {
		log := e.log.With().Str("db_id", db.DbID).Logger()
		log.Debug("processing database")

		rec := NewDatabaseRecord(db.DbID)

		for _, nominal := range db.TableNamesOriginal {
			resolved, ok, err := resolver.Resolve(nominal)
			if err != nil {
				return nil, err
			}
			if !ok {
				log.Warnf("table %q not found in live database, skipping", nominal)
				continue
			}
			if resolved != nominal {
				log.Warnf("table %q not found, using case-insensitive match %q", nominal, resolved)
			}

			table, err := introspect.BuildTable(ctx, e.driver, resolved, e.sampleLimit)
			if err != nil {
				return nil, err
			}
			rec.Tables.Set(resolved, table)
		}

		doc.Set(db.DbID, rec)
	}

	return doc, nil
}
