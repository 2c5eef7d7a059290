// Package postgres provides a PostgreSQL implementation of database.DB
// backed by a single pgx connection.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/schemaport/schemaport/internal/database"
	"github.com/schemaport/schemaport/internal/errs"
)

// Driver wraps one pgx.Conn. The export run is fully synchronous, so a
// single connection is all that is ever needed — no pool, no retries.
type Driver struct {
	conn *pgx.Conn
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		// A malformed DSN is a configuration problem, caught before
		// any network I/O is attempted.
		return nil, errs.Wrap(errs.ErrKindConfiguration, "invalid postgres DSN", err)
	}
	connCfg.ConnectTimeout = cfg.ConnectTimeout

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to connect to postgres", err)
	}

	d := &Driver{conn: conn}

	if err := d.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	return d, nil
}

// --- database.DB implementation ---

// Ping verifies the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.conn.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close releases the connection. Safe to call exactly once.
func (d *Driver) Close(ctx context.Context) error {
	return d.conn.Close(ctx)
}

// Query executes a SQL statement that returns multiple rows.
func (d *Driver) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	rows, err := d.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &pgxRows{rows: rows}, nil
}

// QueryRow executes a SQL statement expected to return at most one row.
func (d *Driver) QueryRow(ctx context.Context, sql string, args ...any) database.Row {
	return &pgxRow{row: d.conn.QueryRow(ctx, sql, args...)}
}

// --- pgx type wrappers ---

// pgxRows wraps pgx.Rows to satisfy database.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Close()                 { r.rows.Close() }

func (r *pgxRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return mapError(err, "error iterating rows")
	}
	return nil
}

// pgxRow wraps pgx.Row to satisfy database.Row.
type pgxRow struct {
	row pgx.Row
}

func (r *pgxRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return mapError(err, "scan failed")
	}
	return nil
}
