// Command schemaport connects to a live database, introspects its schema,
// reconciles it against a manifest of expected databases and tables, and
// writes a normalized JSON schema document for downstream text-to-SQL use.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/schemaport/schemaport/internal/config"
	"github.com/schemaport/schemaport/internal/database"
	"github.com/schemaport/schemaport/internal/database/mysql"
	"github.com/schemaport/schemaport/internal/database/postgres"
	"github.com/schemaport/schemaport/internal/errs"
	"github.com/schemaport/schemaport/internal/export"
	"github.com/schemaport/schemaport/internal/filestore"
	fsminio "github.com/schemaport/schemaport/internal/filestore/minio"
	"github.com/schemaport/schemaport/internal/introspect"
	"github.com/schemaport/schemaport/internal/logger"
	"github.com/schemaport/schemaport/internal/manifest"
)

var (
	cfgFile      string
	tablesPath   string
	outputPath   string
	dsn          string
	driverName   string
	schemaName   string
	logLevel     string
	logFormat    string
	uploadBucket string
)

var rootCmd = &cobra.Command{
	Use:   "schemaport",
	Short: "Export a live database schema with column-level PK/FK metadata",
	Long: `schemaport introspects a live database (tables, columns, primary and
foreign keys, sample values), reconciles the tables against an input manifest,
and writes an indented JSON schema document.

The connection string comes from --dsn, the config file, or the
POSTGRES_CONNECTION_STRING / MYSQL_CONNECTION_STRING environment variable,
in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExport,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.Flags().StringVar(&tablesPath, "tables", "dev_tables.json", "path to the manifest of expected databases and tables")
	rootCmd.Flags().StringVar(&outputPath, "output", "schema.json", "output JSON path")
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "database connection string (overrides config file and environment)")
	rootCmd.Flags().StringVar(&driverName, "driver", "", "database engine: postgres or mysql (default postgres)")
	rootCmd.Flags().StringVar(&schemaName, "schema", "", "target schema to introspect (default public for postgres)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: console or json (default console)")
	rootCmd.Flags().StringVar(&uploadBucket, "upload-bucket", "", "upload the output document to this object storage bucket")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	// Local .env files are a convenience for credentials; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	// The env overlay runs after flags so --driver decides which DSN
	// variable is consulted.
	cfg.OverlayEnv()

	log := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	logger.SetGlobal(log)

	if cfg.Database.DSN == "" {
		return errs.New(errs.ErrKindConfiguration,
			"connection string missing: set --dsn, the config file, or the environment variable")
	}

	m, err := manifest.Load(tablesPath)
	if err != nil {
		return err
	}
	log.Infof("loaded manifest with %d database(s) from %s", len(m), tablesPath)

	ctx := context.Background()

	dbCfg := database.DefaultConfig(cfg.Database.DSN)
	dbCfg.Driver = database.Driver(cfg.Database.Driver)
	dbCfg.Schema = cfg.Database.Schema

	driver, db, err := openIntrospector(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(ctx); cerr != nil {
			log.Warnf("closing database connection: %v", cerr)
		} else {
			log.Debug("database connection closed")
		}
	}()
	log.Infof("connected to %s", dbCfg.Driver)

	exporter := export.New(driver, log, cfg.Sampling.Limit)
	doc, err := exporter.Export(ctx, m)
	if err != nil {
		return err
	}

	if err := export.WriteFile(outputPath, doc); err != nil {
		return err
	}
	log.Infof("schema for %d database(s) written to %s", doc.Len(), outputPath)

	if uploadBucket != "" {
		if err := uploadOutput(ctx, log, &cfg.Upload, uploadBucket, outputPath); err != nil {
			return err
		}
	}

	return nil
}

// applyFlags overlays command-line flags onto the loaded config.
// Flags win over both the config file and the environment.
func applyFlags(cfg *config.Config) {
	if driverName != "" {
		cfg.Database.Driver = driverName
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}
	if schemaName != "" {
		cfg.Database.Schema = schemaName
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
}

// openIntrospector opens the run's single connection and pairs it with the
// engine's catalog queries.
func openIntrospector(ctx context.Context, cfg *database.Config) (introspect.Driver, database.DB, error) {
	switch cfg.Driver {
	case database.DriverPostgres:
		db, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		pg := introspect.NewPostgres(db, cfg.Schema)
		if err := requireSchema(ctx, db, pg.SchemaExists, cfg.Schema); err != nil {
			return nil, nil, err
		}
		return pg, db, nil

	case database.DriverMySQL:
		db, err := mysql.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		// MySQL's "schema" is the database named in the DSN unless
		// explicitly overridden.
		schema := cfg.Schema
		if schema == "" || schema == "public" {
			schema = db.DatabaseName()
		}
		my := introspect.NewMySQL(db, schema)
		if err := requireSchema(ctx, db, my.SchemaExists, schema); err != nil {
			return nil, nil, err
		}
		return my, db, nil

	default:
		return nil, nil, errs.Newf(errs.ErrKindConfiguration, "unsupported driver %q", cfg.Driver)
	}
}

// requireSchema fails the run before any table work when the target schema
// does not exist, closing the connection it was handed.
func requireSchema(ctx context.Context, db database.DB, exists func(context.Context) (bool, error), schema string) error {
	ok, err := exists(ctx)
	if err != nil {
		_ = db.Close(ctx)
		return err
	}
	if !ok {
		_ = db.Close(ctx)
		return errs.Newf(errs.ErrKindConfiguration, "schema %q does not exist", schema)
	}
	return nil
}

// uploadOutput pushes the written document to object storage and logs a
// time-limited download URL.
func uploadOutput(ctx context.Context, log *logger.Logger, up *config.UploadConfig, bucket, path string) error {
	if up.Endpoint == "" {
		return errs.New(errs.ErrKindConfiguration,
			"upload requested but no storage endpoint configured")
	}

	store, err := fsminio.New(ctx, &filestore.Config{
		Endpoint:  up.Endpoint,
		AccessKey: up.AccessKey,
		SecretKey: up.SecretKey,
		UseSSL:    up.UseSSL,
		Region:    up.Region,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return err
	}

	key := filepath.Base(path)
	info, err := store.PutFile(ctx, bucket, key, path, "application/json")
	if err != nil {
		return err
	}
	log.With().Str("bucket", bucket).Str("key", info.Key).Logger().
		Infof("uploaded schema document (%d bytes)", info.Size)

	url, err := store.PresignGetURL(ctx, bucket, key, 24*time.Hour)
	if err != nil {
		return err
	}
	log.Infof("download URL (valid 24h): %s", url)
	return nil
}
