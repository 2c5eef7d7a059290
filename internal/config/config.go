// Package config loads the optional YAML configuration file and overlays
// environment variables on top of it. Command-line flags take precedence
// over both; that resolution happens in the CLI layer.
package config

import (
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/schemaport/schemaport/internal/errs"
)

// Environment variables recognized as fallbacks.
const (
	EnvPostgresDSN    = "POSTGRES_CONNECTION_STRING"
	EnvMySQLDSN       = "MYSQL_CONNECTION_STRING"
	EnvMinIOEndpoint  = "MINIO_ENDPOINT"
	EnvMinIOAccessKey = "MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "MINIO_SECRET_KEY"
)

// Config is the top-level configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database,omitempty"`
	Sampling SamplingConfig `yaml:"sampling,omitempty"`
	Logging  LogConfig      `yaml:"logging,omitempty"`
	Upload   UploadConfig   `yaml:"upload,omitempty"`
}

// DatabaseConfig defines the live database connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver,omitempty"` // postgres or mysql
	DSN    string `yaml:"dsn,omitempty"`
	Schema string `yaml:"schema,omitempty"` // postgres only; default "public"
}

// SamplingConfig controls per-column value sampling.
type SamplingConfig struct {
	Limit int `yaml:"limit,omitempty"` // default 5
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // console or json
}

// UploadConfig defines the optional object-storage upload of the output.
type UploadConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
}

// Load reads the config file at path and applies defaults. An empty path
// yields defaults only. The environment overlay is a separate step
// (OverlayEnv) so callers can apply flag overrides first — which DSN
// variable is consulted depends on the effective driver.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "reading config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindConfiguration, "parsing config file", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// OverlayEnv fills empty fields from the environment. File and flag values
// win over the environment. Must run after any flag overlay so the driver
// selecting the DSN variable is the one the run will actually use.
func (c *Config) OverlayEnv() {
	if c.Database.DSN == "" {
		switch c.Database.Driver {
		case "mysql":
			c.Database.DSN = os.Getenv(EnvMySQLDSN)
		default:
			c.Database.DSN = os.Getenv(EnvPostgresDSN)
		}
	}
	if c.Upload.Endpoint == "" {
		c.Upload.Endpoint = os.Getenv(EnvMinIOEndpoint)
	}
	if c.Upload.AccessKey == "" {
		c.Upload.AccessKey = os.Getenv(EnvMinIOAccessKey)
	}
	if c.Upload.SecretKey == "" {
		c.Upload.SecretKey = os.Getenv(EnvMinIOSecretKey)
	}
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Schema == "" {
		c.Database.Schema = "public"
	}
	if c.Sampling.Limit == 0 {
		c.Sampling.Limit = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
