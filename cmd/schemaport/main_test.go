package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaport/schemaport/internal/config"
)

func TestDriverFlagSelectsEnvDSN(t *testing.T) {
	t.Setenv(config.EnvPostgresDSN, "postgres://wrong-engine/db")
	t.Setenv(config.EnvMySQLDSN, "user:pass@tcp(env-host:3306)/shop")

	driverName = "mysql"
	defer func() { driverName = "" }()

	cfg, err := config.Load("")
	require.NoError(t, err)
	applyFlags(cfg)
	cfg.OverlayEnv()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "user:pass@tcp(env-host:3306)/shop", cfg.Database.DSN)
}

func TestDSNFlagWinsOverEnv(t *testing.T) {
	t.Setenv(config.EnvPostgresDSN, "postgres://env-host/db")

	dsn = "postgres://flag-host/db"
	defer func() { dsn = "" }()

	cfg, err := config.Load("")
	require.NoError(t, err)
	applyFlags(cfg)
	cfg.OverlayEnv()

	assert.Equal(t, "postgres://flag-host/db", cfg.Database.DSN)
}
