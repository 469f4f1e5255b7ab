package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: memory\ntax_table_dir: config/tax_tables\nhttp_addr: :9090\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Store = "sqlite"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsPostgresWithoutDSN(t *testing.T) {
	cfg := Default()
	cfg.Store = BackendPostgres
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsPostgresWithDSN(t *testing.T) {
	cfg := Default()
	cfg.Store = BackendPostgres
	cfg.PostgresDSN = "postgres://localhost/payroll"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsEmptyTaxTableDir(t *testing.T) {
	cfg := Default()
	cfg.TaxTableDir = ""
	assert.Error(t, cfg.Validate())
}
