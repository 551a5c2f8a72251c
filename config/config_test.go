package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, 10000, cfg.Generator.OrderItems)
	assert.Equal(t, "/var/shopgen/data", cfg.GetDataDir())
	assert.Equal(t, "/var/shopgen/logs", cfg.GetLogDir())
	assert.Equal(t, "/var/shopgen/reports", cfg.GetReportDir())
	assert.Equal(t, "/var/shopgen/logs/shopgen.log", cfg.GetLogFile())
	assert.Equal(t, DefaultAnchorDate, cfg.Generator.AnchorDate)

	cfg.Export.Dir = "/tmp/out"
	assert.Equal(t, "/tmp/out", cfg.GetDataDir())
}

func TestLogFileFollowsWorkdir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPGEN_SYSTEM_WORKER_DIR", dir)
	file := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, DefaultAppConfig().Save(file))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs", "shopgen.log"), cfg.GetLogFile())

	cfg.System.Workdir = "/srv/shop"
	assert.Equal(t, "/srv/shop/logs/shopgen.log", cfg.GetLogFile())

	cfg.Logger.Filename = "/var/log/shopgen.log"
	assert.Equal(t, "/var/log/shopgen.log", cfg.GetLogFile())
}

func TestLoadConfigFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "shopgen.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
system:
  workdir: `+dir+`
database:
  type: postgres
  name: shop
generator:
  seed: 7
  customers: 10
`), 0o644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, int64(7), cfg.Generator.Seed)
	assert.Equal(t, 10, cfg.Generator.Customers)
	// untouched keys keep their defaults
	assert.Equal(t, 600, cfg.Generator.Products)
	assert.Equal(t, 8000, cfg.Web.Port)

	require.NoError(t, cfg.Prepare())
	assert.DirExists(t, filepath.Join(dir, "data"))
	assert.DirExists(t, filepath.Join(dir, "reports"))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SHOPGEN_SEED", "99")
	t.Setenv("SHOPGEN_DB_TYPE", "postgres")
	t.Setenv("SHOPGEN_EXPORT_XLSX", "true")
	t.Setenv("SHOPGEN_WEB_PORT", "not-a-number")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	dir := t.TempDir()
	file := filepath.Join(dir, "c.yml")
	require.NoError(t, DefaultAppConfig().Save(file))
	cfg, err = LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Generator.Seed)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.True(t, cfg.Export.XLSX)
	assert.Equal(t, 8000, cfg.Web.Port)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(file, []byte("system: [unclosed"), 0o644))
	_, err := LoadConfig(file)
	assert.Error(t, err)
}
