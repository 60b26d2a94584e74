package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrnk/bdz1/pkg/models"
)

// chdir moves into a fresh directory so no stray config.yaml or .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestBuildDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, models.YAML, cfg.DocumentFormat())
	assert.Equal(t, "ledger.yaml", cfg.LedgerFile)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	assert.Equal(t, "accounts", cfg.Export.Accounts)

	a, c, o := cfg.ExportPaths(models.CSV)
	assert.Equal(t, "accounts.csv", a)
	assert.Equal(t, "categories.csv", c)
	assert.Equal(t, "operations.csv", o)
}

func TestBuildPrecedence(t *testing.T) {
	dir := chdir(t)
	cfgFile := filepath.Join(dir, "finacc.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("format: csv\ndata_dir: /var/lib/finacc\nserver:\n  addr: 127.0.0.1:9000\nexport:\n  accounts: acc\n"), 0o644))

	t.Setenv("FINACC_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", ".", "")
	flags.String("format", "yaml", "")
	require.NoError(t, flags.Parse([]string{"--data-dir", "/tmp/books"}))

	cfg, err := Build(cfgFile, flags)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/books", cfg.DataDir)
	assert.Equal(t, models.JSON, cfg.DocumentFormat())
	assert.Equal(t, "ledger.json", cfg.LedgerFile)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "acc", cfg.Export.Accounts)
	assert.Equal(t, filepath.Join("/tmp/books", "ledger.json"), cfg.LedgerPath())
}

func TestBuildReadsDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINACC_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FINACC_LOG_LEVEL") })

	cfg, err := Build("", nil)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestBuildErrors(t *testing.T) {
	dir := chdir(t)
	_, err := Build(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	t.Setenv("FINACC_FORMAT", "xml")
	_, err = Build("", nil)
	assert.Error(t, err)
}
