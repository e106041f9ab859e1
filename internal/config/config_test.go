package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chainscope/internal/registry"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAINSCOPE_CONFIG", filepath.Join(t.TempDir(), "nonexistent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "all", cfg.UI.DefaultChain)
	require.Equal(t, 15, cfg.UI.RefreshSeconds)
	require.NotEmpty(t, cfg.Database.Path)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "/tmp/scope.db"

[ui]
default_chain = "bsc"
refresh_seconds = 5
`), 0o644))
	t.Setenv("CHAINSCOPE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/scope.db", cfg.Database.Path)
	require.Equal(t, "bsc", cfg.UI.DefaultChain)
	require.Equal(t, 5, cfg.UI.RefreshSeconds)
}

func TestLoadRegistryOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[registry.chains.fantom]
name = "Fantom"
color = "#1969ff"

[registry.chains.bsc]
color = "#ffffff"

[registry.exchanges.kraken]
name = "Kraken"
`), 0o644))
	t.Setenv("CHAINSCOPE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Fantom", cfg.Registry.Chains["fantom"].Name)
	require.Equal(t, "#ffffff", cfg.Registry.Chains["bsc"].Color)
	require.Equal(t, "Kraken", cfg.Registry.Exchanges["kraken"].Name)

	chains := registry.DefaultChains().WithOverrides(cfg.Registry.Chains)
	require.True(t, chains.Has("fantom"))
	require.Equal(t, "#ffffff", chains["bsc"].Color)
	require.Equal(t, "BNB Chain", chains["bsc"].Name)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CHAINSCOPE_CONFIG", filepath.Join(t.TempDir(), "nonexistent.toml"))
	t.Setenv("CHAINSCOPE_UI_DEFAULT_CHAIN", "polygon")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "polygon", cfg.UI.DefaultChain)
}

func TestBogusRefreshIntervalNormalized(t *testing.T) {
	t.Setenv("CHAINSCOPE_CONFIG", filepath.Join(t.TempDir(), "nonexistent.toml"))
	t.Setenv("CHAINSCOPE_UI_REFRESH_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15, cfg.UI.RefreshSeconds)
}
