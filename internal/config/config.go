package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"chainscope/internal/registry"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Registry RegistryConfig
	UI       UIConfig
}

// DatabaseConfig holds kv store settings.
type DatabaseConfig struct {
	Path string
}

// RegistryConfig extends or recolors the built-in chain and exchange
// registries. Entries merge over the defaults key by key; unlisted keys
// keep their built-in metadata.
type RegistryConfig struct {
	Chains    map[string]registry.Override
	Exchanges map[string]registry.Override
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DefaultChain   string `mapstructure:"default_chain"`
	RefreshSeconds int    `mapstructure:"refresh_seconds"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CHAINSCOPE_; CHAINSCOPE_CONFIG points at an explicit config file.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "chainscope", "chainscope.db"))
	v.SetDefault("ui.default_chain", "all")
	v.SetDefault("ui.refresh_seconds", 15)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CHAINSCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "chainscope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CHAINSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.RefreshSeconds < 1 {
		c.UI.RefreshSeconds = 15
	}
	return c, nil
}
