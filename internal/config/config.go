// Package config loads cyphergen settings from defaults, an optional config
// file and CYPHERGEN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/cyphergen/pkg/cypher"
)

// EnvPrefix is the environment variable prefix (CYPHERGEN_DIRECTIVE, ...).
const EnvPrefix = "CYPHERGEN"

// Config keys.
const (
	KeyDirective         = "directive"
	KeyHousekeepingLabel = "housekeeping_label"
	KeyPlaceholder       = "placeholder"
	KeyUnionSeparator    = "union_separator"
	KeyTenants           = "tenants"
)

// Config holds the tenant engine tokens and default tenants.
type Config struct {
	Directive         string   `mapstructure:"directive"`
	HousekeepingLabel string   `mapstructure:"housekeeping_label"`
	Placeholder       string   `mapstructure:"placeholder"`
	UnionSeparator    string   `mapstructure:"union_separator"`
	Tenants           []string `mapstructure:"tenants"`
}

// Default returns the built-in settings.
func Default() Config {
	d := cypher.DefaultTenantConfig()
	return Config{
		Directive:         d.Directive,
		HousekeepingLabel: d.HousekeepingLabel,
		Placeholder:       d.Placeholder,
		UnionSeparator:    d.UnionSeparator,
	}
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. A path that does not exist is an error.
func Load(path string) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyDirective, d.Directive)
	v.SetDefault(KeyHousekeepingLabel, d.HousekeepingLabel)
	v.SetDefault(KeyPlaceholder, d.Placeholder)
	v.SetDefault(KeyUnionSeparator, d.UnionSeparator)
	v.SetDefault(KeyTenants, []string{})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config file not found: %s", path)
			}
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Tenants = cleanTenants(cfg.Tenants)
	return cfg, nil
}

// TenantConfig returns the tokens for cypher.NewTenantEngineWithConfig.
func (c Config) TenantConfig() cypher.TenantConfig {
	return cypher.TenantConfig{
		HousekeepingLabel: c.HousekeepingLabel,
		Placeholder:       c.Placeholder,
		Directive:         c.Directive,
		UnionSeparator:    c.UnionSeparator,
	}
}

// cleanTenants trims whitespace and drops empty entries, so
// CYPHERGEN_TENANTS="a, b," yields [a b].
func cleanTenants(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
