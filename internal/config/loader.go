package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. STRUCTSCAN_OPTIONS_FORMAT.
const EnvPrefix = "STRUCTSCAN"

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (STRUCTSCAN_*)
// 2. Config file at path (YAML or JSON; skipped when path is empty)
// 3. Default values
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., STRUCTSCAN_OPTIONS_FORMAT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
		default:
			// JSON is valid YAML, so YAML covers unknown extensions
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var loaded fileConfig
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg := New()
	if err := cfg.merge(&loaded); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := DefaultOptions()

	v.SetDefault("options.format", defaults.Format)
	v.SetDefault("options.perType", defaults.PerType)
	v.SetDefault("options.recordKeywords", defaults.RecordKeywords)
	v.SetDefault("options.includeTypes", defaults.IncludeTypes)
	v.SetDefault("options.excludeTypes", defaults.ExcludeTypes)
	v.SetDefault("options.includeNested", defaults.IncludeNested)
	v.SetDefault("options.strict", defaults.Strict)
	v.SetDefault("options.cacheSize", defaults.CacheSize)
}
