package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// Output formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrNoRecordKeywords = errors.New("at least one record keyword is required")
	ErrInvalidCacheSize = errors.New("cache size must be positive")
	ErrEmptyTypeMapping = errors.New("type mapping needs both from and to")
	ErrInvalidGlob      = errors.New("invalid type pattern")
)

// Config represents the complete configuration.
type Config struct {
	TypeMappings map[string]string // Source type -> target type
	Options      Options

	globs map[string]glob.Glob
}

// TypeMapping maps one source type to a target type in config files.
// Mappings are a list, not a map, because viper lower-cases map keys.
type TypeMapping struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// Options represents parsing and generation options.
type Options struct {
	Format         string   `mapstructure:"format"`
	PerType        bool     `mapstructure:"perType"`
	RecordKeywords []string `mapstructure:"recordKeywords"`
	IncludeTypes   []string `mapstructure:"includeTypes"`
	ExcludeTypes   []string `mapstructure:"excludeTypes"`
	IncludeNested  bool     `mapstructure:"includeNested"`
	Strict         bool     `mapstructure:"strict"`
	CacheSize      int      `mapstructure:"cacheSize"`
}

// fileConfig is the shape of a config file.
type fileConfig struct {
	TypeMappings []TypeMapping `mapstructure:"typeMappings"`
	Options      Options       `mapstructure:"options"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		TypeMappings: DefaultTypeMappings(),
		Options:      DefaultOptions(),
		globs:        make(map[string]glob.Glob),
	}
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *fileConfig) error {
	// Loaded mappings override defaults
	for _, m := range loaded.TypeMappings {
		if m.From == "" || m.To == "" {
			return fmt.Errorf("%w: %+v", ErrEmptyTypeMapping, m)
		}
		c.TypeMappings[m.From] = m.To
	}
	c.Options = loaded.Options
	return nil
}

// Validate checks the options and compiles the type filters. Call it again
// after changing Options.
func (c *Config) Validate() error {
	switch c.Options.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Options.Format)
	}
	if len(c.Options.RecordKeywords) == 0 {
		return ErrNoRecordKeywords
	}
	if c.Options.CacheSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.Options.CacheSize)
	}

	if c.globs == nil {
		c.globs = make(map[string]glob.Glob)
	}
	for _, patterns := range [][]string{c.Options.IncludeTypes, c.Options.ExcludeTypes} {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return fmt.Errorf("%w %q: %v", ErrInvalidGlob, p, err)
			}
			c.globs[p] = g
		}
	}
	return nil
}

// MapType maps a source type to its target type using the configured mappings.
func (c *Config) MapType(sourceType string) string {
	if mapped, ok := c.TypeMappings[sourceType]; ok {
		return mapped
	}
	return sourceType
}

// ShouldIncludeType checks if a record should be included based on config.
func (c *Config) ShouldIncludeType(name string, isNested bool) bool {
	if isNested && !c.Options.IncludeNested {
		return false
	}

	// Check include list (if specified, type must match it)
	if len(c.Options.IncludeTypes) > 0 && !c.matchAny(c.Options.IncludeTypes, name) {
		return false
	}

	return !c.matchAny(c.Options.ExcludeTypes, name)
}

func (c *Config) matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if c.compiled(p).Match(name) {
			return true
		}
	}
	return false
}

// compiled returns the compiled pattern, treating an invalid pattern as a
// literal name.
func (c *Config) compiled(pattern string) glob.Glob {
	if c.globs == nil {
		c.globs = make(map[string]glob.Glob)
	}
	if g, ok := c.globs[pattern]; ok {
		return g
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		g = glob.MustCompile(glob.QuoteMeta(pattern))
	}
	c.globs[pattern] = g
	return g
}
