package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

// Defaults applied when the config file leaves a field unset. The artifact
// layout names come from the telemetry package, which owns that contract.
const (
	DefaultTelemetryDir = telemetry.DefaultDir
	DefaultMaxFiles     = 10000
	DefaultJournalFile  = telemetry.JournalFile
)

// Config represents the full tracksmith configuration
type Config struct {
	Project     ProjectConfig     `mapstructure:"project"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Scan        ScanConfig        `mapstructure:"scan"`
	SDK         SDKConfig         `mapstructure:"sdk"`
	Conventions ConventionsConfig `mapstructure:"conventions"`
	Journal     JournalConfig     `mapstructure:"journal"`
}

// ProjectConfig contains project-level settings
type ProjectConfig struct {
	Name string `mapstructure:"name"`
}

// TelemetryConfig controls where instrumentation artifacts live
type TelemetryConfig struct {
	Dir string `mapstructure:"dir"` // relative to the target repo root
}

// ScanConfig controls repository traversal
type ScanConfig struct {
	Include  []string `mapstructure:"include"`   // glob allowlist; empty means everything
	Exclude  []string `mapstructure:"exclude"`   // extra skip globs on top of built-ins
	MaxFiles int      `mapstructure:"max_files"` // traversal cap
}

// SDKConfig selects the analytics SDK used for generated snippets
type SDKConfig struct {
	Name    string `mapstructure:"name"`    // segment, amplitude, mixpanel, posthog, accoil, rudderstack
	Variant string `mapstructure:"variant"` // browser or node
}

// ConventionsConfig overrides the built-in naming conventions
type ConventionsConfig struct {
	EventPattern        string `mapstructure:"event_pattern"`    // regex; empty uses dot.notation default
	PropertyPattern     string `mapstructure:"property_pattern"` // regex; empty uses snake_case default
	RequireDescriptions *bool  `mapstructure:"require_descriptions"`
}

// JournalConfig controls the append-only run journal
type JournalConfig struct {
	Enabled *bool  `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // relative to the target repo root
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Telemetry.Dir == "" {
		cfg.Telemetry.Dir = DefaultTelemetryDir
	}

	if cfg.Scan.MaxFiles == 0 {
		cfg.Scan.MaxFiles = DefaultMaxFiles
	}

	if cfg.Conventions.RequireDescriptions == nil {
		yes := true
		cfg.Conventions.RequireDescriptions = &yes
	}

	if cfg.Journal.Enabled == nil {
		yes := true
		cfg.Journal.Enabled = &yes
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(cfg.Telemetry.Dir, DefaultJournalFile)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if filepath.IsAbs(c.Telemetry.Dir) {
		return fmt.Errorf("telemetry dir must be relative to the repo root: %s", c.Telemetry.Dir)
	}

	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("scan max_files must not be negative")
	}

	if c.SDK.Name != "" && !sdks.ValidName(c.SDK.Name) {
		return fmt.Errorf("invalid sdk name: %s (must be one of %v)", c.SDK.Name, sdks.Names())
	}

	if c.SDK.Variant != "" {
		valid := map[string]bool{string(sdks.VariantBrowser): true, string(sdks.VariantNode): true}
		if !valid[c.SDK.Variant] {
			return fmt.Errorf("invalid sdk variant: %s (must be browser or node)", c.SDK.Variant)
		}
	}

	if c.Conventions.EventPattern != "" {
		if _, err := regexp.Compile(c.Conventions.EventPattern); err != nil {
			return fmt.Errorf("invalid event_pattern: %w", err)
		}
	}

	if c.Conventions.PropertyPattern != "" {
		if _, err := regexp.Compile(c.Conventions.PropertyPattern); err != nil {
			return fmt.Errorf("invalid property_pattern: %w", err)
		}
	}

	for _, glob := range append(append([]string{}, c.Scan.Include...), c.Scan.Exclude...) {
		if _, err := filepath.Match(glob, "x"); err != nil {
			return fmt.Errorf("invalid scan glob %q: %w", glob, err)
		}
	}

	return nil
}

// ValidateForInstrument performs additional validation required before
// generating instrumentation snippets
func (c *Config) ValidateForInstrument() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.SDK.Name == "" {
		return fmt.Errorf("sdk name is required (set sdk.name in .tracksmith.yaml or pass --sdk)")
	}

	if c.SDK.Variant == "" {
		return fmt.Errorf("sdk variant is required (set sdk.variant in .tracksmith.yaml or pass --variant)")
	}

	return nil
}

// RequireDescriptions reports whether plan events must carry descriptions.
func (c *Config) RequireDescriptions() bool {
	return c.Conventions.RequireDescriptions == nil || *c.Conventions.RequireDescriptions
}

// JournalEnabled reports whether run journaling is on.
func (c *Config) JournalEnabled() bool {
	return c.Journal.Enabled == nil || *c.Journal.Enabled
}
