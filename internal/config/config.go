// Package config loads the release report settings from defaults, a named
// preset, the .releasereport.yaml file and RELEASEREPORT_* variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clebertsuconic/git-release-report/pkg/gitlib"
	"github.com/clebertsuconic/git-release-report/pkg/walk"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// Config is the top-level configuration struct.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Preset       string          `mapstructure:"preset" yaml:"preset,omitempty"`
	Repo         string          `mapstructure:"repo" yaml:"repo"`
	Host         string          `mapstructure:"host" yaml:"host"`
	BaseMode     string          `mapstructure:"base_mode" yaml:"base_mode"`
	Suffixes     []string        `mapstructure:"suffixes" yaml:"suffixes"`
	Languages    []string        `mapstructure:"languages" yaml:"languages,omitempty"`
	SkipVendored bool            `mapstructure:"skip_vendored" yaml:"skip_vendored"`
	Zones        []zones.Zone    `mapstructure:"zones" yaml:"zones"`
	Issues       IssuesConfig    `mapstructure:"issues" yaml:"issues"`
	Diff         DiffConfig      `mapstructure:"diff" yaml:"diff"`
	Output       OutputConfig    `mapstructure:"output" yaml:"output"`
	Telemetry    TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// IssuesConfig holds issue tracker settings.
type IssuesConfig struct {
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	URL       string `mapstructure:"url" yaml:"url"`
	BulkQuery string `mapstructure:"bulk_query" yaml:"bulk_query"`
}

// DiffConfig holds tree diff settings.
type DiffConfig struct {
	ContextLines  int  `mapstructure:"context_lines" yaml:"context_lines"`
	DetectRenames bool `mapstructure:"detect_renames" yaml:"detect_renames"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Stylesheet string `mapstructure:"stylesheet" yaml:"stylesheet,omitempty"`
	Summary    bool   `mapstructure:"summary" yaml:"summary"`
	NoColor    bool   `mapstructure:"no_color" yaml:"no_color"`
	MaxMessage int    `mapstructure:"max_message" yaml:"max_message"`
}

// TelemetryConfig holds logging, tracing and metrics settings.
type TelemetryConfig struct {
	LogLevel     string  `mapstructure:"log_level" yaml:"log_level"`
	LogJSON      bool    `mapstructure:"log_json" yaml:"log_json"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint,omitempty"`
	OTLPHeaders  string  `mapstructure:"otlp_headers" yaml:"otlp_headers,omitempty"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure" yaml:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
	Environment  string  `mapstructure:"environment" yaml:"environment,omitempty"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBaseMode indicates an unknown base_mode value.
	ErrInvalidBaseMode = errors.New("base_mode must be sequence or parent")
	// ErrInvalidContextLines indicates a negative context line count.
	ErrInvalidContextLines = errors.New("diff.context_lines must be non-negative")
	// ErrInvalidMaxMessage indicates a negative message width.
	ErrInvalidMaxMessage = errors.New("output.max_message must be non-negative")
	// ErrInvalidSampleRatio indicates a sampling ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidLogLevel indicates an unparsable log level.
	ErrInvalidLogLevel = errors.New("telemetry.log_level must be debug, info, warn or error")
	// ErrInvalidSuffix indicates a suffix without a leading dot.
	ErrInvalidSuffix = errors.New("suffixes must start with a dot")
	// ErrDuplicateZone indicates two zones with the same name.
	ErrDuplicateZone = errors.New("zone names must be unique")
	// ErrBulkWithoutPrefix indicates a bulk query with no issue prefix to collect.
	ErrBulkWithoutPrefix = errors.New("issues.bulk_query requires issues.prefix")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	switch walk.BaseMode(c.BaseMode) {
	case walk.BaseSequence, walk.BaseParent, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBaseMode, c.BaseMode)
	}

	if c.Diff.ContextLines < 0 {
		return ErrInvalidContextLines
	}

	if c.Output.MaxMessage < 0 {
		return ErrInvalidMaxMessage
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Issues.BulkQuery != "" && c.Issues.Prefix == "" {
		return ErrBulkWithoutPrefix
	}

	return c.validateZones()
}

func (c *Config) validateZones() error {
	if err := validateSuffixes(c.Suffixes); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Zones))

	for _, z := range c.Zones {
		if err := z.Validate(); err != nil {
			return err
		}

		if seen[z.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateZone, z.Name)
		}

		seen[z.Name] = true

		if err := validateSuffixes(z.Suffixes); err != nil {
			return err
		}
	}

	return nil
}

func validateSuffixes(suffixes []string) error {
	for _, s := range suffixes {
		if !strings.HasPrefix(s, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidSuffix, s)
		}
	}

	return nil
}

// LogLevel parses Telemetry.LogLevel; empty means info.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if c.Telemetry.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(c.Telemetry.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Telemetry.LogLevel)
	}

	return level, nil
}

// WalkMode returns the configured base mode, sequence when unset.
func (c *Config) WalkMode() walk.BaseMode {
	if c.BaseMode == "" {
		return walk.BaseSequence
	}

	return walk.BaseMode(c.BaseMode)
}

// DiffOptions returns the libgit2 diff options.
func (c *Config) DiffOptions() gitlib.DiffOptions {
	return gitlib.DiffOptions{
		ContextLines:  c.Diff.ContextLines,
		DetectRenames: c.Diff.DetectRenames,
	}
}
