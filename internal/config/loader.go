package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".releasereport"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for release report settings.
const envPrefix = "RELEASEREPORT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Defaults for settings that are not required.
const (
	DefaultRepo         = "."
	DefaultBaseMode     = "sequence"
	DefaultContextLines = 3
	DefaultLogLevel     = "info"
	DefaultSampleRatio  = 1.0
)

// DefaultSuffixes are the source suffixes used when none are configured.
var DefaultSuffixes = []string{".java"}

// LoadOptions selects the config file and preset.
type LoadOptions struct {
	// Path is an explicit config file; empty searches CWD and $HOME.
	Path string
	// Preset overrides the preset named in the file.
	Preset string
	// NoFile skips the config file; env, preset and defaults still apply.
	NoFile bool
}

// LoadConfig loads configuration from file, env vars, preset, and defaults.
// A missing config file is not an error when searching; defaults are used.
// The file is checked against the embedded JSON schema before unmarshalling.
func LoadConfig(opts LoadOptions) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if !opts.NoFile {
		readErr := readConfigFile(viperCfg, opts.Path)
		if readErr != nil {
			return nil, readErr
		}
	}

	presetName := opts.Preset
	if presetName == "" {
		presetName = viperCfg.GetString("preset")
	}

	if presetName != "" {
		presetErr := applyPreset(viperCfg, presetName)
		if presetErr != nil {
			return nil, presetErr
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	cfg.Preset = presetName

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func readConfigFile(viperCfg *viper.Viper, path string) error {
	if path != "" {
		viperCfg.SetConfigFile(path)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(readErr, &notFound) {
			return nil
		}

		return fmt.Errorf("read config: %w", readErr)
	}

	return ValidateFile(viperCfg.ConfigFileUsed())
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("preset", "")
	viperCfg.SetDefault("repo", DefaultRepo)
	viperCfg.SetDefault("host", "")
	viperCfg.SetDefault("base_mode", DefaultBaseMode)
	viperCfg.SetDefault("suffixes", DefaultSuffixes)
	viperCfg.SetDefault("languages", []string{})
	viperCfg.SetDefault("skip_vendored", false)
	viperCfg.SetDefault("zones", []map[string]any{})

	viperCfg.SetDefault("issues.prefix", "")
	viperCfg.SetDefault("issues.url", "")
	viperCfg.SetDefault("issues.bulk_query", "")

	viperCfg.SetDefault("diff.context_lines", DefaultContextLines)
	viperCfg.SetDefault("diff.detect_renames", false)

	viperCfg.SetDefault("output.stylesheet", "")
	viperCfg.SetDefault("output.summary", false)
	viperCfg.SetDefault("output.no_color", false)
	viperCfg.SetDefault("output.max_message", 0)

	viperCfg.SetDefault("telemetry.log_level", DefaultLogLevel)
	viperCfg.SetDefault("telemetry.log_json", false)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.environment", "")
}
