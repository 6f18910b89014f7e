// Package config loads the fhirlint configuration from flags, FHIRLINT_*
// environment variables and an optional config file, in that order of
// precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gofhir/model/pkg/logger"
)

// EnvPrefix prefixes every environment variable, e.g. FHIRLINT_STRICT.
const EnvPrefix = "FHIRLINT"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the CLI settings.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	Strict         bool   `mapstructure:"strict"`
	Constraints    bool   `mapstructure:"constraints"`
	Workers        int    `mapstructure:"workers"`
	TerminologyDir string `mapstructure:"terminology_dir"`
	Output         string `mapstructure:"output"`
}

var keys = []string{"log_level", "strict", "constraints", "workers", "terminology_dir", "output"}

// Load reads the configuration. configFile may be empty; flags may be nil.
// A flag is bound to the key of the same name with dashes replaced by
// underscores, and only overrides the other sources when set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "warn")
	v.SetDefault("strict", false)
	v.SetDefault("constraints", false)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("terminology_dir", "")
	v.SetDefault("output", OutputText)

	// Bind env vars explicitly so Unmarshal picks them up.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		for _, key := range keys {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings and normalizes the output format.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	c.Output = strings.ToLower(c.Output)
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("output must be %q or %q, got %q", OutputText, OutputJSON, c.Output)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logger.Level {
	l, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelWarn
	}
	return l
}
