// Package config loads nbclean settings from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbclean/pkg/preprocessor"
)

// EnvPrefix is the prefix for environment variable overrides (NBCLEAN_POLICY, ...).
const EnvPrefix = "NBCLEAN"

// Config holds all settings for a clear run.
type Config struct {
	Policy               string   `mapstructure:"policy" validate:"oneof=skip-empty skip-first-empty"`
	RemoveMetadataFields []string `mapstructure:"remove_metadata_fields" validate:"dive,required"`
	Exclude              []string `mapstructure:"exclude"`
	Concurrency          int      `mapstructure:"concurrency" validate:"min=1,max=64"`
	InPlace              bool     `mapstructure:"in_place"`
	OutputDir            string   `mapstructure:"output_dir" validate:"excluded_with=InPlace"`
	Report               string   `mapstructure:"report" validate:"oneof=none text json jsonl yaml"`
	Check                bool     `mapstructure:"check"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("policy", preprocessor.SkipEmpty.String())
	v.SetDefault("remove_metadata_fields", preprocessor.DefaultRemoveMetadataFields)
	v.SetDefault("exclude", []string{})
	v.SetDefault("concurrency", 4)
	v.SetDefault("in_place", false)
	v.SetDefault("output_dir", "")
	v.SetDefault("report", "text")
	v.SetDefault("check", false)
}

// ReadInConfig points v at the config file. An explicit path must exist;
// otherwise .nbclean.yaml is looked up in the home and working directories
// and a missing file is not an error.
func ReadInConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".nbclean")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Policy = strings.ToLower(strings.TrimSpace(cfg.Policy))
	cfg.RemoveMetadataFields = splitList(cfg.RemoveMetadataFields)
	cfg.Exclude = splitList(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PreprocessorOptions converts the config into ClearOutput options.
func (c *Config) PreprocessorOptions() ([]preprocessor.Option, error) {
	policy, err := preprocessor.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return []preprocessor.Option{
		preprocessor.WithPolicy(policy),
		preprocessor.WithRemoveMetadataFields(c.RemoveMetadataFields...),
	}, nil
}

// splitList flattens comma-separated entries, as env vars arrive as one string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
