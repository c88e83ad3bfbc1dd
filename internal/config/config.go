// Package config loads selcodec settings from an optional YAML file, the
// environment (SELCODEC_ prefix) and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"selection-codec/internal/diff"
	"selection-codec/internal/logging"
)

// Config is the resolved configuration.
type Config struct {
	CommentPrefix string `mapstructure:"comment_prefix"`
	Diff          struct {
		Context  int  `mapstructure:"context"`
		MaxBytes int  `mapstructure:"max_bytes"`
		NoPrefix bool `mapstructure:"no_prefix"`
	} `mapstructure:"diff"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// New returns a viper instance with defaults, config search paths and
// environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("comment_prefix", "//")
	v.SetDefault("diff.context", 3)
	v.SetDefault("diff.max_bytes", 0)
	v.SetDefault("diff.no_prefix", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("selcodec")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "selcodec"))
	}

	v.SetEnvPrefix("SELCODEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds command-line flags to config keys. Keys whose flag is not
// in fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads file (or the first selcodec.yaml on the search path when file
// is empty) and returns the merged configuration. A missing default config
// file is not an error; a missing explicit one is.
func Load(v *viper.Viper, file string) (Config, error) {
	var cfg Config
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later and far from
// their source.
func (c Config) Validate() error {
	if c.CommentPrefix == "" {
		return errors.New("comment_prefix must not be empty")
	}
	if c.Diff.Context < 0 {
		return fmt.Errorf("diff.context must be >= 0, got %d", c.Diff.Context)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// DiffOptions maps the diff section to diff.Options.
func (c Config) DiffOptions() diff.Options {
	return diff.Options{
		MaxBytes: c.Diff.MaxBytes,
		Context:  c.Diff.Context,
		NoPrefix: c.Diff.NoPrefix,
	}
}

// LogOptions maps the log section to logging.Options.
func (c Config) LogOptions() logging.Options {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return logging.Options{Level: lvl, Format: c.Log.Format}
}
