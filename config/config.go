// Package config loads settings for the tabchunk command from the
// environment, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tsawler/tabchunk/chunk"
	"github.com/tsawler/tabchunk/format"
	"github.com/tsawler/tabchunk/textenc"
)

// EnvPrefix is prepended to every environment variable name, e.g.
// TABCHUNK_MAX_LEN.
const EnvPrefix = "TABCHUNK"

// Config holds the command's settings. Load fills it from defaults, an
// optional config file and the environment; callers apply any overrides and
// then call Validate.
type Config struct {
	UniqueKey       string // header column identifying rows
	MaxLen          int    // character budget per chunk
	OverheadPadding int    // slack reserved when testing for oversized fields
	InputEncoding   string // CSV input encoding label
	OutputEncoding  string // encoding of persisted text files
	OutputDir       string // directory for <name>.txt outputs
	Workers         int    // documents processed in parallel
	LogLevel        string // debug, info, warn or error
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first if present. path names an optional config file
// (any format viper understands); environment variables override it. The
// result is not validated.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("unique_key", "OrderID")
	v.SetDefault("max_len", chunk.DefaultMaxLen)
	v.SetDefault("overhead_padding", chunk.DefaultOverheadPadding)
	v.SetDefault("input_encoding", "utf-8")
	v.SetDefault("output_encoding", "utf-8")
	v.SetDefault("output_dir", ".")
	v.SetDefault("workers", 1)
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Config{
		UniqueKey:       v.GetString("unique_key"),
		MaxLen:          v.GetInt("max_len"),
		OverheadPadding: v.GetInt("overhead_padding"),
		InputEncoding:   v.GetString("input_encoding"),
		OutputEncoding:  v.GetString("output_encoding"),
		OutputDir:       v.GetString("output_dir"),
		Workers:         v.GetInt("workers"),
		LogLevel:        v.GetString("log_level"),
	}, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxLen <= 0 {
		errs = append(errs, fmt.Errorf("max_len must be positive, got %d", c.MaxLen))
	}
	if c.OverheadPadding < 0 {
		errs = append(errs, fmt.Errorf("overhead_padding must not be negative, got %d", c.OverheadPadding))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if !textenc.Valid(c.InputEncoding) {
		errs = append(errs, fmt.Errorf("unknown input_encoding %q", c.InputEncoding))
	}
	if !textenc.Valid(c.OutputEncoding) {
		errs = append(errs, fmt.Errorf("unknown output_encoding %q", c.OutputEncoding))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options returns the adapter options for this configuration.
func (c *Config) Options(logger *slog.Logger) format.Options {
	return format.Options{
		UniqueKey:       c.UniqueKey,
		MaxLen:          c.MaxLen,
		OverheadPadding: c.OverheadPadding,
		Encoding:        c.InputEncoding,
		Logger:          logger,
	}
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}
