// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the runtime settings of the fire detector.
//
// Only the ambient behaviour of the process is configurable. The pin map and
// the alarm thresholds are fixed at build time.
//
// Settings come, in increasing precedence, from defaults, an optional
// firedetector.yaml in /etc/firedetector or the working directory,
// FIREDETECTOR_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/GermanBionicSystems/firedetector/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Color modes of the console status stream.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	keyConfig         = "config"
	keyLogLevel       = "log.level"
	keyConsoleEnabled = "console.enabled"
	keyConsoleColor   = "console.color"
	keyI2CBus         = "i2c.bus"
)

// Config holds the runtime settings.
type Config struct {
	Log     Log     `mapstructure:"log"`
	Console Console `mapstructure:"console"`
	I2C     I2C     `mapstructure:"i2c"`
}

// Log configures diagnostics logging.
type Log struct {
	Level string `mapstructure:"level"`
}

// Console configures the status stream on stdout.
type Console struct {
	Enabled bool   `mapstructure:"enabled"`
	Color   string `mapstructure:"color"`
}

// I2C selects the bus the gas sensor converter is on. Empty means the first
// bus found.
type I2C struct {
	Bus string `mapstructure:"bus"`
}

// RegisterFlags adds the command line flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(keyConfig, "", "path to a configuration file")
	fs.String(keyLogLevel, logger.InfoLevel, "log level: "+strings.Join(logger.Levels(), ", "))
	fs.Bool(keyConsoleEnabled, true, "print the status block on stdout every iteration")
	fs.String(keyConsoleColor, ColorAuto, "color the status block: auto, always, never")
	fs.String(keyI2CBus, "", "I²C bus of the gas sensor converter")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyLogLevel, logger.InfoLevel)
	v.SetDefault(keyConsoleEnabled, true)
	v.SetDefault(keyConsoleColor, ColorAuto)
	v.SetDefault(keyI2CBus, "")

	v.SetEnvPrefix("FIREDETECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("firedetector")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/firedetector")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(logger.Levels(), c.Log.Level) {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Console.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: unknown console color mode %q", c.Console.Color)
	}
	return nil
}
