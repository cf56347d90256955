// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Console.Enabled)
	assert.Equal(t, ColorAuto, cfg.Console.Color)
	assert.Empty(t, cfg.I2C.Bus)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nconsole:\n  enabled: false\ni2c:\n  bus: \"1\"\n"), 0o644))

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Console.Enabled)
	assert.Equal(t, "1", cfg.I2C.Bus)
}

func TestLoadFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "firedetector.yaml"), []byte("console:\n  color: never\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ColorNever, cfg.Console.Color)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIREDETECTOR_LOG_LEVEL", "warn")
	t.Setenv("FIREDETECTOR_CONSOLE_COLOR", "always")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ColorAlways, cfg.Console.Color)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIREDETECTOR_LOG_LEVEL", "warn")

	cfg, err := Load(newFlags(t, "--log.level", "error"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Log: Log{Level: "info"}, Console: Console{Color: ColorAuto}}
	assert.NoError(t, cfg.Validate())

	cfg.Log.Level = "trace"
	assert.ErrorContains(t, cfg.Validate(), "log level")

	cfg.Log.Level = "info"
	cfg.Console.Color = "rainbow"
	assert.ErrorContains(t, cfg.Validate(), "color")
}
