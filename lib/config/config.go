// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for pimux.
//
// Configuration is loaded from a YAML file specified by:
//   - PIMUX_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Unlike most daemons, pimux must work with no config file at all: the
// defaults are complete, and every invocation without PIMUX_CONFIG runs
// on them. The one value with an additional override is the socket
// directory, where the PIMUX_SOCKET_DIR environment variable wins over
// both the file and the default so scripts can point a single command
// at an alternate registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// SocketDirEnv overrides the socket directory for a single invocation.
const SocketDirEnv = "PIMUX_SOCKET_DIR"

// ConfigEnv names the config file when --config is not given.
const ConfigEnv = "PIMUX_CONFIG"

// Config is the pimux configuration.
type Config struct {
	// SocketDir is the directory of per-session control sockets.
	// Resolution order: PIMUX_SOCKET_DIR env var, then this value,
	// then "<temp dir>/pimux-sockets".
	SocketDir string `yaml:"socket_dir"`

	// SessionPrefix names sockets and tmux sessions:
	// "<prefix>-<name>.sock" / "<prefix>-<name>".
	SessionPrefix string `yaml:"session_prefix"`

	// StartupWait is how long spawn pauses after creating a session,
	// as a Go duration string ("2s").
	StartupWait string `yaml:"startup_wait"`

	// Agent configures how the pi process is started.
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig configures the agent command line. Each field is the
// default for the corresponding spawn flag; flags given on the command
// line win.
type AgentConfig struct {
	// Binary is the agent executable. Empty means "pi" on PATH.
	Binary string `yaml:"binary"`

	// Provider is the default --provider value.
	Provider string `yaml:"provider"`

	// Model is the default --model value.
	Model string `yaml:"model"`

	// Thinking is the default --thinking level.
	Thinking string `yaml:"thinking"`

	// Tools is the default capability list.
	Tools []string `yaml:"tools"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SocketDir:     filepath.Join(os.TempDir(), "pimux-sockets"),
		SessionPrefix: "pi",
		StartupWait:   "2s",
	}
}

// Load resolves and loads the configuration. explicitPath is the
// --config flag value; empty falls back to PIMUX_CONFIG, and if that
// is unset too, the defaults are returned without touching the
// filesystem. A path that is set but unreadable is an error — a named
// config file must exist.
//
// The PIMUX_SOCKET_DIR override is applied last, after the file.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	path := explicitPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if dir := os.Getenv(SocketDirEnv); dir != "" {
		cfg.SocketDir = dir
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandVariables expands ${HOME}-style references in path values for
// portability of shared config files.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":   os.Getenv("HOME"),
		"TMPDIR": os.TempDir(),
	}
	c.SocketDir = expandVars(c.SocketDir, vars)
	c.Agent.Binary = expandVars(c.Agent.Binary, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.SocketDir == "" {
		errs = append(errs, fmt.Errorf("socket_dir is required"))
	}
	if c.SessionPrefix == "" {
		errs = append(errs, fmt.Errorf("session_prefix is required"))
	}
	if _, err := c.ParseStartupWait(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ParseStartupWait parses the startup_wait duration string. An empty
// value means no wait.
func (c *Config) ParseStartupWait() (time.Duration, error) {
	if c.StartupWait == "" {
		return 0, nil
	}
	wait, err := time.ParseDuration(c.StartupWait)
	if err != nil {
		return 0, fmt.Errorf("invalid startup_wait %q: %w", c.StartupWait, err)
	}
	if wait < 0 {
		return 0, fmt.Errorf("startup_wait must not be negative, got %q", c.StartupWait)
	}
	return wait, nil
}
