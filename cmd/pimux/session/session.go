// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the pimux session commands: spawn, send,
// list, kill, attach, and capture. Each command is a thin mapping from
// flags to one registry operation, with the exit-code contract the
// surrounding scripts rely on: 1 for usage errors, duplicates, and
// missing sessions; 0 for everything that is deliberately idempotent
// (killing an absent session, listing an empty registry).
package session

import (
	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/config"
	"github.com/pimux/pimux/lib/registry"
)

// configFlag is shared by all session commands: the --config value is
// resolved per invocation, falling back to PIMUX_CONFIG and then the
// built-in defaults.
type configFlag struct {
	ConfigPath string `flag:"config" desc:"path to pimux.yaml (default: $PIMUX_CONFIG)"`
}

// newRegistry loads configuration and builds the registry from it.
func (c *configFlag) newRegistry() (*registry.Registry, *config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, nil, cli.Validation("loading config: %w", err)
	}
	wait, err := cfg.ParseStartupWait()
	if err != nil {
		return nil, nil, cli.Validation("loading config: %w", err)
	}

	reg := registry.New(cfg.SocketDir)
	reg.Prefix = cfg.SessionPrefix
	reg.StartupWait = wait
	reg.Logger = cli.NewCommandLogger()
	return reg, cfg, nil
}
