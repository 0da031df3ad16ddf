// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard provides the interactive session dashboard
// command. This is a separate package from cmd/pimux/session so that
// the charmbracelet/bubbletea dependency (and its transitive closure:
// lipgloss, termenv, cellbuf) is only linked where it is used.
package dashboard

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/config"
	"github.com/pimux/pimux/lib/registry"
	"github.com/pimux/pimux/lib/sessionui"
)

// Command returns the "dashboard" subcommand that launches the
// interactive session browser.
func Command() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "dashboard",
		Summary: "Interactive session browser",
		Description: `Launch a terminal UI listing live sessions, refreshed every few
seconds. Navigate with j/k, kill with x, attach with enter, quit
with q.

Attaching happens after the dashboard exits, with the terminal
restored, because tmux needs the real terminal to attach.`,
		Usage: "pimux dashboard [--config <path>]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to pimux.yaml (default: $PIMUX_CONFIG)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return run(configPath)
		},
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Validation("loading config: %w", err)
	}
	wait, err := cfg.ParseStartupWait()
	if err != nil {
		return cli.Validation("loading config: %w", err)
	}

	reg := registry.New(cfg.SocketDir)
	reg.Prefix = cfg.SessionPrefix
	reg.StartupWait = wait
	reg.Logger = cli.NewCommandLogger()

	model := sessionui.NewModel(reg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return cli.Internal("dashboard: %w", err)
	}

	// Attach after the TUI has released the terminal.
	if target := model.AttachTarget(); target != "" {
		if err := reg.Attach(target); err != nil {
			if errors.Is(err, registry.ErrSessionNotFound) {
				// The session died between choosing it and attaching.
				return cli.NotFound("%w", err)
			}
			if exit, ok := cli.ChildExit(err); ok {
				return exit
			}
			return cli.Internal("attaching: %w", err)
		}
	}
	return nil
}
