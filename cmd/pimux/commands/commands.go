// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete pimux CLI command tree.
package commands

import (
	"fmt"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/cmd/pimux/dashboard"
	"github.com/pimux/pimux/cmd/pimux/session"
	"github.com/pimux/pimux/lib/version"
)

// Root builds and returns the complete pimux CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "pimux",
		Description: `pimux: background pi agent sessions over tmux.

Each session runs on its own tmux server, addressed by a control
socket named after the session. Spawn agents, send them follow-up
instructions, inspect their output, and kill them — all without
attaching a terminal.`,
		Subcommands: []*cli.Command{
			session.SpawnCommand(),
			session.SendCommand(),
			session.ListCommand(),
			session.KillCommand(),
			session.AttachCommand(),
			session.CaptureCommand(),
			dashboard.Command(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "pimux version",
		Run: func(args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}
