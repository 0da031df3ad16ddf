// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/registry"
)

type attachParams struct {
	configFlag
	Name string `flag:"name,n" desc:"session name (required)"`
}

// AttachCommand connects the terminal to a running session.
func AttachCommand() *cli.Command {
	var params attachParams

	return &cli.Command{
		Name:    "attach",
		Summary: "Attach the terminal to a running session",
		Description: `Attach to a session's tmux server with the calling terminal.

Detach with the standard tmux prefix (C-b d). The session keeps
running after detach.`,
		Usage: "pimux attach -n <name>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("attach", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runAttach(params)
		},
	}
}

func runAttach(params attachParams) error {
	if params.Name == "" {
		return cli.Validation("a session name is required (-n/--name)")
	}

	reg, _, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	if err := reg.Attach(params.Name); err != nil {
		if errors.Is(err, registry.ErrSessionNotFound) {
			return cli.NotFound("%w", err)
		}
		if errors.Is(err, registry.ErrInvalidName) {
			return cli.Validation("%w", err)
		}
		if exit, ok := cli.ChildExit(err); ok {
			// The tmux client ran and reported its failure on the
			// inherited stderr; just propagate its exit code.
			return exit
		}
		return cli.Internal("attaching: %w", err)
	}
	return nil
}
