// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/registry"
)

type killParams struct {
	configFlag
	Name string `flag:"name,n" desc:"session to kill"`
	All  bool   `flag:"all,a" desc:"kill every session in the registry"`
}

// KillCommand terminates agent sessions.
func KillCommand() *cli.Command {
	var params killParams

	return &cli.Command{
		Name:    "kill",
		Summary: "Terminate agent sessions",
		Description: `Terminate one session by name, or all of them with --all.

Killing a session that does not exist is not an error: the command
warns and exits 0, since the desired state (no session) already holds.
Stale socket files are cleaned up along the way.`,
		Usage: "pimux kill (-n <name> | -a)",
		Examples: []cli.Example{
			{
				Description: "Stop one session",
				Command:     "pimux kill -n reviewer",
			},
			{
				Description: "Stop everything",
				Command:     "pimux kill --all",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("kill", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runKill(params)
		},
	}
}

func runKill(params killParams) error {
	if params.Name == "" && !params.All {
		return cli.Validation("one of -n/--name or -a/--all is required")
	}
	if params.Name != "" && params.All {
		return cli.Validation("-n/--name and -a/--all are mutually exclusive")
	}

	reg, _, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	if params.All {
		count := reg.KillAll()
		fmt.Printf("killed %d session(s)\n", count)
		return nil
	}

	killed, err := reg.Kill(params.Name)
	if err != nil {
		if errors.Is(err, registry.ErrInvalidName) {
			return cli.Validation("%w", err)
		}
		return cli.Internal("killing session: %w", err)
	}
	if !killed {
		fmt.Fprintf(os.Stderr, "warning: no live session %q\n", params.Name)
		return nil
	}

	fmt.Printf("killed %s\n", params.Name)
	return nil
}
