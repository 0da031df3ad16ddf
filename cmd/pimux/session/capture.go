// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/registry"
)

type captureParams struct {
	configFlag
	Name  string `flag:"name,n" desc:"session name (required)"`
	Lines int    `flag:"lines" desc:"limit output to the last N lines (0 = everything)"`
}

// CaptureCommand prints a session's pane content.
func CaptureCommand() *cli.Command {
	var params captureParams

	return &cli.Command{
		Name:    "capture",
		Summary: "Print a session's terminal output",
		Description: `Print the session's pane content, scrollback included, without
attaching. Useful for checking on an agent from scripts or another
agent.`,
		Usage: "pimux capture -n <name> [--lines N]",
		Examples: []cli.Example{
			{
				Description: "Last 50 lines of a session",
				Command:     "pimux capture -n reviewer --lines 50",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("capture", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runCapture(params)
		},
	}
}

func runCapture(params captureParams) error {
	if params.Name == "" {
		return cli.Validation("a session name is required (-n/--name)")
	}

	reg, _, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	output, err := reg.Capture(params.Name, params.Lines)
	if err != nil {
		if errors.Is(err, registry.ErrSessionNotFound) {
			return cli.NotFound("%w", err)
		}
		if errors.Is(err, registry.ErrInvalidName) {
			return cli.Validation("%w", err)
		}
		return cli.Internal("capturing pane: %w", err)
	}

	fmt.Print(output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Println()
	}
	return nil
}
