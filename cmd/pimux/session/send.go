// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/registry"
)

type sendParams struct {
	configFlag
	Name   string `flag:"name,n" desc:"session name (required)"`
	Prompt string `flag:"prompt,p" desc:"text to deliver (required)"`
}

// SendCommand delivers text to a running agent session.
func SendCommand() *cli.Command {
	var params sendParams

	return &cli.Command{
		Name:    "send",
		Summary: "Send text to a running agent session",
		Description: `Type text into a session's input, followed by Enter.

The text is delivered literally: shell metacharacters, quotes, and
tmux key names all arrive as plain characters. Nothing in the payload
is ever evaluated.`,
		Usage: "pimux send -n <name> -p <text>",
		Examples: []cli.Example{
			{
				Description: "Follow up on an earlier instruction",
				Command:     `pimux send -n reviewer -p "also check the migration scripts"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("send", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runSend(params)
		},
	}
}

func runSend(params sendParams) error {
	if params.Name == "" {
		return cli.Validation("a session name is required (-n/--name)")
	}
	if params.Prompt == "" {
		return cli.Validation("a prompt is required (-p/--prompt)")
	}

	reg, _, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	if err := reg.Send(params.Name, params.Prompt); err != nil {
		if errors.Is(err, registry.ErrSessionNotFound) {
			return cli.NotFound("%w", err)
		}
		if errors.Is(err, registry.ErrInvalidName) {
			return cli.Validation("%w", err)
		}
		return cli.Internal("sending to session: %w", err)
	}

	fmt.Printf("sent to %s\n", params.Name)
	return nil
}
