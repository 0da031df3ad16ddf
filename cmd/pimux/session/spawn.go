// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
	"github.com/pimux/pimux/lib/agent"
	"github.com/pimux/pimux/lib/registry"
)

type spawnParams struct {
	configFlag
	Name      string   `flag:"name,n" desc:"session name (required)"`
	Model     string   `flag:"model,m" desc:"model for the agent"`
	Provider  string   `flag:"provider" desc:"model provider"`
	Prompt    string   `flag:"prompt,p" desc:"initial instruction for the agent"`
	Thinking  string   `flag:"thinking,t" desc:"reasoning effort level"`
	Tools     []string `flag:"tools" desc:"capability list (comma-separated)"`
	NoSession bool     `flag:"no-session" desc:"disable the agent's session persistence"`
	Dir       string   `flag:"dir,d" desc:"working directory for the session"`
}

// SpawnCommand starts a new detached agent session.
func SpawnCommand() *cli.Command {
	var params spawnParams

	return &cli.Command{
		Name:    "spawn",
		Summary: "Start a new background agent session",
		Description: `Start a pi agent in a new detached tmux session.

The session gets its own tmux server on a dedicated control socket,
addressed by name. Spawning a name that already has a live session
fails; the existing session is untouched.`,
		Usage: "pimux spawn -n <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Start a reviewer with an initial instruction",
				Command:     `pimux spawn -n reviewer -p "review the open PRs"`,
			},
			{
				Description: "Pick a model and restrict tools",
				Command:     "pimux spawn -n writer -m gpt-5 --tools read,edit",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("spawn", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runSpawn(params)
		},
	}
}

func runSpawn(params spawnParams) error {
	if params.Name == "" {
		return cli.Validation("a session name is required (-n/--name)")
	}

	reg, cfg, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	opts := agent.Options{
		Binary:    cfg.Agent.Binary,
		Provider:  cfg.Agent.Provider,
		Model:     cfg.Agent.Model,
		Thinking:  cfg.Agent.Thinking,
		Tools:     cfg.Agent.Tools,
		NoSession: params.NoSession,
		Prompt:    params.Prompt,
	}
	if params.Provider != "" {
		opts.Provider = params.Provider
	}
	if params.Model != "" {
		opts.Model = params.Model
	}
	if params.Thinking != "" {
		opts.Thinking = params.Thinking
	}
	if len(params.Tools) > 0 {
		opts.Tools = params.Tools
	}

	command, err := agent.Command(opts)
	if err != nil {
		return cli.Validation("%w", err)
	}

	handle, err := reg.Spawn(params.Name, params.Dir, command)
	if err != nil {
		if errors.Is(err, registry.ErrSessionExists) {
			return cli.Conflict("%w", err)
		}
		if errors.Is(err, registry.ErrInvalidName) {
			return cli.Validation("%w", err)
		}
		return cli.Internal("spawning session: %w", err)
	}

	fmt.Printf("spawned %s (socket %s)\n", handle.Name, handle.SocketPath)
	return nil
}
