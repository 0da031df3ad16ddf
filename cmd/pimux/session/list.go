// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/pimux/pimux/cmd/pimux/cli"
)

type listParams struct {
	configFlag
	cli.JSONOutput
}

// listEntry is a single row in the list output.
type listEntry struct {
	Name    string `json:"name"`
	Session string `json:"session"`
	Socket  string `json:"socket"`
}

// ListCommand enumerates live agent sessions.
func ListCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List live agent sessions",
		Description: `List every live session in the socket directory.

Socket files whose tmux server has exited are skipped silently; a
missing socket directory means no sessions. Both cases exit 0.`,
		Usage: "pimux list [--json]",
		Examples: []cli.Example{
			{
				Description: "Machine-readable listing for scripts",
				Command:     "pimux list --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runList(params)
		},
	}
}

func runList(params listParams) error {
	reg, _, err := params.configFlag.newRegistry()
	if err != nil {
		return err
	}

	handles, err := reg.List()
	if err != nil {
		return cli.Internal("listing sessions: %w", err)
	}

	entries := make([]listEntry, len(handles))
	for i, handle := range handles {
		entries[i] = listEntry{
			Name:    handle.Name,
			Session: handle.SessionName,
			Socket:  handle.SocketPath,
		}
	}

	if done, err := params.EmitJSON(entries); done {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSESSION\tSOCKET")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Name, entry.Session, entry.Socket)
	}
	return tw.Flush()
}
