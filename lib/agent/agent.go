// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent builds the command line for the pi coding agent. The
// command is kept as an argument vector until the last possible moment:
// the registry hands it to tmux, which is the only place any quoting
// happens. Nothing in this package concatenates user input into a
// shell string.
package agent

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the agent executable looked up on PATH when the
// configuration doesn't name one.
const DefaultBinary = "pi"

// Options selects how the agent process is started. A zero value is
// valid and produces a bare invocation of the default binary.
type Options struct {
	// Binary is the agent executable. Empty means DefaultBinary,
	// resolved on PATH.
	Binary string

	// Provider selects the model provider (--provider).
	Provider string

	// Model selects the model (--model).
	Model string

	// Thinking sets the reasoning effort level (--thinking).
	Thinking string

	// Tools is the capability list, joined with commas into --tools.
	Tools []string

	// NoSession disables the agent's own session persistence
	// (--no-session).
	NoSession bool

	// Prompt is the initial instruction, passed as the trailing
	// positional argument. May contain anything: it travels as one
	// argv element.
	Prompt string
}

// Command resolves the agent binary and returns the full argument
// vector for it. The binary must exist on PATH (or be an explicit
// path); resolution failures surface here so the caller can report
// them before any tmux session is created.
func Command(opts Options) ([]string, error) {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("agent binary %q not found: %w", binary, err)
	}

	argv := []string{resolved}
	if opts.Provider != "" {
		argv = append(argv, "--provider", opts.Provider)
	}
	if opts.Model != "" {
		argv = append(argv, "--model", opts.Model)
	}
	if opts.Thinking != "" {
		argv = append(argv, "--thinking", opts.Thinking)
	}
	if len(opts.Tools) > 0 {
		argv = append(argv, "--tools", strings.Join(opts.Tools, ","))
	}
	if opts.NoSession {
		argv = append(argv, "--no-session")
	}
	if opts.Prompt != "" {
		argv = append(argv, opts.Prompt)
	}
	return argv, nil
}
