// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// stubBinary creates an executable file and returns its path.
func stubBinary(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing stub binary: %v", err)
	}
	return path
}

func TestCommand(t *testing.T) {
	binary := stubBinary(t, "pi")

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "bare invocation",
			opts: Options{Binary: binary},
			want: []string{binary},
		},
		{
			name: "all flags",
			opts: Options{
				Binary:    binary,
				Provider:  "openai",
				Model:     "gpt-5",
				Thinking:  "high",
				Tools:     []string{"read", "bash", "edit"},
				NoSession: true,
				Prompt:    "review the open PRs",
			},
			want: []string{
				binary,
				"--provider", "openai",
				"--model", "gpt-5",
				"--thinking", "high",
				"--tools", "read,bash,edit",
				"--no-session",
				"review the open PRs",
			},
		},
		{
			name: "prompt is a single trailing element",
			opts: Options{
				Binary: binary,
				Prompt: "fix this: $(echo hi); it's \"quoted\"",
			},
			want: []string{binary, "fix this: $(echo hi); it's \"quoted\""},
		},
		{
			name: "single tool",
			opts: Options{Binary: binary, Tools: []string{"read"}},
			want: []string{binary, "--tools", "read"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Command(tt.opts)
			if err != nil {
				t.Fatalf("Command: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := Command(Options{Binary: "definitely-not-installed"}); err == nil {
		t.Fatal("Command succeeded with a binary that does not exist")
	}
}

func TestCommandDefaultBinaryFromPath(t *testing.T) {
	dir := filepath.Dir(stubBinary(t, "pi"))
	t.Setenv("PATH", dir)

	argv, err := Command(Options{})
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if want := filepath.Join(dir, "pi"); argv[0] != want {
		t.Errorf("argv[0] = %q, want %q", argv[0], want)
	}
}
