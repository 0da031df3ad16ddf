// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package tmux

import "strings"

// ShellJoin joins command arguments into a single shell command string,
// quoting each argument that contains shell metacharacters. The result
// reconstructs the original argv when parsed by sh: an argument
// containing spaces, quotes, or expansion characters arrives as one
// word with its contents intact.
//
// This exists because tmux new-session takes a shell command string,
// not an argument vector. Passing untrusted text (a user prompt, a
// model name) through that boundary without quoting would let the shell
// evaluate it.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// shellQuote single-quotes a string when it contains any character that
// the shell could interpret, escaping internal single quotes. Strings
// made entirely of safe characters pass through unquoted so the joined
// command stays readable in list-sessions output.
func shellQuote(s string) string {
	safe := true
	for _, char := range s {
		if !isShellSafe(char) {
			safe = false
			break
		}
	}
	if safe && s != "" {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// isShellSafe returns true if the character doesn't need shell quoting.
func isShellSafe(char rune) bool {
	if char >= 'a' && char <= 'z' {
		return true
	}
	if char >= 'A' && char <= 'Z' {
		return true
	}
	if char >= '0' && char <= '9' {
		return true
	}
	switch char {
	case '-', '_', '.', '/', ':', '=', '+', ',', '@':
		return true
	}
	return false
}
