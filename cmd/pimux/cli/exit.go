// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os/exec"
)

// ExitError carries a non-zero exit code from a child process the
// command handed the terminal to. main exits with the code without
// printing an extra "error:" line — the child has already written
// its own diagnostic to the inherited stderr.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this interface on
// returned errors to distinguish "handled non-zero exit" from
// "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ChildExit converts an error wrapping a child process exit status
// into an ExitError carrying that status. ok reports whether err
// held one; other errors (including launch failures, which never
// ran the child) are left for the caller to report.
func ChildExit(err error) (error, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}, true
	}
	return nil, false
}
