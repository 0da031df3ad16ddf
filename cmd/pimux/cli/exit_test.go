// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestChildExit(t *testing.T) {
	t.Parallel()

	err := exec.Command("sh", "-c", "exit 3").Run()
	if err == nil {
		t.Fatal("expected sh to exit non-zero")
	}
	wrapped := fmt.Errorf("tmux attach-session %q: %w", "pi-demo", err)

	exit, ok := ChildExit(wrapped)
	if !ok {
		t.Fatalf("ChildExit(%v) ok = false, want true", wrapped)
	}
	var exitErr *ExitError
	if !errors.As(exit, &exitErr) {
		t.Fatalf("ChildExit returned %T, want *ExitError", exit)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", exitErr.ExitCode())
	}
}

func TestChildExitIgnoresOtherErrors(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		errors.New("plain failure"),
		exec.Command("/nonexistent-binary-for-test").Run(),
	} {
		if _, ok := ChildExit(err); ok {
			t.Errorf("ChildExit(%v) ok = true, want false", err)
		}
	}
}

func TestExitErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ExitError{Code: 2}
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", err.ExitCode())
	}
}
