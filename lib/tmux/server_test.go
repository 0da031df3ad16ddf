// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package tmux_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pimux/pimux/lib/testutil"
	"github.com/pimux/pimux/lib/tmux"
)

const waitTimeout = 10 * time.Second

// waitPaneDead blocks until the session's pane reports pane_dead,
// meaning its command exited while remain-on-exit keeps the pane.
func waitPaneDead(t *testing.T, server *tmux.Server, session string) {
	t.Helper()
	testutil.WaitFor(t, waitTimeout, func() bool {
		output, err := server.Run("list-panes", "-t", session, "-F", "#{pane_dead}")
		if err != nil {
			t.Fatalf("list-panes: %v", err)
		}
		return strings.TrimSpace(output) == "1"
	}, "timed out waiting for pane to become dead")
}

func TestNewSession(t *testing.T) {
	server := tmux.NewTestServer(t)

	if err := server.NewSession("test-session", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if !server.HasSession("test-session") {
		t.Fatal("HasSession returned false for a session that was just created")
	}
}

func TestNewSessionWithCommand(t *testing.T) {
	server := tmux.NewTestServer(t)

	// Run a command that exits immediately. The session should disappear
	// after the command completes.
	if err := server.NewSession("ephemeral", "", "true"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Wait for tmux to notice the command exited.
	testutil.WaitFor(t, waitTimeout, func() bool {
		return !server.HasSession("ephemeral")
	}, "session still exists after command exited")
}

func TestNewSessionWorkdir(t *testing.T) {
	server := tmux.NewTestServer(t)

	workdir := t.TempDir()
	if err := server.NewSession("wd-test", workdir, "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	output, err := server.Run("display-message", "-t", "wd-test", "-p", "#{pane_current_path}")
	if err != nil {
		t.Fatalf("display-message: %v", err)
	}
	got := strings.TrimSpace(output)
	// macOS reports /private/tmp for /tmp; compare by suffix.
	if !strings.HasSuffix(got, workdir) {
		t.Fatalf("pane_current_path = %q, want suffix %q", got, workdir)
	}
}

func TestNewSessionQuotesCommandWords(t *testing.T) {
	server := tmux.NewTestServer(t)

	// An argument full of shell metacharacters must arrive as a single
	// argv word, not be evaluated. If quoting were broken, the shell
	// would run the command substitution and echo would print an empty
	// string (or worse).
	marker := filepath.Join(t.TempDir(), "marker")
	if err := server.NewSession("quoting", "",
		"sh", "-c", "echo \"$1\" > "+marker, "argv0",
		"$(touch /tmp/pimux-pwned); it's; all | literal"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	var content []byte
	testutil.WaitFor(t, waitTimeout, func() bool {
		b, err := os.ReadFile(marker)
		if err != nil || len(b) == 0 {
			return false
		}
		content = b
		return true
	}, "timed out waiting for marker file")

	if got := strings.TrimSpace(string(content)); got != "$(touch /tmp/pimux-pwned); it's; all | literal" {
		t.Fatalf("argument arrived as %q", got)
	}
}

func TestHasSessionReturnsFalseForMissing(t *testing.T) {
	server := tmux.NewTestServer(t)

	if server.HasSession("nonexistent") {
		t.Fatal("HasSession returned true for a session that does not exist")
	}
}

func TestKillSession(t *testing.T) {
	server := tmux.NewTestServer(t)

	if err := server.NewSession("doomed", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if !server.HasSession("doomed") {
		t.Fatal("session not created")
	}

	if err := server.KillSession("doomed"); err != nil {
		t.Fatalf("KillSession: %v", err)
	}
	if server.HasSession("doomed") {
		t.Fatal("session still exists after KillSession")
	}
}

func TestKillSessionBenignWhenMissing(t *testing.T) {
	server := tmux.NewTestServer(t)

	// Killing a nonexistent session should not return an error.
	if err := server.KillSession("never-existed"); err != nil {
		t.Fatalf("KillSession on missing session returned error: %v", err)
	}
}

func TestKillServer(t *testing.T) {
	server := tmux.NewTestServer(t)

	if err := server.NewSession("session-a", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession a: %v", err)
	}
	if err := server.NewSession("session-b", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession b: %v", err)
	}

	if err := server.KillServer(); err != nil {
		t.Fatalf("KillServer: %v", err)
	}

	if server.HasSession("session-a") || server.HasSession("session-b") || server.HasSession("_guard") {
		t.Fatal("sessions still exist after KillServer")
	}
}

func TestKillServerBenignWhenStopped(t *testing.T) {
	server := tmux.NewTestServer(t)
	// Kill once to stop the server.
	server.KillServer()

	// Kill again — should not error.
	if err := server.KillServer(); err != nil {
		t.Fatalf("KillServer on stopped server returned error: %v", err)
	}
}

func TestSendText(t *testing.T) {
	server := tmux.NewTestServer(t)

	outFile := filepath.Join(t.TempDir(), "out")
	if err := server.NewSession("send-test", "", "sh", "-c",
		"read line; printf '%s' \"$line\" > "+outFile+"; sleep infinity"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Text containing tmux key names and shell metacharacters must
	// arrive verbatim: -l disables key-name lookup, and nothing on the
	// send path passes through a shell.
	payload := "Enter C-c $(reboot) 'quoted; text'"
	if err := server.SendText("send-test", payload); err != nil {
		t.Fatalf("SendText: %v", err)
	}

	var content []byte
	testutil.WaitFor(t, waitTimeout, func() bool {
		b, err := os.ReadFile(outFile)
		if err != nil || len(b) == 0 {
			return false
		}
		content = b
		return true
	}, "timed out waiting for session to read the line")

	if got := string(content); got != payload {
		t.Fatalf("session received %q, want %q", got, payload)
	}
}

func TestSendTextMissingSession(t *testing.T) {
	server := tmux.NewTestServer(t)

	if err := server.SendText("nonexistent", "hello"); err == nil {
		t.Fatal("SendText to a missing session succeeded")
	}
}

func TestSendKey(t *testing.T) {
	server := tmux.NewTestServer(t)

	outFile := filepath.Join(t.TempDir(), "out")
	if err := server.NewSession("key-test", "", "sh", "-c",
		"trap 'echo interrupted > "+outFile+"; exit' INT; sleep infinity & wait"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := server.SendKey("key-test", "C-c"); err != nil {
		t.Fatalf("SendKey: %v", err)
	}

	testutil.WaitFor(t, waitTimeout, func() bool {
		content, err := os.ReadFile(outFile)
		return err == nil && strings.Contains(string(content), "interrupted")
	}, "timed out waiting for SIGINT handler to fire")
}

func TestRun(t *testing.T) {
	server := tmux.NewTestServer(t)

	if err := server.NewSession("run-test", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	output, err := server.Run("list-windows", "-t", "run-test", "-F", "#{window_name}")
	if err != nil {
		t.Fatalf("Run list-windows: %v", err)
	}
	if strings.TrimSpace(output) == "" {
		t.Fatal("list-windows returned empty output")
	}
}

func TestSocketPath(t *testing.T) {
	socketPath := "/tmp/test-tmux.sock"
	server := tmux.NewServer(socketPath, "/dev/null")

	if got := server.SocketPath(); got != socketPath {
		t.Fatalf("SocketPath() = %q, want %q", got, socketPath)
	}
}

func TestNewTestServerIsolation(t *testing.T) {
	serverA := tmux.NewTestServer(t)
	serverB := tmux.NewTestServer(t)

	if err := serverA.NewSession("only-on-a", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession on A: %v", err)
	}

	if serverB.HasSession("only-on-a") {
		t.Fatal("server B can see a session from server A — servers are not isolated")
	}
}

func TestCapturePane(t *testing.T) {
	server := tmux.NewTestServer(t)

	// Enable remain-on-exit so the pane stays alive after the command exits.
	if _, err := server.Run("set-option", "-g", "remain-on-exit", "on"); err != nil {
		t.Fatalf("set-option remain-on-exit: %v", err)
	}

	// Run a command that prints known output and exits.
	if err := server.NewSession("capture-test", "", "sh", "-c", "echo 'hello from agent'; echo 'error: something broke' >&2"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Wait for the pane to become dead (command exited, but session persists).
	waitPaneDead(t, server, "capture-test")

	// Session should still exist (remain-on-exit).
	if !server.HasSession("capture-test") {
		t.Fatal("session disappeared despite remain-on-exit")
	}

	captured, err := server.CapturePane("capture-test", 0)
	if err != nil {
		t.Fatalf("CapturePane: %v", err)
	}

	if !strings.Contains(captured, "hello from agent") {
		t.Errorf("captured output missing stdout content, got: %q", captured)
	}
	if !strings.Contains(captured, "error: something broke") {
		t.Errorf("captured output missing stderr content, got: %q", captured)
	}
}

func TestCapturePaneWithMaxLines(t *testing.T) {
	server := tmux.NewTestServer(t)

	if _, err := server.Run("set-option", "-g", "remain-on-exit", "on"); err != nil {
		t.Fatalf("set-option remain-on-exit: %v", err)
	}

	// Print 10 numbered lines.
	if err := server.NewSession("capture-limit", "", "sh", "-c",
		"for i in 1 2 3 4 5 6 7 8 9 10; do echo \"line $i\"; done"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Wait for pane to become dead.
	waitPaneDead(t, server, "capture-limit")

	captured, err := server.CapturePane("capture-limit", 3)
	if err != nil {
		t.Fatalf("CapturePane: %v", err)
	}

	lines := strings.Split(strings.TrimRight(captured, "\n"), "\n")
	if len(lines) > 3 {
		t.Errorf("expected at most 3 lines, got %d: %v", len(lines), lines)
	}
}

func TestConfigIsolation(t *testing.T) {
	// Create a custom tmux.conf that sets a distinctive option.
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "tmux.conf")
	if err := os.WriteFile(configPath, []byte("set-option -g history-limit 99999\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Server with custom config — should have history-limit 99999.
	socketA := filepath.Join(testutil.SocketDir(t), "a.sock")
	serverA := tmux.NewServer(socketA, configPath)
	if err := serverA.NewSession("_guard", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession on A: %v", err)
	}
	t.Cleanup(func() { serverA.KillServer() })

	outputA, err := serverA.Run("show-option", "-gv", "history-limit")
	if err != nil {
		t.Fatalf("show-option on A: %v", err)
	}
	if got := strings.TrimSpace(outputA); got != "99999" {
		t.Fatalf("server A history-limit = %q, want 99999 (custom config not loaded)", got)
	}

	// Server with /dev/null config — should have the tmux default (2000).
	socketB := filepath.Join(testutil.SocketDir(t), "b.sock")
	serverB := tmux.NewServer(socketB, "/dev/null")
	if err := serverB.NewSession("_guard", "", "sleep", "infinity"); err != nil {
		t.Fatalf("NewSession on B: %v", err)
	}
	t.Cleanup(func() { serverB.KillServer() })

	outputB, err := serverB.Run("show-option", "-gv", "history-limit")
	if err != nil {
		t.Fatalf("show-option on B: %v", err)
	}
	if got := strings.TrimSpace(outputB); got == "99999" {
		t.Fatal("server B has history-limit 99999 — /dev/null config did not prevent custom config loading")
	}
}
