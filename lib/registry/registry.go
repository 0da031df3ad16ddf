// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry manages the directory of per-session tmux control
// sockets that addresses background agent sessions. Each session runs
// on its own dedicated tmux server, identified by a socket file named
// "<prefix>-<name>.sock" inside the registry directory. The socket
// file is the only persistent record of a session: a session exists if
// its socket has a live tmux session behind it, and a socket file
// without one is stale.
//
// The registry performs no locking of its own. Distinct names own
// disjoint socket paths by construction, so concurrent operations on
// different sessions never interact. Concurrent operations on the same
// name race at the tmux level and the loser observes whatever error
// tmux reports.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pimux/pimux/lib/tmux"
)

// Sentinel errors for callers that need to branch on the failure mode
// (the CLI maps these to specific exit codes and messages).
var (
	// ErrInvalidName reports a session name that cannot form a handle.
	ErrInvalidName = errors.New("invalid session name")

	// ErrSessionExists reports a spawn against a name that already has
	// a live session.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound reports an operation against a name with no
	// live session.
	ErrSessionNotFound = errors.New("session not found")
)

// DefaultPrefix is the session naming prefix: socket files are named
// "<prefix>-<name>.sock" and tmux sessions "<prefix>-<name>".
const DefaultPrefix = "pi"

// DefaultStartupWait is how long Spawn pauses after creating a session,
// giving the agent process time to start before the caller sends input.
const DefaultStartupWait = 2 * time.Second

// Registry is a directory of per-session tmux control sockets. The
// zero value is not usable; construct with New.
type Registry struct {
	// SocketDir is the directory holding the socket files. Created on
	// first spawn; a missing directory means no sessions, not an error.
	SocketDir string

	// Prefix is the naming prefix for sockets and tmux sessions.
	Prefix string

	// StartupWait is the pause after session creation in Spawn.
	// Zero means no pause (tests use this).
	StartupWait time.Duration

	// Logger receives per-entry status during KillAll and stale-socket
	// cleanup notices.
	Logger *slog.Logger
}

// New returns a registry over the given socket directory with the
// default prefix and startup wait. Adjust fields before first use to
// override.
func New(socketDir string) *Registry {
	return &Registry{
		SocketDir:   socketDir,
		Prefix:      DefaultPrefix,
		StartupWait: DefaultStartupWait,
		Logger:      slog.Default(),
	}
}

// server returns the tmux server for a handle. Config is always
// /dev/null: agent sessions must not load the user's ~/.tmux.conf.
func (r *Registry) server(handle Handle) *tmux.Server {
	return tmux.NewServer(handle.SocketPath, "/dev/null")
}

// isLive reports whether the handle has a live tmux session: the
// socket file exists and tmux confirms the session on it. A socket
// file whose server has exited (stale socket) is not live.
func (r *Registry) isLive(handle Handle) bool {
	if _, err := os.Stat(handle.SocketPath); err != nil {
		return false
	}
	return r.server(handle).HasSession(handle.SessionName)
}

// Spawn starts a detached session named after the handle, running the
// given command in workdir (empty workdir inherits the current
// directory). Returns ErrSessionExists if the name already has a live
// session; a stale socket file left by a dead session is removed and
// does not block the spawn.
//
// The socket directory is created if absent. After the session starts,
// Spawn sleeps for StartupWait so the process inside has a moment to
// initialize before the caller follows up with Send.
func (r *Registry) Spawn(name, workdir string, command []string) (Handle, error) {
	handle, err := r.Handle(name)
	if err != nil {
		return Handle{}, err
	}

	if err := os.MkdirAll(r.SocketDir, 0o700); err != nil {
		return Handle{}, fmt.Errorf("creating socket directory: %w", err)
	}

	if _, err := os.Stat(handle.SocketPath); err == nil {
		if r.server(handle).HasSession(handle.SessionName) {
			return Handle{}, fmt.Errorf("%w: %q (socket %s)",
				ErrSessionExists, name, handle.SocketPath)
		}
		// Stale socket: the server behind it is gone. Remove it so
		// tmux can bind a fresh one.
		r.Logger.Debug("removing stale socket", "socket", handle.SocketPath)
		if err := os.Remove(handle.SocketPath); err != nil && !os.IsNotExist(err) {
			return Handle{}, fmt.Errorf("removing stale socket: %w", err)
		}
	}

	if err := r.server(handle).NewSession(handle.SessionName, workdir, command...); err != nil {
		return Handle{}, err
	}

	time.Sleep(r.StartupWait)
	return handle, nil
}

// Send delivers text to the session's input, followed by a single
// Enter keystroke. The text arrives verbatim: it is never interpreted
// by a shell or as tmux key names, so payloads like "$(echo hi)" or
// "; rm -rf /" land as literal characters. Returns ErrSessionNotFound
// if the name has no live session; nothing is mutated in that case.
func (r *Registry) Send(name, text string) error {
	handle, err := r.Handle(name)
	if err != nil {
		return err
	}
	if !r.isLive(handle) {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return r.server(handle).SendText(handle.SessionName, text)
}

// List returns a handle for every live session in the registry, sorted
// by the directory's name order. Stale sockets are silently excluded.
// A missing socket directory means no sessions and returns an empty
// list, not an error.
func (r *Registry) List() ([]Handle, error) {
	entries, err := os.ReadDir(r.SocketDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading socket directory: %w", err)
	}

	var handles []Handle
	for _, entry := range entries {
		handle, ok := r.handleFromSocket(entry.Name())
		if !ok {
			continue
		}
		if !r.isLive(handle) {
			continue
		}
		handles = append(handles, handle)
	}
	return handles, nil
}

// Kill terminates the named session and removes its socket file.
// Returns killed=true if a live session was terminated. A name with no
// live session is not an error: killed=false, nil — killing something
// already gone is idempotent. A stale socket file is removed either way.
func (r *Registry) Kill(name string) (killed bool, err error) {
	handle, err := r.Handle(name)
	if err != nil {
		return false, err
	}

	live := r.isLive(handle)
	if live {
		// KillServer rather than kill-session: each socket hosts
		// exactly one session, and stopping the server releases the
		// socket file cleanly.
		if err := r.server(handle).KillServer(); err != nil {
			return false, err
		}
	}

	if err := os.Remove(handle.SocketPath); err != nil && !os.IsNotExist(err) {
		return live, fmt.Errorf("removing socket: %w", err)
	}
	return live, nil
}

// KillAll terminates every live session in the registry and removes
// all registry socket files, stale ones included. Returns the number
// of sessions actually terminated. Per-entry failures are logged and
// skipped, never returned: a sweep must not stop at the first broken
// entry. A missing socket directory reports zero.
func (r *Registry) KillAll() int {
	entries, err := os.ReadDir(r.SocketDir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.Logger.Warn("reading socket directory", "error", err)
		}
		return 0
	}

	killed := 0
	for _, entry := range entries {
		handle, ok := r.handleFromSocket(entry.Name())
		if !ok {
			continue
		}
		if r.isLive(handle) {
			if err := r.server(handle).KillServer(); err != nil {
				r.Logger.Warn("killing session", "session", handle.Name, "error", err)
				continue
			}
			killed++
			r.Logger.Info("killed session", "session", handle.Name)
		} else {
			r.Logger.Debug("removing stale socket", "socket", handle.SocketPath)
		}
		if err := os.Remove(handle.SocketPath); err != nil && !os.IsNotExist(err) {
			r.Logger.Warn("removing socket", "socket", handle.SocketPath, "error", err)
		}
	}
	return killed
}

// Capture returns the named session's pane content, scrollback
// included. maxLines caps the output to the last N lines; 0 means no
// cap. Returns ErrSessionNotFound if the name has no live session.
func (r *Registry) Capture(name string, maxLines int) (string, error) {
	handle, err := r.Handle(name)
	if err != nil {
		return "", err
	}
	if !r.isLive(handle) {
		return "", fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return r.server(handle).CapturePane(handle.SessionName, maxLines)
}

// Attach connects the calling terminal to the named session, blocking
// until the user detaches or the session ends. Returns
// ErrSessionNotFound if the name has no live session.
func (r *Registry) Attach(name string) error {
	handle, err := r.Handle(name)
	if err != nil {
		return err
	}
	if !r.isLive(handle) {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}

	cmd := r.server(handle).Command("attach-session", "-t", handle.SessionName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux attach-session %q: %w", handle.SessionName, err)
	}
	return nil
}
