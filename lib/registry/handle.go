// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Handle addresses one agent session. It is derived from the session
// name by string formatting alone — no lookup table is persisted
// anywhere, so a handle can always be reconstructed from the name and
// the registry's configuration.
type Handle struct {
	// Name is the user-chosen session identifier, e.g. "reviewer".
	Name string

	// SessionName is the tmux session name, "<prefix>-<name>".
	SessionName string

	// SocketPath is the tmux control socket for this session,
	// "<socket_dir>/<prefix>-<name>.sock".
	SocketPath string
}

// maxSocketPath is the size of sun_path in sockaddr_un on Linux,
// including the terminating NUL. tmux silently truncates longer paths,
// which would make the handle unaddressable.
const maxSocketPath = 108

// Handle derives the session handle for a name. Returns an error
// wrapping ErrInvalidName if the name is empty, contains characters
// outside [A-Za-z0-9._-], or produces a socket path too long for a
// Unix socket address.
func (r *Registry) Handle(name string) (Handle, error) {
	if name == "" {
		return Handle{}, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	for _, char := range name {
		if !isNameChar(char) {
			return Handle{}, fmt.Errorf("%w: %q contains %q (allowed: letters, digits, '.', '_', '-')",
				ErrInvalidName, name, char)
		}
	}

	sessionName := r.Prefix + "-" + name
	socketPath := filepath.Join(r.SocketDir, sessionName+".sock")
	if len(socketPath) >= maxSocketPath {
		return Handle{}, fmt.Errorf("%w: socket path %q exceeds the %d-byte Unix socket limit",
			ErrInvalidName, socketPath, maxSocketPath)
	}

	return Handle{
		Name:        name,
		SessionName: sessionName,
		SocketPath:  socketPath,
	}, nil
}

func isNameChar(char rune) bool {
	if char >= 'a' && char <= 'z' {
		return true
	}
	if char >= 'A' && char <= 'Z' {
		return true
	}
	if char >= '0' && char <= '9' {
		return true
	}
	return char == '.' || char == '_' || char == '-'
}

// handleFromSocket reconstructs a handle from a socket filename inside
// the registry directory. Returns false if the filename does not match
// the "<prefix>-<name>.sock" convention.
func (r *Registry) handleFromSocket(filename string) (Handle, bool) {
	trimmed, found := strings.CutPrefix(filename, r.Prefix+"-")
	if !found {
		return Handle{}, false
	}
	name, found := strings.CutSuffix(trimmed, ".sock")
	if !found || name == "" {
		return Handle{}, false
	}
	handle, err := r.Handle(name)
	if err != nil {
		return Handle{}, false
	}
	return handle, true
}
