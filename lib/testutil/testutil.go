// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pimux packages.
package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// WaitFor polls cond until it reports true, failing the test with msg
// if that does not happen within timeout. Condition changes observed
// through tmux (session exit, pane output) land asynchronously, so
// tests poll with a bounded deadline rather than a fixed sleep.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// SocketDir creates a temporary directory suitable for Unix domain sockets.
//
// Unix domain sockets have a 108-byte path limit (sun_path in sockaddr_un).
// Build systems and CI runners set TMPDIR to deeply nested paths that can
// exceed this limit, making t.TempDir() unsuitable for socket files. This
// function creates a short-named directory directly in /tmp.
//
// The directory is automatically removed when the test completes.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "pimux-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(directory)
	})
	return directory
}

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this instead of time.Now() when
// tests need session names or payloads that must be distinguishable
// across parallel test runs on a shared tmux server.
//
//	name := testutil.UniqueID("sess") // "sess-1", "sess-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
