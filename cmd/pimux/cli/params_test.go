// Copyright 2026 The Pimux Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestBindFlags(t *testing.T) {
	type params struct {
		Name     string        `flag:"name,n" desc:"session name"`
		All      bool          `flag:"all,a" desc:"all sessions"`
		Lines    int           `flag:"lines" desc:"line cap" default:"200"`
		Wait     time.Duration `flag:"wait" desc:"startup wait" default:"2s"`
		Tools    []string      `flag:"tools" desc:"capability list"`
		Untagged string
	}

	var p params
	flagSet := FlagsFromParams("test", &p)

	args := []string{
		"-n", "reviewer",
		"--all",
		"--lines", "50",
		"--wait", "300ms",
		"--tools", "read,bash",
	}
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "reviewer" {
		t.Errorf("Name = %q, want reviewer", p.Name)
	}
	if !p.All {
		t.Error("All = false, want true")
	}
	if p.Lines != 50 {
		t.Errorf("Lines = %d, want 50", p.Lines)
	}
	if p.Wait != 300*time.Millisecond {
		t.Errorf("Wait = %v, want 300ms", p.Wait)
	}
	if !reflect.DeepEqual(p.Tools, []string{"read", "bash"}) {
		t.Errorf("Tools = %v, want [read bash]", p.Tools)
	}
}

func TestBindFlagsDefaults(t *testing.T) {
	type params struct {
		Lines int           `flag:"lines" default:"200"`
		Wait  time.Duration `flag:"wait" default:"2s"`
		Model string        `flag:"model" default:"gpt-5"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Lines != 200 {
		t.Errorf("Lines default = %d, want 200", p.Lines)
	}
	if p.Wait != 2*time.Second {
		t.Errorf("Wait default = %v, want 2s", p.Wait)
	}
	if p.Model != "gpt-5" {
		t.Errorf("Model default = %q, want gpt-5", p.Model)
	}
}

func TestBindFlagsEmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Name string `flag:"name,n"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--json", "-n", "x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !p.OutputJSON {
		t.Error("embedded --json flag not bound")
	}
	if p.Name != "x" {
		t.Errorf("Name = %q, want x", p.Name)
	}
}

func TestBindFlagsRejectsNonPointer(t *testing.T) {
	type params struct{}

	flagSet := FlagsFromParams("outer", &struct{}{})
	if err := BindFlags(params{}, flagSet); err == nil {
		t.Fatal("BindFlags accepted a non-pointer")
	}
}

func TestBindFlagsRejectsUnsupportedType(t *testing.T) {
	type params struct {
		Bad map[string]string `flag:"bad"`
	}

	defer func() {
		if recover() == nil {
			t.Fatal("FlagsFromParams did not panic on an unsupported field type")
		}
	}()
	var p params
	FlagsFromParams("test", &p)
}
