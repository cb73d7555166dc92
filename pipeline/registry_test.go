// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"slices"
	"testing"

	"github.com/gogpu/framegraph"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.Kinds(); !slices.Equal(got, []string{"noop"}) {
		t.Errorf("Kinds = %v, want [noop]", got)
	}

	f := func(*PassConfig) (framegraph.Pass, error) { return nil, nil }
	r.Register("blur", f)
	r.Register("alpha", f)
	if got := r.Kinds(); !slices.Equal(got, []string{"alpha", "blur", "noop"}) {
		t.Errorf("Kinds = %v", got)
	}
	if _, ok := r.Lookup("blur"); !ok {
		t.Error("Lookup(blur) failed")
	}

	r.Unregister("blur")
	if _, ok := r.Lookup("blur"); ok {
		t.Error("Lookup(blur) succeeded after Unregister")
	}

	noop, _ := r.Lookup("noop")
	pass, err := noop(&PassConfig{Name: "n"})
	if err != nil || pass == nil {
		t.Fatalf("noop factory = %v, %v", pass, err)
	}
	pass.RecordCommands(nil, 0, nil)
}

func TestDecodeParamsWithoutBody(t *testing.T) {
	var v struct {
		X int `hcl:"x,optional"`
	}
	if err := (&PassConfig{}).DecodeParams(&v); err != nil {
		t.Errorf("DecodeParams = %v", err)
	}
}
