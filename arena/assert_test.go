// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !fgdebug

package arena

import "testing"

func TestUnderflowIsIgnored(t *testing.T) {
	a := New[texture]()
	h := a.Create(texture{})
	a.DecrementReferenceCount(h)
	a.DecrementReferenceCount(h) // underflow

	if got := a.RefCount(h); got != 0 {
		t.Errorf("RefCount = %d, want 0", got)
	}
	if got := a.Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}
}

func TestIncrementOnPendingIsRefused(t *testing.T) {
	reclaimed := 0
	a := New(WithReclaim(func(*texture) { reclaimed++ }))
	h := a.Create(texture{})
	a.DecrementReferenceCount(h)
	a.IncrementReferenceCount(h) // revive after the slot was queued

	if got := a.RefCount(h); got != 0 {
		t.Errorf("RefCount = %d, want 0", got)
	}
	if got := a.Clean(); got != 1 {
		t.Errorf("Clean = %d, want 1", got)
	}
	if reclaimed != 1 {
		t.Errorf("reclaimed = %d, want 1", reclaimed)
	}
	if a.IsValid(h) {
		t.Error("handle still valid after Clean")
	}

	// A destroyed slot with live references is refused the same way.
	d := a.Create(texture{})
	a.Destroy(d)
	c := d.Clone()
	if got := a.RefCount(d); got != 1 {
		t.Errorf("RefCount after Clone of destroyed slot = %d, want 1", got)
	}
	a.Clean()
	if a.Access(c) != nil {
		t.Error("clone of destroyed slot survives Clean")
	}
}
