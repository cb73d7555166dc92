// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package arena

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"
)

type texture struct {
	name  string
	width int
}

func TestCreateAccess(t *testing.T) {
	a := New[texture]()
	h := a.Create(texture{name: "albedo", width: 256})

	if h.IsNull() {
		t.Fatal("Create returned a null handle")
	}
	p := a.Access(h)
	if p == nil {
		t.Fatal("Access returned nil for a fresh handle")
	}
	if p.name != "albedo" || p.width != 256 {
		t.Errorf("Access = %+v, want albedo/256", *p)
	}
	if got := a.RefCount(h); got != 1 {
		t.Errorf("RefCount = %d, want 1", got)
	}
	if got := a.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestAccessNullHandle(t *testing.T) {
	a := New[texture]()
	var h Handle[texture]
	if !h.IsNull() {
		t.Fatal("zero handle should be null")
	}
	if a.Access(h) != nil {
		t.Error("Access(null) should return nil")
	}
	if a.IsValid(h) {
		t.Error("IsValid(null) should be false")
	}
	a.Destroy(h)
	a.DecrementReferenceCount(h)
	if got := a.Pending(); got != 0 {
		t.Errorf("Pending = %d, want 0", got)
	}
}

func TestAccessForeignHandle(t *testing.T) {
	a := New[texture]()
	b := New[texture]()
	ha := a.Create(texture{name: "a"})
	b.Create(texture{name: "b"})

	if b.Access(ha) != nil {
		t.Error("handle from another arena must not resolve")
	}
}

func TestDestroyDeferredUntilClean(t *testing.T) {
	var reclaimed []string
	a := New(WithReclaim(func(v *texture) { reclaimed = append(reclaimed, v.name) }))
	h := a.Create(texture{name: "shadow"})

	a.Destroy(h)
	if a.Access(h) == nil {
		t.Fatal("value must stay accessible until Clean")
	}
	if len(reclaimed) != 0 {
		t.Fatalf("reclaim ran before Clean: %v", reclaimed)
	}
	if got := a.Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}

	a.Destroy(h) // second destroy is ignored
	if got := a.Clean(); got != 1 {
		t.Errorf("Clean = %d, want 1", got)
	}
	if a.Access(h) != nil {
		t.Error("Access after Clean should return nil")
	}
	if len(reclaimed) != 1 || reclaimed[0] != "shadow" {
		t.Errorf("reclaimed = %v, want [shadow]", reclaimed)
	}
	if got := a.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	a := New[texture]()
	old := a.Create(texture{name: "old"})
	a.Destroy(old)
	a.Clean()

	fresh := a.Create(texture{name: "fresh"})
	if fresh.Index() != old.Index() {
		t.Errorf("Index = %d, want reused %d", fresh.Index(), old.Index())
	}
	if fresh.Generation() == old.Generation() {
		t.Errorf("Generation = %d, want different from %d", fresh.Generation(), old.Generation())
	}
	if a.Access(old) != nil {
		t.Error("old handle must not resolve to the new value")
	}
	if p := a.Access(fresh); p == nil || p.name != "fresh" {
		t.Errorf("Access(fresh) = %v, want fresh", p)
	}
}

func TestFreeListIsLIFO(t *testing.T) {
	a := New[texture]()
	h0 := a.Create(texture{})
	h1 := a.Create(texture{})
	a.Destroy(h0)
	a.Destroy(h1)
	a.Clean()

	if got := a.Create(texture{}).Index(); got != h1.Index() {
		t.Errorf("first reuse Index = %d, want %d", got, h1.Index())
	}
	if got := a.Create(texture{}).Index(); got != h0.Index() {
		t.Errorf("second reuse Index = %d, want %d", got, h0.Index())
	}
}

func TestGenerationSkipsZeroOnWrap(t *testing.T) {
	a := New[texture]()
	h := a.Create(texture{})
	a.slots[h.Index()].generation = math.MaxUint32
	h.generation = math.MaxUint32

	a.Destroy(h)
	a.Clean()
	next := a.Create(texture{})
	if next.Generation() != 1 {
		t.Errorf("Generation after wrap = %d, want 1", next.Generation())
	}
	if next.IsNull() {
		t.Error("handle after wrap must not be null")
	}
}

func TestCloneRelease(t *testing.T) {
	tests := []struct {
		name     string
		clones   int
		released int // copies released, original included
		wantLive bool
	}{
		{"no clones release original", 0, 1, false},
		{"three clones release all", 3, 4, false},
		{"three clones release two", 3, 2, true},
		{"five clones release five", 5, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reclaims := 0
			a := New(WithReclaim(func(*texture) { reclaims++ }))
			h := a.Create(texture{name: "hdr"})

			copies := []Handle[texture]{h}
			for range tt.clones {
				copies = append(copies, h.Clone())
			}
			if got := a.RefCount(h); got != tt.clones+1 {
				t.Fatalf("RefCount = %d, want %d", got, tt.clones+1)
			}
			for i := 0; i < tt.released; i++ {
				copies[i].Release()
				if !copies[i].IsNull() {
					t.Fatal("Release should null the handle")
				}
			}
			a.Clean()

			if got := a.IsValid(h); got != tt.wantLive {
				t.Errorf("IsValid = %v, want %v", got, tt.wantLive)
			}
			wantReclaims := 1
			if tt.wantLive {
				wantReclaims = 0
			}
			if reclaims != wantReclaims {
				t.Errorf("reclaims = %d, want %d", reclaims, wantReclaims)
			}
		})
	}
}

func TestZeroCrossingQueuesOnce(t *testing.T) {
	a := New[texture]()
	h := a.Create(texture{})
	c := h.Clone()

	a.Destroy(h)
	c.Release()
	h.Release()
	if got := a.Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}
	if got := a.Clean(); got != 1 {
		t.Errorf("Clean = %d, want 1", got)
	}
}

func TestStaleHandleIsInert(t *testing.T) {
	a := New[texture]()
	h := a.Create(texture{})
	stale := h
	h.Release()
	a.Clean()

	replacement := a.Create(texture{name: "replacement"})
	stale.Clone()
	a.DecrementReferenceCount(stale)
	a.Destroy(stale)

	if got := a.RefCount(replacement); got != 1 {
		t.Errorf("RefCount(replacement) = %d, want 1", got)
	}
	if got := a.Pending(); got != 0 {
		t.Errorf("Pending = %d, want 0", got)
	}
}

func TestHandles(t *testing.T) {
	a := New[texture]()
	h0 := a.Create(texture{name: "a"})
	h1 := a.Create(texture{name: "b"})
	h2 := a.Create(texture{name: "c"})
	a.Destroy(h1)
	a.Clean()

	got := a.Handles()
	if len(got) != 2 {
		t.Fatalf("len(Handles) = %d, want 2", len(got))
	}
	if !got[0].Same(h0) || !got[1].Same(h2) {
		t.Errorf("Handles = %v, want [%v %v]", got, h0, h2)
	}
}

func TestHandleString(t *testing.T) {
	var null Handle[texture]
	if got := null.String(); got != "null" {
		t.Errorf("String = %q, want null", got)
	}
	a := New[texture]()
	h := a.Create(texture{})
	if got := h.String(); got != "#0@1" {
		t.Errorf("String = %q, want #0@1", got)
	}
}

// TestRandomInterleavings checks the arena against a simple model: a
// handle resolves from Create until the Clean that follows its Destroy.
func TestRandomInterleavings(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a := New[int]()

	type tracked struct {
		h         Handle[int]
		value     int
		destroyed bool
		cleaned   bool
	}
	var all []*tracked

	for step := 0; step < 2000; step++ {
		switch op := rng.IntN(10); {
		case op < 4:
			v := step
			all = append(all, &tracked{h: a.Create(v), value: v})
		case op < 8 && len(all) > 0:
			tr := all[rng.IntN(len(all))]
			a.Destroy(tr.h)
			if !tr.cleaned {
				tr.destroyed = true
			}
		default:
			a.Clean()
			for _, tr := range all {
				if tr.destroyed {
					tr.cleaned = true
				}
			}
		}

		for _, tr := range all {
			p := a.Access(tr.h)
			if tr.cleaned {
				if p != nil {
					t.Fatalf("step %d: cleaned handle %v resolved to %d", step, tr.h, *p)
				}
				continue
			}
			if p == nil || *p != tr.value {
				t.Fatalf("step %d: live handle %v resolved to %v, want %d", step, tr.h, p, tr.value)
			}
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	a := New[int]()
	handles := make([]Handle[int], 64)
	for i := range handles {
		handles[i] = a.Create(i)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, h := range handles {
				if p := a.Access(h); p == nil || *p != i {
					t.Errorf("Access(%v) = %v, want %d", h, p, i)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h := a.Create(-1)
			a.Destroy(h)
			a.Clean()
		}
	}()
	wg.Wait()
}
