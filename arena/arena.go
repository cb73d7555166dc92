// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package arena

import (
	"sync"
	"weak"

	"github.com/gogpu/framegraph/internal/logging"
)

// slot holds one pooled value. Slots are heap allocated and never moved,
// so pointers returned by Access stay valid until the slot is reclaimed.
type slot[T any] struct {
	value      T
	occupied   bool
	pending    bool
	generation uint32
	refs       int32
}

// Arena is a pool of values of type T addressed by generational handles.
//
// Arena is safe for concurrent use. Access and IsValid take a read lock,
// everything that changes the slot table takes the write lock.
type Arena[T any] struct {
	mu    sync.RWMutex
	slots []*slot[T]
	free  []uint32 // reusable slot indices, most recently freed last
	bin   []uint32 // slots waiting for Clean
	live  int

	reclaim func(*T)
}

// Option configures an Arena.
type Option[T any] func(*Arena[T])

// WithReclaim sets a function called by Clean for every value before its
// slot is freed. It is the hook through which GPU objects are destroyed.
// The function runs without the arena lock held.
func WithReclaim[T any](fn func(*T)) Option[T] {
	return func(a *Arena[T]) {
		a.reclaim = fn
	}
}

// New creates an empty arena.
func New[T any](opts ...Option[T]) *Arena[T] {
	a := &Arena[T]{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create stores v and returns a handle to it with a reference count of one.
// The most recently freed slot is reused first.
func (a *Arena[T]) Create(v T) Handle[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots)) //nolint:gosec // slot count bounded by memory
		a.slots = append(a.slots, &slot[T]{generation: 1})
	}

	s := a.slots[idx]
	s.value = v
	s.occupied = true
	s.pending = false
	s.refs = 1
	a.live++

	return Handle[T]{owner: weak.Make(a), index: idx, generation: s.generation}
}

// lookup returns the slot h refers to, or nil if h is null, stale or from
// another arena. The caller must hold a.mu.
func (a *Arena[T]) lookup(h Handle[T]) *slot[T] {
	if h.generation == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	if h.owner.Value() != a {
		return nil
	}
	s := a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return s
}

// Access returns a pointer to the value h refers to, or nil when h is null
// or stale. The pointer stays valid until the slot is reclaimed by Clean.
func (a *Arena[T]) Access(h Handle[T]) *T {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if s := a.lookup(h); s != nil {
		return &s.value
	}
	return nil
}

// IsValid reports whether h currently resolves to a value.
func (a *Arena[T]) IsValid(h Handle[T]) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lookup(h) != nil
}

// Destroy schedules the slot h refers to for reclamation, regardless of
// its reference count. The value stays accessible until the next Clean,
// after which every handle to the slot is stale. Destroy on a stale or
// already pending handle does nothing.
func (a *Arena[T]) Destroy(h Handle[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s := a.lookup(h); s != nil {
		a.enqueue(h.index, s)
	}
}

// enqueue puts a slot in the pending bin once. The caller must hold a.mu.
func (a *Arena[T]) enqueue(idx uint32, s *slot[T]) {
	if s.pending {
		return
	}
	s.pending = true
	a.bin = append(a.bin, idx)
}

// IncrementReferenceCount adds a reference to the slot h refers to.
// Stale handles are ignored.
//
// A slot already queued for reclamation cannot be revived: the reference
// is refused and logged, and it panics in builds with the fgdebug tag.
// The slot is still reclaimed by the next Clean.
func (a *Arena[T]) IncrementReferenceCount(h Handle[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.lookup(h)
	if s == nil {
		return
	}
	if s.pending {
		logging.Logger().Warn("arena: reference on pending slot", "handle", h.String())
		assertf(false, "arena: reference on pending slot %s", h)
		return
	}
	s.refs++
}

// DecrementReferenceCount drops a reference to the slot h refers to. When
// the count reaches zero the slot is queued for reclamation by Clean.
//
// Dropping a reference that was never taken is a caller bug. It is ignored
// and logged, and it panics in builds with the fgdebug tag.
func (a *Arena[T]) DecrementReferenceCount(h Handle[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.lookup(h)
	if s == nil {
		return
	}
	if s.refs <= 0 {
		logging.Logger().Warn("arena: reference count underflow", "handle", h.String())
		assertf(false, "arena: reference count underflow on %s", h)
		return
	}
	s.refs--
	if s.refs == 0 {
		a.enqueue(h.index, s)
	}
}

// RefCount returns the reference count of the slot h refers to, or 0 if h
// is stale.
func (a *Arena[T]) RefCount(h Handle[T]) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if s := a.lookup(h); s != nil {
		return int(s.refs)
	}
	return 0
}

// Clean reclaims every pending slot: the reclaim function runs on its
// value, the generation is bumped so outstanding handles go stale, and the
// index becomes available to Create. It returns the number of slots freed.
//
// Clean must only be called once the GPU work that may reference pending
// values has completed.
func (a *Arena[T]) Clean() int {
	a.mu.Lock()
	bin := a.bin
	a.bin = nil

	var values []T
	if a.reclaim != nil {
		values = make([]T, 0, len(bin))
	}
	for _, idx := range bin {
		s := a.slots[idx]
		if a.reclaim != nil {
			values = append(values, s.value)
		}
		var zero T
		s.value = zero
		s.occupied = false
		s.pending = false
		s.refs = 0
		s.generation++
		if s.generation == 0 {
			s.generation = 1
		}
		a.free = append(a.free, idx)
		a.live--
	}
	a.mu.Unlock()

	for i := range values {
		a.reclaim(&values[i])
	}
	if len(bin) > 0 {
		logging.Logger().Debug("arena: reclaimed slots", "count", len(bin))
	}
	return len(bin)
}

// Len returns the number of occupied slots, pending ones included.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Pending returns the number of slots waiting for Clean.
func (a *Arena[T]) Pending() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.bin)
}

// Handles returns a handle for every occupied slot in index order. The
// returned handles do not carry a reference.
func (a *Arena[T]) Handles() []Handle[T] {
	a.mu.RLock()
	defer a.mu.RUnlock()

	owner := weak.Make(a)
	out := make([]Handle[T], 0, a.live)
	for i, s := range a.slots {
		if s.occupied {
			out = append(out, Handle[T]{owner: owner, index: uint32(i), generation: s.generation}) //nolint:gosec // bounded by slot count
		}
	}
	return out
}
