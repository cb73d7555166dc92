// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package arena

import (
	"fmt"
	"weak"
)

// Handle refers to a value stored in an Arena. The zero Handle is null.
//
// A Handle holds only a weak reference to its arena, so handles kept after
// the arena is gone behave as stale. Copying a Handle with plain assignment
// does not take a reference; use Clone and Release for counted copies.
type Handle[T any] struct {
	owner      weak.Pointer[Arena[T]]
	index      uint32
	generation uint32
}

// IsNull reports whether h is the zero handle.
func (h Handle[T]) IsNull() bool { return h.generation == 0 }

// Index returns the slot index.
func (h Handle[T]) Index() uint32 { return h.index }

// Generation returns the slot generation h was created with.
func (h Handle[T]) Generation() uint32 { return h.generation }

// Arena returns the owning arena, or nil if h is null or the arena has
// been garbage collected.
func (h Handle[T]) Arena() *Arena[T] { return h.owner.Value() }

// Clone returns a copy of h that carries its own reference.
func (h Handle[T]) Clone() Handle[T] {
	if a := h.owner.Value(); a != nil {
		a.IncrementReferenceCount(h)
	}
	return h
}

// Release drops the reference carried by h and resets h to null.
// Releasing a null handle does nothing.
func (h *Handle[T]) Release() {
	if h.IsNull() {
		return
	}
	if a := h.owner.Value(); a != nil {
		a.DecrementReferenceCount(*h)
	}
	*h = Handle[T]{}
}

// Same reports whether h and o refer to the same slot generation.
func (h Handle[T]) Same(o Handle[T]) bool {
	return h.owner == o.owner && h.index == o.index && h.generation == o.generation
}

func (h Handle[T]) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("#%d@%d", h.index, h.generation)
}
