// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package arena provides a typed pool of GPU objects addressed by
// generational handles.
//
// A [Handle] is a small value (slot index and generation) that refers to a
// value stored in an [Arena] without owning it. When a slot is reclaimed its
// generation is bumped, so every handle created before the reclamation stops
// resolving: [Arena.Access] returns nil for it instead of another object.
//
// Reclamation is deferred. Dropping the last reference or calling
// [Arena.Destroy] only places the slot in a pending bin; the slot is freed
// by [Arena.Clean], which the renderer calls once the GPU work that might
// still use the object has retired.
//
//	images := arena.New[Image](arena.WithReclaim(func(img *Image) {
//	    device.DestroyTexture(img.Texture)
//	}))
//	h := images.Create(img)
//	if p := images.Access(h); p != nil {
//	    // use *p
//	}
//	h.Release()    // last reference: slot becomes pending
//	images.Clean() // after the frame retires: texture destroyed
package arena
