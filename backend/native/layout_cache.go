// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrEmptyLayout is returned when a layout is requested without entries.
var ErrEmptyLayout = errors.New("native: bind group layout has no entries")

// LayoutCache deduplicates bind group layouts and pipeline layouts.
//
// Layouts are keyed by a structural hash of their entries, so two passes
// describing the same bindings share one HAL object. The cache is owned by
// the Device and handed to passes explicitly.
//
// Thread Safety:
// LayoutCache is safe for concurrent use. It uses RWMutex with
// double-check locking for efficient reads and safe writes.
type LayoutCache struct {
	device hal.Device

	mu        sync.RWMutex
	groups    map[uint64]hal.BindGroupLayout
	pipelines map[uint64]hal.PipelineLayout

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewLayoutCache creates an empty cache creating layouts on device.
func NewLayoutCache(device hal.Device) *LayoutCache {
	return &LayoutCache{
		device:    device,
		groups:    make(map[uint64]hal.BindGroupLayout),
		pipelines: make(map[uint64]hal.PipelineLayout),
	}
}

// BindGroupLayout returns the cached layout for entries, creating it on
// first use.
func (c *LayoutCache) BindGroupLayout(entries []gputypes.BindGroupLayoutEntry) (hal.BindGroupLayout, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyLayout
	}
	key := hashLayoutEntries(entries)

	// Fast path: read lock
	c.mu.RLock()
	if layout, ok := c.groups[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return layout, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupLayoutLocked(key, entries)
}

func (c *LayoutCache) bindGroupLayoutLocked(key uint64, entries []gputypes.BindGroupLayoutEntry) (hal.BindGroupLayout, error) {
	if layout, ok := c.groups[key]; ok {
		c.hits.Add(1)
		return layout, nil
	}
	layout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   fmt.Sprintf("layout-%016x", key),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create bind group layout: %w", err)
	}
	c.groups[key] = layout
	c.misses.Add(1)
	return layout, nil
}

// PipelineLayout returns the cached pipeline layout whose bind group i is
// described by groups[i].
func (c *LayoutCache) PipelineLayout(groups ...[]gputypes.BindGroupLayoutEntry) (hal.PipelineLayout, error) {
	keys := make([]uint64, len(groups))
	h := newHash()
	for i, entries := range groups {
		if len(entries) == 0 {
			return nil, ErrEmptyLayout
		}
		keys[i] = hashLayoutEntries(entries)
		hashWriteUint64(h, keys[i])
	}
	key := h.Sum64()

	c.mu.RLock()
	if layout, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return layout, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if layout, ok := c.pipelines[key]; ok {
		c.hits.Add(1)
		return layout, nil
	}

	bgls := make([]hal.BindGroupLayout, len(groups))
	for i, entries := range groups {
		bgl, err := c.bindGroupLayoutLocked(keys[i], entries)
		if err != nil {
			return nil, err
		}
		bgls[i] = bgl
	}
	layout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            fmt.Sprintf("pipeline-layout-%016x", key),
		BindGroupLayouts: bgls,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create pipeline layout: %w", err)
	}
	c.pipelines[key] = layout
	c.misses.Add(1)
	return layout, nil
}

// Stats returns cache hits and misses.
func (c *LayoutCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of cached bind group and pipeline layouts.
func (c *LayoutCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.groups) + len(c.pipelines)
}

// Destroy destroys every cached layout and empties the cache.
// Pipeline layouts are destroyed before the bind group layouts they use.
func (c *LayoutCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, layout := range c.pipelines {
		c.device.DestroyPipelineLayout(layout)
	}
	for _, layout := range c.groups {
		c.device.DestroyBindGroupLayout(layout)
	}
	c.groups = make(map[uint64]hal.BindGroupLayout)
	c.pipelines = make(map[uint64]hal.PipelineLayout)
	c.hits.Store(0)
	c.misses.Store(0)
}
