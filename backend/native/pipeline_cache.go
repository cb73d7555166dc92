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

// ErrNilShader is returned when a pipeline is requested without a shader.
var ErrNilShader = errors.New("native: shader module is nil")

// RenderPipelineDescriptor describes a single-module render pipeline.
//
// This is a minimal descriptor focused on what the built-in passes need.
// It hashes by shader source, bind group entries and target formats.
type RenderPipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Shader holds both entry points.
	Shader ShaderModule

	// VertexEntryPoint defaults to "vs_main".
	VertexEntryPoint string

	// FragmentEntryPoint defaults to "fs_main".
	FragmentEntryPoint string

	// Groups describes bind group i of the pipeline layout.
	Groups [][]gputypes.BindGroupLayoutEntry

	// ColorFormat is the format of the single color target.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the depth attachment format, or
	// TextureFormatUndefined for no depth attachment.
	DepthFormat gputypes.TextureFormat
}

func (d *RenderPipelineDescriptor) entryPoints() (vertex, fragment string) {
	vertex, fragment = d.VertexEntryPoint, d.FragmentEntryPoint
	if vertex == "" {
		vertex = "vs_main"
	}
	if fragment == "" {
		fragment = "fs_main"
	}
	return vertex, fragment
}

func (d *RenderPipelineDescriptor) hash() uint64 {
	h := newHash()
	hashWriteUint64(h, d.Shader.Hash)
	vertex, fragment := d.entryPoints()
	hashWriteString(h, vertex)
	hashWriteString(h, fragment)
	//nolint:gosec // G115: bind group count is bounded by GPU limits (4)
	hashWriteUint32(h, uint32(len(d.Groups)))
	for _, g := range d.Groups {
		hashWriteUint64(h, hashLayoutEntries(g))
	}
	hashWriteUint32(h, uint32(d.ColorFormat))
	hashWriteUint32(h, uint32(d.DepthFormat))
	return h.Sum64()
}

// PipelineCache caches render pipelines by descriptor hash.
//
// Thread Safety:
// PipelineCache is safe for concurrent use. It uses RWMutex with
// double-check locking for efficient reads and safe writes.
type PipelineCache struct {
	device  hal.Device
	layouts *LayoutCache

	mu     sync.RWMutex
	render map[uint64]hal.RenderPipeline

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPipelineCache creates an empty cache. Pipeline layouts come from
// layouts.
func NewPipelineCache(device hal.Device, layouts *LayoutCache) *PipelineCache {
	return &PipelineCache{
		device:  device,
		layouts: layouts,
		render:  make(map[uint64]hal.RenderPipeline),
	}
}

// RenderPipeline returns a cached pipeline or creates a new one.
func (c *PipelineCache) RenderPipeline(desc *RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if desc.Shader.Module == nil {
		return nil, ErrNilShader
	}
	key := desc.hash()

	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.render[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.render[key]; ok {
		c.hits.Add(1)
		return p, nil
	}

	layout, err := c.layouts.PipelineLayout(desc.Groups...)
	if err != nil {
		return nil, err
	}
	vertex, fragment := desc.entryPoints()
	halDesc := &hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     desc.Shader.Module,
			EntryPoint: vertex,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     desc.Shader.Module,
			EntryPoint: fragment,
			Targets: []gputypes.ColorTargetState{{
				Format:    desc.ColorFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
	if desc.DepthFormat != gputypes.TextureFormatUndefined {
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:       desc.DepthFormat,
			DepthCompare: gputypes.CompareFunctionAlways,
		}
	}

	p, err := c.device.CreateRenderPipeline(halDesc)
	if err != nil {
		return nil, fmt.Errorf("native: create render pipeline %s: %w", desc.Label, err)
	}
	c.render[key] = p
	c.misses.Add(1)
	return p, nil
}

// Stats returns cache hits and misses.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of cached pipelines.
func (c *PipelineCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.render)
}

// Destroy destroys all cached pipelines and clears the cache.
func (c *PipelineCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.render {
		c.device.DestroyRenderPipeline(p)
	}
	c.render = make(map[uint64]hal.RenderPipeline)
	c.hits.Store(0)
	c.misses.Store(0)
}
