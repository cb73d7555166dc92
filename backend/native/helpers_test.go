// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// openNoop opens a device on the noop HAL backend with a resource
// manager on top.
func openNoop(t *testing.T) (*Device, *resource.Manager) {
	t.Helper()
	p, err := OpenHeadless(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenHeadless: %v", err)
	}
	dev, err := NewDevice(p)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	mgr, err := resource.NewManager(dev)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		mgr.Close()
		dev.Close()
		if err := p.Close(); err != nil {
			t.Errorf("Provider.Close: %v", err)
		}
	})
	return dev, mgr
}

func image(t *testing.T, mgr *resource.Manager, name string, w, h uint32, f gputypes.TextureFormat) resource.ImageHandle {
	t.Helper()
	hnd, err := mgr.CreateImage(resource.NewImageCreation(name).
		SetSize(w, h).
		SetFormat(f).
		SetUsage(gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding))
	if err != nil {
		t.Fatalf("CreateImage(%s): %v", name, err)
	}
	return hnd
}

// spyEncoder records the barrier batches and render passes sent to a
// noop command encoder.
type spyEncoder struct {
	hal.CommandEncoder

	textures [][]hal.TextureBarrier
	buffers  [][]hal.BufferBarrier
	passes   []*spyPass
}

func newSpyEncoder(t *testing.T, dev *Device) *spyEncoder {
	t.Helper()
	enc, err := dev.BeginFrame("spy")
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	return &spyEncoder{CommandEncoder: enc}
}

func (e *spyEncoder) TransitionTextures(b []hal.TextureBarrier) {
	e.textures = append(e.textures, b)
	e.CommandEncoder.TransitionTextures(b)
}

func (e *spyEncoder) TransitionBuffers(b []hal.BufferBarrier) {
	e.buffers = append(e.buffers, b)
	e.CommandEncoder.TransitionBuffers(b)
}

func (e *spyEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &spyPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: *desc}
	e.passes = append(e.passes, p)
	return p
}

type spyPass struct {
	hal.RenderPassEncoder

	desc     hal.RenderPassDescriptor
	viewport []float32
	scissor  []uint32
	draws    int
	ended    bool
}

func (p *spyPass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.viewport = []float32{x, y, w, h, minDepth, maxDepth}
}

func (p *spyPass) SetScissorRect(x, y, w, h uint32) {
	p.scissor = []uint32{x, y, w, h}
}

func (p *spyPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.draws++
}

func (p *spyPass) End() { p.ended = true }

// attach returns a pass that clears its color and depth attachments.
func attach(color, depth resource.ImageHandle) framegraph.Pass {
	return &ClearPass{Colors: []resource.ImageHandle{color}, Depth: depth}
}
