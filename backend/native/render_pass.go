// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ColorTarget is a color attachment of a render pass.
type ColorTarget struct {
	Image resource.ImageHandle

	// Load defaults to LoadOpLoad.
	Load  gputypes.LoadOp
	Clear gputypes.Color
}

// DepthTarget is the depth attachment of a render pass.
type DepthTarget struct {
	Image resource.ImageHandle

	// Load defaults to LoadOpLoad.
	Load     gputypes.LoadOp
	Clear    float32
	ReadOnly bool
}

// RenderPassState represents the state of a render pass.
type RenderPassState int

const (
	// RenderPassStateRecording means the pass is actively recording commands.
	RenderPassStateRecording RenderPassState = iota

	// RenderPassStateEnded means the pass has been ended.
	RenderPassStateEnded
)

// String returns the string representation of RenderPassState.
func (s RenderPassState) String() string {
	switch s {
	case RenderPassStateRecording:
		return "Recording"
	case RenderPassStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// RenderPass records draw commands inside one render pass.
//
// RenderPass is NOT safe for concurrent use. The pass must be ended with
// End before the recorder can begin another one.
//
// State Machine:
//
//	Recording -> End() -> Ended
type RenderPass struct {
	enc   hal.RenderPassEncoder
	rec   *Recorder
	label string
	state RenderPassState
}

// Label returns the label the pass was begun with.
func (p *RenderPass) Label() string { return p.label }

// State returns the current pass state.
func (p *RenderPass) State() RenderPassState { return p.state }

// Encoder returns the underlying HAL encoder for commands RenderPass does
// not wrap.
func (p *RenderPass) Encoder() hal.RenderPassEncoder { return p.enc }

// SetPipeline binds a render pipeline for subsequent draw calls.
func (p *RenderPass) SetPipeline(pipeline hal.RenderPipeline) error {
	if p.state != RenderPassStateRecording {
		return fmt.Errorf("set pipeline: %w", ErrPassEnded)
	}
	if pipeline == nil {
		return ErrNilPipeline
	}
	p.enc.SetPipeline(pipeline)
	return nil
}

// SetBindGroup binds a bind group at index 0 to 3.
func (p *RenderPass) SetBindGroup(index uint32, group hal.BindGroup, dynamicOffsets []uint32) error {
	if p.state != RenderPassStateRecording {
		return fmt.Errorf("set bind group: %w", ErrPassEnded)
	}
	if index > 3 {
		return ErrBindGroupIndexOutOfRange
	}
	if group == nil {
		return ErrNilBindGroup
	}
	p.enc.SetBindGroup(index, group, dynamicOffsets)
	return nil
}

// Draw draws primitives.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if p.state != RenderPassStateRecording {
		return fmt.Errorf("draw: %w", ErrPassEnded)
	}
	p.enc.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// End completes the pass.
func (p *RenderPass) End() error {
	if p.state != RenderPassStateRecording {
		return ErrPassEnded
	}
	p.enc.End()
	p.state = RenderPassStateEnded
	if p.rec != nil && p.rec.pass == p {
		p.rec.pass = nil
	}
	return nil
}

func loadOp(op gputypes.LoadOp) gputypes.LoadOp {
	if op == gputypes.LoadOpUndefined {
		return gputypes.LoadOpLoad
	}
	return op
}
