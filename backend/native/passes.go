// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/fullscreen.wgsl
var fullscreenWGSL string

// FullscreenShader is the default FullscreenPass shader: a fullscreen
// triangle sampling binding 0 with the sampler at binding 1.
var FullscreenShader = fullscreenWGSL

// fullscreenLayout is bind group 0 of every fullscreen pipeline.
var fullscreenLayout = []gputypes.BindGroupLayoutEntry{
	{
		Binding:    0,
		Visibility: gputypes.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	},
	{
		Binding:    1,
		Visibility: gputypes.ShaderStageFragment,
		Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
	},
}

func recorderOf(target framegraph.CommandTarget) (*Recorder, bool) {
	r, ok := target.(*Recorder)
	if !ok {
		logging.Logger().Error("native: built-in pass needs a native recorder",
			"target", fmt.Sprintf("%T", target))
	}
	return r, ok
}

// ClearPass clears its attachments.
type ClearPass struct {
	Colors []resource.ImageHandle
	Depth  resource.ImageHandle

	Color      gputypes.Color
	DepthValue float32
}

// RecordCommands begins and ends a render pass that clears every
// attachment.
func (p *ClearPass) RecordCommands(target framegraph.CommandTarget, _ uint32, _ any) {
	r, ok := recorderOf(target)
	if !ok {
		return
	}
	colors := make([]ColorTarget, len(p.Colors))
	for i, h := range p.Colors {
		colors[i] = ColorTarget{Image: h, Load: gputypes.LoadOpClear, Clear: p.Color}
	}
	var depth *DepthTarget
	if !p.Depth.IsNull() {
		depth = &DepthTarget{Image: p.Depth, Load: gputypes.LoadOpClear, Clear: p.DepthValue}
	}
	pass, err := r.BeginRenderPass(colors, depth)
	if err != nil {
		r.Fail(fmt.Errorf("clear: %w", err))
		return
	}
	if err := pass.End(); err != nil {
		r.Fail(fmt.Errorf("clear: %w", err))
	}
}

// FullscreenPass draws a fullscreen triangle into Target sampling Source.
// Blits, tonemapping and other per-pixel passes are FullscreenPasses with
// their own Shader.
type FullscreenPass struct {
	Source resource.ImageHandle
	Target resource.ImageHandle

	// Shader is WGSL with vs_main and fs_main entry points and the
	// FullscreenShader bindings.
	Shader string

	device *Device

	sampler   hal.Sampler
	group     hal.BindGroup
	groupView hal.TextureView
}

// NewFullscreenPass returns a pass drawing with the default shader.
func NewFullscreenPass(device *Device, source, target resource.ImageHandle) *FullscreenPass {
	return &FullscreenPass{
		Source: source,
		Target: target,
		Shader: FullscreenShader,
		device: device,
	}
}

// RecordCommands draws the pass. The pipeline comes from the device's
// pipeline cache. The bind group is recreated when the source view changes.
func (p *FullscreenPass) RecordCommands(target framegraph.CommandTarget, _ uint32, _ any) {
	r, ok := recorderOf(target)
	if !ok {
		return
	}
	if err := p.record(r); err != nil {
		r.Fail(fmt.Errorf("fullscreen: %w", err))
	}
}

func (p *FullscreenPass) record(r *Recorder) error {
	mgr := r.Manager()
	src := mgr.ImageOrFallback(p.Source)
	dst := mgr.Image(p.Target)
	if src == nil || dst == nil {
		return framegraph.ErrStaleResource
	}

	shader, err := p.device.Shaders().Module("fullscreen", p.Shader)
	if err != nil {
		return err
	}
	pipeline, err := p.device.Pipelines().RenderPipeline(&RenderPipelineDescriptor{
		Label:       "fullscreen",
		Shader:      shader,
		Groups:      [][]gputypes.BindGroupLayoutEntry{fullscreenLayout},
		ColorFormat: dst.Format,
	})
	if err != nil {
		return err
	}
	group, err := p.bindGroup(src.View)
	if err != nil {
		return err
	}

	pass, err := r.BeginRenderPass([]ColorTarget{{Image: p.Target, Load: gputypes.LoadOpClear}}, nil)
	if err != nil {
		return err
	}
	if err := pass.SetPipeline(pipeline); err != nil {
		_ = pass.End()
		return err
	}
	if err := pass.SetBindGroup(0, group, nil); err != nil {
		_ = pass.End()
		return err
	}
	if err := pass.Draw(3, 1, 0, 0); err != nil {
		_ = pass.End()
		return err
	}
	return pass.End()
}

func (p *FullscreenPass) bindGroup(view hal.TextureView) (hal.BindGroup, error) {
	if p.group != nil && p.groupView == view {
		return p.group, nil
	}
	dev := p.device.HAL()
	if p.sampler == nil {
		sampler, err := dev.CreateSampler(&hal.SamplerDescriptor{
			Label:        "fullscreen",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
			MipmapFilter: gputypes.FilterModeLinear,
			LodMaxClamp:  32,
			Anisotropy:   1,
		})
		if err != nil {
			return nil, fmt.Errorf("create sampler: %w", err)
		}
		p.sampler = sampler
	}
	layout, err := p.device.Layouts().BindGroupLayout(fullscreenLayout)
	if err != nil {
		return nil, err
	}
	group, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "fullscreen",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	if p.group != nil {
		dev.DestroyBindGroup(p.group)
	}
	p.group, p.groupView = group, view
	return group, nil
}

// Close destroys the pass's bind group and sampler.
func (p *FullscreenPass) Close() error {
	dev := p.device.HAL()
	if p.group != nil {
		dev.DestroyBindGroup(p.group)
		p.group, p.groupView = nil, nil
	}
	if p.sampler != nil {
		dev.DestroySampler(p.sampler)
		p.sampler = nil
	}
	return nil
}
