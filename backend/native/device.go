// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device creates frame graph resources on a HAL device and submits
// recorded frames to its queue.
//
// Device implements resource.Device. It owns the layout and shader caches
// used by the built-in passes.
//
// Passes reach the caches through the Device they were created with.
type Device struct {
	device hal.Device
	queue  hal.Queue

	layouts   *LayoutCache
	shaders   *ShaderCache
	pipelines *PipelineCache

	closed atomic.Bool
}

var _ resource.Device = (*Device)(nil)

// NewDevice wraps the HAL device and queue carried by p.
func NewDevice(p gpucontext.DeviceProvider) (*Device, error) {
	if p == nil {
		return nil, ErrNotHAL
	}
	dev, ok := p.Device().(hal.Device)
	if !ok || dev == nil {
		return nil, ErrNotHAL
	}
	queue, ok := p.Queue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNotHAL
	}
	layouts := NewLayoutCache(dev)
	return &Device{
		device:    dev,
		queue:     queue,
		layouts:   layouts,
		shaders:   NewShaderCache(dev),
		pipelines: NewPipelineCache(dev, layouts),
	}, nil
}

// HAL returns the underlying device.
func (d *Device) HAL() hal.Device { return d.device }

// Queue returns the underlying queue.
func (d *Device) Queue() hal.Queue { return d.queue }

// Layouts returns the bind group layout cache.
func (d *Device) Layouts() *LayoutCache { return d.layouts }

// Shaders returns the shader module cache.
func (d *Device) Shaders() *ShaderCache { return d.shaders }

// Pipelines returns the render pipeline cache.
func (d *Device) Pipelines() *PipelineCache { return d.pipelines }

// CreateImage creates a 2D texture and a view covering all of its mips and
// layers.
func (d *Device) CreateImage(c *resource.ImageCreation) (resource.Image, error) {
	if d.closed.Load() {
		return resource.Image{}, ErrClosed
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: c.Name,
		Size: hal.Extent3D{
			Width:              c.Width,
			Height:             c.Height,
			DepthOrArrayLayers: c.Layers,
		},
		MipLevelCount: c.Mips,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.Format,
		Usage:         c.Usage,
	})
	if err != nil {
		return resource.Image{}, fmt.Errorf("native: create texture %q: %w", c.Name, err)
	}

	viewDim := gputypes.TextureViewDimension2D
	if c.Layers > 1 {
		viewDim = gputypes.TextureViewDimension2DArray
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           c.Name,
		Format:          c.Format,
		Dimension:       viewDim,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    0,
		MipLevelCount:   c.Mips,
		BaseArrayLayer:  0,
		ArrayLayerCount: c.Layers,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return resource.Image{}, fmt.Errorf("native: create view %q: %w", c.Name, err)
	}

	return resource.Image{
		Name:    c.Name,
		Texture: tex,
		View:    view,
		Width:   c.Width,
		Height:  c.Height,
		Layers:  c.Layers,
		Mips:    c.Mips,
		Format:  c.Format,
		Usage:   c.Usage,
	}, nil
}

// DestroyImage destroys the view and then the texture.
func (d *Device) DestroyImage(img *resource.Image) {
	if img.View != nil {
		d.device.DestroyTextureView(img.View)
		img.View = nil
	}
	if img.Texture != nil {
		d.device.DestroyTexture(img.Texture)
		img.Texture = nil
	}
}

// CreateBuffer creates a buffer.
func (d *Device) CreateBuffer(c *resource.BufferCreation) (resource.Buffer, error) {
	if d.closed.Load() {
		return resource.Buffer{}, ErrClosed
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: c.Name,
		Size:  c.Size,
		Usage: c.Usage,
	})
	if err != nil {
		return resource.Buffer{}, fmt.Errorf("native: create buffer %q: %w", c.Name, err)
	}
	return resource.Buffer{Name: c.Name, Buffer: buf, Size: c.Size, Usage: c.Usage}, nil
}

// DestroyBuffer destroys the buffer.
func (d *Device) DestroyBuffer(buf *resource.Buffer) {
	if buf.Buffer != nil {
		d.device.DestroyBuffer(buf.Buffer)
		buf.Buffer = nil
	}
}

// BeginFrame creates a command encoder and starts encoding.
func (d *Device) BeginFrame(label string) (hal.CommandEncoder, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	return enc, nil
}

// Submit finishes enc, submits it and waits for the device to go idle so
// that resources released during the frame can be reclaimed.
func (d *Device) Submit(enc hal.CommandEncoder) error {
	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmd)

	index, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("native: wait idle: %w", err)
	}
	logging.Logger().Debug("native: frame submitted", "submission", index)
	return nil
}

// Close destroys the cached pipelines, layouts and shader modules. Resources created
// through the device are owned by the resource manager.
func (d *Device) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.pipelines.Destroy()
	d.layouts.Destroy()
	d.shaders.Destroy()
}
