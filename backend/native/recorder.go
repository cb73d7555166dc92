// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RecorderStats counts what a Recorder emitted.
type RecorderStats struct {
	Regions         int
	TextureBarriers int
	BufferBarriers  int
	RenderPasses    int
}

// Recorder records a frame graph into a HAL command encoder.
//
// Recorder implements framegraph.CommandTarget. Barrier groups become
// TransitionTextures and TransitionBuffers batches. Regions are kept as a
// label stack and name the render passes begun inside them. The viewport
// and scissor set for a node are applied to every render pass it begins.
//
// Passes reach the recorder by type-asserting the command target they
// receive. A Recorder is used by one goroutine for one frame.
type Recorder struct {
	enc hal.CommandEncoder
	mgr *resource.Manager

	regions  []string
	viewport framegraph.Viewport
	scissor  framegraph.Scissor
	pass     *RenderPass

	stats RecorderStats
	errs  []error
}

var _ framegraph.CommandTarget = (*Recorder)(nil)

// NewRecorder returns a recorder writing into enc. Resource handles in
// barriers and attachments are resolved through mgr.
func NewRecorder(enc hal.CommandEncoder, mgr *resource.Manager) *Recorder {
	return &Recorder{enc: enc, mgr: mgr}
}

// Encoder returns the command encoder.
func (r *Recorder) Encoder() hal.CommandEncoder { return r.enc }

// Manager returns the resource manager handles are resolved through.
func (r *Recorder) Manager() *resource.Manager { return r.mgr }

// Barrier translates a barrier group into usage transitions.
func (r *Recorder) Barrier(group *framegraph.DependencyGroup) {
	var textures []hal.TextureBarrier
	var buffers []hal.BufferBarrier

	for _, b := range group.Barriers {
		if b.Info.IsBuffer() {
			buf := r.mgr.Buffer(b.Info.Buffer())
			if buf == nil || buf.Buffer == nil {
				logging.Logger().Warn("native: barrier on stale buffer",
					"node", group.Node, "resource", b.Resource)
				continue
			}
			buffers = append(buffers, hal.BufferBarrier{
				Buffer: buf.Buffer,
				Usage: hal.BufferUsageTransition{
					OldUsage: BufferUsage(b.Src),
					NewUsage: BufferUsage(b.Dst),
				},
			})
			continue
		}

		img := r.mgr.Image(b.Info.Image())
		if img == nil || img.Texture == nil {
			logging.Logger().Warn("native: barrier on stale image",
				"node", group.Node, "resource", b.Resource)
			continue
		}
		textures = append(textures, hal.TextureBarrier{
			Texture: img.Texture,
			Range: hal.TextureRange{
				Aspect:          textureAspect(img.Format),
				BaseMipLevel:    0,
				MipLevelCount:   img.Mips,
				BaseArrayLayer:  0,
				ArrayLayerCount: img.Layers,
			},
			Usage: hal.TextureUsageTransition{
				OldUsage: TextureUsage(b.Src),
				NewUsage: TextureUsage(b.Dst),
			},
		})
	}

	if len(textures) > 0 {
		r.enc.TransitionTextures(textures)
		r.stats.TextureBarriers += len(textures)
	}
	if len(buffers) > 0 {
		r.enc.TransitionBuffers(buffers)
		r.stats.BufferBarriers += len(buffers)
	}
}

// BeginRegion opens a labeled region.
func (r *Recorder) BeginRegion(name string, _ gputypes.Color) {
	r.regions = append(r.regions, name)
	r.viewport = framegraph.Viewport{}
	r.scissor = framegraph.Scissor{}
	r.stats.Regions++
}

// EndRegion closes the innermost region. A render pass still open at that
// point is ended and reported as an error.
func (r *Recorder) EndRegion() {
	if r.pass != nil {
		r.Fail(fmt.Errorf("%w: %q left open by %s", ErrPassOpen, r.pass.label, r.Region()))
		_ = r.pass.End()
	}
	if len(r.regions) == 0 {
		r.Fail(errors.New("native: EndRegion without BeginRegion"))
		return
	}
	r.regions = r.regions[:len(r.regions)-1]
}

// Region returns the slash-joined names of the open regions.
func (r *Recorder) Region() string { return strings.Join(r.regions, "/") }

// SetViewport sets the viewport applied to render passes of the current
// region.
func (r *Recorder) SetViewport(v framegraph.Viewport) { r.viewport = v }

// SetScissor sets the scissor applied to render passes of the current
// region.
func (r *Recorder) SetScissor(s framegraph.Scissor) { r.scissor = s }

// Viewport returns the viewport of the current region.
func (r *Recorder) Viewport() framegraph.Viewport { return r.viewport }

// Scissor returns the scissor of the current region.
func (r *Recorder) Scissor() framegraph.Scissor { return r.scissor }

// BeginRenderPass begins a render pass on the given attachments, labeled
// with the current region, and applies the region's viewport and scissor.
func (r *Recorder) BeginRenderPass(colors []ColorTarget, depth *DepthTarget) (*RenderPass, error) {
	if r.pass != nil {
		return nil, ErrPassOpen
	}
	if len(colors) == 0 && depth == nil {
		return nil, ErrNoAttachments
	}

	desc := &hal.RenderPassDescriptor{
		Label:            r.Region(),
		ColorAttachments: make([]hal.RenderPassColorAttachment, 0, len(colors)),
	}
	for _, c := range colors {
		img := r.mgr.Image(c.Image)
		if img == nil || img.View == nil {
			return nil, fmt.Errorf("native: color attachment %s: %w", c.Image, framegraph.ErrStaleResource)
		}
		desc.ColorAttachments = append(desc.ColorAttachments, hal.RenderPassColorAttachment{
			View:       img.View,
			LoadOp:     loadOp(c.Load),
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c.Clear,
		})
	}
	if depth != nil {
		img := r.mgr.Image(depth.Image)
		if img == nil || img.View == nil {
			return nil, fmt.Errorf("native: depth attachment %s: %w", depth.Image, framegraph.ErrStaleResource)
		}
		ds := &hal.RenderPassDepthStencilAttachment{
			View:            img.View,
			DepthLoadOp:     loadOp(depth.Load),
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: depth.Clear,
			DepthReadOnly:   depth.ReadOnly,
		}
		if img.Format.HasStencil() {
			ds.StencilLoadOp = gputypes.LoadOpLoad
			ds.StencilStoreOp = gputypes.StoreOpStore
		}
		desc.DepthStencilAttachment = ds
	}

	enc := r.enc.BeginRenderPass(desc)
	v := r.viewport
	if v.Width > 0 && v.Height > 0 {
		enc.SetViewport(v.X, v.Y, v.Width, v.Height, v.MinDepth, v.MaxDepth)
	}
	s := r.scissor
	if s.Width > 0 && s.Height > 0 {
		enc.SetScissorRect(s.X, s.Y, s.Width, s.Height)
	}

	r.pass = &RenderPass{enc: enc, rec: r, label: desc.Label}
	r.stats.RenderPasses++
	return r.pass, nil
}

// Fail records an error raised while recording. Passes cannot return
// errors, so they report them here.
func (r *Recorder) Fail(err error) {
	logging.Logger().Error("native: recording failed", "region", r.Region(), "err", err)
	r.errs = append(r.errs, err)
}

// Err returns the errors recorded so far joined together, or nil.
func (r *Recorder) Err() error { return errors.Join(r.errs...) }

// Stats returns emission counters.
func (r *Recorder) Stats() RecorderStats { return r.stats }
