// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
)

// TestRecorderTranslatesBarriers builds gbuffer -> post, where post samples
// the gbuffer color and writes a storage buffer.
func TestRecorderTranslatesBarriers(t *testing.T) {
	dev, mgr := openNoop(t)
	color := image(t, mgr, "color", 64, 32, gputypes.TextureFormatRGBA8Unorm)
	depth := image(t, mgr, "depth", 64, 32, gputypes.TextureFormatDepth32Float)
	args, err := mgr.CreateBuffer(resource.NewBufferCreation("args").SetSize(64))
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	g := framegraph.New(mgr, framegraph.WithDefaultExtent(64, 32))
	g.AddNode(framegraph.NewNode(attach(color, depth)).
		SetName("gbuffer").
		AddOutput(framegraph.ImageInfo(color), framegraph.Attachment).
		AddOutput(framegraph.ImageInfo(depth), framegraph.Attachment))
	g.AddNode(framegraph.NewNode(framegraph.PassFunc(func(framegraph.CommandTarget, uint32, any) {})).
		SetName("post").
		AddInput(framegraph.ImageInfo(color), framegraph.Texture).
		AddOutput(framegraph.BufferInfo(args), framegraph.StorageBuffer))
	if err := g.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	enc := newSpyEncoder(t, dev)
	rec := NewRecorder(enc, mgr)
	if err := g.RecordCommands(rec, 0, nil); err != nil {
		t.Fatalf("RecordCommands: %v", err)
	}
	if err := rec.Err(); err != nil {
		t.Fatalf("recording errors: %v", err)
	}

	if len(enc.textures) != 2 {
		t.Fatalf("texture batches = %d, want 2", len(enc.textures))
	}
	initial := enc.textures[0]
	if len(initial) != 2 {
		t.Fatalf("gbuffer barriers = %d, want 2", len(initial))
	}
	for _, b := range initial {
		if b.Usage.OldUsage != gputypes.TextureUsageNone || b.Usage.NewUsage != gputypes.TextureUsageRenderAttachment {
			t.Errorf("gbuffer transition = %+v, want None -> RenderAttachment", b.Usage)
		}
	}
	if initial[1].Range.Aspect != gputypes.TextureAspectDepthOnly {
		t.Errorf("depth barrier aspect = %v, want DepthOnly", initial[1].Range.Aspect)
	}

	post := enc.textures[1]
	if len(post) != 1 {
		t.Fatalf("post texture barriers = %d, want 1", len(post))
	}
	if post[0].Usage.OldUsage != gputypes.TextureUsageRenderAttachment ||
		post[0].Usage.NewUsage != gputypes.TextureUsageTextureBinding {
		t.Errorf("post transition = %+v, want RenderAttachment -> TextureBinding", post[0].Usage)
	}
	if post[0].Range.MipLevelCount != 1 || post[0].Range.ArrayLayerCount != 1 {
		t.Errorf("post range = %+v, want one mip and one layer", post[0].Range)
	}

	if len(enc.buffers) != 1 || len(enc.buffers[0]) != 1 {
		t.Fatalf("buffer batches = %v, want one barrier", enc.buffers)
	}
	if got := enc.buffers[0][0].Usage; got.OldUsage != gputypes.BufferUsageNone || got.NewUsage != gputypes.BufferUsageStorage {
		t.Errorf("buffer transition = %+v, want None -> Storage", got)
	}

	want := RecorderStats{Regions: 2, TextureBarriers: 3, BufferBarriers: 1, RenderPasses: 1}
	if got := rec.Stats(); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestRenderPassUsesNodeViewport(t *testing.T) {
	dev, mgr := openNoop(t)
	color := image(t, mgr, "color", 40, 20, gputypes.TextureFormatRGBA8Unorm)

	g := framegraph.New(mgr, framegraph.WithDefaultExtent(100, 100))
	g.AddNode(framegraph.NewNode(&ClearPass{Colors: []resource.ImageHandle{color}}).
		SetName("clear").
		AddOutput(framegraph.ImageInfo(color), framegraph.Attachment))
	if err := g.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	enc := newSpyEncoder(t, dev)
	rec := NewRecorder(enc, mgr)
	if err := g.RecordCommands(rec, 0, nil); err != nil {
		t.Fatalf("RecordCommands: %v", err)
	}
	if len(enc.passes) != 1 {
		t.Fatalf("render passes = %d, want 1", len(enc.passes))
	}
	p := enc.passes[0]
	if p.desc.Label != "clear" {
		t.Errorf("pass label = %q, want clear", p.desc.Label)
	}
	if want := []float32{0, 0, 40, 20, 0, 1}; !slices.Equal(p.viewport, want) {
		t.Errorf("viewport = %v, want %v", p.viewport, want)
	}
	if want := []uint32{0, 0, 40, 20}; !slices.Equal(p.scissor, want) {
		t.Errorf("scissor = %v, want %v", p.scissor, want)
	}
	if got := p.desc.ColorAttachments[0].LoadOp; got != gputypes.LoadOpClear {
		t.Errorf("LoadOp = %v, want Clear", got)
	}
	if !p.ended {
		t.Error("pass not ended")
	}
}

func TestRecorderRenderPassErrors(t *testing.T) {
	dev, mgr := openNoop(t)
	color := image(t, mgr, "color", 8, 8, gputypes.TextureFormatRGBA8Unorm)
	rec := NewRecorder(newSpyEncoder(t, dev), mgr)

	if _, err := rec.BeginRenderPass(nil, nil); !errors.Is(err, ErrNoAttachments) {
		t.Errorf("BeginRenderPass() = %v, want ErrNoAttachments", err)
	}

	rec.BeginRegion("outer", gputypes.ColorWhite)
	rec.BeginRegion("inner", gputypes.ColorWhite)
	if got := rec.Region(); got != "outer/inner" {
		t.Errorf("Region = %q, want outer/inner", got)
	}

	pass, err := rec.BeginRenderPass([]ColorTarget{{Image: color}}, nil)
	if err != nil {
		t.Fatalf("BeginRenderPass: %v", err)
	}
	if pass.Label() != "outer/inner" {
		t.Errorf("Label = %q, want outer/inner", pass.Label())
	}
	if _, err := rec.BeginRenderPass([]ColorTarget{{Image: color}}, nil); !errors.Is(err, ErrPassOpen) {
		t.Errorf("second BeginRenderPass = %v, want ErrPassOpen", err)
	}
	if err := pass.SetPipeline(nil); !errors.Is(err, ErrNilPipeline) {
		t.Errorf("SetPipeline(nil) = %v, want ErrNilPipeline", err)
	}
	if err := pass.SetBindGroup(4, nil, nil); !errors.Is(err, ErrBindGroupIndexOutOfRange) {
		t.Errorf("SetBindGroup(4) = %v, want ErrBindGroupIndexOutOfRange", err)
	}

	// Ending the region with the pass open ends the pass and records an error.
	rec.EndRegion()
	if pass.State() != RenderPassStateEnded {
		t.Errorf("pass state = %v, want Ended", pass.State())
	}
	if err := rec.Err(); !errors.Is(err, ErrPassOpen) {
		t.Errorf("Err = %v, want ErrPassOpen", err)
	}
	if err := pass.Draw(3, 1, 0, 0); !errors.Is(err, ErrPassEnded) {
		t.Errorf("Draw after End = %v, want ErrPassEnded", err)
	}
	if err := pass.End(); !errors.Is(err, ErrPassEnded) {
		t.Errorf("second End = %v, want ErrPassEnded", err)
	}

	rec.EndRegion()
	if rec.Region() != "" {
		t.Errorf("Region = %q, want empty", rec.Region())
	}
}

func TestRecorderStaleAttachment(t *testing.T) {
	dev, mgr := openNoop(t)
	color := image(t, mgr, "color", 8, 8, gputypes.TextureFormatRGBA8Unorm)
	depth := image(t, mgr, "depth", 8, 8, gputypes.TextureFormatDepth32Float)
	mgr.DestroyImage(color)
	mgr.DestroyImage(depth)
	mgr.Clean()

	enc := newSpyEncoder(t, dev)
	rec := NewRecorder(enc, mgr)
	rec.Barrier(&framegraph.DependencyGroup{
		Node: "gbuffer",
		Barriers: []framegraph.Barrier{{
			Resource: "color#v0",
			Info:     framegraph.ImageInfo(color),
			Dst:      framegraph.State{Access: framegraph.AccessColorAttachmentWrite, Stage: framegraph.StageColorAttachmentOutput},
		}},
	})
	if len(enc.textures) != 0 {
		t.Errorf("texture batches = %v, want none for a stale image", enc.textures)
	}

	if _, err := rec.BeginRenderPass([]ColorTarget{{Image: color}}, nil); !errors.Is(err, framegraph.ErrStaleResource) {
		t.Errorf("BeginRenderPass(stale color) = %v, want ErrStaleResource", err)
	}
	if _, err := rec.BeginRenderPass(nil, &DepthTarget{Image: depth}); !errors.Is(err, framegraph.ErrStaleResource) {
		t.Errorf("BeginRenderPass(stale depth) = %v, want ErrStaleResource", err)
	}
	if rec.Stats().RenderPasses != 0 {
		t.Errorf("RenderPasses = %d, want 0", rec.Stats().RenderPasses)
	}
}
