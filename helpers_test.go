// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"
	"testing"

	"github.com/gogpu/framegraph/internal/gputest"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
)

// fixture is a graph over a fake device plus a log of recorded events.
type fixture struct {
	t      *testing.T
	mgr    *resource.Manager
	g      *Graph
	events []string
	scenes []any
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	mgr, err := resource.NewManager(gputest.NewDevice())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &fixture{t: t, mgr: mgr, g: New(mgr, opts...)}
}

func (f *fixture) image(name string, w, h uint32, depth bool) resource.ImageHandle {
	f.t.Helper()
	format := gputypes.TextureFormatRGBA16Float
	if depth {
		format = gputypes.TextureFormatDepth32Float
	}
	img, err := f.mgr.CreateImage(resource.NewImageCreation(name).
		SetSize(w, h).
		SetFormat(format).
		SetUsage(gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding))
	if err != nil {
		f.t.Fatalf("CreateImage(%s): %v", name, err)
	}
	return img
}

func (f *fixture) buffer(name string) resource.BufferHandle {
	f.t.Helper()
	buf, err := f.mgr.CreateBuffer(resource.NewBufferCreation(name).SetSize(4096))
	if err != nil {
		f.t.Fatalf("CreateBuffer(%s): %v", name, err)
	}
	return buf
}

// pass returns a pass that logs its invocation.
func (f *fixture) pass(name string) Pass {
	return PassFunc(func(_ CommandTarget, frame uint32, scene any) {
		f.events = append(f.events, fmt.Sprintf("pass %s %d", name, frame))
		f.scenes = append(f.scenes, scene)
	})
}

func (f *fixture) build() {
	f.t.Helper()
	if err := f.g.Build(); err != nil {
		f.t.Fatalf("Build: %v", err)
	}
}

func (f *fixture) group(name string) *DependencyGroup {
	f.t.Helper()
	for _, n := range f.g.Nodes() {
		if n.Name() == name {
			return n.Barriers()
		}
	}
	f.t.Fatalf("no node %q", name)
	return nil
}

// target is a CommandTarget that logs calls into the fixture.
type target struct {
	f      *fixture
	groups []*DependencyGroup
}

func (f *fixture) target() *target { return &target{f: f} }

func (r *target) Barrier(g *DependencyGroup) {
	r.groups = append(r.groups, g)
	r.f.events = append(r.f.events, fmt.Sprintf("barrier %s %d", g.Node, len(g.Barriers)))
}

func (r *target) BeginRegion(name string, _ gputypes.Color) {
	r.f.events = append(r.f.events, "begin "+name)
}

func (r *target) EndRegion() { r.f.events = append(r.f.events, "end") }

func (r *target) SetViewport(v Viewport) {
	r.f.events = append(r.f.events, fmt.Sprintf("viewport %gx%g", v.Width, v.Height))
}

func (r *target) SetScissor(Scissor) {}
