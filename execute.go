// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import "github.com/gogpu/gputypes"

// CommandTarget is the command stream passes record into. The GPU backend
// implements it on top of its command encoder.
type CommandTarget interface {
	// Barrier applies a node's barrier group.
	Barrier(group *DependencyGroup)

	// BeginRegion and EndRegion bracket the commands of one node.
	BeginRegion(name string, color gputypes.Color)
	EndRegion()

	// SetViewport and SetScissor set the node's default viewport and
	// scissor. Passes beginning a render pass are expected to apply them.
	SetViewport(v Viewport)
	SetScissor(s Scissor)
}

// RecordCommands replays the built graph into target: for each executed
// node it opens a debug region, applies the node's barriers, sets the
// default viewport and scissor of graphics nodes and calls the pass.
//
// scene is passed to every pass unchanged.
func (g *Graph) RecordCommands(target CommandTarget, frameIndex uint32, scene any) error {
	if !g.built {
		return ErrNotBuilt
	}
	for _, h := range g.execution {
		n := g.nodes[h]
		target.BeginRegion(n.name, n.labelColor)
		if !n.barriers.Empty() {
			target.Barrier(&n.barriers)
		}
		if n.queue == Graphics {
			target.SetViewport(n.viewport)
			target.SetScissor(n.scissor)
		}
		n.pass.RecordCommands(target, frameIndex, scene)
		target.EndRegion()
	}
	return nil
}
