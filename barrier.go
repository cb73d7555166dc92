// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

// phase is where an object is in its per-frame life.
type phase uint8

const (
	phaseUnused phase = iota
	phaseFirstOutput
	phaseOutputAfterOutput
	phaseOutputAfterInput
	phaseInput
)

func (p phase) writing() bool {
	return p == phaseFirstOutput || p == phaseOutputAfterOutput || p == phaseOutputAfterInput
}

// tracker follows the last state of one object across executed nodes.
type tracker struct {
	phase        phase
	state        State
	simultaneous bool
}

// requiredState returns the state p needs on a node of queue q.
func (g *Graph) requiredState(p port, q Queue, output bool) State {
	var s State
	switch p.usage {
	case Attachment:
		if g.objects[p.info.key()].depth {
			s.Stage = StageEarlyFragmentTests | StageLateFragmentTests
			s.Access = AccessDepthStencilRead
			if output {
				s.Access |= AccessDepthStencilWrite
			}
		} else {
			s.Stage = StageColorAttachmentOutput
			s.Access = AccessColorAttachmentRead
			if output {
				s.Access = AccessColorAttachmentWrite
			}
		}
	case Texture:
		s.Access = AccessShaderRead
		s.Stage = StageFragmentShader
		if q == Compute {
			s.Stage = StageComputeShader
		}
	case StorageBuffer:
		if output {
			s.Access = AccessShaderWrite
		} else {
			s.Access = AccessShaderRead
			if p.stage.Has(StageDrawIndirect) {
				s.Access |= AccessIndirectCommandRead
			}
		}
		s.Stage = StageVertexShader | StageFragmentShader
		if q == Compute {
			s.Stage = StageComputeShader
		}
	case Reference:
		return State{}
	}
	if p.stage != StageNone {
		s.Stage = p.stage
	}
	return s
}

// synthesizeBarriers walks the executed nodes in order and records, for
// each node, the barriers its inputs and outputs need given how the
// previous executed node left each object. Barriers on the same object
// within one node are merged.
func (g *Graph) synthesizeBarriers() {
	trackers := make(map[resourceKey]*tracker)
	track := func(k resourceKey) *tracker {
		t, ok := trackers[k]
		if !ok {
			t = &tracker{}
			trackers[k] = t
		}
		return t
	}

	for _, h := range g.execution {
		n := g.nodes[h]
		group := DependencyGroup{Node: n.name}
		merged := make(map[resourceKey]int)

		// emit returns the state the object is in after the node's
		// barriers, which is the merged Dst when one already exists.
		emit := func(r *Resource, src, dst State) State {
			k := r.Info.key()
			if i, ok := merged[k]; ok {
				group.Barriers[i].Dst = group.Barriers[i].Dst.union(dst)
				return group.Barriers[i].Dst
			}
			merged[k] = len(group.Barriers)
			group.Barriers = append(group.Barriers, Barrier{Resource: r.Name, Info: r.Info, Src: src, Dst: dst})
			return dst
		}

		for i, p := range n.decl.inputs {
			if p.usage == Reference {
				continue
			}
			r := g.resources[n.inputs[i]]
			t := track(p.info.key())
			req := g.requiredState(p, n.queue, false)

			switch {
			case t.phase == phaseUnused:
				t.state = emit(r, State{}, req)
			case t.phase == phaseInput && !t.state.Access.IsWrite() && t.state.layout() == req.layout():
				t.state = t.state.union(req)
				if j, ok := merged[p.info.key()]; ok {
					group.Barriers[j].Dst = group.Barriers[j].Dst.union(req)
					t.state = group.Barriers[j].Dst
				}
			default:
				t.state = emit(r, t.state, req)
			}
			t.phase = phaseInput
			t.simultaneous = false
		}

		for i, p := range n.decl.outputs {
			if p.usage == Reference {
				continue
			}
			r := g.resources[n.outputs[i]]
			t := track(p.info.key())
			req := g.requiredState(p, n.queue, true)

			next := req
			switch {
			case t.phase == phaseUnused:
				next = emit(r, State{}, req)
				t.phase = phaseFirstOutput
			case t.phase == phaseInput:
				next = emit(r, t.state, req)
				t.phase = phaseOutputAfterInput
			default:
				if !(t.simultaneous && p.simultaneous && t.state == req) {
					next = emit(r, t.state, req)
				}
				t.phase = phaseOutputAfterOutput
			}
			t.state = next
			t.simultaneous = p.simultaneous
		}

		n.barriers = group
	}
}

// deriveViewports gives every graphics node a viewport and scissor
// covering its first attachment output, else its first attachment input,
// else the default extent.
func (g *Graph) deriveViewports() {
	for _, n := range g.nodes {
		if n.queue != Graphics {
			continue
		}
		w, h := g.width, g.height
		if obj, ok := g.firstAttachment(n.decl.outputs); ok {
			w, h = obj.width, obj.height
		} else if obj, ok := g.firstAttachment(n.decl.inputs); ok {
			w, h = obj.width, obj.height
		}
		n.viewport = Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
		n.scissor = Scissor{Width: w, Height: h}
	}
}

func (g *Graph) firstAttachment(ports []port) (object, bool) {
	for _, p := range ports {
		if p.usage == Attachment && p.info.IsImage() {
			return g.objects[p.info.key()], true
		}
	}
	return object{}, false
}
