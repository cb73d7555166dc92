// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"errors"
	"fmt"
	"slices"
)

// Build resolves every input to the resource version it reads, computes
// the edges between nodes, sorts them, and precomputes the barrier group
// and default viewport of each node.
//
// Configuration errors (cycles, unresolved inputs, incompatible usage,
// stale handles) are returned together and leave the graph unbuilt.
func (g *Graph) Build() error {
	g.clearComputed()

	errs := g.collectObjects()
	errs = append(errs, g.validate()...)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if errs = g.resolve(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	g.computeEdges()
	order, err := g.sort()
	if err != nil {
		return err
	}
	g.order = order
	for _, h := range order {
		if g.nodes[h].enabled {
			g.execution = append(g.execution, h)
		}
	}

	g.synthesizeBarriers()
	g.deriveViewports()
	g.built = true

	barriers := 0
	for _, h := range g.execution {
		barriers += len(g.nodes[h].barriers.Barriers)
	}
	Logger().Debug("framegraph: built",
		"graph", g.name,
		"nodes", len(g.nodes),
		"executed", len(g.execution),
		"resources", len(g.resources),
		"barriers", barriers)
	return nil
}

// collectObjects looks up every declared handle and records the name,
// kind and extent of the object behind it.
func (g *Graph) collectObjects() []error {
	var errs []error
	owners := make(map[string]resourceKey)

	visit := func(n *Node, p port) {
		k := p.info.key()
		if _, ok := g.objects[k]; ok {
			return
		}
		var obj object
		switch {
		case p.info.IsNull():
			errs = append(errs, fmt.Errorf("%w: node %q declares a null %s", ErrStaleResource, n.name, p.info))
			return
		case p.info.IsBuffer():
			buf := g.mgr.Buffer(p.info.Buffer())
			if buf == nil {
				errs = append(errs, fmt.Errorf("%w: node %q: %s", ErrStaleResource, n.name, p.info))
				return
			}
			obj = object{name: buf.Name, buffer: true}
		default:
			img := g.mgr.Image(p.info.Image())
			if img == nil {
				errs = append(errs, fmt.Errorf("%w: node %q: %s", ErrStaleResource, n.name, p.info))
				return
			}
			obj = object{name: img.Name, depth: img.IsDepth(), width: img.Width, height: img.Height}
		}
		if obj.name == "" {
			obj.name = p.info.String()
		}
		if other, taken := owners[obj.name]; taken && other != k {
			obj.name += p.info.String()
		}
		owners[obj.name] = k
		g.objects[k] = obj
	}

	for _, n := range g.nodes {
		for _, p := range n.decl.inputs {
			visit(n, p)
		}
		for _, p := range n.decl.outputs {
			visit(n, p)
		}
	}
	return errs
}

// validate rejects usage combinations that cannot be executed.
func (g *Graph) validate() []error {
	var errs []error
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: node %q: %s", ErrIncompatibleUsage, n.name, fmt.Sprintf(format, args...)))
	}

	for _, n := range g.nodes {
		if n.pass == nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNilPass, n.name))
		}

		check := func(p port, dir string) {
			name := g.objects[p.info.key()].name
			switch {
			case p.info.IsBuffer() && (p.usage == Attachment || p.usage == Texture):
				bad(n, "buffer %q used as %s %s", name, p.usage, dir)
			case p.info.IsImage() && p.usage == StorageBuffer:
				bad(n, "image %q used as %s %s", name, p.usage, dir)
			}
		}
		for _, p := range n.decl.inputs {
			check(p, "input")
		}

		written := make(map[resourceKey]UsageKind, len(n.decl.outputs))
		for _, p := range n.decl.outputs {
			check(p, "output")
			name := g.objects[p.info.key()].name
			if p.usage == Texture {
				bad(n, "%q declared as a Texture output", name)
			}
			if _, dup := written[p.info.key()]; dup {
				bad(n, "%q written twice", name)
			}
			written[p.info.key()] = p.usage
		}
		for _, p := range n.decl.inputs {
			if u, ok := written[p.info.key()]; ok && p.usage == Texture && u == Attachment {
				bad(n, "%q sampled while bound as an attachment", g.objects[p.info.key()].name)
			}
		}
	}
	return errs
}

// resolve creates a resource version for every output and links every
// input to the version it reads: the newest version declared before the
// reading node, or, when the object is only produced later, the newest
// version produced by another node.
func (g *Graph) resolve() []error {
	type pendingInput struct {
		node NodeHandle
		slot int
	}
	var pending []pendingInput

	for i, n := range g.nodes {
		h := NodeHandle(i)
		n.inputs = make([]int, len(n.decl.inputs))
		for j, p := range n.decl.inputs {
			if vs := g.versions[p.info.key()]; len(vs) > 0 {
				n.inputs[j] = vs[len(vs)-1]
			} else {
				n.inputs[j] = -1
				pending = append(pending, pendingInput{node: h, slot: j})
			}
		}

		n.outputs = make([]int, len(n.decl.outputs))
		for j, p := range n.decl.outputs {
			k := p.info.key()
			obj := g.objects[k]
			version := len(g.versions[k])
			r := &Resource{
				Name:     fmt.Sprintf("%s#v%d", obj.name, version),
				Usage:    p.usage,
				Info:     p.info,
				Version:  version,
				Producer: h,
			}
			idx := len(g.resources)
			g.resources = append(g.resources, r)
			g.versions[k] = append(g.versions[k], idx)
			g.byName[r.Name] = idx
			g.newest[obj.name] = idx
			n.outputs[j] = idx
		}
	}

	var errs []error
	for _, pi := range pending {
		n := g.nodes[pi.node]
		p := n.decl.inputs[pi.slot]
		vs := g.versions[p.info.key()]
		for v := len(vs) - 1; v >= 0; v-- {
			if g.resources[vs[v]].Producer != pi.node {
				n.inputs[pi.slot] = vs[v]
				break
			}
		}
		if n.inputs[pi.slot] < 0 {
			errs = append(errs, fmt.Errorf("%w: node %q reads %q which no other node produces",
				ErrUnresolvedInput, n.name, g.objects[p.info.key()].name))
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for i, n := range g.nodes {
		h := NodeHandle(i)
		for _, idx := range n.inputs {
			r := g.resources[idx]
			if len(r.Consumers) == 0 || r.Consumers[len(r.Consumers)-1] != h {
				r.Consumers = append(r.Consumers, h)
			}
		}
	}
	return nil
}

// computeEdges adds an edge from every producer to its consumers, from the
// producer of each version to the producer of the next one, and from the
// consumers of a version to the producer of the next one.
func (g *Graph) computeEdges() {
	add := func(from, to NodeHandle) {
		if from != to {
			g.nodes[from].edges = append(g.nodes[from].edges, to)
		}
	}

	for _, r := range g.resources {
		for _, c := range r.Consumers {
			add(r.Producer, c)
		}
		if r.Version == 0 {
			continue
		}
		prev := g.resources[g.versions[r.Info.key()][r.Version-1]]
		add(prev.Producer, r.Producer)
		for _, c := range prev.Consumers {
			add(c, r.Producer)
		}
	}

	for _, n := range g.nodes {
		slices.Sort(n.edges)
		n.edges = slices.Compact(n.edges)
	}
}
