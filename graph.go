// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"
	"slices"

	"github.com/gogpu/framegraph/resource"
)

// Graph is a set of nodes connected by the resources they use.
//
// A Graph is not safe for concurrent use. Build and RecordCommands are
// expected to run on the thread that owns the renderer.
type Graph struct {
	mgr    *resource.Manager
	name   string
	width  uint32
	height uint32

	nodes []*Node

	// Computed by Build.
	resources []*Resource
	objects   map[resourceKey]object
	versions  map[resourceKey][]int // resource indices per object, oldest first
	byName    map[string]int        // display name to resource index
	newest    map[string]int        // object name to newest resource index
	order     []NodeHandle          // every node, dependency order
	execution []NodeHandle          // enabled nodes, dependency order
	built     bool
}

// object is what Build knows about the image or buffer behind a key.
type object struct {
	name   string
	buffer bool
	depth  bool
	width  uint32
	height uint32
}

// Option configures a Graph.
type Option func(*Graph)

// WithDefaultExtent sets the viewport of graphics nodes that use no
// attachment, usually the swapchain size.
func WithDefaultExtent(width, height uint32) Option {
	return func(g *Graph) {
		g.width, g.height = width, height
	}
}

// WithName names the graph in logs and dumps.
func WithName(name string) Option {
	return func(g *Graph) {
		g.name = name
	}
}

// New creates an empty graph over the resources of mgr.
func New(mgr *resource.Manager, opts ...Option) *Graph {
	g := &Graph{mgr: mgr, name: "framegraph"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// SetDefaultExtent changes the default extent. The graph must be rebuilt.
func (g *Graph) SetDefaultExtent(width, height uint32) {
	g.width, g.height = width, height
	g.built = false
}

// AddNode adds the node described by c and returns its handle. Later
// changes to c do not affect the graph. The graph must be rebuilt.
func (g *Graph) AddNode(c *NodeCreation) NodeHandle {
	h := NodeHandle(len(g.nodes))
	decl := *c
	decl.inputs = slices.Clone(c.inputs)
	decl.outputs = slices.Clone(c.outputs)

	name := decl.name
	if name == "" {
		name = fmt.Sprintf("node%d", h)
	}
	g.nodes = append(g.nodes, &Node{
		pass:       decl.pass,
		name:       name,
		labelColor: decl.color,
		enabled:    decl.enabled,
		queue:      decl.queue,
		decl:       &decl,
	})
	g.built = false
	return h
}

// Node returns the node with handle h, or nil.
func (g *Graph) Node(h NodeHandle) *Node {
	if h < 0 || int(h) >= len(g.nodes) {
		return nil
	}
	return g.nodes[h]
}

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// SetNodeEnabled enables or disables a node. Changing the flag requires a
// rebuild before the next RecordCommands.
func (g *Graph) SetNodeEnabled(h NodeHandle, enabled bool) {
	n := g.Node(h)
	if n == nil || n.enabled == enabled {
		return
	}
	n.enabled = enabled
	g.built = false
}

// Reset removes every node.
func (g *Graph) Reset() {
	g.nodes = nil
	g.clearComputed()
}

// Built reports whether the graph is ready for RecordCommands.
func (g *Graph) Built() bool { return g.built }

// Resources returns every resource version created by the last Build.
func (g *Graph) Resources() []*Resource { return g.resources }

// Resource looks up a resource version by display name ("hdr#v1"), or the
// newest version of an object by plain name ("hdr").
func (g *Graph) Resource(name string) *Resource {
	if i, ok := g.byName[name]; ok {
		return g.resources[i]
	}
	if i, ok := g.newest[name]; ok {
		return g.resources[i]
	}
	return nil
}

// Order returns every node, disabled ones included, in dependency order.
func (g *Graph) Order() []NodeHandle { return g.order }

// Execution returns the nodes RecordCommands runs, in order.
func (g *Graph) Execution() []NodeHandle { return g.execution }

// ExecutionOrder returns the names of the executed nodes in order.
func (g *Graph) ExecutionOrder() []string {
	names := make([]string, len(g.execution))
	for i, h := range g.execution {
		names[i] = g.nodes[h].name
	}
	return names
}

// Barriers returns the barrier group of every executed node in order,
// empty groups included.
func (g *Graph) Barriers() []DependencyGroup {
	groups := make([]DependencyGroup, len(g.execution))
	for i, h := range g.execution {
		groups[i] = g.nodes[h].barriers
	}
	return groups
}

func (g *Graph) clearComputed() {
	g.resources = nil
	g.objects = make(map[resourceKey]object)
	g.versions = make(map[resourceKey][]int)
	g.byName = make(map[string]int)
	g.newest = make(map[string]int)
	g.order = nil
	g.execution = nil
	g.built = false
	for _, n := range g.nodes {
		n.inputs = nil
		n.outputs = nil
		n.edges = nil
		n.barriers = DependencyGroup{Node: n.name}
		n.viewport = Viewport{}
		n.scissor = Scissor{}
	}
}
