// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
)

// Pass records the commands of one node.
//
// scene is forwarded unchanged from Graph.RecordCommands.
type Pass interface {
	RecordCommands(target CommandTarget, frameIndex uint32, scene any)
}

// PassFunc adapts a function to the Pass interface.
type PassFunc func(target CommandTarget, frameIndex uint32, scene any)

// RecordCommands calls f.
func (f PassFunc) RecordCommands(target CommandTarget, frameIndex uint32, scene any) {
	f(target, frameIndex, scene)
}

// ResourceInfo identifies the image or buffer a node uses.
type ResourceInfo struct {
	image    resource.ImageHandle
	buffer   resource.BufferHandle
	isBuffer bool
}

// ImageInfo returns a ResourceInfo for an image.
func ImageInfo(h resource.ImageHandle) ResourceInfo {
	return ResourceInfo{image: h}
}

// BufferInfo returns a ResourceInfo for a buffer.
func BufferInfo(h resource.BufferHandle) ResourceInfo {
	return ResourceInfo{buffer: h, isBuffer: true}
}

// IsImage reports whether info refers to an image.
func (info ResourceInfo) IsImage() bool { return !info.isBuffer }

// IsBuffer reports whether info refers to a buffer.
func (info ResourceInfo) IsBuffer() bool { return info.isBuffer }

// Image returns the image handle. It is null for buffers.
func (info ResourceInfo) Image() resource.ImageHandle { return info.image }

// Buffer returns the buffer handle. It is null for images.
func (info ResourceInfo) Buffer() resource.BufferHandle { return info.buffer }

// IsNull reports whether the underlying handle is null.
func (info ResourceInfo) IsNull() bool {
	if info.isBuffer {
		return info.buffer.IsNull()
	}
	return info.image.IsNull()
}

// resourceKey identifies the underlying object independently of version.
type resourceKey struct {
	buffer     bool
	index      uint32
	generation uint32
}

func (info ResourceInfo) key() resourceKey {
	if info.isBuffer {
		return resourceKey{buffer: true, index: info.buffer.Index(), generation: info.buffer.Generation()}
	}
	return resourceKey{index: info.image.Index(), generation: info.image.Generation()}
}

func (info ResourceInfo) String() string {
	if info.isBuffer {
		return "buffer" + info.buffer.String()
	}
	return "image" + info.image.String()
}

// port is one declared input or output.
type port struct {
	info         ResourceInfo
	usage        UsageKind
	stage        Stage
	simultaneous bool
}

// PortOption configures an input or output declaration.
type PortOption func(*port)

// WithStage overrides the pipeline stage the resource is used in. Without
// it the stage follows from the usage kind and the node's queue.
func WithStage(s Stage) PortOption {
	return func(p *port) { p.stage = s }
}

// AllowSimultaneousWrites marks an output that may be written by
// consecutive nodes without a barrier between them, as long as every one
// of those outputs carries the flag and uses the same state.
func AllowSimultaneousWrites() PortOption {
	return func(p *port) { p.simultaneous = true }
}

// NodeCreation declares a node. Declaration errors are reported by Build.
type NodeCreation struct {
	pass    Pass
	name    string
	color   gputypes.Color
	enabled bool
	queue   Queue
	inputs  []port
	outputs []port
}

// NewNode starts the declaration of an enabled graphics node.
func NewNode(pass Pass) *NodeCreation {
	return &NodeCreation{
		pass:    pass,
		color:   gputypes.ColorWhite,
		enabled: true,
	}
}

// SetName sets the name used in diagnostics and debug regions.
func (c *NodeCreation) SetName(name string) *NodeCreation {
	c.name = name
	return c
}

// SetLabelColor sets the color of the node's debug region.
func (c *NodeCreation) SetLabelColor(color gputypes.Color) *NodeCreation {
	c.color = color
	return c
}

func (c *NodeCreation) SetEnabled(enabled bool) *NodeCreation {
	c.enabled = enabled
	return c
}

func (c *NodeCreation) SetQueue(q Queue) *NodeCreation {
	c.queue = q
	return c
}

// AddInput declares that the node reads info.
func (c *NodeCreation) AddInput(info ResourceInfo, usage UsageKind, opts ...PortOption) *NodeCreation {
	c.inputs = append(c.inputs, newPort(info, usage, opts))
	return c
}

// AddOutput declares that the node writes info.
func (c *NodeCreation) AddOutput(info ResourceInfo, usage UsageKind, opts ...PortOption) *NodeCreation {
	c.outputs = append(c.outputs, newPort(info, usage, opts))
	return c
}

func newPort(info ResourceInfo, usage UsageKind, opts []PortOption) port {
	p := port{info: info, usage: usage}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NodeHandle identifies a node by declaration order.
type NodeHandle int

// Node is a declared node together with what Build computed for it.
type Node struct {
	pass       Pass
	name       string
	labelColor gputypes.Color
	enabled    bool
	queue      Queue
	decl       *NodeCreation

	inputs   []int // resource indices, parallel to decl.inputs
	outputs  []int // resource indices, parallel to decl.outputs
	edges    []NodeHandle
	barriers DependencyGroup
	viewport Viewport
	scissor  Scissor
}

func (n *Node) Name() string               { return n.name }
func (n *Node) LabelColor() gputypes.Color { return n.labelColor }
func (n *Node) Enabled() bool              { return n.enabled }
func (n *Node) Queue() Queue               { return n.queue }
func (n *Node) Pass() Pass                 { return n.pass }

// Edges returns the nodes that must run after n, in declaration order.
func (n *Node) Edges() []NodeHandle { return n.edges }

// Barriers returns the barrier group applied before n executes.
func (n *Node) Barriers() *DependencyGroup { return &n.barriers }

// Viewport returns the default viewport derived for a graphics node.
func (n *Node) Viewport() Viewport { return n.viewport }

// Scissor returns the default scissor derived for a graphics node.
func (n *Node) Scissor() Scissor { return n.scissor }

// Resource is one version of an image or buffer in the graph.
type Resource struct {
	// Name is the display name, the object name plus a version suffix.
	Name      string
	Usage     UsageKind
	Info      ResourceInfo
	Version   int
	Producer  NodeHandle
	Consumers []NodeHandle
}

// Barrier transitions one resource from the state it was last used in to
// the state the next node needs.
type Barrier struct {
	Resource string
	Info     ResourceInfo
	Src      State
	Dst      State
}

// Initial reports whether the barrier discards undefined contents rather
// than ordering against an earlier use in the frame.
func (b Barrier) Initial() bool { return b.Src.IsZero() }

func (b Barrier) String() string {
	return b.Resource + ": " + b.Src.String() + " -> " + b.Dst.String()
}

// DependencyGroup is the batch of barriers applied before a node executes.
type DependencyGroup struct {
	Node     string
	Barriers []Barrier
}

// Empty reports whether the group has no barriers.
func (g *DependencyGroup) Empty() bool { return len(g.Barriers) == 0 }

// Viewport is a render viewport in pixels.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Scissor is a scissor rectangle in pixels.
type Scissor struct {
	X, Y, Width, Height uint32
}
