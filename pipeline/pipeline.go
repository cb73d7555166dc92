// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pipeline builds frame graphs from HCL pipeline files.
//
// A pipeline file declares an extent, the images and buffers of a frame and
// the passes that read and write them:
//
//	extent { width = 1280  height = 720 }
//
//	image "hdr" { format = "rgba16float" }
//	image "shadow" { format = "depth32float"  width = 2048  height = 2048 }
//
//	pass "shadow" {
//	  kind = "clear"
//	  output "shadow" { usage = "attachment" }
//	}
//
// Pass kinds are resolved through a [Registry]. [New] creates the resources
// through a resource.Manager and builds the graph. [Pipeline.Resize]
// recreates the images sized from the extent and rebuilds the graph.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
)

// ErrClosed is returned by operations on a closed pipeline.
var ErrClosed = errors.New("pipeline: closed")

type options struct {
	width, height uint32
	name          string
}

// Option configures New.
type Option func(*options)

// WithExtent overrides the extent declared in the file.
func WithExtent(width, height uint32) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithName overrides the graph name. The default is the file's name
// attribute, or "pipeline".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

type image struct {
	cfg    *ImageConfig
	handle resource.ImageHandle
	format gputypes.TextureFormat
	usage  gputypes.TextureUsage
}

// Pipeline owns the resources and graph described by a Config.
type Pipeline struct {
	cfg *Config
	mgr *resource.Manager
	reg *Registry

	name          string
	width, height uint32

	images  map[string]*image
	buffers map[string]resource.BufferHandle
	order   []string

	graph  *framegraph.Graph
	nodes  map[string]framegraph.NodeHandle
	passes []framegraph.Pass
	closed bool
}

// New creates the resources of cfg through mgr and builds the graph.
func New(cfg *Config, mgr *resource.Manager, reg *Registry, opts ...Option) (*Pipeline, error) {
	o := options{name: cfg.Name}
	if cfg.Extent != nil {
		o.width, o.height = cfg.Extent.Width, cfg.Extent.Height
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = "pipeline"
	}

	p := &Pipeline{
		cfg:     cfg,
		mgr:     mgr,
		reg:     reg,
		name:    o.name,
		width:   o.width,
		height:  o.height,
		images:  make(map[string]*image),
		buffers: make(map[string]resource.BufferHandle),
	}
	if err := p.createResources(); err != nil {
		p.destroyResources()
		return nil, err
	}
	if err := p.rebuild(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Graph returns the built graph.
func (p *Pipeline) Graph() *framegraph.Graph { return p.graph }

// Extent returns the current extent.
func (p *Pipeline) Extent() (width, height uint32) { return p.width, p.height }

// Image returns the handle of the named image.
func (p *Pipeline) Image(name string) (resource.ImageHandle, bool) {
	img, ok := p.images[name]
	if !ok {
		return resource.ImageHandle{}, false
	}
	return img.handle, true
}

// Buffer returns the handle of the named buffer.
func (p *Pipeline) Buffer(name string) (resource.BufferHandle, bool) {
	h, ok := p.buffers[name]
	return h, ok
}

// SetPassEnabled enables or disables the named pass and rebuilds the graph.
func (p *Pipeline) SetPassEnabled(name string, enabled bool) error {
	if p.closed {
		return ErrClosed
	}
	h, ok := p.nodes[name]
	if !ok {
		return fmt.Errorf("pipeline: no pass %q", name)
	}
	p.graph.SetNodeEnabled(h, enabled)
	return p.graph.Build()
}

// Resize changes the extent, recreates the images sized from it and
// rebuilds the graph. Replaced images are released to the manager and
// reclaimed by its next Clean. If any replacement cannot be created the
// pipeline keeps its previous extent and images.
func (p *Pipeline) Resize(width, height uint32) error {
	if p.closed {
		return ErrClosed
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: extent %dx%d", resource.ErrInvalidCreation, width, height)
	}
	if width == p.width && height == p.height {
		return nil
	}

	replaced := make(map[string]resource.ImageHandle)
	for _, name := range p.order {
		img, ok := p.images[name]
		if !ok || !img.cfg.Relative() {
			continue
		}
		h, err := p.createImageAt(img, width, height)
		if err != nil {
			for _, h := range replaced {
				p.mgr.DestroyImage(h)
			}
			return err
		}
		replaced[name] = h
	}

	p.width, p.height = width, height
	for name, h := range replaced {
		img := p.images[name]
		p.mgr.DestroyImage(img.handle)
		img.handle = h
	}
	logging.Logger().Info("pipeline: resized", "pipeline", p.name, "width", width, "height", height)
	return p.rebuild()
}

// Close closes passes that implement io.Closer and releases every
// resource. Close is idempotent.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.closePasses()
	p.destroyResources()
}

func (p *Pipeline) createResources() error {
	var errs []error
	inferred := p.inferImageUsage()

	for _, c := range p.cfg.Images {
		format, err := ParseFormat(c.Format)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		usage, err := ParseImageUsage(c.Usage)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		img := &image{cfg: c, format: format, usage: usage | inferred[c.Name]}
		if img.usage == 0 {
			img.usage = gputypes.TextureUsageTextureBinding
		}
		h, err := p.createImage(img)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		img.handle = h
		p.images[c.Name] = img
		p.order = append(p.order, c.Name)
	}

	for _, c := range p.cfg.Buffers {
		usage, err := ParseBufferUsage(c.Usage)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		creation := resource.NewBufferCreation(c.Name).SetSize(c.Size)
		if usage != 0 {
			creation.SetUsage(usage)
		}
		h, err := p.mgr.CreateBuffer(creation)
		if err != nil {
			errs = append(errs, fmt.Errorf("buffer %q: %w", c.Name, err))
			continue
		}
		p.buffers[c.Name] = h
	}
	return errors.Join(errs...)
}

// inferImageUsage returns the texture usages implied by how passes use
// each image.
func (p *Pipeline) inferImageUsage() map[string]gputypes.TextureUsage {
	usage := make(map[string]gputypes.TextureUsage)
	for _, pass := range p.cfg.Passes {
		for _, port := range append(append([]*PortBlock(nil), pass.Inputs...), pass.Outputs...) {
			kind, err := ParseUsageKind(port.Usage)
			if err != nil {
				continue
			}
			switch kind {
			case framegraph.Attachment:
				usage[port.Resource] |= gputypes.TextureUsageRenderAttachment
			case framegraph.Texture:
				usage[port.Resource] |= gputypes.TextureUsageTextureBinding
			}
		}
	}
	return usage
}

func (p *Pipeline) createImage(img *image) (resource.ImageHandle, error) {
	return p.createImageAt(img, p.width, p.height)
}

// createImageAt creates img with relative sizes taken from the given
// extent.
func (p *Pipeline) createImageAt(img *image, extentW, extentH uint32) (resource.ImageHandle, error) {
	c := img.cfg
	width, height := c.Width, c.Height
	if c.Relative() {
		scale := 1.0
		if c.Scale != nil {
			scale = *c.Scale
		}
		width, height = scaled(extentW, scale), scaled(extentH, scale)
	}
	creation := resource.NewImageCreation(c.Name).
		SetSize(width, height).
		SetFormat(img.format).
		SetUsage(img.usage)
	if c.Layers > 0 {
		creation.SetLayers(c.Layers)
	}
	if c.Mips > 0 {
		creation.SetMips(c.Mips)
	}
	h, err := p.mgr.CreateImage(creation)
	if err != nil {
		return resource.ImageHandle{}, fmt.Errorf("image %q: %w", c.Name, err)
	}
	return h, nil
}

// scaled returns max(1, round(extent*scale)), or 0 for a zero extent so
// that creation fails validation.
func scaled(extent uint32, scale float64) uint32 {
	if extent == 0 {
		return 0
	}
	return uint32(max(1, math.Round(float64(extent)*scale)))
}

// rebuild creates fresh passes and a fresh graph from the config.
func (p *Pipeline) rebuild() error {
	p.closePasses()

	g := framegraph.New(p.mgr,
		framegraph.WithName(p.name),
		framegraph.WithDefaultExtent(p.width, p.height))
	nodes := make(map[string]framegraph.NodeHandle, len(p.cfg.Passes))

	var errs []error
	for _, block := range p.cfg.Passes {
		node, pass, err := p.node(block)
		if err != nil {
			errs = append(errs, fmt.Errorf("pass %q: %w", block.Name, err))
			continue
		}
		p.passes = append(p.passes, pass)
		nodes[block.Name] = g.AddNode(node)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.graph, p.nodes = g, nodes
	return g.Build()
}

func (p *Pipeline) node(block *PassBlock) (*framegraph.NodeCreation, framegraph.Pass, error) {
	factory, ok := p.reg.Lookup(block.Kind)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, block.Kind)
	}
	queue, err := ParseQueue(block.Queue)
	if err != nil {
		return nil, nil, err
	}
	color, err := DecodeColor(block.LabelColor)
	if err != nil {
		return nil, nil, err
	}

	cfg := &PassConfig{Name: block.Name, Kind: block.Kind, Queue: queue, Params: block.Params}
	if cfg.Inputs, err = p.ports(block.Inputs); err != nil {
		return nil, nil, err
	}
	if cfg.Outputs, err = p.ports(block.Outputs); err != nil {
		return nil, nil, err
	}
	pass, err := factory(cfg)
	if err != nil {
		return nil, nil, err
	}

	node := framegraph.NewNode(pass).
		SetName(block.Name).
		SetQueue(queue).
		SetLabelColor(color)
	if block.Enabled != nil {
		node.SetEnabled(*block.Enabled)
	}
	for i, port := range cfg.Inputs {
		node.AddInput(port.Info, port.Usage, portOptions(block.Inputs[i])...)
	}
	for i, port := range cfg.Outputs {
		node.AddOutput(port.Info, port.Usage, portOptions(block.Outputs[i])...)
	}
	return node, pass, nil
}

func (p *Pipeline) ports(blocks []*PortBlock) ([]Port, error) {
	ports := make([]Port, 0, len(blocks))
	for _, b := range blocks {
		usage, err := ParseUsageKind(b.Usage)
		if err != nil {
			return nil, err
		}
		port := Port{Name: b.Resource, Usage: usage}
		if img, ok := p.images[b.Resource]; ok {
			port.Info = framegraph.ImageInfo(img.handle)
			port.Format = img.format
		} else if h, ok := p.buffers[b.Resource]; ok {
			port.Info = framegraph.BufferInfo(h)
		} else {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResource, b.Resource)
		}
		ports = append(ports, port)
	}
	return ports, nil
}

func portOptions(b *PortBlock) []framegraph.PortOption {
	var opts []framegraph.PortOption
	if stage, err := ParseStage(b.Stage); err == nil && stage != framegraph.StageNone {
		opts = append(opts, framegraph.WithStage(stage))
	}
	if b.SimultaneousWrites {
		opts = append(opts, framegraph.AllowSimultaneousWrites())
	}
	return opts
}

func (p *Pipeline) closePasses() {
	for _, pass := range p.passes {
		if c, ok := pass.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logging.Logger().Warn("pipeline: closing pass", "err", err)
			}
		}
	}
	p.passes = nil
}

func (p *Pipeline) destroyResources() {
	for _, img := range p.images {
		p.mgr.DestroyImage(img.handle)
	}
	for _, h := range p.buffers {
		p.mgr.DestroyBuffer(h)
	}
	clear(p.images)
	clear(p.buffers)
	p.order = nil
}
