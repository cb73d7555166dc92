// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"slices"
	"sync"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// ErrUnknownKind is returned when a pass names a kind no factory is
// registered for.
var ErrUnknownKind = errors.New("pipeline: unknown pass kind")

// Port is a resolved pass input or output.
type Port struct {
	// Name is the resource name in the pipeline file.
	Name   string
	Info   framegraph.ResourceInfo
	Usage  framegraph.UsageKind
	Format gputypes.TextureFormat
}

// PassConfig is what a PassFactory builds a pass from.
type PassConfig struct {
	Name    string
	Kind    string
	Queue   framegraph.Queue
	Inputs  []Port
	Outputs []Port

	// Params holds the pass block attributes the pipeline does not
	// interpret.
	Params hcl.Body
}

// DecodeParams decodes Params into v, a pointer to a struct with hcl tags.
func (c *PassConfig) DecodeParams(v any) error {
	if c.Params == nil {
		return nil
	}
	if diags := gohcl.DecodeBody(c.Params, nil, v); diags.HasErrors() {
		return errors.New(diags.Error())
	}
	return nil
}

// InputsOf returns the inputs with the given usage.
func (c *PassConfig) InputsOf(u framegraph.UsageKind) []Port { return portsOf(c.Inputs, u) }

// OutputsOf returns the outputs with the given usage.
func (c *PassConfig) OutputsOf(u framegraph.UsageKind) []Port { return portsOf(c.Outputs, u) }

func portsOf(ports []Port, u framegraph.UsageKind) []Port {
	var out []Port
	for _, p := range ports {
		if p.Usage == u {
			out = append(out, p)
		}
	}
	return out
}

// PassFactory creates the pass of one node.
type PassFactory func(cfg *PassConfig) (framegraph.Pass, error)

// Registry maps pass kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]PassFactory
}

// NewRegistry returns a registry with the "noop" kind, a pass that
// records nothing.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]PassFactory)}
	r.Register("noop", func(*PassConfig) (framegraph.Pass, error) {
		return framegraph.PassFunc(func(framegraph.CommandTarget, uint32, any) {}), nil
	})
	return r
}

// Register registers a factory for kind, replacing any previous one.
func (r *Registry) Register(kind string, f PassFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Unregister removes kind.
func (r *Registry) Unregister(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, kind)
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (PassFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
