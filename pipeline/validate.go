// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

// Config validation errors.
var (
	// ErrDuplicateName is returned when two resources or two passes share
	// a name.
	ErrDuplicateName = errors.New("pipeline: duplicate name")

	// ErrUnknownResource is returned when a port names an undeclared
	// resource.
	ErrUnknownResource = errors.New("pipeline: unknown resource")

	// ErrNoExtent is returned when an image is sized from the extent but
	// the file declares none.
	ErrNoExtent = errors.New("pipeline: relative image without extent")
)

// validate checks names and references. Errors are reported together.
func (c *Config) validate() error {
	var errs []error

	resources := make(map[string]bool)
	for _, img := range c.Images {
		if resources[img.Name] {
			errs = append(errs, fmt.Errorf("%w: resource %q", ErrDuplicateName, img.Name))
		}
		resources[img.Name] = true
		if _, err := ParseFormat(img.Format); err != nil {
			errs = append(errs, fmt.Errorf("image %q: %w", img.Name, err))
		}
		if _, err := ParseImageUsage(img.Usage); err != nil {
			errs = append(errs, fmt.Errorf("image %q: %w", img.Name, err))
		}
		if img.Relative() && c.Extent == nil {
			errs = append(errs, fmt.Errorf("%w: image %q", ErrNoExtent, img.Name))
		}
		if img.Scale != nil && *img.Scale <= 0 {
			errs = append(errs, fmt.Errorf("image %q: scale must be positive", img.Name))
		}
	}
	for _, buf := range c.Buffers {
		if resources[buf.Name] {
			errs = append(errs, fmt.Errorf("%w: resource %q", ErrDuplicateName, buf.Name))
		}
		resources[buf.Name] = true
		if buf.Size == 0 {
			errs = append(errs, fmt.Errorf("buffer %q: size must be positive", buf.Name))
		}
		if _, err := ParseBufferUsage(buf.Usage); err != nil {
			errs = append(errs, fmt.Errorf("buffer %q: %w", buf.Name, err))
		}
	}

	passes := make(map[string]bool)
	for _, p := range c.Passes {
		if passes[p.Name] {
			errs = append(errs, fmt.Errorf("%w: pass %q", ErrDuplicateName, p.Name))
		}
		passes[p.Name] = true
		if _, err := ParseQueue(p.Queue); err != nil {
			errs = append(errs, fmt.Errorf("pass %q: %w", p.Name, err))
		}
		if _, err := DecodeColor(p.LabelColor); err != nil {
			errs = append(errs, fmt.Errorf("pass %q: %w", p.Name, err))
		}
		for _, port := range append(append([]*PortBlock(nil), p.Inputs...), p.Outputs...) {
			if !resources[port.Resource] {
				errs = append(errs, fmt.Errorf("%w: pass %q uses %q", ErrUnknownResource, p.Name, port.Resource))
			}
			if _, err := ParseUsageKind(port.Usage); err != nil {
				errs = append(errs, fmt.Errorf("pass %q: %w", p.Name, err))
			}
			if _, err := ParseStage(port.Stage); err != nil {
				errs = append(errs, fmt.Errorf("pass %q: %w", p.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
