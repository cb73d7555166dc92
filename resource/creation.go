// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ImageCreation describes an image to create. The zero value plus SetSize
// and SetFormat is a single-layer, single-mip image.
type ImageCreation struct {
	Name   string
	Width  uint32
	Height uint32
	Layers uint32
	Mips   uint32
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// NewImageCreation returns a creation for a sampled 2D image.
func NewImageCreation(name string) *ImageCreation {
	return &ImageCreation{
		Name:   name,
		Layers: 1,
		Mips:   1,
		Usage:  gputypes.TextureUsageTextureBinding,
	}
}

func (c *ImageCreation) SetName(name string) *ImageCreation {
	c.Name = name
	return c
}

func (c *ImageCreation) SetSize(width, height uint32) *ImageCreation {
	c.Width, c.Height = width, height
	return c
}

func (c *ImageCreation) SetFormat(f gputypes.TextureFormat) *ImageCreation {
	c.Format = f
	return c
}

func (c *ImageCreation) SetUsage(u gputypes.TextureUsage) *ImageCreation {
	c.Usage = u
	return c
}

func (c *ImageCreation) SetLayers(n uint32) *ImageCreation {
	c.Layers = n
	return c
}

func (c *ImageCreation) SetMips(n uint32) *ImageCreation {
	c.Mips = n
	return c
}

// Validate checks that the creation describes a real image.
func (c *ImageCreation) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("%w: image %q has extent %dx%d", ErrInvalidCreation, c.Name, c.Width, c.Height)
	}
	if c.Format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: image %q has no format", ErrInvalidCreation, c.Name)
	}
	return nil
}

// BufferCreation describes a buffer to create.
type BufferCreation struct {
	Name  string
	Size  uint64
	Usage gputypes.BufferUsage
}

// NewBufferCreation returns a creation for a storage buffer.
func NewBufferCreation(name string) *BufferCreation {
	return &BufferCreation{Name: name, Usage: gputypes.BufferUsageStorage}
}

func (c *BufferCreation) SetName(name string) *BufferCreation {
	c.Name = name
	return c
}

func (c *BufferCreation) SetSize(size uint64) *BufferCreation {
	c.Size = size
	return c
}

func (c *BufferCreation) SetUsage(u gputypes.BufferUsage) *BufferCreation {
	c.Usage = u
	return c
}

// Validate checks that the creation describes a real buffer.
func (c *BufferCreation) Validate() error {
	if c.Size == 0 {
		return fmt.Errorf("%w: buffer %q has size 0", ErrInvalidCreation, c.Name)
	}
	return nil
}
