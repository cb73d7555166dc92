// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package resource defines the GPU objects tracked by the frame graph and
// the Manager that pools them in generational arenas.
//
// Images and buffers are created and destroyed by a [Device], the GPU
// backend collaborator. The Manager never destroys an object synchronously:
// dropped handles are reclaimed by [Manager.Clean] once the frame that may
// still use them has retired.
package resource

import (
	"errors"

	"github.com/gogpu/framegraph/arena"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Creation errors.
var (
	// ErrInvalidCreation is returned for a zero extent, zero size or
	// undefined format.
	ErrInvalidCreation = errors.New("resource: invalid creation parameters")

	// ErrNilDevice is returned when a Manager is created without a device.
	ErrNilDevice = errors.New("resource: device is nil")
)

// Image is a GPU texture together with its default view.
type Image struct {
	Name    string
	Texture hal.Texture
	View    hal.TextureView

	Width  uint32
	Height uint32
	Layers uint32
	Mips   uint32

	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// Extent returns the size of mip level zero.
func (img *Image) Extent() (width, height uint32) {
	return img.Width, img.Height
}

// IsDepth reports whether the image has a depth aspect.
func (img *Image) IsDepth() bool {
	return img.Format.HasDepth()
}

// Buffer is a GPU buffer.
type Buffer struct {
	Name   string
	Buffer hal.Buffer
	Size   uint64
	Usage  gputypes.BufferUsage
}

// ImageHandle refers to an Image owned by a Manager.
type ImageHandle = arena.Handle[Image]

// BufferHandle refers to a Buffer owned by a Manager.
type BufferHandle = arena.Handle[Buffer]

// Device creates and destroys the GPU objects behind images and buffers.
type Device interface {
	CreateImage(c *ImageCreation) (Image, error)
	DestroyImage(img *Image)
	CreateBuffer(c *BufferCreation) (Buffer, error)
	DestroyBuffer(buf *Buffer)
}
