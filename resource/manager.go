// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"fmt"

	"github.com/gogpu/framegraph/arena"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/gputypes"
)

// FallbackImageName is the name of the image substituted for stale handles.
const FallbackImageName = "fallback"

// Manager pools the images and buffers of one device.
//
// Handles returned by CreateImage and CreateBuffer carry one reference.
// When the last reference is released, or DestroyImage/DestroyBuffer is
// called, the object is destroyed on the device by the next Clean.
type Manager struct {
	device   Device
	images   *arena.Arena[Image]
	buffers  *arena.Arena[Buffer]
	fallback ImageHandle
}

// Stats reports arena occupancy.
type Stats struct {
	Images         int
	Buffers        int
	PendingImages  int
	PendingBuffers int
}

// NewManager creates a Manager and the 1x1 fallback image on dev.
func NewManager(dev Device) (*Manager, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	m := &Manager{
		device:  dev,
		images:  arena.New(arena.WithReclaim(dev.DestroyImage)),
		buffers: arena.New(arena.WithReclaim(dev.DestroyBuffer)),
	}

	fb, err := m.CreateImage(NewImageCreation(FallbackImageName).
		SetSize(1, 1).
		SetFormat(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		return nil, fmt.Errorf("create fallback image: %w", err)
	}
	m.fallback = fb
	return m, nil
}

// Device returns the device the manager creates objects on.
func (m *Manager) Device() Device { return m.device }

// CreateImage creates an image on the device and stores it.
func (m *Manager) CreateImage(c *ImageCreation) (ImageHandle, error) {
	if err := c.Validate(); err != nil {
		return ImageHandle{}, err
	}
	img, err := m.device.CreateImage(c)
	if err != nil {
		return ImageHandle{}, fmt.Errorf("create image %q: %w", c.Name, err)
	}
	return m.images.Create(img), nil
}

// CreateBuffer creates a buffer on the device and stores it.
func (m *Manager) CreateBuffer(c *BufferCreation) (BufferHandle, error) {
	if err := c.Validate(); err != nil {
		return BufferHandle{}, err
	}
	buf, err := m.device.CreateBuffer(c)
	if err != nil {
		return BufferHandle{}, fmt.Errorf("create buffer %q: %w", c.Name, err)
	}
	return m.buffers.Create(buf), nil
}

// Image returns the image h refers to, or nil if h is stale.
func (m *Manager) Image(h ImageHandle) *Image { return m.images.Access(h) }

// Buffer returns the buffer h refers to, or nil if h is stale.
func (m *Manager) Buffer(h BufferHandle) *Buffer { return m.buffers.Access(h) }

// ImageOrFallback returns the image h refers to, or the fallback image if
// h is stale. It never returns nil while the manager is open.
func (m *Manager) ImageOrFallback(h ImageHandle) *Image {
	if img := m.images.Access(h); img != nil {
		return img
	}
	if !h.IsNull() {
		logging.Logger().Warn("resource: stale image handle, using fallback", "handle", h.String())
	}
	return m.images.Access(m.fallback)
}

// Fallback returns the handle of the fallback image.
func (m *Manager) Fallback() ImageHandle { return m.fallback }

// Images returns the image arena.
func (m *Manager) Images() *arena.Arena[Image] { return m.images }

// Buffers returns the buffer arena.
func (m *Manager) Buffers() *arena.Arena[Buffer] { return m.buffers }

// DestroyImage schedules h for destruction at the next Clean.
func (m *Manager) DestroyImage(h ImageHandle) { m.images.Destroy(h) }

// DestroyBuffer schedules h for destruction at the next Clean.
func (m *Manager) DestroyBuffer(h BufferHandle) { m.buffers.Destroy(h) }

// Clean destroys every pending image and buffer. Call it once the GPU has
// finished the frames that may still reference them.
func (m *Manager) Clean() int {
	return m.images.Clean() + m.buffers.Clean()
}

// Stats returns current arena occupancy.
func (m *Manager) Stats() Stats {
	return Stats{
		Images:         m.images.Len(),
		Buffers:        m.buffers.Len(),
		PendingImages:  m.images.Pending(),
		PendingBuffers: m.buffers.Pending(),
	}
}

// Close destroys every object, the fallback image included. The device
// must be idle.
func (m *Manager) Close() {
	for _, h := range m.images.Handles() {
		m.images.Destroy(h)
	}
	for _, h := range m.buffers.Handles() {
		m.buffers.Destroy(h)
	}
	n := m.Clean()
	m.fallback = ImageHandle{}
	logging.Logger().Debug("resource: manager closed", "destroyed", n)
}
