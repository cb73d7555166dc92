// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides an in-memory resource.Device for tests that do
// not need a GPU.
package gputest

import (
	"errors"
	"sync"

	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gputypes"
)

// ErrInjected is returned by Device when FailNext is set.
var ErrInjected = errors.New("gputest: injected failure")

// Texture is a fake hal.Texture.
type Texture struct {
	ID        uintptr
	Destroyed bool
}

func (t *Texture) Destroy()                           { t.Destroyed = true }
func (t *Texture) NativeHandle() uintptr              { return t.ID }
func (t *Texture) CurrentUsage() gputypes.TextureUsage { return gputypes.TextureUsageNone }
func (t *Texture) AddPendingRef()                     {}
func (t *Texture) DecPendingRef()                     {}

// TextureView is a fake hal.TextureView.
type TextureView struct {
	ID        uintptr
	Destroyed bool
}

func (v *TextureView) Destroy()              { v.Destroyed = true }
func (v *TextureView) NativeHandle() uintptr { return v.ID }

// Buffer is a fake hal.Buffer.
type Buffer struct {
	ID        uintptr
	Destroyed bool
}

func (b *Buffer) Destroy()              { b.Destroyed = true }
func (b *Buffer) NativeHandle() uintptr { return b.ID }

// Device is a resource.Device that records what it creates and destroys.
type Device struct {
	mu     sync.Mutex
	next   uintptr
	failIn int // create calls until an injected failure, 0 when disarmed

	Created   []string
	Destroyed []string
}

// NewDevice returns an empty fake device.
func NewDevice() *Device { return &Device{} }

// FailNext makes the next create call fail with ErrInjected.
func (d *Device) FailNext() { d.FailAfter(0) }

// FailAfter lets n create calls succeed and makes the one after them fail
// with ErrInjected.
func (d *Device) FailAfter(n int) {
	d.mu.Lock()
	d.failIn = n + 1
	d.mu.Unlock()
}

func (d *Device) take() (uintptr, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failIn > 0 {
		d.failIn--
		if d.failIn == 0 {
			return 0, ErrInjected
		}
	}
	d.next++
	return d.next, nil
}

// CreateImage implements resource.Device.
func (d *Device) CreateImage(c *resource.ImageCreation) (resource.Image, error) {
	id, err := d.take()
	if err != nil {
		return resource.Image{}, err
	}
	d.mu.Lock()
	d.Created = append(d.Created, c.Name)
	d.mu.Unlock()
	return resource.Image{
		Name:    c.Name,
		Texture: &Texture{ID: id},
		View:    &TextureView{ID: id},
		Width:   c.Width,
		Height:  c.Height,
		Layers:  c.Layers,
		Mips:    c.Mips,
		Format:  c.Format,
		Usage:   c.Usage,
	}, nil
}

// DestroyImage implements resource.Device.
func (d *Device) DestroyImage(img *resource.Image) {
	img.View.Destroy()
	img.Texture.Destroy()
	d.mu.Lock()
	d.Destroyed = append(d.Destroyed, img.Name)
	d.mu.Unlock()
}

// CreateBuffer implements resource.Device.
func (d *Device) CreateBuffer(c *resource.BufferCreation) (resource.Buffer, error) {
	id, err := d.take()
	if err != nil {
		return resource.Buffer{}, err
	}
	d.mu.Lock()
	d.Created = append(d.Created, c.Name)
	d.mu.Unlock()
	return resource.Buffer{Name: c.Name, Buffer: &Buffer{ID: id}, Size: c.Size, Usage: c.Usage}, nil
}

// DestroyBuffer implements resource.Device.
func (d *Device) DestroyBuffer(buf *resource.Buffer) {
	buf.Buffer.Destroy()
	d.mu.Lock()
	d.Destroyed = append(d.Destroyed, buf.Name)
	d.mu.Unlock()
}

// DestroyedNames returns a copy of the destroyed object names.
func (d *Device) DestroyedNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Destroyed...)
}
