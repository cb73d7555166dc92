// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type foreignProvider struct{}

func (foreignProvider) Device() gpucontext.Device             { return "not a device" }
func (foreignProvider) Queue() gpucontext.Queue               { return nil }
func (foreignProvider) SurfaceFormat() gputypes.TextureFormat { return 0 }
func (foreignProvider) Adapter() gpucontext.Adapter           { return nil }
func (foreignProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestNewDeviceRejectsForeignProvider(t *testing.T) {
	if _, err := NewDevice(nil); !errors.Is(err, ErrNotHAL) {
		t.Errorf("NewDevice(nil) = %v, want ErrNotHAL", err)
	}
	if _, err := NewDevice(foreignProvider{}); !errors.Is(err, ErrNotHAL) {
		t.Errorf("NewDevice(foreign) = %v, want ErrNotHAL", err)
	}
}

func TestDeviceCreatesImagesAndBuffers(t *testing.T) {
	_, mgr := openNoop(t)

	h, err := mgr.CreateImage(resource.NewImageCreation("array").
		SetSize(16, 8).
		SetFormat(gputypes.TextureFormatRGBA16Float).
		SetLayers(4).
		SetMips(2))
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	img := mgr.Image(h)
	if img.Texture == nil || img.View == nil {
		t.Fatalf("image = %+v, want texture and view", img)
	}
	if img.Layers != 4 || img.Mips != 2 {
		t.Errorf("layers, mips = %d, %d, want 4, 2", img.Layers, img.Mips)
	}

	b, err := mgr.CreateBuffer(resource.NewBufferCreation("args").SetSize(256))
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if buf := mgr.Buffer(b); buf == nil || buf.Buffer == nil || buf.Size != 256 {
		t.Errorf("buffer = %+v, want 256 byte buffer", buf)
	}

	mgr.DestroyImage(h)
	mgr.DestroyBuffer(b)
	if n := mgr.Clean(); n != 2 {
		t.Errorf("Clean = %d, want 2", n)
	}
}

func TestDeviceClosed(t *testing.T) {
	dev, _ := openNoop(t)
	dev.Close()
	dev.Close()

	_, err := dev.CreateImage(resource.NewImageCreation("late").SetSize(1, 1).SetFormat(gputypes.TextureFormatRGBA8Unorm))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("CreateImage after Close = %v, want ErrClosed", err)
	}
	if _, err := dev.BeginFrame("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginFrame after Close = %v, want ErrClosed", err)
	}
}

func TestSubmit(t *testing.T) {
	dev, _ := openNoop(t)
	enc, err := dev.BeginFrame("frame")
	if err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := dev.Submit(enc); err != nil {
		t.Errorf("Submit: %v", err)
	}
}
