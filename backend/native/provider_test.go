// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestOpenHeadlessNoop(t *testing.T) {
	p, err := OpenHeadless(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenHeadless: %v", err)
	}
	defer p.Close()

	if _, ok := p.Device().(hal.Device); !ok {
		t.Errorf("Device() = %T, want hal.Device", p.Device())
	}
	if _, ok := p.Queue().(hal.Queue); !ok {
		t.Errorf("Queue() = %T, want hal.Queue", p.Queue())
	}
	if p.AdapterInfo().Name == "" {
		t.Error("AdapterInfo().Name is empty")
	}
	if got := p.SurfaceFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat = %v, want RGBA8Unorm", got)
	}
	if err := p.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOpenHeadlessUnavailable(t *testing.T) {
	_, err := OpenHeadless(gputypes.BackendBrowserWebGPU)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("OpenHeadless(BrowserWebGPU) = %v, want ErrBackendUnavailable", err)
	}
}

func TestBackendsRegistered(t *testing.T) {
	for name := range variants {
		if !backend.IsRegistered(name) {
			t.Errorf("backend %q not registered", name)
		}
	}
	p, err := backend.Get(backend.BackendNoop)
	if err != nil {
		t.Fatalf("backend.Get(noop): %v", err)
	}
	if err := backend.Close(p); err != nil {
		t.Errorf("backend.Close: %v", err)
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
