// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// The noop backend makes headless runs possible everywhere.
	_ "github.com/gogpu/wgpu/hal/noop"
)

// variants maps backend registry names to HAL backend variants.
var variants = map[string]gputypes.Backend{
	backend.BackendVulkan: gputypes.BackendVulkan,
	backend.BackendMetal:  gputypes.BackendMetal,
	backend.BackendDX12:   gputypes.BackendDX12,
	backend.BackendGL:     gputypes.BackendGL,
	backend.BackendNoop:   gputypes.BackendEmpty,
}

func init() {
	for name, variant := range variants {
		backend.Register(name, func() (gpucontext.DeviceProvider, error) {
			return OpenHeadless(variant)
		})
	}
}

// Provider is a headless HAL device exposed as a gpucontext.DeviceProvider.
//
// Device and Queue return hal.Device and hal.Queue values.
type Provider struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo

	closeOnce sync.Once
}

var _ gpucontext.DeviceProvider = (*Provider)(nil)

// OpenHeadless opens the first suitable adapter of a HAL backend.
// Discrete and integrated GPUs are preferred over other adapters.
func OpenHeadless(variant gputypes.Backend) (*Provider, error) {
	b, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, variant)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %s", ErrNoGPU, variant)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		selected.Adapter.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	logging.Logger().Info("native: device opened",
		"backend", variant.String(), "adapter", selected.Info.Name)
	return &Provider{
		instance: instance,
		adapter:  selected.Adapter,
		device:   open.Device,
		queue:    open.Queue,
		info:     selected.Info,
	}, nil
}

// Device returns the hal.Device.
func (p *Provider) Device() gpucontext.Device { return p.device }

// Queue returns the hal.Queue.
func (p *Provider) Queue() gpucontext.Queue { return p.queue }

// Adapter returns the hal.Adapter.
func (p *Provider) Adapter() gpucontext.Adapter { return p.adapter }

// SurfaceFormat is RGBA8Unorm; headless providers have no surface.
func (p *Provider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// AdapterInfo returns the adapter name and type.
func (p *Provider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: p.info.Name, Type: adapterType(p.info.DeviceType)}
}

// Backend returns the HAL backend variant the device runs on.
func (p *Provider) Backend() gputypes.Backend { return p.info.Backend }

// Close waits for the device to go idle and destroys it. Close is
// idempotent.
func (p *Provider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if werr := p.device.WaitIdle(); werr != nil {
			err = fmt.Errorf("native: wait idle: %w", werr)
		}
		p.device.Destroy()
		p.adapter.Destroy()
		p.instance.Destroy()
	})
	return err
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
