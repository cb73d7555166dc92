// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"io"

	"github.com/gogpu/gpucontext"
)

// Backend names.
const (
	BackendVulkan = "vulkan"
	BackendMetal  = "metal"
	BackendDX12   = "dx12"
	BackendGL     = "gl"
	BackendNoop   = "noop"
)

// Backend errors.
var (
	// ErrBackendNotAvailable is returned when no registered backend could
	// open a device.
	ErrBackendNotAvailable = errors.New("backend: no backend available")

	// ErrUnknownBackend is returned by Get for an unregistered name.
	ErrUnknownBackend = errors.New("backend: unknown backend")
)

// Factory opens a device. It returns an error when the backend cannot run
// on this machine.
type Factory func() (gpucontext.DeviceProvider, error)

// Close releases a provider if it holds resources.
func Close(p gpucontext.DeviceProvider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
