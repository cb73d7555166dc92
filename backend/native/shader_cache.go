// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// ShaderModule is a compiled shader module together with the hash of the
// WGSL it was compiled from.
type ShaderModule struct {
	Module hal.ShaderModule
	Hash   uint64
}

// ShaderCache compiles WGSL once per distinct source and keeps the
// resulting shader modules for the lifetime of the device.
type ShaderCache struct {
	device hal.Device

	mu      sync.RWMutex
	modules map[uint64]ShaderModule

	compiles atomic.Uint64
}

// NewShaderCache creates an empty cache creating modules on device.
func NewShaderCache(device hal.Device) *ShaderCache {
	return &ShaderCache{device: device, modules: make(map[uint64]ShaderModule)}
}

// Module returns the shader module for source, compiling it on first use.
func (c *ShaderCache) Module(label, source string) (ShaderModule, error) {
	key := hashString(source)

	c.mu.RLock()
	if m, ok := c.modules[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modules[key]; ok {
		return m, nil
	}

	code, err := CompileWGSL(source)
	if err != nil {
		return ShaderModule{}, fmt.Errorf("%s: %w", label, err)
	}
	mod, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return ShaderModule{}, fmt.Errorf("native: create shader module %s: %w", label, err)
	}
	m := ShaderModule{Module: mod, Hash: key}
	c.modules[key] = m
	c.compiles.Add(1)
	return m, nil
}

// Compiles returns how many sources have been compiled.
func (c *ShaderCache) Compiles() uint64 { return c.compiles.Load() }

// Destroy destroys every cached module.
func (c *ShaderCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.modules {
		c.device.DestroyShaderModule(m.Module)
	}
	c.modules = make(map[uint64]ShaderModule)
}
