// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native runs frame graphs on gogpu/wgpu HAL devices.
//
// It provides the GPU collaborator the frame graph is written against:
//
//   - [Provider] opens a HAL backend headlessly and exposes it as a
//     gpucontext.DeviceProvider. Importing this package registers the
//     vulkan, metal, dx12, gl and noop providers with package backend.
//   - [Device] implements resource.Device, creating textures, default
//     views and buffers, and owns the [LayoutCache], [ShaderCache] and
//     [PipelineCache].
//   - [Recorder] implements framegraph.CommandTarget on a HAL command
//     encoder. It translates barrier states into texture and buffer usage
//     transitions and begins render passes with the node's viewport and
//     scissor.
//   - [ClearPass] and [FullscreenPass] are built-in passes registered into
//     a pipeline registry by [RegisterPasses].
//   - [RunFrame] records a built graph, submits it and reclaims the
//     resources released during the frame.
//
// Only the noop HAL backend is linked by this package. Programs that want
// real GPUs import github.com/gogpu/wgpu/hal/allbackends.
package native
