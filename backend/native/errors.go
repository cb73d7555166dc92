// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not linked into the program.
	ErrBackendUnavailable = errors.New("native: HAL backend not available")

	// ErrNoGPU is returned when the backend reports no adapter.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNotHAL is returned when a provider does not carry HAL objects.
	ErrNotHAL = errors.New("native: provider does not expose a HAL device")

	// ErrClosed is returned by operations on a closed provider or device.
	ErrClosed = errors.New("native: closed")

	// ErrPassEnded is returned when commands are recorded on an ended pass.
	ErrPassEnded = errors.New("native: render pass has already ended")

	// ErrPassOpen is returned when a render pass is begun while another
	// one is still recording.
	ErrPassOpen = errors.New("native: render pass already open")

	// ErrNilPipeline is returned when SetPipeline is called with nil.
	ErrNilPipeline = errors.New("native: pipeline is nil")

	// ErrNilBindGroup is returned when SetBindGroup is called with nil.
	ErrNilBindGroup = errors.New("native: bind group is nil")

	// ErrBindGroupIndexOutOfRange is returned when bind group index exceeds maximum.
	ErrBindGroupIndexOutOfRange = errors.New("native: bind group index exceeds maximum (3)")

	// ErrNoAttachments is returned when a render pass has no attachment.
	ErrNoAttachments = errors.New("native: render pass has no attachments")

	// ErrWrongTarget is returned when a built-in pass records into a
	// command target that is not a Recorder.
	ErrWrongTarget = errors.New("native: command target is not a native recorder")
)
