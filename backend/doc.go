// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the GPU device a frame graph records for.
//
// Backends register a factory under a name, usually from an init function,
// and are selected at runtime either by name or by priority:
//
//	import _ "github.com/gogpu/framegraph/backend/native"
//
//	provider, name, err := backend.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close(provider)
//
// Factories return a gpucontext.DeviceProvider, the same handle type the
// rest of the gogpu ecosystem passes around.
package backend
