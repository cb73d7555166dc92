// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"
	"strings"
)

// UsageKind describes how a node uses a resource.
type UsageKind uint8

const (
	// Attachment is a render target: color or depth/stencil depending on
	// the image format.
	Attachment UsageKind = iota

	// Texture is a sampled read. It is only valid as an input.
	Texture

	// StorageBuffer is a shader read (input) or write (output) of a buffer.
	StorageBuffer

	// Reference orders nodes that share a resource without a data
	// dependency. It creates edges and versions but never barriers.
	Reference
)

func (u UsageKind) String() string {
	switch u {
	case Attachment:
		return "Attachment"
	case Texture:
		return "Texture"
	case StorageBuffer:
		return "StorageBuffer"
	case Reference:
		return "Reference"
	default:
		return fmt.Sprintf("UsageKind(%d)", uint8(u))
	}
}

// Queue is the queue family a node records for.
type Queue uint8

const (
	Graphics Queue = iota
	Compute
)

func (q Queue) String() string {
	if q == Compute {
		return "Compute"
	}
	return "Graphics"
}

// Access is a set of memory access types.
type Access uint32

const (
	AccessShaderRead Access = 1 << iota
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilRead
	AccessDepthStencilWrite
	AccessIndirectCommandRead

	AccessNone Access = 0
)

var accessNames = []string{
	"ShaderRead",
	"ShaderWrite",
	"ColorAttachmentRead",
	"ColorAttachmentWrite",
	"DepthStencilRead",
	"DepthStencilWrite",
	"IndirectCommandRead",
}

// Has reports whether every bit of f is set in a.
func (a Access) Has(f Access) bool { return a&f == f }

const writeAccess = AccessShaderWrite | AccessColorAttachmentWrite | AccessDepthStencilWrite

// IsWrite reports whether a contains any write access.
func (a Access) IsWrite() bool { return a&writeAccess != 0 }

func (a Access) String() string { return flagString(uint32(a), accessNames, "None") }

// Stage is a set of pipeline stages.
type Stage uint32

const (
	StageDrawIndirect Stage = 1 << iota
	StageVertexShader
	StageFragmentShader
	StageEarlyFragmentTests
	StageLateFragmentTests
	StageColorAttachmentOutput
	StageComputeShader

	StageNone Stage = 0
)

var stageNames = []string{
	"DrawIndirect",
	"VertexShader",
	"FragmentShader",
	"EarlyFragmentTests",
	"LateFragmentTests",
	"ColorAttachmentOutput",
	"ComputeShader",
}

// Has reports whether every bit of f is set in s.
func (s Stage) Has(f Stage) bool { return s&f == f }

func (s Stage) String() string { return flagString(uint32(s), stageNames, "None") }

func flagString(v uint32, names []string, zero string) string {
	if v == 0 {
		return zero
	}
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
			v &^= 1 << i
		}
	}
	if v != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", v))
	}
	return strings.Join(parts, "|")
}

// State is the access and stage a resource is used with. The zero State
// means the contents are undefined.
type State struct {
	Access Access
	Stage  Stage
}

// IsZero reports whether s is the undefined state.
func (s State) IsZero() bool { return s.Access == AccessNone && s.Stage == StageNone }

func (s State) union(o State) State {
	return State{Access: s.Access | o.Access, Stage: s.Stage | o.Stage}
}

func (s State) String() string {
	if s.IsZero() {
		return "Undefined"
	}
	return s.Access.String() + "@" + s.Stage.String()
}

// layout groups accesses that share an image layout. Reads within the same
// layout need no barrier between them.
type layout uint8

const (
	layoutUndefined layout = iota
	layoutShaderRead
	layoutGeneral
	layoutColorAttachment
	layoutDepthAttachment
	layoutIndirect
)

func (s State) layout() layout {
	switch {
	case s.Access&(AccessDepthStencilRead|AccessDepthStencilWrite) != 0:
		return layoutDepthAttachment
	case s.Access&(AccessColorAttachmentRead|AccessColorAttachmentWrite) != 0:
		return layoutColorAttachment
	case s.Access&AccessShaderWrite != 0:
		return layoutGeneral
	case s.Access&AccessShaderRead != 0:
		return layoutShaderRead
	case s.Access&AccessIndirectCommandRead != 0:
		return layoutIndirect
	default:
		return layoutUndefined
	}
}
