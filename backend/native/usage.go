// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
)

const attachmentAccess = framegraph.AccessColorAttachmentRead |
	framegraph.AccessColorAttachmentWrite |
	framegraph.AccessDepthStencilRead |
	framegraph.AccessDepthStencilWrite

// TextureUsage maps a frame graph state to the HAL texture usage it
// implies. The zero state maps to TextureUsageNone: the previous contents
// are undefined.
func TextureUsage(s framegraph.State) gputypes.TextureUsage {
	u := gputypes.TextureUsageNone
	if s.Access&attachmentAccess != 0 {
		u |= gputypes.TextureUsageRenderAttachment
	}
	if s.Access&framegraph.AccessShaderRead != 0 {
		u |= gputypes.TextureUsageTextureBinding
	}
	if s.Access&framegraph.AccessShaderWrite != 0 {
		u |= gputypes.TextureUsageStorageBinding
	}
	return u
}

// BufferUsage maps a frame graph state to the HAL buffer usage it implies.
func BufferUsage(s framegraph.State) gputypes.BufferUsage {
	u := gputypes.BufferUsageNone
	if s.Access&(framegraph.AccessShaderRead|framegraph.AccessShaderWrite) != 0 {
		u |= gputypes.BufferUsageStorage
	}
	if s.Access&framegraph.AccessIndirectCommandRead != 0 {
		u |= gputypes.BufferUsageIndirect
	}
	return u
}

// textureAspect returns the aspect barriers on a texture of format f
// cover. Depth-only formats transition the depth aspect alone.
func textureAspect(f gputypes.TextureFormat) gputypes.TextureAspect {
	if f.HasDepth() && !f.HasStencil() {
		return gputypes.TextureAspectDepthOnly
	}
	return gputypes.TextureAspectAll
}
