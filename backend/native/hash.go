// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/gogpu/gputypes"
)

// hashLayoutEntries returns a structural hash of bind group layout entries.
// Entries are hashed in order; reordering them yields a different layout.
func hashLayoutEntries(entries []gputypes.BindGroupLayoutEntry) uint64 {
	h := fnv.New64a()
	//nolint:gosec // G115: binding count is bounded by GPU limits
	hashWriteUint32(h, uint32(len(entries)))
	for i := range entries {
		e := &entries[i]
		hashWriteUint32(h, e.Binding)
		hashWriteUint32(h, uint32(e.Visibility))
		switch {
		case e.Buffer != nil:
			hashWriteUint32(h, 1)
			hashWriteUint32(h, uint32(e.Buffer.Type))
			hashWriteBool(h, e.Buffer.HasDynamicOffset)
			hashWriteUint64(h, e.Buffer.MinBindingSize)
		case e.Sampler != nil:
			hashWriteUint32(h, 2)
			hashWriteUint32(h, uint32(e.Sampler.Type))
		case e.Texture != nil:
			hashWriteUint32(h, 3)
			hashWriteUint32(h, uint32(e.Texture.SampleType))
			hashWriteUint32(h, uint32(e.Texture.ViewDimension))
			hashWriteBool(h, e.Texture.Multisampled)
		case e.StorageTexture != nil:
			hashWriteUint32(h, 4)
			hashWriteUint32(h, uint32(e.StorageTexture.Access))
			hashWriteUint32(h, uint32(e.StorageTexture.Format))
			hashWriteUint32(h, uint32(e.StorageTexture.ViewDimension))
		default:
			hashWriteUint32(h, 0)
		}
	}
	return h.Sum64()
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	hashWriteString(h, s)
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		hashWriteUint32(h, 1)
	} else {
		hashWriteUint32(h, 0)
	}
}

func hashWriteString(h hash.Hash64, s string) {
	//nolint:gosec // G115: labels and sources are far below 4 GiB
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func newHash() hash.Hash64 { return fnv.New64a() }
