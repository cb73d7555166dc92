// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/framegraph/resource"
)

// RunFrame records g into a fresh command encoder, submits it, waits for
// the device and reclaims the resources released during the frame.
//
// Recording errors reported by passes discard the frame.
func RunFrame(dev *Device, mgr *resource.Manager, g *framegraph.Graph, frameIndex uint32, scene any) (RecorderStats, error) {
	enc, err := dev.BeginFrame(fmt.Sprintf("%s frame %d", g.Name(), frameIndex))
	if err != nil {
		return RecorderStats{}, err
	}

	rec := NewRecorder(enc, mgr)
	err = g.RecordCommands(rec, frameIndex, scene)
	if err == nil {
		err = rec.Err()
	}
	if err != nil {
		enc.DiscardEncoding()
		return rec.Stats(), fmt.Errorf("native: frame %d: %w", frameIndex, err)
	}

	if err := dev.Submit(enc); err != nil {
		return rec.Stats(), err
	}
	reclaimed := mgr.Clean()
	logging.Logger().Debug("native: frame done",
		"frame", frameIndex,
		"passes", rec.Stats().RenderPasses,
		"reclaimed", reclaimed)
	return rec.Stats(), nil
}
