// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/pipeline"
	"github.com/gogpu/gputypes"
)

// Pass kinds registered by RegisterPasses.
const (
	KindClear      = "clear"
	KindFullscreen = "fullscreen"
)

// ErrPassPorts is returned when a pass block lacks the inputs or outputs
// its kind needs.
var ErrPassPorts = errors.New("native: pass is missing required ports")

type clearParams struct {
	ClearColor []float64 `hcl:"clear_color,optional"`
	ClearDepth *float64  `hcl:"clear_depth,optional"`
}

type fullscreenParams struct {
	Shader string `hcl:"shader,optional"`
}

// RegisterPasses registers the built-in pass kinds, creating passes that
// record on dev:
//
//	clear       clears every attachment output
//	            clear_color = [r, g, b, a], clear_depth = 1.0
//	fullscreen  samples the first texture input into the first attachment
//	            output; shader = WGSL source replacing the default
func RegisterPasses(reg *pipeline.Registry, dev *Device) {
	reg.Register(KindClear, func(cfg *pipeline.PassConfig) (framegraph.Pass, error) {
		return newClearPass(cfg)
	})
	reg.Register(KindFullscreen, func(cfg *pipeline.PassConfig) (framegraph.Pass, error) {
		return newFullscreenPass(cfg, dev)
	})
}

func newClearPass(cfg *pipeline.PassConfig) (*ClearPass, error) {
	var params clearParams
	if err := cfg.DecodeParams(&params); err != nil {
		return nil, err
	}
	p := &ClearPass{Color: gputypes.Color{A: 1}, DepthValue: 1}
	switch len(params.ClearColor) {
	case 0:
	case 3:
		c := params.ClearColor
		p.Color = gputypes.Color{R: c[0], G: c[1], B: c[2], A: 1}
	case 4:
		c := params.ClearColor
		p.Color = gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
	default:
		return nil, fmt.Errorf("clear_color: want 3 or 4 components, got %d", len(params.ClearColor))
	}
	if params.ClearDepth != nil {
		p.DepthValue = float32(*params.ClearDepth)
	}

	for _, port := range cfg.OutputsOf(framegraph.Attachment) {
		switch {
		case !port.Info.IsImage():
		case port.Format.HasDepth() && p.Depth.IsNull():
			p.Depth = port.Info.Image()
		case !port.Format.HasDepth():
			p.Colors = append(p.Colors, port.Info.Image())
		}
	}
	if len(p.Colors) == 0 && p.Depth.IsNull() {
		return nil, fmt.Errorf("%w: %s needs an attachment output", ErrPassPorts, KindClear)
	}
	return p, nil
}

func newFullscreenPass(cfg *pipeline.PassConfig, dev *Device) (*FullscreenPass, error) {
	var params fullscreenParams
	if err := cfg.DecodeParams(&params); err != nil {
		return nil, err
	}
	sources := cfg.InputsOf(framegraph.Texture)
	targets := cfg.OutputsOf(framegraph.Attachment)
	if len(sources) == 0 || len(targets) == 0 || !sources[0].Info.IsImage() || !targets[0].Info.IsImage() {
		return nil, fmt.Errorf("%w: %s needs a texture input and an attachment output", ErrPassPorts, KindFullscreen)
	}
	p := NewFullscreenPass(dev, sources[0].Info.Image(), targets[0].Info.Image())
	if params.Shader != "" {
		p.Shader = params.Shader
	}
	return p, nil
}
