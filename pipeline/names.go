// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/gputypes"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// ErrUnknownName is wrapped by every error about an unrecognized format,
// usage, stage or queue name.
var ErrUnknownName = errors.New("pipeline: unknown name")

// fold normalizes a user-supplied name: case-folded, with '-' and '_'
// removed so that "rgba16float", "RGBA16Float" and "rgba16_float" match.
func fold(name string) string {
	name = strings.NewReplacer("-", "", "_", "").Replace(name)
	return cases.Fold().String(name)
}

// maxTextureFormat is the last format gputypes defines.
const maxTextureFormat = gputypes.TextureFormatASTC12x12UnormSrgb

var textureFormats = func() map[string]gputypes.TextureFormat {
	m := make(map[string]gputypes.TextureFormat)
	for f := gputypes.TextureFormatUndefined + 1; f <= maxTextureFormat; f++ {
		m[fold(f.String())] = f
	}
	return m
}()

// ParseFormat returns the texture format named s, matched case-insensitively
// against gputypes format names.
func ParseFormat(s string) (gputypes.TextureFormat, error) {
	if f, ok := textureFormats[fold(s)]; ok {
		return f, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: format %q", ErrUnknownName, s)
}

var imageUsages = map[string]gputypes.TextureUsage{
	"attachment": gputypes.TextureUsageRenderAttachment,
	"texture":    gputypes.TextureUsageTextureBinding,
	"storage":    gputypes.TextureUsageStorageBinding,
	"copysrc":    gputypes.TextureUsageCopySrc,
	"copydst":    gputypes.TextureUsageCopyDst,
}

// ParseImageUsage returns the union of the named texture usages.
func ParseImageUsage(names []string) (gputypes.TextureUsage, error) {
	var u gputypes.TextureUsage
	for _, n := range names {
		v, ok := imageUsages[fold(n)]
		if !ok {
			return 0, fmt.Errorf("%w: image usage %q", ErrUnknownName, n)
		}
		u |= v
	}
	return u, nil
}

var bufferUsages = map[string]gputypes.BufferUsage{
	"storage":  gputypes.BufferUsageStorage,
	"indirect": gputypes.BufferUsageIndirect,
	"uniform":  gputypes.BufferUsageUniform,
	"vertex":   gputypes.BufferUsageVertex,
	"index":    gputypes.BufferUsageIndex,
	"copysrc":  gputypes.BufferUsageCopySrc,
	"copydst":  gputypes.BufferUsageCopyDst,
}

// ParseBufferUsage returns the union of the named buffer usages.
func ParseBufferUsage(names []string) (gputypes.BufferUsage, error) {
	var u gputypes.BufferUsage
	for _, n := range names {
		v, ok := bufferUsages[fold(n)]
		if !ok {
			return 0, fmt.Errorf("%w: buffer usage %q", ErrUnknownName, n)
		}
		u |= v
	}
	return u, nil
}

var usageKinds = map[string]framegraph.UsageKind{
	"attachment":    framegraph.Attachment,
	"texture":       framegraph.Texture,
	"storagebuffer": framegraph.StorageBuffer,
	"storage":       framegraph.StorageBuffer,
	"reference":     framegraph.Reference,
}

// ParseUsageKind returns the frame graph usage named s.
func ParseUsageKind(s string) (framegraph.UsageKind, error) {
	if u, ok := usageKinds[fold(s)]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: usage %q", ErrUnknownName, s)
}

var stages = map[string]framegraph.Stage{
	"drawindirect":          framegraph.StageDrawIndirect,
	"vertex":                framegraph.StageVertexShader,
	"fragment":              framegraph.StageFragmentShader,
	"earlyfragmenttests":    framegraph.StageEarlyFragmentTests,
	"latefragmenttests":     framegraph.StageLateFragmentTests,
	"colorattachmentoutput": framegraph.StageColorAttachmentOutput,
	"compute":               framegraph.StageComputeShader,
}

// ParseStage returns the union of the named pipeline stages.
func ParseStage(names []string) (framegraph.Stage, error) {
	var s framegraph.Stage
	for _, n := range names {
		v, ok := stages[fold(n)]
		if !ok {
			return 0, fmt.Errorf("%w: stage %q", ErrUnknownName, n)
		}
		s |= v
	}
	return s, nil
}

// ParseQueue returns the queue named s. The empty name is Graphics.
func ParseQueue(s string) (framegraph.Queue, error) {
	switch fold(s) {
	case "", "graphics":
		return framegraph.Graphics, nil
	case "compute":
		return framegraph.Compute, nil
	}
	return 0, fmt.Errorf("%w: queue %q", ErrUnknownName, s)
}

// DecodeColor evaluates a label color expression. The value is either a
// CSS color name or a list of three or four numbers in [0, 1]. A missing
// attribute yields white.
func DecodeColor(expr hcl.Expression) (gputypes.Color, error) {
	if expr == nil {
		return gputypes.ColorWhite, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return gputypes.Color{}, errors.New(diags.Error())
	}
	if v.IsNull() {
		return gputypes.ColorWhite, nil
	}

	if v.Type() == cty.String {
		name := v.AsString()
		c, ok := colornames.Map[fold(name)]
		if !ok {
			return gputypes.Color{}, fmt.Errorf("%w: color %q", ErrUnknownName, name)
		}
		return fromRGBA(c), nil
	}

	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return gputypes.Color{}, fmt.Errorf("label color: %w", err)
	}
	var rgba []float64
	if err := gocty.FromCtyValue(list, &rgba); err != nil {
		return gputypes.Color{}, fmt.Errorf("label color: %w", err)
	}
	switch len(rgba) {
	case 3:
		return gputypes.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: 1}, nil
	case 4:
		return gputypes.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
	}
	return gputypes.Color{}, fmt.Errorf("label color: want 3 or 4 components, got %d", len(rgba))
}

func fromRGBA(c color.RGBA) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
