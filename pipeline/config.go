// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is a decoded pipeline file.
type Config struct {
	Name    string          `hcl:"name,optional"`
	Extent  *ExtentConfig   `hcl:"extent,block"`
	Images  []*ImageConfig  `hcl:"image,block"`
	Buffers []*BufferConfig `hcl:"buffer,block"`
	Passes  []*PassBlock    `hcl:"pass,block"`
}

// ExtentConfig is the default render extent. Images without an explicit
// size are sized relative to it.
type ExtentConfig struct {
	Width  uint32 `hcl:"width"`
	Height uint32 `hcl:"height"`
}

// ImageConfig declares an image.
//
// An image with both width and height has a fixed size. Otherwise its size
// is scale times the extent, and it is recreated on Resize.
type ImageConfig struct {
	Name   string   `hcl:"name,label"`
	Format string   `hcl:"format"`
	Width  uint32   `hcl:"width,optional"`
	Height uint32   `hcl:"height,optional"`
	Scale  *float64 `hcl:"scale,optional"`
	Layers uint32   `hcl:"layers,optional"`
	Mips   uint32   `hcl:"mips,optional"`
	Usage  []string `hcl:"usage,optional"`
}

// Relative reports whether the image is sized from the extent.
func (c *ImageConfig) Relative() bool { return c.Width == 0 || c.Height == 0 }

// BufferConfig declares a buffer.
type BufferConfig struct {
	Name  string   `hcl:"name,label"`
	Size  uint64   `hcl:"size"`
	Usage []string `hcl:"usage,optional"`
}

// PassBlock declares a node. Attributes other than the ones below stay in
// Params and are decoded by the pass factory.
type PassBlock struct {
	Name       string         `hcl:"name,label"`
	Kind       string         `hcl:"kind"`
	Queue      string         `hcl:"queue,optional"`
	Enabled    *bool          `hcl:"enabled,optional"`
	LabelColor hcl.Expression `hcl:"label_color,optional"`
	Inputs     []*PortBlock   `hcl:"input,block"`
	Outputs    []*PortBlock   `hcl:"output,block"`
	Params     hcl.Body       `hcl:",remain"`
}

// PortBlock declares one input or output of a pass.
type PortBlock struct {
	Resource           string   `hcl:"resource,label"`
	Usage              string   `hcl:"usage"`
	Stage              []string `hcl:"stage,optional"`
	SimultaneousWrites bool     `hcl:"simultaneous_writes,optional"`
}

// Load parses and decodes a pipeline file.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}
	return decode(file, path)
}

// Parse parses and decodes pipeline source. filename is used in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Config, error) {
	var config Config
	diags := gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline %s: %w", filename, err)
	}
	return &config, nil
}
