// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "deferred.hcl"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "deferred" {
		t.Errorf("Name = %q, want deferred", cfg.Name)
	}
	if cfg.Extent == nil || cfg.Extent.Width != 64 || cfg.Extent.Height != 32 {
		t.Errorf("Extent = %+v, want 64x32", cfg.Extent)
	}
	if got := len(cfg.Images); got != 5 {
		t.Errorf("len(Images) = %d, want 5", got)
	}
	if got := len(cfg.Passes); got != 6 {
		t.Fatalf("len(Passes) = %d, want 6", got)
	}

	lighting := cfg.Passes[3]
	if lighting.Name != "lighting" || len(lighting.Inputs) != 3 || len(lighting.Outputs) != 1 {
		t.Errorf("lighting = %s with %d inputs, %d outputs", lighting.Name, len(lighting.Inputs), len(lighting.Outputs))
	}
	if debug := cfg.Passes[5]; debug.Enabled == nil || *debug.Enabled {
		t.Errorf("debug.Enabled = %v, want false", debug.Enabled)
	}
	for _, img := range cfg.Images {
		if want := img.Name != "shadow"; img.Relative() != want {
			t.Errorf("%s.Relative() = %v, want %v", img.Name, img.Relative(), want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.hcl")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse([]byte(`image "a" {`), "broken.hcl"); err == nil {
		t.Error("Parse(broken) succeeded")
	}
}

func TestParseUnknownAttribute(t *testing.T) {
	src := `image "a" {
  format = "rgba8unorm"
  width  = 4
  height = 4
  depth  = 2
}`
	if _, err := Parse([]byte(src), "extra.hcl"); err == nil {
		t.Error("Parse with an unknown image attribute succeeded")
	}
}

func TestValidateReportsEveryError(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.hcl"))
	if err == nil {
		t.Fatal("Load(invalid) succeeded")
	}
	for _, want := range []error{ErrDuplicateName, ErrUnknownName, ErrUnknownResource, ErrNoExtent} {
		if !errors.Is(err, want) {
			t.Errorf("error does not wrap %v: %v", want, err)
		}
	}
}

func TestValidateDuplicatePass(t *testing.T) {
	src := `
image "a" {
  format = "rgba8unorm"
  width  = 1
  height = 1
}
pass "p" {
  kind = "noop"
  output "a" { usage = "attachment" }
}
pass "p" {
  kind = "noop"
  input "a" { usage = "texture" }
}`
	if _, err := Parse([]byte(src), "dup.hcl"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Parse = %v, want ErrDuplicateName", err)
	}
}

func TestValidateLabelColor(t *testing.T) {
	src := `
image "a" {
  format = "rgba8unorm"
  width  = 1
  height = 1
}
pass "p" {
  kind        = "noop"
  label_color = [1, 0]
  output "a" { usage = "attachment" }
}`
	if _, err := Parse([]byte(src), "color.hcl"); err == nil {
		t.Error("Parse with a two component color succeeded")
	}
}
