// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command fgdump loads an HCL pipeline file, builds its frame graph and
// prints the execution order, viewports and barriers. With -frames it also
// records and submits that many frames on a GPU backend.
//
// Usage:
//
//	fgdump -pipeline deferred.hcl
//	fgdump -pipeline deferred.hcl -backend vulkan -frames 3 -v
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/backend/native"
	"github.com/gogpu/framegraph/pipeline"
	"github.com/gogpu/framegraph/resource"
	"github.com/gogpu/gpucontext"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("fgdump: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fgdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		path    = fs.String("pipeline", "", "HCL pipeline file")
		name    = fs.String("backend", "", "GPU backend: "+fmt.Sprint(backend.Available())+" (default: best available)")
		verbose = fs.Bool("v", false, "log debug output to stderr")

		frames, width, height uint32
	)
	uint32Var(fs, &frames, "frames", "number of frames to record and submit")
	uint32Var(fs, &width, "width", "override the pipeline extent width")
	uint32Var(fs, &height, "height", "override the pipeline extent height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errors.New("-pipeline is required")
	}
	if *verbose {
		framegraph.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		defer framegraph.SetLogger(nil)
	}

	cfg, err := pipeline.Load(*path)
	if err != nil {
		return err
	}

	provider, chosen, err := open(*name)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close(provider) }()

	dev, err := native.NewDevice(provider)
	if err != nil {
		return err
	}
	defer dev.Close()

	mgr, err := resource.NewManager(dev)
	if err != nil {
		return err
	}
	defer mgr.Close()

	reg := pipeline.NewRegistry()
	native.RegisterPasses(reg, dev)

	var opts []pipeline.Option
	if width > 0 && height > 0 {
		opts = append(opts, pipeline.WithExtent(width, height))
	}
	p, err := pipeline.New(cfg, mgr, reg, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	info := provider.AdapterInfo()
	fmt.Fprintf(stdout, "backend: %s (%s)\n", chosen, info.Name)
	if err := p.Graph().Dump(stdout); err != nil {
		return err
	}

	for i := range frames {
		stats, err := native.RunFrame(dev, mgr, p.Graph(), i, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "frame %d: %d regions, %d texture barriers, %d buffer barriers, %d render passes\n",
			i, stats.Regions, stats.TextureBarriers, stats.BufferBarriers, stats.RenderPasses)
	}
	return nil
}

// uint32Var defines a flag holding a uint32. Values that do not fit are
// rejected at parse time.
func uint32Var(fs *flag.FlagSet, p *uint32, name, usage string) {
	fs.Func(name, usage, func(s string) error {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		*p = uint32(v)
		return nil
	})
}

func open(name string) (gpucontext.DeviceProvider, string, error) {
	if name == "" {
		return backend.Default()
	}
	p, err := backend.Get(name)
	if err != nil {
		return nil, "", err
	}
	return p, name, nil
}
