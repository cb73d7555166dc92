// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framegraph orders render and compute passes and synthesizes the
// barriers between them from declared resource usage.
//
// # Overview
//
// Passes are declared once per topology. Each node names the images and
// buffers it reads and writes and how it uses them; the graph derives the
// execution order and the memory barriers that make every write visible to
// the passes that read it.
//
//	g := framegraph.New(mgr, framegraph.WithDefaultExtent(1280, 720))
//
//	g.AddNode(framegraph.NewNode(shadowPass).
//	    SetName("shadow").
//	    AddOutput(framegraph.ImageInfo(shadowMap), framegraph.Attachment))
//	g.AddNode(framegraph.NewNode(lightingPass).
//	    SetName("lighting").
//	    AddInput(framegraph.ImageInfo(shadowMap), framegraph.Texture).
//	    AddOutput(framegraph.ImageInfo(hdr), framegraph.Attachment))
//
//	if err := g.Build(); err != nil {
//	    log.Fatal(err) // cycle, unresolved input or incompatible usage
//	}
//
//	for frame := uint32(0); ; frame++ {
//	    g.RecordCommands(target, frame, scene)
//	}
//
// # Versions
//
// Writing a resource that was already written by an earlier node creates a
// new version of it. Readers see the newest version produced before them in
// declaration order, which is how ping-pong and accumulation passes are
// expressed without declaring extra resources.
//
// # Build and replay
//
// Build resolves inputs, computes edges, sorts the nodes and precomputes
// every barrier group. RecordCommands only replays the result. Any change of
// topology, a resize that recreates attachments, or toggling a node with
// SetNodeEnabled requires another Build.
package framegraph
