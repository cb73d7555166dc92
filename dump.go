// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a readable description of the built graph: nodes in
// dependency order with their edges and barriers.
func (g *Graph) Dump(w io.Writer) error {
	if !g.built {
		_, err := fmt.Fprintf(w, "%s: not built, %d nodes\n", g.name, len(g.nodes))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d nodes, %d executed, %d resources\n",
		g.name, len(g.nodes), len(g.execution), len(g.resources))
	for i, h := range g.order {
		n := g.nodes[h]
		state := ""
		if !n.enabled {
			state = " (disabled)"
		}
		fmt.Fprintf(&b, "%3d %s [%s]%s\n", i, n.name, n.queue, state)
		for _, to := range n.edges {
			fmt.Fprintf(&b, "      -> %s\n", g.nodes[to].name)
		}
		for _, br := range n.barriers.Barriers {
			fmt.Fprintf(&b, "      barrier %s\n", br)
		}
		if n.queue == Graphics {
			fmt.Fprintf(&b, "      viewport %gx%g\n", n.viewport.Width, n.viewport.Height)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Graph) String() string {
	var b strings.Builder
	_ = g.Dump(&b)
	return b.String()
}
