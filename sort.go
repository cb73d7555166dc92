// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"container/heap"
	"slices"
)

// nodeQueue is a min-heap of node handles. Popping the smallest ready
// handle breaks ties by declaration order.
type nodeQueue []NodeHandle

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)        { *q = append(*q, x.(NodeHandle)) }
func (q *nodeQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}

// sort orders every node so that each edge points forward.
func (g *Graph) sort() ([]NodeHandle, error) {
	indegree := make([]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, to := range n.edges {
			indegree[to]++
		}
	}

	q := &nodeQueue{}
	for i, d := range indegree {
		if d == 0 {
			*q = append(*q, NodeHandle(i))
		}
	}
	heap.Init(q)

	order := make([]NodeHandle, 0, len(g.nodes))
	for q.Len() > 0 {
		h := heap.Pop(q).(NodeHandle)
		order = append(order, h)
		for _, to := range g.nodes[h].edges {
			indegree[to]--
			if indegree[to] == 0 {
				heap.Push(q, to)
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, &CycleError{Nodes: g.findCycle(indegree)}
	}
	return order, nil
}

// findCycle returns the names of one cycle among the nodes the sort could
// not place. Every such node has a predecessor that is also unplaced, so
// walking predecessors must revisit a node.
func (g *Graph) findCycle(indegree []int) []string {
	stuck := func(h NodeHandle) bool { return indegree[h] > 0 }

	preds := make([][]NodeHandle, len(g.nodes))
	start := NodeHandle(-1)
	for i, n := range g.nodes {
		from := NodeHandle(i)
		if !stuck(from) {
			continue
		}
		if start < 0 {
			start = from
		}
		for _, to := range n.edges {
			if stuck(to) {
				preds[to] = append(preds[to], from)
			}
		}
	}

	seen := make(map[NodeHandle]int)
	var walk []NodeHandle
	cur := start
	for {
		if pos, ok := seen[cur]; ok {
			walk = walk[pos:]
			break
		}
		seen[cur] = len(walk)
		walk = append(walk, cur)
		cur = preds[cur][0]
	}

	// walk follows edges backwards; reverse it and start at the earliest
	// declared node.
	slices.Reverse(walk)
	first := slices.Index(walk, slices.Min(walk))
	walk = slices.Concat(walk[first:], walk[:first])

	names := make([]string, 0, len(walk)+1)
	for _, h := range walk {
		names = append(names, g.nodes[h].name)
	}
	return append(names, names[0])
}
