// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framegraph

import (
	"errors"
	"strings"
)

// Build errors. Build reports every problem it finds at once, joined with
// errors.Join, so errors.Is works for each of them.
var (
	// ErrCycle is wrapped by CycleError.
	ErrCycle = errors.New("framegraph: dependency cycle")

	// ErrUnresolvedInput is returned when a node reads a resource that no
	// other node produces.
	ErrUnresolvedInput = errors.New("framegraph: unresolved input")

	// ErrIncompatibleUsage is returned for usage combinations that cannot
	// be executed, such as a sampled texture used as an output.
	ErrIncompatibleUsage = errors.New("framegraph: incompatible usage")

	// ErrStaleResource is returned when a declared handle no longer
	// resolves in the resource manager.
	ErrStaleResource = errors.New("framegraph: stale resource handle")

	// ErrNilPass is returned for a node declared without a pass.
	ErrNilPass = errors.New("framegraph: node has no pass")
)

// ErrNotBuilt is returned by RecordCommands before a successful Build, or
// after a change that requires a rebuild.
var ErrNotBuilt = errors.New("framegraph: graph not built")

// CycleError reports the nodes forming a dependency cycle, in edge order.
// The first node is repeated at the end.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return ErrCycle.Error() + ": " + strings.Join(e.Nodes, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// AsCycleError returns the CycleError in err's chain, if any.
func AsCycleError(err error) (*CycleError, bool) {
	var ce *CycleError
	ok := errors.As(err, &ce)
	return ce, ok
}
