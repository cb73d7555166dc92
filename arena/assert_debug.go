// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build fgdebug

package arena

import "fmt"

// DebugAssertions reports whether the package was built with the fgdebug tag.
const DebugAssertions = true

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
