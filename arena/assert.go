// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !fgdebug

package arena

// DebugAssertions reports whether the package was built with the fgdebug tag.
const DebugAssertions = false

func assertf(bool, string, ...any) {}
