// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

// UI satisfies dedup.Logger and files.UI.
type UI interface {
	Printf(string, ...interface{})
	// PrintBlock writes a result document verbatim.
	PrintBlock([]byte)

	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	DebugEnabled() bool
}
