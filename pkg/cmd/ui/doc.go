// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ui separates command results from diagnostics.

Results (combined collections, formatted collections, the version) go to
stdout so they can be piped; warnings, summaries and debug timings go to
stderr.
*/
package ui
