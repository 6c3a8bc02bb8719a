// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package combine implements the "combine" command: it reads template
collections, deduplicates the pooled templates and writes a single
collection together with a merge report.
*/
package combine
