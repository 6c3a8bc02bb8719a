// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package collection reads and writes template collection documents.

A collection is a mapping of the form

	version: "2"
	templates: [...]

Decode also accepts a single template mapping or a bare list of templates,
in JSON or as a stream of YAML documents. Encoded collections always use the
mapping form with fields in canonical order.
*/
package collection
