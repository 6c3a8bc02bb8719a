// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record

// Revise applies an edit to a copy of the record's fields and normalizes the
// result into a new Record. The original record is left untouched; callers
// replace it in their pool with the returned one.
func Revise(rec Record, edit func(fields map[string]interface{})) (Record, error) {
	fields := rec.Fields()
	if edit != nil {
		edit(fields)
	}
	return Normalize(Raw{Fields: fields, Source: rec.Source})
}
