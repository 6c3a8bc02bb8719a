// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio is an edit-based similarity of two strings in [0,1]
// (2*matches / total length, case-insensitive). It is 0 when either
// string is empty and exactly 1 for equal strings.
//
// SequenceMatcher is not symmetric in general, so the pair is always
// compared in lexical order.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	if a > b {
		a, b = b, a
	}

	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	result := make([]string, 0, len(s))
	for _, r := range s {
		result = append(result, string(r))
	}
	return result
}
