// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package spell

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Cutoff is the minimum similarity a candidate needs to be suggested.
const Cutoff = 0.6

// Suggest returns the candidate closest to word, or "" if none is close
// enough. Comparison is case-insensitive; ties go to the earlier candidate.
func Suggest(word string, candidates []string) string {
	matches := Matches(word, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// Matches returns all candidates at least Cutoff similar to word, best first.
func Matches(word string, candidates []string) []string {
	type scored struct {
		candidate string
		ratio     float64
	}

	word = strings.ToLower(word)
	matcher := difflib.NewMatcher(nil, splitChars(word))

	var found []scored
	for _, c := range candidates {
		matcher.SetSeq1(splitChars(strings.ToLower(c)))
		ratio := matcher.Ratio()
		if ratio >= Cutoff {
			found = append(found, scored{c, ratio})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].ratio > found[j].ratio })

	var result []string
	for _, s := range found {
		result = append(result, s.candidate)
	}
	return result
}

func splitChars(s string) []string {
	return strings.Split(s, "")
}
