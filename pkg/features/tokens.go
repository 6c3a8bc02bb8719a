// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TokenSet is a set of lower-case words.
type TokenSet map[string]struct{}

// Tokenize splits text into a set of lower-case words. Punctuation and
// symbols are delimiters; letters and digits of any script are kept.
func Tokenize(text string) TokenSet {
	text = strings.ToLower(norm.NFKC.String(text))

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func NewTokenSet(words ...string) TokenSet {
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (s TokenSet) Len() int { return len(s) }

func (s TokenSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the words in lexical order.
func (s TokenSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (s TokenSet) intersection(other TokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	count := 0
	for w := range small {
		if large.Has(w) {
			count++
		}
	}
	return count
}

// Jaccard is the ratio of shared words to all words. It is 0 when either
// set is empty.
func (s TokenSet) Jaccard(other TokenSet) float64 {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	shared := s.intersection(other)
	union := len(s) + len(other) - shared
	return float64(shared) / float64(union)
}

// Overlap is the ratio of shared words to the size of the smaller set
// (1.0 when one set contains the other). It is 0 when either set is empty.
func (s TokenSet) Overlap(other TokenSet) float64 {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	smaller := len(s)
	if len(other) < smaller {
		smaller = len(other)
	}
	return float64(s.intersection(other)) / float64(smaller)
}
