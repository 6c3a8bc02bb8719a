// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package arch

import (
	"strings"
)

var tagAliasReplacer = strings.NewReplacer("x86_64", "amd64", "x86-64", "amd64")

type tagToken struct {
	text string
	sep  bool
}

// tagTokens splits an image tag into words and the '-'/'_' separators
// between them, so that a tag can be reassembled without some of its words.
func tagTokens(tag string) []tagToken {
	tag = tagAliasReplacer.Replace(strings.ToLower(tag))

	var tokens []tagToken
	start := 0
	for i, r := range tag {
		if r == '-' || r == '_' {
			if i > start {
				tokens = append(tokens, tagToken{text: tag[start:i]})
			}
			tokens = append(tokens, tagToken{text: string(r), sep: true})
			start = i + 1
		}
	}
	if start < len(tag) {
		tokens = append(tokens, tagToken{text: tag[start:]})
	}
	return tokens
}

// StripTagSuffix removes recognised architecture words from an image tag,
// e.g. "1.25-arm64" becomes "1.25" and "arm64" becomes "".
func StripTagSuffix(tag string) string {
	var kept []tagToken
	for _, tok := range tagTokens(tag) {
		if tok.sep {
			kept = append(kept, tok)
			continue
		}
		if _, ok := Canonical(tok.text); ok {
			// drop the word and the separator that introduced it
			if len(kept) > 0 && kept[len(kept)-1].sep {
				kept = kept[:len(kept)-1]
			}
			continue
		}
		kept = append(kept, tok)
	}

	var sb strings.Builder
	for _, tok := range kept {
		sb.WriteString(tok.text)
	}
	return strings.Trim(sb.String(), "-_")
}

// StripNamespace removes a leading per-architecture namespace from an image
// repository ("arm64v8/nginx" becomes "nginx").
func StripNamespace(repository string) string {
	ns, rest, found := strings.Cut(repository, "/")
	if !found {
		return repository
	}
	if _, ok := namespaces[ns]; ok {
		return rest
	}
	return repository
}

// TitleSuffix is the disambiguating suffix appended to titles of
// architecture-specific variants, e.g. " (arm64)".
func TitleSuffix(arch string) string {
	return " (" + arch + ")"
}

// HasTitleSuffix reports whether title already ends with the suffix for arch.
func HasTitleSuffix(title, arch string) bool {
	return strings.HasSuffix(strings.ToLower(title), TitleSuffix(arch))
}

// TrimTitleSuffix removes a trailing "(<arch>)" suffix naming any recognised
// architecture, as produced by TitleSuffix or by source converters.
func TrimTitleSuffix(title string) string {
	trimmed := strings.TrimSpace(title)
	if !strings.HasSuffix(trimmed, ")") {
		return title
	}
	open := strings.LastIndex(trimmed, "(")
	if open < 0 {
		return title
	}
	inner := strings.ToLower(strings.TrimSpace(trimmed[open+1 : len(trimmed)-1]))
	if _, ok := Canonical(inner); !ok && inner != Linux {
		return title
	}
	return strings.TrimSpace(trimmed[:open])
}
