// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"strings"

	"carvel.dev/tplcombine/pkg/arch"
	"carvel.dev/tplcombine/pkg/record"
)

// FeatureSet holds the comparison features derived from one record.
// It is read-only once extracted and may be shared between goroutines.
type FeatureSet struct {
	TitleTokens TokenSet
	ImageKey    string
	DescTokens  TokenSet
	ComposeText string
	EnvNames    TokenSet

	// Degraded lists signals that could not be derived from the source.
	Degraded []record.Signal
}

// Extract derives comparison features from a normalized record.
// It never fails; missing inputs yield empty features.
func Extract(rec record.Record) FeatureSet {
	envNames := make(TokenSet, len(rec.Env))
	for _, e := range rec.Env {
		if name := strings.ToUpper(strings.TrimSpace(e.Name)); name != "" {
			envNames[name] = struct{}{}
		}
	}

	return FeatureSet{
		TitleTokens: Tokenize(arch.TrimTitleSuffix(rec.Title)),
		ImageKey:    ImageKey(rec.Image),
		DescTokens:  Tokenize(rec.Description),
		ComposeText: rec.Compose,
		EnvNames:    envNames,
		Degraded:    append([]record.Signal{}, rec.Degraded...),
	}
}

// ImageKey reduces an image reference to "repository:tag" with registry
// host, architecture namespace and architecture tag suffix removed, so that
// per-architecture builds of one application compare equal.
func ImageKey(image string) string {
	ref := record.ParseImage(image)
	if ref.Repository == "" {
		return ""
	}

	tag := arch.StripTagSuffix(ref.Tag)
	if tag == "" {
		tag = record.DefaultImageTag
	}
	return arch.StripNamespace(ref.Repository) + ":" + tag
}
