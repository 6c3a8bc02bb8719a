// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"carvel.dev/tplcombine/pkg/features"
)

// Breakdown holds each sub-similarity (all in [0,1]) and their weighted sum.
type Breakdown struct {
	Title       float64
	Image       float64
	Description float64
	Compose     float64
	Env         float64

	Total float64
}

// Scorer computes a fixed-weight linear combination of sub-similarities.
//
// A signal that is empty on either side contributes 0. Weights are not
// renormalized when a signal is unavailable, so missing data never inflates
// a score.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) Scorer {
	return Scorer{weights: weights}
}

func NewDefaultScorer() Scorer { return NewScorer(DefaultWeights()) }

func (s Scorer) Weights() Weights { return s.weights }

func (s Scorer) Similarity(a, b features.FeatureSet) float64 {
	return s.Score(a, b).Total
}

func (s Scorer) Score(a, b features.FeatureSet) Breakdown {
	bd := Breakdown{
		Title:       a.TitleTokens.Jaccard(b.TitleTokens),
		Image:       Ratio(a.ImageKey, b.ImageKey),
		Description: a.DescTokens.Jaccard(b.DescTokens),
		Compose:     Ratio(a.ComposeText, b.ComposeText),
		Env:         a.EnvNames.Jaccard(b.EnvNames),
	}

	w := s.weights
	bd.Total = clamp(bd.Title*w.Title +
		bd.Image*w.Image +
		bd.Description*w.Description +
		bd.Compose*w.Compose +
		bd.Env*w.Env)

	return bd
}

func clamp(val float64) float64 {
	switch {
	case val < 0:
		return 0
	case val > 1:
		return 1
	default:
		return val
	}
}
