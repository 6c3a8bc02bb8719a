// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-9

// Weights is the fixed weight table of the pairwise score.
// Weights must be non-negative and sum to 1.0.
type Weights struct {
	Title       float64
	Image       float64
	Description float64
	Compose     float64
	Env         float64
}

func DefaultWeights() Weights {
	return Weights{
		Title:       0.30,
		Image:       0.25,
		Description: 0.20,
		Compose:     0.15,
		Env:         0.10,
	}
}

func (w Weights) Sum() float64 {
	return w.Title + w.Image + w.Description + w.Compose + w.Env
}

// InvalidWeightsError reports a weight table that cannot keep scores in [0,1].
type InvalidWeightsError struct {
	Weights Weights
	Reason  string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("Invalid similarity weights %+v: %s", e.Weights, e.Reason)
}

func (w Weights) Validate() error {
	named := []struct {
		name string
		val  float64
	}{
		{"title", w.Title},
		{"image", w.Image},
		{"description", w.Description},
		{"compose", w.Compose},
		{"env", w.Env},
	}
	for _, n := range named {
		if math.IsNaN(n.val) || n.val < 0 {
			return &InvalidWeightsError{w, fmt.Sprintf("Expected %s weight to be non-negative, but was %v", n.name, n.val)}
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return &InvalidWeightsError{w, fmt.Sprintf("Expected weights to sum to 1.0, but was %v", w.Sum())}
	}
	return nil
}
