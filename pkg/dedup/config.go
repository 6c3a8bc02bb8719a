// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"fmt"
	"math"

	"carvel.dev/tplcombine/pkg/similarity"
)

const (
	DefaultThreshold        = 0.70
	DefaultFeatureCacheSize = 4096
)

// Config is passed explicitly to NewEngine; the engine keeps no
// process-wide settings.
type Config struct {
	// Threshold is the minimum pairwise similarity linking two records.
	Threshold float64
	Weights   similarity.Weights

	// Workers bounds concurrent pair scoring. 1 scores serially,
	// 0 uses GOMAXPROCS.
	Workers int

	// IdentityLink additionally links records with equal image keys whose
	// title word sets contain one another.
	IdentityLink bool

	FeatureCacheSize int
}

func DefaultConfig() Config {
	return Config{
		Threshold:        DefaultThreshold,
		Weights:          similarity.DefaultWeights(),
		Workers:          1,
		IdentityLink:     true,
		FeatureCacheSize: DefaultFeatureCacheSize,
	}
}

// InvalidThresholdError is the only fatal configuration condition of the
// engine; it is raised before any clustering begins.
type InvalidThresholdError struct {
	Threshold float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("Expected duplicate threshold to be within [0,1], but was %v", e.Threshold)
}

func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return &InvalidThresholdError{c.Threshold}
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("Expected workers to be non-negative, but was %d", c.Workers)
	}
	if c.FeatureCacheSize < 0 {
		return fmt.Errorf("Expected feature cache size to be non-negative, but was %d", c.FeatureCacheSize)
	}
	return nil
}
