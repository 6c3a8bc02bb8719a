// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package quality scores how complete a template record is. The score only
// breaks ties between same-architecture duplicates; it never decides whether
// two records are duplicates.
package quality

import (
	"carvel.dev/tplcombine/pkg/record"
)

// Indicator contributions. Compose is the strongest single signal and must
// stay larger than any one env, port or volume entry.
const (
	ImagePoints       = 10.0
	DescriptionPoints = 8.0
	ComposePoints     = 15.0
	CategoriesPoints  = 5.0
	LogoPoints        = 2.0
	NotePoints        = 1.0

	EnvEntryPoints    = 1.0
	PortEntryPoints   = 2.0
	VolumeEntryPoints = 2.0
)

// Score is the unweighted sum of indicator contributions. Entry counts are
// not capped, so more env/port/volume entries always score higher.
func Score(rec record.Record) float64 {
	score := 0.0

	if rec.Image != "" {
		score += ImagePoints
	}
	if rec.Description != "" {
		score += DescriptionPoints
	}
	if rec.Compose != "" {
		score += ComposePoints
	}
	if len(rec.Categories) > 0 {
		score += CategoriesPoints
	}
	if rec.Logo != "" {
		score += LogoPoints
	}
	if rec.Note != "" {
		score += NotePoints
	}

	score += float64(len(rec.Env)) * EnvEntryPoints
	score += float64(len(rec.Ports)) * PortEntryPoints
	score += float64(len(rec.Volumes)) * VolumeEntryPoints

	return score
}
