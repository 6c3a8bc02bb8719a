// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"strings"

	"carvel.dev/tplcombine/pkg/arch"
)

type resolution struct {
	partitions []Partition
	discarded  []Discard
	// survivors are pool positions in pool order
	survivors []int
}

// resolve splits a cluster by architecture and keeps the highest quality
// member of each partition. On equal quality the earliest member wins.
func (e *Engine) resolve(clusterID int, cands []candidate, group []int) resolution {
	var (
		order  []string
		byArch = map[string][]int{}
	)
	for _, pos := range group {
		a := cands[pos].arch
		if _, found := byArch[a]; !found {
			order = append(order, a)
		}
		byArch[a] = append(byArch[a], pos)
	}

	var res resolution
	keep := map[int]bool{}

	for _, a := range order {
		members := byArch[a]

		best := members[0]
		for _, pos := range members[1:] {
			if cands[pos].quality > cands[best].quality {
				best = pos
			}
		}
		keep[best] = true

		part := Partition{Architecture: a, Kept: cands[best].index}
		for _, pos := range members {
			part.Members = append(part.Members, cands[pos].index)
			if pos == best {
				continue
			}
			res.discarded = append(res.discarded, Discard{
				Member:    cands[pos].member(),
				Cluster:   clusterID,
				Reason:    ReasonLowerQuality,
				Tie:       cands[pos].quality == cands[best].quality,
				KeptIndex: cands[best].index,
				KeptTitle: cands[best].rec.Title,
			})
			e.log.Debugf("cluster %d: dropping #%d '%s' (%s, quality %v) for #%d '%s' (quality %v)\n",
				clusterID, cands[pos].index, cands[pos].rec.Title, a, cands[pos].quality,
				cands[best].index, cands[best].rec.Title, cands[best].quality)
		}
		res.partitions = append(res.partitions, part)
	}

	for _, pos := range group {
		if keep[pos] {
			res.survivors = append(res.survivors, pos)
		}
	}

	return res
}

type retitle struct {
	pos   int
	title string
}

// disambiguate gives architecture variants of one application distinct
// titles. It only acts when survivors span more than one architecture:
// non-default architectures get a " (<arch>)" suffix, and if titles still
// collide the remaining colliding members are suffixed as well.
// Titles already carrying their suffix are left alone, so reruns are stable.
func disambiguate(cands []candidate, survivors []int) []retitle {
	archs := map[string]struct{}{}
	for _, pos := range survivors {
		archs[cands[pos].arch] = struct{}{}
	}
	if len(archs) < 2 {
		return nil
	}

	titles := map[int]string{}
	for _, pos := range survivors {
		title := cands[pos].rec.Title
		a := cands[pos].arch
		if a != arch.Default && !arch.HasTitleSuffix(title, a) {
			title += arch.TitleSuffix(a)
		}
		titles[pos] = title
	}

	seen := map[string]int{}
	for _, pos := range survivors {
		seen[strings.ToLower(titles[pos])]++
	}
	for _, pos := range survivors {
		a := cands[pos].arch
		if seen[strings.ToLower(titles[pos])] > 1 && !arch.HasTitleSuffix(titles[pos], a) {
			titles[pos] += arch.TitleSuffix(a)
		}
	}

	var result []retitle
	for _, pos := range survivors {
		if titles[pos] != cands[pos].rec.Title {
			result = append(result, retitle{pos: pos, title: titles[pos]})
		}
	}
	return result
}
