// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// unionFind tracks connected components. The root of every component is its
// smallest member, so components are labelled deterministically.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	switch {
	case ra < rb:
		u.parent[rb] = ra
	case rb < ra:
		u.parent[ra] = rb
	}
}

// components returns groups of positions ordered by their smallest member;
// members within a group keep pool order.
func (u *unionFind) components() [][]int {
	byRoot := map[int]int{}
	var groups [][]int
	for i := range u.parent {
		root := u.find(i)
		idx, found := byRoot[root]
		if !found {
			idx = len(groups)
			byRoot[root] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], i)
	}
	return groups
}

// link is a pair of pool positions (a < b) that cleared the threshold.
type link struct {
	a, b     int
	score    float64
	identity bool
}

// findLinks evaluates every unordered pair. Rows are scored independently
// (each worker owns its row slice), then concatenated in row order so the
// result does not depend on scheduling.
func (e *Engine) findLinks(cands []candidate) []link {
	rows := make([][]link, len(cands))

	workers := e.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers <= 1 {
		for i := range cands {
			rows[i] = e.scoreRow(cands, i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range cands {
			i := i
			g.Go(func() error {
				rows[i] = e.scoreRow(cands, i)
				return nil
			})
		}
		_ = g.Wait() // scoreRow never fails
	}

	var links []link
	for _, row := range rows {
		links = append(links, row...)
	}
	return links
}

func (e *Engine) scoreRow(cands []candidate, i int) []link {
	var row []link
	for j := i + 1; j < len(cands); j++ {
		score := e.scorer.Similarity(cands[i].feat, cands[j].feat)
		switch {
		case score >= e.cfg.Threshold:
			row = append(row, link{a: i, b: j, score: score})
		case e.cfg.IdentityLink && e.identical(cands[i], cands[j]):
			row = append(row, link{a: i, b: j, score: score, identity: true})
		}
	}
	return row
}

// identical reports whether two records name the same image and one title's
// words contain the other's (e.g. "Nginx" and "Nginx Web Server" on
// nginx:latest), which sparse sources often provide nothing beyond.
func (e *Engine) identical(a, b candidate) bool {
	if a.feat.ImageKey == "" || a.feat.ImageKey != b.feat.ImageKey {
		return false
	}
	return a.feat.TitleTokens.Overlap(b.feat.TitleTokens) >= e.cfg.Threshold
}

func clusterLinks(n int, links []link) [][]int {
	uf := newUnionFind(n)
	for _, l := range links {
		uf.union(l.a, l.b)
	}
	return uf.components()
}
