// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"errors"
	"time"

	"carvel.dev/tplcombine/pkg/arch"
	"carvel.dev/tplcombine/pkg/features"
	"carvel.dev/tplcombine/pkg/quality"
	"carvel.dev/tplcombine/pkg/record"
	"carvel.dev/tplcombine/pkg/similarity"
	"github.com/google/uuid"
)

// Logger receives diagnostics. cmd/ui.TTY satisfies it.
type Logger interface {
	Debugf(string, ...interface{})
	Warnf(string, ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}

type Option func(*Engine)

func WithLogger(log Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithExtractor replaces the feature extractor (by default an LRU cache of
// Config.FeatureCacheSize entries).
func WithExtractor(ex features.Extractor) Option {
	return func(e *Engine) {
		if ex != nil {
			e.extractor = ex
		}
	}
}

// Engine groups a pool of template records into duplicate clusters and
// keeps one record per architecture in each cluster.
//
// An Engine holds no per-run state: Deduplicate may be called repeatedly
// and concurrently, and is idempotent for a given pool and config.
type Engine struct {
	cfg       Config
	scorer    similarity.Scorer
	extractor features.Extractor
	log       Logger
}

// Result is the final record list and the report describing how it was
// obtained.
type Result struct {
	Records []record.Record
	Report  Report
}

// NewEngine validates cfg; an invalid threshold or weight table is rejected
// here, before any clustering.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		scorer: similarity.NewScorer(cfg.Weights),
		log:    noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.extractor == nil {
		cache, err := features.NewCache(cfg.FeatureCacheSize)
		if err != nil {
			return nil, err
		}
		e.extractor = cache
	}

	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// candidate is a record with its derived values, recomputed on every run.
type candidate struct {
	index   int
	rec     record.Record
	feat    features.FeatureSet
	arch    string
	quality float64
}

// Run normalizes raw documents and deduplicates the usable ones.
// Documents that fail normalization are listed in Report.Unusable;
// report indexes refer to positions in raws.
func (e *Engine) Run(raws []record.Raw) Result {
	var (
		records   []record.Record
		indexes   []int
		unusable  []Rejection
		unusableE *record.UnusableError
	)

	for i, raw := range raws {
		rec, err := record.Normalize(raw)
		if err != nil {
			reason := err.Error()
			if errors.As(err, &unusableE) {
				reason = unusableE.Reason
			}
			e.log.Warnf("Skipping template #%d from %s: %s\n", i, raw.Source, reason)
			unusable = append(unusable, Rejection{Index: i, Source: raw.Source, Reason: reason})
			continue
		}
		records = append(records, rec)
		indexes = append(indexes, i)
	}

	res := e.deduplicate(records, indexes)
	res.Report.Input = len(raws)
	res.Report.Unusable = append(res.Report.Unusable, unusable...)
	return res
}

// Deduplicate deduplicates already normalized records. Report indexes refer
// to positions in records.
func (e *Engine) Deduplicate(records []record.Record) Result {
	indexes := make([]int, len(records))
	for i := range indexes {
		indexes[i] = i
	}
	return e.deduplicate(records, indexes)
}

func (e *Engine) deduplicate(records []record.Record, indexes []int) Result {
	t1 := time.Now()

	report := Report{
		RunID:      uuid.NewString(),
		Threshold:  e.cfg.Threshold,
		Input:      len(records),
		Unusable:   []Rejection{},
		Normalized: len(records),
		Clusters:   []Cluster{},
		Discarded:  []Discard{},
		Renamed:    []Rename{},
		Degraded:   []Degradation{},
	}

	cands := make([]candidate, len(records))
	for i, rec := range records {
		cands[i] = candidate{
			index:   indexes[i],
			rec:     rec,
			feat:    e.extractor.Extract(rec),
			arch:    arch.Classify(rec),
			quality: quality.Score(rec),
		}
		for _, sig := range rec.Degraded {
			e.log.Warnf("Comparison degraded for template #%d '%s': %s signal treated as empty\n",
				cands[i].index, rec.Title, sig)
			report.Degraded = append(report.Degraded, Degradation{Index: cands[i].index, Title: rec.Title, Signal: sig})
		}
	}
	e.log.Debugf("features: %d records in %s\n", len(cands), time.Since(t1))

	t2 := time.Now()
	links := e.findLinks(cands)
	groups := clusterLinks(len(cands), links)
	e.log.Debugf("clustering: %d links, %d clusters in %s\n", len(links), len(groups), time.Since(t2))

	linksFrom := map[int][]link{}
	for _, l := range links {
		linksFrom[l.a] = append(linksFrom[l.a], l)
	}

	kept := make([]bool, len(cands))
	titles := make([]string, len(cands))
	for i, c := range cands {
		titles[i] = c.rec.Title
	}

	for _, group := range groups {
		if len(group) == 1 {
			report.Singletons++
			kept[group[0]] = true
			continue
		}

		cluster := Cluster{ID: len(report.Clusters) + 1}
		for _, pos := range group {
			cluster.Members = append(cluster.Members, cands[pos].member())
			for _, l := range linksFrom[pos] {
				cluster.Links = append(cluster.Links, Link{
					A: cands[l.a].index, B: cands[l.b].index, Score: l.score, Identity: l.identity})
			}
		}

		res := e.resolve(cluster.ID, cands, group)
		cluster.Partitions = res.partitions
		report.Discarded = append(report.Discarded, res.discarded...)
		for _, pos := range res.survivors {
			kept[pos] = true
		}

		for _, rn := range disambiguate(cands, res.survivors) {
			report.Renamed = append(report.Renamed, Rename{Index: cands[rn.pos].index, From: titles[rn.pos], To: rn.title})
			titles[rn.pos] = rn.title
		}

		report.Clusters = append(report.Clusters, cluster)
	}

	out := []record.Record{}
	for i, c := range cands {
		if !kept[i] {
			continue
		}
		rec := c.rec
		if titles[i] != rec.Title {
			rec = rec.WithTitle(titles[i])
		}
		out = append(out, rec)
	}
	report.Output = len(out)

	e.log.Debugf("total: %s\n", time.Since(t1))

	return Result{Records: out, Report: report}
}

func (c candidate) member() Member {
	return Member{
		Index:        c.index,
		Title:        c.rec.Title,
		Image:        c.rec.Image,
		Source:       c.rec.Source,
		Architecture: c.arch,
		Quality:      c.quality,
	}
}
