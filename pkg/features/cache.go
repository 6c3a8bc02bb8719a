// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"encoding/hex"
	"hash/fnv"
	"io"

	"carvel.dev/tplcombine/pkg/record"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Extractor derives features from records.
type Extractor interface {
	Extract(record.Record) FeatureSet
}

type ExtractorFunc func(record.Record) FeatureSet

func (f ExtractorFunc) Extract(rec record.Record) FeatureSet { return f(rec) }

var _ []Extractor = []Extractor{ExtractorFunc(Extract), &Cache{}}

// Cache memoises Extract by record content. It is safe for concurrent use,
// so one Cache can serve repeated deduplication runs over overlapping pools.
type Cache struct {
	entries *lru.Cache[string, FeatureSet]
}

// NewCache creates a cache holding up to size feature sets.
// A size of zero disables caching.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return &Cache{}, nil
	}
	entries, err := lru.New[string, FeatureSet](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Extract(rec record.Record) FeatureSet {
	if c.entries == nil {
		return Extract(rec)
	}

	key := Fingerprint(rec)
	if fs, ok := c.entries.Get(key); ok {
		return fs
	}
	fs := Extract(rec)
	c.entries.Add(key, fs)
	return fs
}

func (c *Cache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Fingerprint identifies a record by the fields features are derived from.
func Fingerprint(rec record.Record) string {
	h := fnv.New128a()
	write := func(s string) {
		io.WriteString(h, s)
		h.Write([]byte{0})
	}

	write(rec.Title)
	write(rec.Image)
	write(rec.Description)
	write(rec.Compose)
	for _, e := range rec.Env {
		write(e.Name)
	}
	write("")
	for _, sig := range rec.Degraded {
		write(string(sig))
	}

	return hex.EncodeToString(h.Sum(nil))
}
