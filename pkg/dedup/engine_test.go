// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup_test

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"carvel.dev/tplcombine/pkg/dedup"
	"carvel.dev/tplcombine/pkg/features"
	"carvel.dev/tplcombine/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNginxDuplicatesKeepRicherRecord(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest", "env": []interface{}{}},
		{"title": "Nginx Web Server", "image": "nginx:latest", "env": []interface{}{
			map[string]interface{}{"name": "PORT", "default": "80"},
		}},
	})

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Nginx Web Server", res.Records[0].Title)
	assert.Equal(t, []record.EnvVar{{Name: "PORT", Default: "80"}}, res.Records[0].Env)

	report := res.Report
	assert.Equal(t, 2, report.Input)
	assert.Equal(t, 1, report.Output)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, []dedup.Link{{A: 0, B: 1, Score: report.Clusters[0].Links[0].Score, Identity: true}}, report.Clusters[0].Links)
	assert.Equal(t, []dedup.Partition{{Architecture: "linux", Members: []int{0, 1}, Kept: 1}}, report.Clusters[0].Partitions)

	require.Len(t, report.Discarded, 1)
	discard := report.Discarded[0]
	assert.Equal(t, 0, discard.Index)
	assert.Equal(t, "Nginx", discard.Title)
	assert.Equal(t, dedup.ReasonLowerQuality, discard.Reason)
	assert.False(t, discard.Tie)
	assert.Equal(t, 1, discard.KeptIndex)
	assert.Equal(t, "Nginx Web Server", discard.KeptTitle)
}

func TestNginxArchitectureVariantsSurvive(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest", "env": []interface{}{}},
		{"title": "Nginx Web Server", "image": "nginx:latest", "platform": "arm64", "env": []interface{}{
			map[string]interface{}{"name": "PORT", "default": "80"},
		}},
	})

	assert.Equal(t, []string{"Nginx", "Nginx Web Server (arm64)"}, titles(res.Records))
	assert.Empty(t, res.Report.Discarded)
	assert.Equal(t, []dedup.Rename{{Index: 1, From: "Nginx Web Server", To: "Nginx Web Server (arm64)"}}, res.Report.Renamed)

	require.Len(t, res.Report.Clusters, 1)
	assert.Equal(t, []dedup.Partition{
		{Architecture: "linux", Members: []int{0}, Kept: 0},
		{Architecture: "arm64", Members: []int{1}, Kept: 1},
	}, res.Report.Clusters[0].Partitions)
}

func TestClusteringIsTransitive(t *testing.T) {
	common := func(title, desc string) map[string]interface{} {
		return map[string]interface{}{
			"title":       title,
			"description": desc,
			"image":       "app:1.0",
			"compose":     "services: app",
			"env":         []interface{}{"X=1"},
		}
	}

	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		common("red green blue", "a b"),
		common("green blue yellow", "a b c d"),
		common("blue yellow purple", "c d"),
	})

	require.Len(t, res.Report.Clusters, 1)
	cluster := res.Report.Clusters[0]
	require.Len(t, cluster.Members, 3)

	require.Len(t, cluster.Links, 2)
	assert.Equal(t, 0, cluster.Links[0].A)
	assert.Equal(t, 1, cluster.Links[0].B)
	assert.InDelta(t, 0.75, cluster.Links[0].Score, 1e-9)
	assert.Equal(t, 1, cluster.Links[1].A)
	assert.Equal(t, 2, cluster.Links[1].B)
	assert.InDelta(t, 0.75, cluster.Links[1].Score, 1e-9)

	assert.Equal(t, []string{"red green blue"}, titles(res.Records))
	require.Len(t, res.Report.Discarded, 2)
	for _, d := range res.Report.Discarded {
		assert.True(t, d.Tie)
		assert.Equal(t, 0, d.KeptIndex)
	}
}

func TestMoreEntriesWinWithinArchitecture(t *testing.T) {
	base := func(env []interface{}, ports []interface{}) map[string]interface{} {
		return map[string]interface{}{
			"title": "Redis", "image": "redis:7", "description": "Key value store",
			"env": env, "ports": ports,
		}
	}

	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		base([]interface{}{"A=1"}, nil),
		base([]interface{}{"A=1"}, []interface{}{"6379:6379"}),
		base([]interface{}{"A=1", "B=2"}, nil),
	})

	require.Len(t, res.Records, 1)
	assert.Equal(t, []record.Port{{Value: "6379:6379"}}, res.Records[0].Ports)
	assert.Len(t, res.Report.Discarded, 2)
	for _, d := range res.Report.Discarded {
		assert.Equal(t, 1, d.KeptIndex)
	}
}

func TestEqualQualityKeepsEarliest(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Redis", "image": "redis:7", "source": "a"},
		{"title": "Redis", "image": "redis:7", "source": "b"},
	})

	require.Len(t, res.Records, 1)
	require.Len(t, res.Report.Discarded, 1)
	assert.Equal(t, 1, res.Report.Discarded[0].Index)
	assert.True(t, res.Report.Discarded[0].Tie)
}

func TestUnrelatedRecordsAreKept(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest"},
		{"title": "Redis", "image": "redis:7"},
		{"title": "Postgres", "image": "postgres:16"},
	})

	assert.Equal(t, []string{"Nginx", "Redis", "Postgres"}, titles(res.Records))
	assert.Empty(t, res.Report.Clusters)
	assert.Equal(t, 3, res.Report.Singletons)
}

func TestIdentityLinkCanBeDisabled(t *testing.T) {
	cfg := dedup.DefaultConfig()
	cfg.IdentityLink = false

	res := run(t, cfg, []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest"},
		{"title": "Nginx Web Server", "image": "nginx:latest"},
	})
	assert.Len(t, res.Records, 2)
	assert.Empty(t, res.Report.Clusters)
}

func TestIdentityLinkNeedsSameImage(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest"},
		{"title": "Nginx Proxy Manager", "image": "jc21/nginx-proxy-manager:latest"},
	})
	assert.Len(t, res.Records, 2)
}

func TestArchitectureVariantsAcrossImageTags(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:1.25", "description": "Web server"},
		{"title": "Nginx", "image": "nginx:1.25-arm64", "description": "Web server"},
		{"title": "Nginx", "image": "arm64v8/nginx:1.25", "description": "Web server", "note": "official"},
		{"title": "Nginx", "image": "nginx:1.25-amd64", "description": "Web server"},
	})

	assert.Equal(t, []string{"Nginx", "Nginx (arm64)", "Nginx (amd64)"}, titles(res.Records))
	assert.Equal(t, "arm64v8/nginx:1.25", res.Records[1].Image)

	require.Len(t, res.Report.Clusters, 1)
	assert.Equal(t, []dedup.Partition{
		{Architecture: "linux", Members: []int{0}, Kept: 0},
		{Architecture: "arm64", Members: []int{1, 2}, Kept: 2},
		{Architecture: "amd64", Members: []int{3}, Kept: 3},
	}, res.Report.Clusters[0].Partitions)
}

func TestRenameResolvesRemainingCollisions(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "App (arm64)", "image": "app:1", "platform": "linux"},
		{"title": "App", "image": "app:1", "platform": "arm64"},
	})

	assert.Equal(t, []string{"App (arm64) (linux)", "App (arm64)"}, titles(res.Records))
}

func TestDeduplicationIsIdempotent(t *testing.T) {
	engine, err := dedup.NewEngine(dedup.DefaultConfig())
	require.NoError(t, err)

	first := engine.Run(raws(t, generatedPool()))
	second := engine.Deduplicate(first.Records)

	assert.Equal(t, first.Records, second.Records)
	assert.Empty(t, second.Report.Discarded)
	assert.Empty(t, second.Report.Renamed)
}

func TestParallelScoringMatchesSerial(t *testing.T) {
	pool := raws(t, generatedPool())

	serialCfg := dedup.DefaultConfig()
	serialCfg.Workers = 1
	serial, err := dedup.NewEngine(serialCfg)
	require.NoError(t, err)

	parallelCfg := dedup.DefaultConfig()
	parallelCfg.Workers = 8
	parallel, err := dedup.NewEngine(parallelCfg)
	require.NoError(t, err)

	expected := serial.Run(pool)
	for i := 0; i < 5; i++ {
		actual := parallel.Run(pool)
		assert.Equal(t, expected.Records, actual.Records)

		actual.Report.RunID = expected.Report.RunID
		assert.Equal(t, expected.Report, actual.Report)
	}
}

func TestEngineIsSafeForConcurrentRuns(t *testing.T) {
	engine, err := dedup.NewEngine(dedup.DefaultConfig())
	require.NoError(t, err)

	pool := raws(t, generatedPool())
	expected := engine.Run(pool)

	var wg sync.WaitGroup
	results := make([]dedup.Result, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Run(pool)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, expected.Records, res.Records)
		assert.NotEqual(t, expected.Report.RunID, res.Report.RunID)
	}
}

func TestEveryRecordIsAccountedFor(t *testing.T) {
	pool := append(generatedPool(), nil, map[string]interface{}{"description": "no identity"})

	engine, err := dedup.NewEngine(dedup.DefaultConfig())
	require.NoError(t, err)
	res := engine.Run(raws(t, pool))

	report := res.Report
	assert.Equal(t, len(pool), report.Input)
	assert.Len(t, report.Unusable, 2)
	assert.Equal(t, report.Input-len(report.Unusable), report.Normalized)
	assert.Equal(t, report.Normalized, report.Output+len(report.Discarded))
	assert.Equal(t, len(res.Records), report.Output)
}

func TestInvalidThresholdIsRejected(t *testing.T) {
	for _, threshold := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		cfg := dedup.DefaultConfig()
		cfg.Threshold = threshold

		_, err := dedup.NewEngine(cfg)
		require.Error(t, err, "threshold %v", threshold)

		var thresholdErr *dedup.InvalidThresholdError
		assert.ErrorAs(t, err, &thresholdErr)
	}

	for _, threshold := range []float64{0, 1} {
		cfg := dedup.DefaultConfig()
		cfg.Threshold = threshold

		_, err := dedup.NewEngine(cfg)
		require.NoError(t, err)
	}
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := dedup.DefaultConfig()
	cfg.Workers = -1
	_, err := dedup.NewEngine(cfg)
	require.EqualError(t, err, "Expected workers to be non-negative, but was -1")

	cfg = dedup.DefaultConfig()
	cfg.Weights.Title = 0
	_, err = dedup.NewEngine(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected weights to sum to 1.0")
}

func TestThresholdExtremes(t *testing.T) {
	pool := []map[string]interface{}{
		{"title": "Nginx", "image": "nginx"},
		{"title": "Redis", "image": "redis"},
	}

	cfg := dedup.DefaultConfig()
	cfg.Threshold = 0
	res := run(t, cfg, pool)
	assert.Len(t, res.Records, 1)

	cfg.Threshold = 1
	cfg.IdentityLink = false
	res = run(t, cfg, pool)
	assert.Len(t, res.Records, 2)
}

func TestDegradedSignalsAreReportedAndLogged(t *testing.T) {
	log := &recordingLogger{}
	engine, err := dedup.NewEngine(dedup.DefaultConfig(), dedup.WithLogger(log))
	require.NoError(t, err)

	res := engine.Run(raws(t, []map[string]interface{}{
		{"title": "Stack", "image": "stack", "compose": []interface{}{"not", "text"}},
		{"title": "Other", "image": "other"},
	}))

	assert.Len(t, res.Records, 2)
	assert.Equal(t, []dedup.Degradation{{Index: 0, Title: "Stack", Signal: record.SignalCompose}}, res.Report.Degraded)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "compose signal treated as empty")
	assert.NotEmpty(t, log.debugs)
}

func TestCustomExtractor(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	extractor := features.ExtractorFunc(func(rec record.Record) features.FeatureSet {
		mu.Lock()
		calls++
		mu.Unlock()
		return features.Extract(rec)
	})

	engine, err := dedup.NewEngine(dedup.DefaultConfig(), dedup.WithExtractor(extractor))
	require.NoError(t, err)

	engine.Run(raws(t, []map[string]interface{}{{"title": "A"}, {"title": "B"}}))
	assert.Equal(t, 2, calls)
}

func TestReportSummary(t *testing.T) {
	res := run(t, dedup.DefaultConfig(), []map[string]interface{}{
		{"title": "Nginx", "image": "nginx:latest"},
		{"title": "Nginx", "image": "nginx:latest", "platform": "arm64"},
		{"title": "Nginx", "image": "nginx:latest", "note": "richer"},
	})

	summary := res.Report.Summary()
	for _, expected := range []string{
		"--- Processing Complete ---",
		"Original templates: 3",
		"Duplicate clusters: 1",
		"Final templates: 2",
		"Duplicates removed: 1",
		"Cluster 1 (3 members; linux=2, arm64=1)",
		"#0 Nginx (linux): same-architecture lower quality; kept #2 Nginx",
		"#1 Nginx -> Nginx (arm64)",
	} {
		assert.Contains(t, summary, expected)
	}
}

func run(t *testing.T, cfg dedup.Config, pool []map[string]interface{}) dedup.Result {
	t.Helper()
	engine, err := dedup.NewEngine(cfg)
	require.NoError(t, err)
	return engine.Run(raws(t, pool))
}

func raws(t *testing.T, pool []map[string]interface{}) []record.Raw {
	t.Helper()
	result := make([]record.Raw, 0, len(pool))
	for i, fields := range pool {
		source := fmt.Sprintf("pool[%d]", i)
		if src, ok := fields["source"].(string); ok {
			source = src
		}
		result = append(result, record.Raw{Fields: fields, Source: source})
	}
	return result
}

// generatedPool mixes duplicates, architecture variants and unrelated apps.
func generatedPool() []map[string]interface{} {
	apps := []string{"nginx", "redis", "postgres", "grafana", "plex"}
	tags := []string{"latest", "latest-arm64", "latest-amd64"}

	var pool []map[string]interface{}
	for i := 0; i < 30; i++ {
		app := apps[i%len(apps)]
		tag := tags[(i/len(apps))%len(tags)]

		var env []interface{}
		for j := 0; j < i%4; j++ {
			env = append(env, fmt.Sprintf("VAR_%d=%d", j, i))
		}

		title := strings.ToUpper(app[:1]) + app[1:]
		if i%2 == 1 {
			title += " Server"
		}

		pool = append(pool, map[string]interface{}{
			"title":       title,
			"image":       app + ":" + tag,
			"description": "The " + app + " application",
			"env":         env,
		})
	}
	return pool
}

func titles(recs []record.Record) []string {
	var result []string
	for _, rec := range recs {
		result = append(result, rec.Title)
	}
	return result
}

type recordingLogger struct {
	mu       sync.Mutex
	debugs   []string
	warnings []string
}

func (l *recordingLogger) Debugf(str string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, fmt.Sprintf(str, args...))
}

func (l *recordingLogger) Warnf(str string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(str, args...))
}
