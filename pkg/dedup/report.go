// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"fmt"
	"strings"

	"carvel.dev/tplcombine/pkg/record"
)

const ReasonLowerQuality = "same-architecture lower quality"

// Report describes everything a run did to the pool. Every record that does
// not appear in the output appears here, either in Unusable or in Discarded.
type Report struct {
	RunID     string  `json:"runId"`
	Threshold float64 `json:"threshold"`

	Input      int         `json:"input"`
	Unusable   []Rejection `json:"unusable"`
	Normalized int         `json:"normalized"`

	Clusters   []Cluster `json:"clusters"`
	Singletons int       `json:"singletons"`

	Discarded []Discard     `json:"discarded"`
	Renamed   []Rename      `json:"renamed"`
	Degraded  []Degradation `json:"degraded"`

	Output int `json:"output"`
}

// Rejection is a document that failed normalization.
type Rejection struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Member identifies a record by its position in the input pool.
type Member struct {
	Index        int     `json:"index"`
	Title        string  `json:"title"`
	Image        string  `json:"image"`
	Source       string  `json:"source"`
	Architecture string  `json:"architecture"`
	Quality      float64 `json:"quality"`
}

// Cluster is a duplicate cluster with more than one member.
type Cluster struct {
	ID         int         `json:"id"`
	Members    []Member    `json:"members"`
	Links      []Link      `json:"links"`
	Partitions []Partition `json:"partitions"`
}

// Link is a pair of records that cleared the threshold.
type Link struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Score    float64 `json:"score"`
	Identity bool    `json:"identity,omitempty"`
}

// Partition groups the members of a cluster sharing one architecture.
type Partition struct {
	Architecture string `json:"architecture"`
	Members      []int  `json:"members"`
	Kept         int    `json:"kept"`
}

type Discard struct {
	Member
	Cluster   int    `json:"cluster"`
	Reason    string `json:"reason"`
	Tie       bool   `json:"tie,omitempty"`
	KeptIndex int    `json:"keptIndex"`
	KeptTitle string `json:"keptTitle"`
}

type Rename struct {
	Index int    `json:"index"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Degradation is a signal that was treated as empty for one record.
type Degradation struct {
	Index  int           `json:"index"`
	Title  string        `json:"title"`
	Signal record.Signal `json:"signal"`
}

// ClustersFound is the number of duplicate clusters (more than one member).
func (r Report) ClustersFound() int { return len(r.Clusters) }

// Summary renders a short human readable account of the run.
func (r Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "--- Processing Complete ---\n")
	fmt.Fprintf(&sb, "Original templates: %d\n", r.Input)
	if len(r.Unusable) > 0 {
		fmt.Fprintf(&sb, "Unusable templates: %d\n", len(r.Unusable))
	}
	fmt.Fprintf(&sb, "Duplicate clusters: %d\n", r.ClustersFound())
	fmt.Fprintf(&sb, "Final templates: %d\n", r.Output)
	fmt.Fprintf(&sb, "Duplicates removed: %d\n", len(r.Discarded))

	for _, c := range r.Clusters {
		var archs []string
		for _, p := range c.Partitions {
			archs = append(archs, fmt.Sprintf("%s=%d", p.Architecture, len(p.Members)))
		}
		fmt.Fprintf(&sb, "\nCluster %d (%d members; %s)\n", c.ID, len(c.Members), strings.Join(archs, ", "))
		for _, m := range c.Members {
			fmt.Fprintf(&sb, "  #%d %s [%s] %s\n", m.Index, m.Title, m.Architecture, m.Image)
		}
	}

	if len(r.Discarded) > 0 {
		fmt.Fprintf(&sb, "\nDiscarded:\n")
		for _, d := range r.Discarded {
			tie := ""
			if d.Tie {
				tie = ", tie"
			}
			fmt.Fprintf(&sb, "  #%d %s (%s): %s%s; kept #%d %s\n",
				d.Index, d.Title, d.Architecture, d.Reason, tie, d.KeptIndex, d.KeptTitle)
		}
	}

	if len(r.Renamed) > 0 {
		fmt.Fprintf(&sb, "\nRenamed:\n")
		for _, rn := range r.Renamed {
			fmt.Fprintf(&sb, "  #%d %s -> %s\n", rn.Index, rn.From, rn.To)
		}
	}

	if len(r.Unusable) > 0 {
		fmt.Fprintf(&sb, "\nUnusable:\n")
		for _, u := range r.Unusable {
			fmt.Fprintf(&sb, "  #%d %s: %s\n", u.Index, u.Source, u.Reason)
		}
	}

	return sb.String()
}
