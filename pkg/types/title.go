// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus is the outcome of an extraction run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// CatalogEntry is one title held in the catalog.
type CatalogEntry struct {
	// Title is the game title exactly as it appears in the progress record.
	Title string `json:"title" yaml:"title"`

	// PayloadKind is a coarse label for the example payload (e.g. "dict", "list").
	PayloadKind string `json:"payload_kind" yaml:"payload_kind"`

	// FirstSeen is when the title was first ingested.
	FirstSeen time.Time `json:"first_seen" yaml:"first_seen"`

	// LastSeen is when the title was most recently ingested.
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`

	// SeenCount is the number of ingest runs that contained the title.
	SeenCount int `json:"seen_count" yaml:"seen_count"`
}

// CatalogRun records one ingest into the catalog.
type CatalogRun struct {
	ID    string    `json:"id" yaml:"id"`
	Input string    `json:"input" yaml:"input"`
	Count int       `json:"count" yaml:"count"`
	At    time.Time `json:"at" yaml:"at"`
}
