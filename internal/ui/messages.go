// Package ui provides the Bubble Tea terminal client.
package ui

import (
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
)

// ItemsLoaded is sent when the active category's items are fetched.
type ItemsLoaded struct {
	Category store.Category
	Items    []store.Item
	Err      error
}

// CountsLoaded is sent when per-category counts are fetched.
type CountsLoaded struct {
	Counts map[store.Category]int
	Err    error
}

// Submitted is sent when a submission's draft has been created.
type Submitted struct {
	ID  string
	Err error
}

// ItemDeleted is sent when an item has been removed.
type ItemDeleted struct {
	ID  string
	Err error
}

// pipelineEventMsg wraps a pipeline event for the update loop.
type pipelineEventMsg pipeline.Event
