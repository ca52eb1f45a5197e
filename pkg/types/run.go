// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates how a tool submission ended.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
	RunBusy   RunStatus = "busy"
)

// RunRecord describes one tool submission. It is what the history store
// persists and exports.
type RunRecord struct {
	// ID is assigned by the history store.
	ID int64 `json:"id" yaml:"id"`

	// Tool is the catalog identifier (e.g. "pdf-merger").
	Tool string `json:"tool" yaml:"tool"`

	// Endpoint is the backend path that was called.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Status is ok, failed, or busy.
	Status RunStatus `json:"status" yaml:"status"`

	// Inputs lists the local input file paths.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// OutputPath is where the downloaded result was saved.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Bytes is the size of the downloaded result.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// Duration is the wall time of the round trip.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Error holds the underlying failure for failed runs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// StartedAt is when the submission began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}
