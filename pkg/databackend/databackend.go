// Package databackend abstracts persistence of raw attempt results.
package databackend

import "time"

// DataBackend is an abstract type for handling persistence
// of result data.
type DataBackend interface {
	// Store stores a result.
	Store(*Result) error

	// Close closes all handles to the backend and should be called
	// when no more results need to be persisted.
	Close() error
}

// Result represents the raw outcome of one attempt, suitable for
// offline analysis alongside the aggregated report.
type Result struct {
	URL            string        `json:"url"`
	HTTPStatusCode int           `json:"httpstatuscode,omitempty"`
	BodySize       uint64        `json:"bodysize"`
	Elapsed        time.Duration `json:"elapsed"`
	FailurePhase   string        `json:"failurephase,omitempty"`
	FailureDetail  string        `json:"failuredetail,omitempty"`
}
