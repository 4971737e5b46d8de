package profiler

import (
	"time"
)

// Phase identifies the lifecycle step a failed attempt died in.
type Phase string

const (
	PhaseResolve Phase = "resolve"
	PhaseConnect Phase = "connect"
	PhaseTLS     Phase = "tls"
	PhaseWrite   Phase = "write"
	PhaseRead    Phase = "read"
	PhaseParse   Phase = "parse"
)

// Failure describes why an attempt produced no response.
type Failure struct {
	// Phase is the lifecycle step that failed.
	Phase Phase

	// Detail is the human readable error description.
	Detail string
}

func (f Failure) String() string {
	return string(f.Phase) + ": " + f.Detail
}

// Outcome is the immutable result of one attempt.
// Failure is nil iff a response was fully received and parsed.
type Outcome struct {
	// Status is the HTTP status code of the response.
	Status int

	// BodySize is the decoded response body size in bytes.
	BodySize uint64

	// Elapsed spans connection establishment through the completion
	// of response parsing, or through the failure point.
	Elapsed time.Duration

	// Failure is set when the attempt did not yield a response.
	Failure *Failure
}

// OK reports whether the attempt completed with a parsed response.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// ErrorStatus reports whether a completed attempt carried a status
// code outside the 2xx range.
func (o Outcome) ErrorStatus() bool {
	return o.OK() && o.Status/100 != 2
}
