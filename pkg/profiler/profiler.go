// Package profiler executes repeated request/response cycles against
// one target and collects their outcomes.
package profiler

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkorittki/httprof/internal/pkg/netcore"
	"github.com/dkorittki/httprof/pkg/profiler/config"
	"github.com/dkorittki/httprof/pkg/target"
)

// Profiler runs a configured number of independent attempts against
// the same target. Attempts share nothing but the immutable target:
// every attempt resolves fresh candidates and owns its connection
// exclusively.
type Profiler struct {
	target *target.Target
	count  int
	cfg    *config.ProfilerConfig

	resolver  netcore.Resolver
	connector *netcore.Connector

	outcomes []Outcome

	// Running maximum over success bodies. Only one full body is ever
	// retained; ties keep the earlier body.
	longestBody []byte
	hasLongest  bool
}

// New creates a Profiler for count attempts against t. A count below
// one is normalized to one. A nil cfg means config.Default().
func New(t *target.Target, count int, cfg *config.ProfilerConfig) *Profiler {
	if count < 1 {
		count = 1
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &Profiler{
		target:   t,
		count:    count,
		cfg:      cfg,
		resolver: &netcore.SystemResolver{},
		connector: &netcore.Connector{
			ConnectTimeout: cfg.ConnectTimeout,
		},
	}
}

// Count returns the normalized number of attempts.
func (p *Profiler) Count() int {
	return p.count
}

// Run performs the attempts sequentially and returns the collected
// outcomes in completion order. Per-attempt failures never abort the
// run; each of the count attempts contributes exactly one outcome.
func (p *Profiler) Run(ctx context.Context) []Outcome {
	log.Info().
		Str("component", "profiler").
		Str("target", p.target.String()).
		Int("count", p.count).
		Msg("starting profile run")

	for i := 0; i < p.count; i++ {
		outcome, body := p.attempt(ctx)

		if outcome.OK() {
			p.retain(body)
		}
		p.outcomes = append(p.outcomes, outcome)
	}

	return p.outcomes
}

// Outcomes returns the outcomes collected so far.
func (p *Profiler) Outcomes() []Outcome {
	return p.outcomes
}

// LongestBody returns the retained largest success body, if any.
func (p *Profiler) LongestBody() ([]byte, bool) {
	return p.longestBody, p.hasLongest
}

// retain replaces the retained body when the new one is strictly
// larger, so the earliest body wins ties.
func (p *Profiler) retain(body []byte) {
	if p.hasLongest && uint64(len(body)) <= uint64(len(p.longestBody)) {
		return
	}

	p.longestBody = body
	p.hasLongest = true
}
