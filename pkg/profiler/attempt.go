package profiler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkorittki/httprof/internal/pkg/httpwire"
	"github.com/dkorittki/httprof/internal/pkg/netcore"
)

// attempt executes one full resolve → connect → send → receive cycle
// and returns the outcome plus, on success, the response body. Any
// opened connection is closed before returning, on every path.
func (p *Profiler) attempt(ctx context.Context) (Outcome, []byte) {
	candidates, err := p.resolver.LookupHost(ctx, p.target.Host)
	if err != nil {
		return failedOutcome(PhaseResolve, err, 0), nil
	}

	start := time.Now()

	conn, err := p.connector.Connect(ctx, candidates, p.target.Port, p.target.Host, p.target.TLS())
	if err != nil {
		phase := PhaseConnect
		var handshakeErr *netcore.TLSHandshakeError
		if errors.As(err, &handshakeErr) {
			phase = PhaseTLS
		}
		return failedOutcome(phase, err, time.Since(start)), nil
	}
	defer conn.Close()

	req := httpwire.EncodeRequest(p.target.HostHeader(), p.target.Path, p.cfg.UserAgent)
	if err := httpwire.WriteRequest(conn, req, p.cfg.WriteTimeout); err != nil {
		return failedOutcome(PhaseWrite, err, time.Since(start)), nil
	}

	resp, err := httpwire.ReadResponse(conn, p.cfg.ReadTimeout)
	if err != nil {
		phase := PhaseRead
		var malformedErr *httpwire.MalformedResponseError
		if errors.As(err, &malformedErr) {
			phase = PhaseParse
		}
		return failedOutcome(phase, err, time.Since(start)), nil
	}

	elapsed := time.Since(start)

	log.Debug().
		Str("component", "profiler").
		Int("status", resp.Status).
		Uint64("size", resp.Size).
		Dur("elapsed", elapsed).
		Msg("attempt completed")

	return Outcome{
		Status:   resp.Status,
		BodySize: resp.Size,
		Elapsed:  elapsed,
	}, resp.Body
}

func failedOutcome(phase Phase, err error, elapsed time.Duration) Outcome {
	log.Debug().
		Str("component", "profiler").
		Str("phase", string(phase)).
		Err(err).
		Msg("attempt failed")

	return Outcome{
		Elapsed: elapsed,
		Failure: &Failure{Phase: phase, Detail: err.Error()},
	}
}
