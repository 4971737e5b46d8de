// Package netcore establishes raw connections to profiling targets:
// name resolution into ordered candidates and candidate-by-candidate
// connection setup, plain or TLS wrapped.
package netcore

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"
)

// Resolver turns a hostname into an ordered list of candidate IP
// addresses. Implementations must not cache between calls, so every
// attempt works on a fresh candidate list.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// SystemResolver resolves through the platform resolver. Candidate
// order is whatever the platform returns.
type SystemResolver struct{}

var _ Resolver = &SystemResolver{}

// LookupHost implements Resolver.LookupHost. IP literals short-circuit
// to themselves without touching the resolver, like getaddrinfo does.
func (r *SystemResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if net.ParseIP(host) != nil {
		return []string{host}, nil
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, &ResolveError{Host: host, Err: err}
	}
	if len(addrs) == 0 {
		return nil, &ResolveError{Host: host, Err: errors.New("no addresses returned")}
	}

	log.Debug().
		Str("component", "resolver").
		Str("host", host).
		Strs("candidates", addrs).
		Msg("resolved candidates")

	return addrs, nil
}
