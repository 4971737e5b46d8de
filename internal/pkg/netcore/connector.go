package netcore

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultConnectTimeout bounds connection establishment per candidate,
// including the TLS handshake when one is required.
const DefaultConnectTimeout = 5 * time.Second

// Dialer establishes transport connections. It matches the relevant
// part of net.Dialer, so tests can swap in a double.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Connector turns a list of resolved candidates into one usable
// connection. Candidates are tried in order; the first one that
// connects (and, for TLS targets, completes the handshake) wins.
type Connector struct {
	// ConnectTimeout bounds each candidate's connection attempt.
	// Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// Dialer is the transport dialer. Nil means a plain net.Dialer.
	Dialer Dialer

	// TLSConfig is cloned for TLS targets before the server name is
	// set on it. Nil means a zero config with the platform trust store.
	TLSConfig *tls.Config
}

// Connect tries each candidate address in order on the given port and
// returns the first established connection. A candidate is never
// retried. With useTLS set, the handshake runs against serverName
// right after the transport connects, under the same connect budget.
//
// When every candidate fails before reaching the handshake stage the
// error is a *ConnectError carrying all per-candidate errors. When at
// least one candidate reached the handshake and failed there, the
// error is a *TLSHandshakeError for the last such failure.
func (c *Connector) Connect(ctx context.Context, candidates []string, port uint16, serverName string, useTLS bool) (net.Conn, error) {
	var (
		attempted    []error
		handshakeErr error
	)

	for _, addr := range candidates {
		address := net.JoinHostPort(addr, strconv.Itoa(int(port)))

		conn, err := c.dialCandidate(ctx, address)
		if err != nil {
			log.Debug().
				Str("component", "connector").
				Str("candidate", address).
				Err(err).
				Msg("candidate failed to connect")

			attempted = append(attempted, fmt.Errorf("%s: %w", address, err))
			continue
		}

		if !useTLS {
			return conn, nil
		}

		tlsconn, err := c.handshake(conn, serverName)
		if err != nil {
			log.Debug().
				Str("component", "connector").
				Str("candidate", address).
				Err(err).
				Msg("candidate failed tls handshake")

			conn.Close()
			handshakeErr = err
			attempted = append(attempted, fmt.Errorf("%s: %w", address, err))
			continue
		}

		return tlsconn, nil
	}

	if handshakeErr != nil {
		return nil, &TLSHandshakeError{Err: handshakeErr}
	}
	return nil, &ConnectError{Attempted: attempted}
}

func (c *Connector) dialCandidate(ctx context.Context, address string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout())
	defer cancel()

	dialer := c.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	return dialer.DialContext(ctx, "tcp", address)
}

// handshake wraps conn into a TLS client connection and completes the
// handshake under the connect budget. On failure the raw connection is
// still open and owned by the caller.
func (c *Connector) handshake(conn net.Conn, serverName string) (net.Conn, error) {
	defer conn.SetDeadline(time.Time{})
	conn.SetDeadline(time.Now().Add(c.connectTimeout()))

	cfg := c.TLSConfig
	if cfg == nil {
		cfg = &tls.Config{}
	}
	cfg = cfg.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}

	tlsconn := tls.Client(conn, cfg)
	if err := tlsconn.Handshake(); err != nil {
		return nil, err
	}

	return tlsconn, nil
}

func (c *Connector) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return c.ConnectTimeout
}
