package netcore

import (
	"fmt"
	"strings"
)

// ResolveError indicates the target hostname did not resolve to any address.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve '%s': %v", e.Host, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ConnectError indicates that every resolved candidate failed to
// connect. Attempted holds one error per candidate, in the order the
// candidates were tried.
type ConnectError struct {
	Attempted []error
}

func (e *ConnectError) Error() string {
	details := make([]string, 0, len(e.Attempted))
	for _, err := range e.Attempted {
		details = append(details, err.Error())
	}
	return fmt.Sprintf("no candidate was reachable: %s", strings.Join(details, "; "))
}

// TLSHandshakeError indicates the TLS handshake failed on a candidate
// that accepted the transport connection.
type TLSHandshakeError struct {
	Err error
}

func (e *TLSHandshakeError) Error() string {
	return fmt.Sprintf("tls handshake failed: %v", e.Err)
}

func (e *TLSHandshakeError) Unwrap() error {
	return e.Err
}
