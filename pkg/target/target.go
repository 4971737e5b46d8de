// Package target provides parsing and validation of profiling targets.
package target

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

var (
	// ErrUnsupportedScheme indicates a URL scheme other than http or https.
	ErrUnsupportedScheme = errors.New("only http and https schemes are supported")

	// ErrMissingHost indicates a URL without a hostname.
	ErrMissingHost = errors.New("URL contains no host")
)

// A Target is the parsed and validated form of the URL under profile.
// It is built once per invocation and never mutated afterwards.
type Target struct {
	// Scheme is either "http" or "https".
	Scheme string

	// Host is the hostname or IP literal from the URL.
	Host string

	// Port is the TCP port to connect to. Defaults to 80 for http
	// and 443 for https when the URL carries no explicit port.
	Port uint16

	// Path is the request path including the raw query, never empty.
	Path string
}

// Parse validates rawurl and builds a Target from it.
// The scheme is checked before anything else, so unsupported
// schemes are rejected without any network activity.
func Parse(rawurl string) (*Target, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, ErrUnsupportedScheme
	}

	if u.Hostname() == "" {
		return nil, ErrMissingHost
	}

	port := uint16(80)
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid port '%s'", p)
		}
		port = uint16(n)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path = path + "?" + u.RawQuery
	}

	return &Target{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   port,
		Path:   path,
	}, nil
}

// TLS reports whether connections to the target must be TLS wrapped.
func (t *Target) TLS() bool {
	return t.Scheme == "https"
}

// DefaultPort reports whether the target uses the scheme's default port.
func (t *Target) DefaultPort() bool {
	return (t.Scheme == "http" && t.Port == 80) ||
		(t.Scheme == "https" && t.Port == 443)
}

// HostHeader returns the value for the Host request header, which
// carries the port only when it differs from the scheme default.
func (t *Target) HostHeader() string {
	if t.DefaultPort() {
		return t.Host
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}

func (t *Target) String() string {
	return fmt.Sprintf("%s://%s%s", t.Scheme, t.HostHeader(), t.Path)
}
