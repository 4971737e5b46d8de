// Package httpwire serializes HTTP/1.1 requests and parses HTTP/1.x
// responses directly on the wire. Every connection carries exactly one
// request/response exchange and is closed afterwards, so responses may
// be framed by Content-Length, chunked encoding, or connection close.
package httpwire

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"
)

// DefaultUserAgent identifies the probe as a desktop browser, so that
// naive bot filters do not reject it outright.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

// DefaultWriteTimeout bounds writing the serialized request.
const DefaultWriteTimeout = 3 * time.Second

// EncodeRequest serializes a GET request for path against host.
// An empty userAgent falls back to DefaultUserAgent.
func EncodeRequest(host, path, userAgent string) []byte {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	fmt.Fprintf(&b, "User-Agent: %s\r\n", userAgent)
	b.WriteString("Accept: */*\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")

	return b.Bytes()
}

// WriteRequest sends an encoded request over conn under the write
// timeout. Zero timeout means DefaultWriteTimeout.
func WriteRequest(conn net.Conn, req []byte, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	defer conn.SetWriteDeadline(time.Time{})
	conn.SetWriteDeadline(time.Now().Add(timeout))

	if _, err := conn.Write(req); err != nil {
		if isTimeout(err) {
			return &WriteTimeoutError{Err: err}
		}
		return fmt.Errorf("cannot write request: %w", err)
	}

	return nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
