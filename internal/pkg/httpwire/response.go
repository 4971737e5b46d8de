package httpwire

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultReadTimeout bounds each single read while receiving the
// response. It is re-armed per read call, so a slow but steadily
// trickling peer is fine while a stalled one aborts the attempt.
const DefaultReadTimeout = 3 * time.Second

// Header is one response header field. Order of receipt is preserved
// by the enclosing slice; name matching is case-insensitive.
type Header struct {
	Name  string
	Value string
}

// Response is one fully received HTTP/1.x response.
type Response struct {
	Status  int
	Proto   string
	Reason  string
	Headers []Header
	Body    []byte
	Size    uint64
}

// HeaderValue returns the first header value with the given name,
// matched case-insensitively.
func (r *Response) HeaderValue(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// timeoutReader re-arms the read deadline before every Read, so the
// read budget applies per read call rather than per response.
type timeoutReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r *timeoutReader) Read(p []byte) (int, error) {
	r.conn.SetReadDeadline(time.Now().Add(r.timeout))
	return r.conn.Read(p)
}

// ReadResponse reads and parses one response from conn. The body is
// framed by, in priority order: chunked transfer encoding, an explicit
// Content-Length, or connection close. Zero timeout means
// DefaultReadTimeout.
func ReadResponse(conn net.Conn, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	defer conn.SetReadDeadline(time.Time{})
	br := bufio.NewReader(&timeoutReader{conn: conn, timeout: timeout})

	resp := &Response{}

	line, err := readLine(br)
	if err != nil {
		return nil, readFailure(err)
	}
	if err := parseStatusLine(line, resp); err != nil {
		return nil, err
	}

	for {
		line, err := readLine(br)
		if err != nil {
			return nil, readFailure(err)
		}
		if line == "" {
			break
		}

		header, err := parseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		resp.Headers = append(resp.Headers, header)
	}

	body, err := readBody(br, resp)
	if err != nil {
		return nil, err
	}

	resp.Body = body
	resp.Size = uint64(len(body))

	return resp, nil
}

// readLine reads one CRLF (or bare LF) terminated line without the
// line ending. EOF before the terminator is an error.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseStatusLine(line string, resp *Response) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return &MalformedResponseError{Reason: fmt.Sprintf("bad status line '%s'", line)}
	}

	proto := parts[0]
	if !strings.HasPrefix(proto, "HTTP/") {
		return &MalformedResponseError{Reason: fmt.Sprintf("bad protocol '%s'", proto)}
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 599 {
		return &MalformedResponseError{Reason: fmt.Sprintf("bad status code '%s'", parts[1])}
	}

	resp.Proto = proto
	resp.Status = code
	if len(parts) == 3 {
		resp.Reason = parts[2]
	}

	return nil
}

func parseHeaderLine(line string) (Header, error) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return Header{}, &MalformedResponseError{Reason: fmt.Sprintf("bad header line '%s'", line)}
	}

	name := strings.TrimSpace(line[:i])
	if name != line[:i] {
		return Header{}, &MalformedResponseError{Reason: fmt.Sprintf("bad header name '%s'", line[:i])}
	}

	return Header{Name: name, Value: strings.TrimSpace(line[i+1:])}, nil
}

func readBody(br *bufio.Reader, resp *Response) ([]byte, error) {
	if te, ok := resp.HeaderValue("Transfer-Encoding"); ok &&
		strings.Contains(strings.ToLower(te), "chunked") {
		return readChunkedBody(br)
	}

	if cl, ok := resp.HeaderValue("Content-Length"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(cl), 10, 63)
		if err != nil {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("bad content length '%s'", cl)}
		}

		body := make([]byte, n)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, readFailure(err)
		}
		return body, nil
	}

	// No explicit framing: the body runs until the peer closes the
	// connection, which is valid because every connection is single use.
	body, err := ioutil.ReadAll(br)
	if err != nil {
		return nil, readFailure(err)
	}
	return body, nil
}

func readChunkedBody(br *bufio.Reader) ([]byte, error) {
	var body []byte

	for {
		line, err := readLine(br)
		if err != nil {
			return nil, readFailure(err)
		}

		// Chunk extensions after ';' are ignored.
		sizeField := line
		if i := strings.Index(sizeField, ";"); i >= 0 {
			sizeField = sizeField[:i]
		}

		size, err := strconv.ParseUint(strings.TrimSpace(sizeField), 16, 63)
		if err != nil {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("bad chunk size '%s'", line)}
		}

		if size == 0 {
			// Skip trailers until the terminating blank line.
			for {
				line, err := readLine(br)
				if err != nil {
					if err == io.EOF {
						return body, nil
					}
					return nil, readFailure(err)
				}
				if line == "" {
					return body, nil
				}
			}
		}

		chunk := make([]byte, size)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, readFailure(err)
		}
		body = append(body, chunk...)

		crlf, err := readLine(br)
		if err != nil {
			return nil, readFailure(err)
		}
		if crlf != "" {
			return nil, &MalformedResponseError{Reason: "missing chunk terminator"}
		}
	}
}

// readFailure classifies an I/O error from the response stream.
func readFailure(err error) error {
	if isTimeout(err) {
		return &ReadTimeoutError{Err: err}
	}
	return fmt.Errorf("cannot read response: %w", err)
}
