package httpwire

import "fmt"

// WriteTimeoutError indicates the request could not be written within
// the write budget.
type WriteTimeoutError struct {
	Err error
}

func (e *WriteTimeoutError) Error() string {
	return fmt.Sprintf("request write timed out: %v", e.Err)
}

func (e *WriteTimeoutError) Unwrap() error {
	return e.Err
}

// ReadTimeoutError indicates a single read stalled beyond the read
// budget while receiving the response.
type ReadTimeoutError struct {
	Err error
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("response read timed out: %v", e.Err)
}

func (e *ReadTimeoutError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates the peer sent bytes that do not
// form a valid HTTP/1.x response: a bad status line, broken header
// syntax, or invalid length/chunk framing.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Reason)
}
