package httpwire

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest(t *testing.T) {
	req := string(EncodeRequest("example.org", "/search?q=1", "test-agent/1.0"))

	expected := "GET /search?q=1 HTTP/1.1\r\n" +
		"Host: example.org\r\n" +
		"User-Agent: test-agent/1.0\r\n" +
		"Accept: */*\r\n" +
		"Connection: close\r\n" +
		"\r\n"

	assert.Equal(t, expected, req)
}

func TestEncodeRequest_DefaultUserAgent(t *testing.T) {
	req := string(EncodeRequest("example.org", "/", ""))

	assert.Contains(t, req, "User-Agent: "+DefaultUserAgent+"\r\n")
	assert.True(t, strings.Contains(DefaultUserAgent, "Mozilla"))
}

func TestWriteRequest(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	received := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4096)
		n, _ := server.Read(buf)
		received <- buf[:n]
	}()

	req := EncodeRequest("example.org", "/", "")
	err := WriteRequest(client, req, time.Second)

	require.NoError(t, err)
	assert.Equal(t, req, <-received)
}

func TestWriteRequest_Timeout(t *testing.T) {
	// The peer never reads, so the unbuffered pipe write must stall
	// until the deadline fires.
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := WriteRequest(client, EncodeRequest("example.org", "/", ""), 50*time.Millisecond)

	require.Error(t, err)
	_, ok := err.(*WriteTimeoutError)
	assert.True(t, ok)
}
