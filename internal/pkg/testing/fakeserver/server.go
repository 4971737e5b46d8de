// Package fakeserver provides a scripted raw-TCP server double for
// exercising the connection and wire-format code in tests.
package fakeserver

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"strconv"
	"sync"
	"time"
)

// Handler answers one accepted connection. The connection is closed
// by the server when the handler returns.
type Handler func(conn net.Conn)

// Server accepts loopback connections and answers them with a Handler.
type Server struct {
	listener net.Listener
	wg       sync.WaitGroup
}

// New starts a plain TCP server on a random loopback port.
func New(handler Handler) (*Server, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	return serve(l, handler), nil
}

// NewTLS starts a TLS server on a random loopback port using a
// freshly generated self-signed certificate. Clients must skip
// certificate verification.
func NewTLS(handler Handler) (*Server, error) {
	cert, err := selfSignedCert()
	if err != nil {
		return nil, err
	}

	l, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
	})
	if err != nil {
		return nil, err
	}
	return serve(l, handler), nil
}

func serve(l net.Listener, handler Handler) *Server {
	s := &Server{listener: l}
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}

			go func() {
				defer conn.Close()
				handler(conn)
			}()
		}
	}()

	return s
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Host returns the listen IP.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Addr())
	return host
}

// Port returns the listen port.
func (s *Server) Port() uint16 {
	_, port, _ := net.SplitHostPort(s.Addr())
	n, _ := strconv.ParseUint(port, 10, 16)
	return uint16(n)
}

// Close stops accepting connections.
func (s *Server) Close() {
	s.listener.Close()
	s.wg.Wait()
}

// Respond returns a handler that drains the request head and writes
// raw as the complete response.
func Respond(raw string) Handler {
	return func(conn net.Conn) {
		DrainRequest(conn)
		conn.Write([]byte(raw))
	}
}

// Stall returns a handler that drains the request head and then sends
// nothing until the client gives up or d passes.
func Stall(d time.Duration) Handler {
	return func(conn net.Conn) {
		DrainRequest(conn)
		time.Sleep(d)
	}
}

// DrainRequest reads conn up to the blank line terminating a request
// head, so a response can be scripted without parsing the request.
func DrainRequest(conn net.Conn) {
	br := bufio.NewReader(conn)
	for {
		line, err := br.ReadString('\n')
		if err != nil || line == "\r\n" || line == "\n" {
			return
		}
	}
}

func selfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "fakeserver"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}, nil
}
