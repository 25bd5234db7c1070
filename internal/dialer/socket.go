package dialer

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
)

type Kind int

const (
	Plain Kind = iota
	TLS
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case TLS:
		return "tls"
	}
	panic("dialer: unknown socket kind")
}

// stream is implemented by exactly two types, the variant is picked once
// when the socket is built and never checked again on Read/Write.
type stream interface {
	net.Conn
	kind() Kind
}

type plainStream struct{ net.Conn }

func (plainStream) kind() Kind { return Plain }

type tlsStream struct {
	*tls.Conn
	keylog io.Closer // may be nil
}

func (tlsStream) kind() Kind { return TLS }

func (s tlsStream) Close() error {
	err := s.Conn.Close()
	if s.keylog != nil {
		if kerr := s.keylog.Close(); err == nil {
			err = kerr
		}
	}
	return err
}

// Socket is a single-shot duplex stream to one origin. Writes are buffered
// until Flush.
type Socket struct {
	s  stream
	bw *bufio.Writer
}

func newSocket(s stream) *Socket {
	return &Socket{s: s, bw: bufio.NewWriter(s)} // default bufsize is 4096
}

func (s *Socket) Write(p []byte) (int, error) { return s.bw.Write(p) }

func (s *Socket) Flush() error { return s.bw.Flush() }

func (s *Socket) Read(p []byte) (int, error) { return s.s.Read(p) }

func (s *Socket) Close() error { return s.s.Close() }

func (s *Socket) Kind() Kind { return s.s.kind() }

func (s *Socket) RemoteAddr() net.Addr { return s.s.RemoteAddr() }

// Raw returns the underlying connection, a *tls.Conn for TLS sockets.
func (s *Socket) Raw() net.Conn {
	if t, ok := s.s.(tlsStream); ok {
		return t.Conn
	}
	return s.s.(plainStream).Conn
}

// TLSState reports the handshake result, ok is false for plain sockets.
func (s *Socket) TLSState() (state tls.ConnectionState, ok bool) {
	if t, ok := s.s.(tlsStream); ok {
		return t.ConnectionState(), true
	}
	return
}

func (s *Socket) NegotiatedProtocol() string {
	st, _ := s.TLSState()
	return st.NegotiatedProtocol
}
