package internal_test

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-rawget/internal"
	"github.com/frankli0324/go-rawget/internal/dialer"
	"github.com/frankli0324/go-rawget/internal/model"
)

type CombinedReadWriteCloser struct {
	io.Reader
	io.Writer
	io.Closer
}

func (CombinedReadWriteCloser) Flush() error { return nil }

type TestDialer struct {
	dialer.Conn
}

// Dial implements dialer.Dialer.
func (t *TestDialer) Dial(ctx context.Context, r *model.PreparedRequest) (dialer.Conn, error) {
	return t.Conn, nil
}

// Unwrap implements dialer.Dialer.
func (t *TestDialer) Unwrap() dialer.Dialer {
	return nil
}

const okResponse = "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"

// SendSingleRequest returns what the client wrote on the wire for req.
func SendSingleRequest(t *testing.T, req *model.Request) io.Reader {
	readResponse, writeResponse := io.Pipe()
	go func() {
		io.Copy(writeResponse, strings.NewReader(okResponse))
		writeResponse.Close()
	}()

	readRequest, writeRequest := io.Pipe()
	c := &internal.Client{}
	c.UseDialer(func(internal.Dialer) internal.Dialer {
		return &TestDialer{CombinedReadWriteCloser{
			Reader: readResponse,
			Writer: writeRequest,
			Closer: writeRequest,
		}}
	})
	go func() {
		resp, err := c.CtxDo(context.Background(), req)
		if err != nil {
			t.Error(err)
			return
		}
		if string(resp.Raw) != okResponse {
			t.Errorf("unexpected response %q", resp.Raw)
		}
	}()
	return readRequest
}

// serveOnce accepts a single connection on loopback, captures the request
// head and replies with resp before closing.
func serveOnce(t *testing.T, resp []byte) (addr string, got <-chan string) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan string, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		var head strings.Builder
		buf := make([]byte, 1)
		for !strings.HasSuffix(head.String(), "\r\n\r\n") {
			if _, err := c.Read(buf); err != nil {
				break
			}
			head.Write(buf)
		}
		ch <- head.String()
		c.Write(resp)
	}()
	return ln.Addr().String(), ch
}
