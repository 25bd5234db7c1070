package internal_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-rawget/internal"
	"github.com/frankli0324/go-rawget/internal/dialer"
	"github.com/frankli0324/go-rawget/internal/model"
)

type tCase struct {
	data []byte
	req  *model.Request
}

var reqShouldBe = map[string]tCase{
	"BasicRequest": {
		req:  &model.Request{URL: "http://www.example.com"},
		data: []byte("GET / HTTP/1.1\r\nHost: www.example.com\r\nConnection: close\r\n\r\n"),
	},
	"QueryNonStandard": {
		req:  &model.Request{URL: "http://www.example.com/test?1=33=1"},
		data: []byte("GET /test?1=33=1 HTTP/1.1\r\nHost: www.example.com\r\nConnection: close\r\n\r\n"),
	},
	"HeaderNotCanonicalized": {
		req: &model.Request{
			URL:    "http://www.example.com/",
			Header: http.Header{"x-123-vv": {"1"}},
		},
		data: []byte("GET / HTTP/1.1\r\nHost: www.example.com\r\nx-123-vv: 1\r\nConnection: close\r\n\r\n"),
	},
	"URIFragmentNotIncluded": {
		req:  &model.Request{URL: "http://www.example.com/?test=1#frag"},
		data: []byte("GET /?test=1 HTTP/1.1\r\nHost: www.example.com\r\nConnection: close\r\n\r\n"),
	},
}

func TestRequestSerialize(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			req := SendSingleRequest(t, tCase.req)
			if err := iotest.TestReader(req, tCase.data); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestGetReturnsExactBytes(t *testing.T) {
	resp := []byte("HTTP/1.1 200 OK\r\nX: y\r\n\r\n\x00binary\xffbody")
	addr, got := serveOnce(t, resp)

	c := &internal.Client{}
	b, err := c.Get(context.Background(), "http://"+addr+"/p?q=1#f")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(resp, b))
	assert.Equal(t, "GET /p?q=1 HTTP/1.1\r\nHost: "+addr+"\r\nConnection: close\r\n\r\n", <-got)
}

func TestGetUntrustedTLS(t *testing.T) {
	var hits int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	_, err := (&internal.Client{}).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, model.IsNetwork(err))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestGetTrustedTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("path=" + r.URL.RequestURI()))
	}))
	defer server.Close()

	c := &internal.Client{}
	c.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		cd.TLSConfig.RootCAs, _ = x509.SystemCertPool()
		if cd.TLSConfig.RootCAs == nil {
			cd.TLSConfig.RootCAs = x509.NewCertPool()
		}
		cd.TLSConfig.RootCAs.AddCert(server.Certificate())
		return cd
	})
	resp, err := c.CtxDo(context.Background(), &model.Request{URL: server.URL + "/a?b=c"})
	require.NoError(t, err)
	assert.Equal(t, "http/1.1", resp.Proto)
	assert.Contains(t, string(resp.Raw), "HTTP/1.1 200 OK\r\n")
	assert.Contains(t, string(resp.Raw), "path=/a?b=c")
}

func TestGetAddressNotFound(t *testing.T) {
	c := &internal.Client{}
	c.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		cd.LookupIP = func(context.Context, string, string) ([]net.IP, error) { return nil, nil }
		return cd
	})
	_, err := c.Get(context.Background(), "http://nowhere.test/")
	require.Error(t, err)
	assert.True(t, model.IsAddressNotFound(err))
	assert.EqualError(t, err, "address not found: nowhere.test")
}

func TestPrepareErrorIsNotNetwork(t *testing.T) {
	_, err := (&internal.Client{}).CtxDo(context.Background(), &model.Request{
		URL: "http://h", Header: http.Header{"bad name": {"x"}},
	})
	require.Error(t, err)
	assert.False(t, model.IsNetwork(err))
	assert.False(t, model.IsAddressNotFound(err))
}

func TestURLCannotInjectRequestLines(t *testing.T) {
	addr, got := serveOnce(t, []byte("ok"))
	_, err := (&internal.Client{}).Get(context.Background(),
		"http://"+addr+"/a HTTP/1.1\r\nX-Injected: 1\r\n\r\nGET /smuggled")
	require.ErrorContains(t, err, "invalid request target")
	assert.False(t, model.IsNetwork(err))

	// rejected before dialing
	select {
	case head := <-got:
		t.Fatalf("server received %q", head)
	default:
	}
}

func TestMiddlewareOrder(t *testing.T) {
	addr, _ := serveOnce(t, []byte("ok"))

	var order []string
	mw := func(name string) internal.Middleware {
		return func(next internal.Handler) internal.Handler {
			return func(ctx context.Context, req *internal.PreparedRequest) (*model.Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	c := &internal.Client{}
	c.Use(mw("first"), mw("second"))
	_, err := c.Get(context.Background(), "http://"+addr)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestClientTrace(t *testing.T) {
	addr, _ := serveOnce(t, []byte("HTTP/1.1 204 No Content\r\n\r\n"))

	var events []string
	ctx := httptrace.WithClientTrace(context.Background(), &httptrace.ClientTrace{
		GotConn:              func(i httptrace.GotConnInfo) { events = append(events, "conn") },
		WroteRequest:         func(i httptrace.WroteRequestInfo) { events = append(events, "wrote") },
		GotFirstResponseByte: func() { events = append(events, "first-byte") },
	})
	_, err := (&internal.Client{}).Get(ctx, "http://"+addr)
	require.NoError(t, err)
	assert.Equal(t, []string{"conn", "wrote", "first-byte"}, events)
}

func TestSetNextProtos(t *testing.T) {
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.EnableHTTP2 = true
	server.StartTLS()
	defer server.Close()

	c := &internal.Client{}
	c.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		cd.TLSConfig.RootCAs = x509.NewCertPool()
		cd.TLSConfig.RootCAs.AddCert(server.Certificate())
		return cd
	})
	require.True(t, c.SetNextProtos("h2", "http/1.1"))

	_, err := c.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, model.IsNetwork(err))
	var proto dialer.ErrUnsupportedProtocol
	assert.ErrorAs(t, err, &proto)
}

func TestDialerIsolatedFromDefault(t *testing.T) {
	a, b := &internal.Client{}, &internal.Client{}
	a.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		cd.TLSConfig.NextProtos = []string{"custom"}
		return cd
	})
	b.UseCoreDialer(func(cd *dialer.CoreDialer) dialer.Dialer {
		assert.Equal(t, dialer.DefaultNextProtos, cd.TLSConfig.NextProtos)
		assert.IsType(t, &tls.Config{}, cd.TLSConfig)
		return cd
	})
}
