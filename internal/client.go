package internal

import (
	"context"
	"io"
	"net"
	"net/http/httptrace"

	"github.com/frankli0324/go-rawget/internal/dialer"
	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
	"github.com/frankli0324/go-rawget/internal/transport"
)

type PreparedRequest = model.PreparedRequest
type Dialer = dialer.Dialer
type Logger = obs.Logger

type Handler = func(ctx context.Context, req *PreparedRequest) (*model.Response, error)
type Middleware func(next Handler) Handler

var h1 = transport.HTTP1{}

// Client issues single-shot GET requests. The zero value is ready to use.
// Every request gets its own connection, nothing is pooled or reused.
type Client struct {
	middlewares []Middleware
	dialer      Dialer

	Logger obs.Logger
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer with the result of fn, which receives the
// current one (a clone of the default [dialer.CoreDialer] if none was set).
func (c *Client) UseDialer(fn func(Dialer) Dialer) {
	d := c.dialer
	if d == nil {
		d = defaultDialer.Clone()
	}
	c.dialer = fn(d)
}

// UseCoreDialer is UseDialer for the common case of tweaking the
// *[dialer.CoreDialer] config.
func (c *Client) UseCoreDialer(fn func(*dialer.CoreDialer) Dialer) {
	c.UseDialer(func(d Dialer) Dialer {
		for cd := d; cd != nil; cd = cd.Unwrap() {
			if core, ok := cd.(*dialer.CoreDialer); ok {
				return fn(core)
			}
		}
		return d
	})
}

// getDialer never writes to c, so requests may run concurrently as long as
// the client isn't being configured at the same time.
func (c *Client) getDialer() Dialer {
	if c.dialer == nil {
		return defaultDialer
	}
	return c.dialer
}

func (c *Client) logger() obs.Logger {
	return obs.OrNop(c.Logger)
}

// CtxDo sends req and returns everything the server sent back until it
// closed the connection. Failures after the request was prepared are
// *[model.Error].
func (c *Client) CtxDo(ctx context.Context, req *model.Request) (*model.Response, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	d := c.getDialer()
	next := func(ctx context.Context, req *PreparedRequest) (*model.Response, error) {
		return c.roundTrip(ctx, d, req)
	}
	for _, mw := range c.middlewares {
		next = mw(next)
	}
	return next(ctx, pr)
}

func (c *Client) roundTrip(ctx context.Context, d Dialer, pr *PreparedRequest) (*model.Response, error) {
	host := pr.U.Host
	conn, err := d.Dial(ctx, pr)
	if err != nil {
		return nil, model.Network(host, err)
	}
	defer conn.Close()

	resp := &model.Response{}
	if raw, ok := conn.(interface{ Raw() net.Conn }); ok {
		dialer.GotConn(ctx, raw.Raw())
	}
	if s, ok := conn.(interface{ NegotiatedProtocol() string }); ok {
		resp.Proto = s.NegotiatedProtocol()
	}

	trace := httptrace.ContextClientTrace(ctx)
	err = h1.Write(conn, pr)
	if trace != nil && trace.WroteRequest != nil {
		trace.WroteRequest(httptrace.WroteRequestInfo{Err: err})
	}
	if err != nil {
		return nil, model.Network(host, err)
	}
	c.logger().Logf(obs.Debug, "client: sent GET %s to %s", pr.U.RequestTarget(), pr.HeaderHost)

	var r io.Reader = conn
	if trace != nil && trace.GotFirstResponseByte != nil {
		r = &firstByteReader{r: conn, hook: trace.GotFirstResponseByte}
	}
	if err := h1.Read(r, resp); err != nil {
		return nil, model.Network(host, err)
	}
	c.logger().Logf(obs.Debug, "client: read %d bytes from %s", len(resp.Raw), pr.HeaderHost)
	return resp, nil
}

// Get is a shortcut for CtxDo without extra headers.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.CtxDo(ctx, &model.Request{URL: url})
	if err != nil {
		return nil, err
	}
	return resp.Raw, nil
}

type firstByteReader struct {
	r    io.Reader
	hook func()
}

func (f *firstByteReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if n > 0 && f.hook != nil {
		f.hook()
		f.hook = nil
	}
	return n, err
}
