package dialer

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
	"github.com/frankli0324/go-rawget/internal/uri"
)

var defaultDialer = NewCoreDialer()

// Connect dials u with a default [CoreDialer].
func Connect(ctx context.Context, u uri.URL) (*Socket, error) {
	return defaultDialer.Connect(ctx, u)
}

// Connect resolves u.Host and opens a plain or TLS socket depending on the
// scheme. Errors are *[model.Error].
func (d *CoreDialer) Connect(ctx context.Context, u uri.URL) (*Socket, error) {
	host := asciiHost(u.Host)
	ips, err := d.resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	conn, err := d.dialCandidates(ctx, host, ips, u.Port)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case uri.HTTP:
		return newSocket(plainStream{conn}), nil
	case uri.HTTPS:
		return d.handshake(ctx, conn, host)
	}
	panic("dialer: unknown scheme " + u.Scheme.String())
}

// dialCandidates tries every address in order and returns the first
// connection that succeeds.
func (d *CoreDialer) dialCandidates(ctx context.Context, host string, ips []net.IP, port uint16) (net.Conn, error) {
	network := d.ResolveConfig.tcpNetwork()
	p := strconv.FormatUint(uint64(port), 10)

	errs := make([]error, 0, len(ips))
	for _, ip := range ips {
		addr := net.JoinHostPort(ip.String(), p)
		conn, err := zeroDialer.DialContext(ctx, network, addr)
		if err == nil {
			d.logf(obs.Debug, "connected to %s (%s)", addr, host)
			return conn, nil
		}
		d.logf(obs.Debug, "dial %s: %v", addr, err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, model.Network(host, errors.Join(errs...))
}
