package dialer

import (
	"context"
	"errors"
	"net"

	"golang.org/x/net/idna"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
)

type ResolveConfig struct {
	CustomDNSServer string
	Network         string            // one of "ip4", "ip6", default is "ip"
	StaticHosts     map[string]string // resembles /etc/hosts
}

func (c *ResolveConfig) Clone() *ResolveConfig {
	if c == nil {
		return nil
	}
	hosts := make(map[string]string, len(c.StaticHosts))
	for k, v := range c.StaticHosts {
		hosts[k] = v
	}
	return &ResolveConfig{
		CustomDNSServer: c.CustomDNSServer,
		Network:         c.Network,
		StaticHosts:     hosts,
	}
}

func (c *ResolveConfig) network() string {
	if c == nil || c.Network == "" {
		return "ip"
	}
	return c.Network
}

// tcpNetwork maps the resolver network onto the matching dial network.
func (c *ResolveConfig) tcpNetwork() string {
	switch c.network() {
	case "ip4":
		return "tcp4"
	case "ip6":
		return "tcp6"
	}
	return "tcp"
}

func (c *ResolveConfig) dnsServer() string {
	if c == nil {
		return ""
	}
	return c.CustomDNSServer
}

func (c *ResolveConfig) static(host string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.StaticHosts[host]
	return v, ok
}

// this type should not be used outside this file.
// prevents non-custom DNS server contexts to iterate through all keys
type dnsServerCtx struct {
	context.Context
	server string
}

var dnsServerCtxKey = &dnsServerCtx{nil, "dns-server"} // non-nil pointer to any object, definitely unique

func (c dnsServerCtx) Value(key interface{}) interface{} {
	if key == dnsServerCtxKey {
		return c.server
	}
	return c.Context.Value(key)
}

var zeroDialer net.Dialer

var customServerResolver = net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
		if v, ok := ctx.Value(dnsServerCtxKey).(string); ok && v != "" {
			return zeroDialer.DialContext(ctx, network, v)
		}
		return zeroDialer.DialContext(ctx, network, address)
	},
}

// LookupIPServer performs DNS lookup for a host on a custom dns server,
// it calls [net.Resolver.LookupIP] with a Go Resolver behind the scenes.
// an empty dns uses the system configuration.
func LookupIPServer(ctx context.Context, network, host, dns string) ([]net.IP, error) {
	if dns == "" {
		return net.DefaultResolver.LookupIP(ctx, network, host)
	}
	return customServerResolver.LookupIP(dnsServerCtx{ctx, dns}, network, host)
}

// asciiHost converts internationalized names for DNS and SNI. Names idna
// rejects are passed through untouched, the resolver will report them.
func asciiHost(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	if a, err := idna.Lookup.ToASCII(host); err == nil {
		return a
	}
	return host
}

// resolve returns the candidate addresses for host in the order they should
// be tried.
func (d *CoreDialer) resolve(ctx context.Context, host string) ([]net.IP, error) {
	if host == "" {
		return nil, model.AddressNotFound(host, nil)
	}
	target := host
	if static, ok := d.ResolveConfig.static(host); ok {
		target = static
	}
	if ip := net.ParseIP(target); ip != nil {
		return []net.IP{ip}, nil
	}

	var (
		ips []net.IP
		err error
	)
	network := d.ResolveConfig.network()
	if d.LookupIP != nil {
		// the std resolver fires httptrace DNS hooks by itself, custom ones don't
		t := traceOf(ctx)
		t.dnsStart(target)
		ips, err = d.LookupIP(ctx, network, target)
		t.dnsDone(ips, err)
	} else {
		ips, err = LookupIPServer(ctx, network, target, d.ResolveConfig.dnsServer())
	}
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, model.AddressNotFound(host, err)
		}
		return nil, model.Network(host, err)
	}
	if len(ips) == 0 {
		return nil, model.AddressNotFound(host, nil)
	}
	d.logf(obs.Debug, "%s resolved to %v", host, ips)
	return ips, nil
}
