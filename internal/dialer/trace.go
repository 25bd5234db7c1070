package dialer

import (
	"context"
	"crypto/tls"
	"net"
	"net/http/httptrace"
)

// tracer fires the hooks the net package doesn't fire itself. DNS lookups
// through [net.Resolver] and dials through [net.Dialer] already report
// DNSStart/DNSDone and ConnectStart/ConnectDone from the context.
type tracer struct {
	t *httptrace.ClientTrace
}

func traceOf(ctx context.Context) tracer {
	return tracer{httptrace.ContextClientTrace(ctx)}
}

func (t tracer) dnsStart(host string) {
	if t.t != nil && t.t.DNSStart != nil {
		t.t.DNSStart(httptrace.DNSStartInfo{Host: host})
	}
}

func (t tracer) dnsDone(ips []net.IP, err error) {
	if t.t != nil && t.t.DNSDone != nil {
		addrs := make([]net.IPAddr, len(ips))
		for i, ip := range ips {
			addrs[i] = net.IPAddr{IP: ip}
		}
		t.t.DNSDone(httptrace.DNSDoneInfo{Addrs: addrs, Err: err})
	}
}

func (t tracer) tlsHandshakeStart() {
	if t.t != nil && t.t.TLSHandshakeStart != nil {
		t.t.TLSHandshakeStart()
	}
}

func (t tracer) tlsHandshakeDone(st tls.ConnectionState, err error) {
	if t.t != nil && t.t.TLSHandshakeDone != nil {
		t.t.TLSHandshakeDone(st, err)
	}
}

// GotConn reports a freshly dialed connection. Connections are never
// reused, so Reused is always false.
func GotConn(ctx context.Context, c net.Conn) {
	if t := httptrace.ContextClientTrace(ctx); t != nil && t.GotConn != nil {
		t.GotConn(httptrace.GotConnInfo{Conn: c})
	}
}
