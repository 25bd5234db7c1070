// package uri contains a permissive parser for the absolute http(s) URLs
// accepted by the client.
//
// unlike [net/url.Parse], Parse never fails: malformed pieces degrade to
// defaults (an unparsable port becomes the scheme's default port, a missing
// scheme becomes http). delimiters are looked up in a fixed order, which is
// observable: the fragment is cut before the query, so a '?' inside the
// fragment never starts a query.
package uri

import (
	"net"
	"strconv"
	"strings"
)

type Scheme int

const (
	HTTP Scheme = iota
	HTTPS
)

func (s Scheme) String() string {
	if s == HTTPS {
		return "https"
	}
	return "http"
}

func (s Scheme) DefaultPort() uint16 {
	if s == HTTPS {
		return 443
	}
	return 80
}

var prefixes = [...]struct {
	prefix string
	scheme Scheme
}{
	{"http://", HTTP}, {"https://", HTTPS},
}

type URL struct {
	Scheme   Scheme
	Host     string
	Port     uint16
	Path     string
	Query    Query
	RawQuery string
	Fragment string
}

// Parse splits s into its components. it is total, see package docs.
func Parse(s string) URL {
	u := URL{Scheme: HTTP}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p.prefix) {
			s, u.Scheme = s[len(p.prefix):], p.scheme
			break
		}
	}

	var rest string
	u.Host, u.Port, rest = splitHost(s, u.Scheme.DefaultPort())

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, u.Fragment = rest[:i], rest[i+1:]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, u.RawQuery = rest[:i], rest[i+1:]
		u.Query = ParseQuery(u.RawQuery)
	}
	u.Path = rest
	return u
}

// splitHost separates host, port and the remainder starting at the first '/'.
// a ':' only counts as a port separator when it comes before the first '/'.
func splitHost(s string, def uint16) (host string, port uint16, rest string) {
	pathStart := strings.IndexByte(s, '/')
	portStart := strings.IndexByte(s, ':')

	switch {
	case pathStart >= 0 && portStart >= 0 && portStart < pathStart:
		return s[:portStart], parsePort(s[portStart+1:pathStart], def), s[pathStart:]
	case pathStart >= 0:
		return s[:pathStart], def, s[pathStart:]
	case portStart >= 0:
		return s[:portStart], parsePort(s[portStart+1:], def), ""
	default:
		return s, def, ""
	}
}

// parsePort accepts a single leading '+', "+" alone is not a number.
func parsePort(s string, def uint16) uint16 {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return def
	}
	return uint16(p)
}

// HostPort returns the address to dial, e.g. "example.com:443"
func (u URL) HostPort() string {
	return net.JoinHostPort(u.Host, strconv.FormatUint(uint64(u.Port), 10))
}

// HostHeader is the value of the Host request header. The port is only
// included when it differs from the scheme default.
func (u URL) HostHeader() string {
	if u.Port == u.Scheme.DefaultPort() {
		return u.Host
	}
	return u.HostPort()
}

// RequestTarget returns the origin-form request target: the path and the
// raw query, never the fragment.
func (u URL) RequestTarget() string {
	target := u.Path
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" || u.Query != nil {
		target += "?" + u.RawQuery
	}
	return target
}

// String renders u for diagnostics. It is not guaranteed to reproduce the
// parsed input.
func (u URL) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme.String())
	b.WriteString("://")
	b.WriteString(u.HostPort())
	b.WriteString(u.Path)
	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}
