package model

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"

	"github.com/frankli0324/go-rawget/internal/uri"
)

type HeaderField struct {
	Name, Value string
}

type PreparedRequest struct {
	*Request

	U          uri.URL
	Header     []HeaderField // in write order, validated
	HeaderHost string
}

// headers written by the driver itself, user supplied values are ignored
var driverOwned = map[string]bool{
	"connection":        true,
	"content-length":    true,
	"transfer-encoding": true,
}

func (r *Request) Prepare() (*PreparedRequest, error) {
	u := uri.Parse(r.URL)
	target := u.RequestTarget()
	if !validRequestTarget(target) {
		return nil, fmt.Errorf("invalid request target %q", target)
	}
	host, userHost := hostHeader(u), false

	names := make([]string, 0, len(r.Header))
	for k := range r.Header {
		names = append(names, k)
	}
	sort.Strings(names) // map order is random, keep the wire output stable

	var fields []HeaderField
	// user defined headers has higher priority
	for _, k := range names {
		v := r.Header[k]
		lk := strings.ToLower(k)
		if lk == "host" {
			if len(v) != 0 {
				if !httpguts.ValidHostHeader(v[0]) {
					return nil, fmt.Errorf("invalid host header %q", v[0])
				}
				host, userHost = v[0], true
			}
			continue
		}
		if driverOwned[lk] {
			continue
		}
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("invalid header field name %q", k)
		}
		for _, vv := range v {
			if !httpguts.ValidHeaderFieldValue(vv) {
				return nil, fmt.Errorf("invalid header field value for %q", k)
			}
			fields = append(fields, HeaderField{k, vv})
		}
	}
	if !userHost && !httpguts.ValidHostHeader(host) {
		return nil, fmt.Errorf("invalid host %q", host)
	}
	return &PreparedRequest{
		Request: r, U: u,
		Header: fields, HeaderHost: host,
	}, nil
}

// Clone is used by middlewares that rewrite the request before it is sent.
func (r *PreparedRequest) Clone() *PreparedRequest {
	c := *r
	c.Header = append([]HeaderField(nil), r.Header...)
	return &c
}

// Fields converts the validated headers back into an [http.Header], mainly
// for display.
func (r *PreparedRequest) Fields() http.Header {
	h := http.Header{}
	for _, f := range r.Header {
		h[f.Name] = append(h[f.Name], f.Value)
	}
	return h
}

// hostHeader is the Host value derived from the URL, internationalized
// names in their ASCII form.
func hostHeader(u uri.URL) string {
	for i := 0; i < len(u.Host); i++ {
		if u.Host[i] >= utf8.RuneSelf {
			if a, err := idna.Lookup.ToASCII(u.Host); err == nil {
				u.Host = a
			}
			break
		}
	}
	return u.HostHeader()
}

// validRequestTarget rejects whitespace and control bytes, they would end
// the request line early.
func validRequestTarget(target string) bool {
	for i := 0; i < len(target); i++ {
		if b := target[i]; b <= ' ' || b == 0x7f {
			return false
		}
	}
	return true
}
