// Package rawget is a minimal HTTP/1.1 GET client working on raw sockets.
//
// A URL string is parsed permissively (see [ParseURL]), the host is
// resolved, a plain TCP or TLS connection is opened depending on the scheme
// and a bare GET request is written. Everything the server sends until it
// closes the connection is returned as is: status line, headers and body
// are not parsed.
package rawget

import (
	"context"
	"net/http"

	"github.com/frankli0324/go-rawget/internal"
	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/uri"
)

type Header = http.Header
type Client = internal.Client
type Request = model.Request
type PreparedRequest = model.PreparedRequest
type Response = model.Response

type Handler = internal.Handler
type Middleware = internal.Middleware

type URL = uri.URL
type Scheme = uri.Scheme
type Query = uri.Query
type Pair = uri.Pair

const (
	HTTP  = uri.HTTP
	HTTPS = uri.HTTPS
)

// Error is returned for every failure after the URL was parsed, its Kind
// tells whether the host had no address or the network failed.
type Error = model.Error
type ErrorKind = model.ErrorKind

const (
	KindNetwork         = model.KindNetwork
	KindAddressNotFound = model.KindAddressNotFound
)

var (
	IsAddressNotFound = model.IsAddressNotFound
	IsNetwork         = model.IsNetwork
)

// ParseURL never fails, malformed parts fall back to defaults.
func ParseURL(s string) URL {
	return uri.Parse(s)
}

var defaultClient = &Client{}

// Get issues a GET request with the default client.
func Get(ctx context.Context, url string) ([]byte, error) {
	return defaultClient.Get(ctx, url)
}
