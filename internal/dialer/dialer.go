package dialer

import (
	"context"
	"crypto/tls"
	"io"
	"net"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
)

// Conn is what the request driver needs from a dialed stream.
type Conn interface {
	io.ReadWriteCloser
	Flush() error
}

// Dialers handle everything related to the actual connection: resolving,
// connecting and the TLS handshake.
type Dialer interface {
	// Dial returns a fresh stream for writing one request and reading its
	// response. Streams are never shared between requests.
	Dial(ctx context.Context, r *model.PreparedRequest) (Conn, error)
	Unwrap() Dialer
}

// DefaultNextProtos is the ALPN offer list. HTTP/2 is not offered since the
// request driver only speaks HTTP/1.1.
var DefaultNextProtos = []string{"http/1.1"}

type CoreDialer struct {
	ResolveConfig *ResolveConfig

	// TLSConfig is cloned for every handshake. nil RootCAs means the
	// system trust store, nil NextProtos means [DefaultNextProtos].
	TLSConfig *tls.Config

	// KeyLogFile enables exporting TLS secrets in NSS key log format.
	// With KeyLogFromEnv, SSLKEYLOGFILE is used when KeyLogFile is empty.
	KeyLogFile    string
	KeyLogFromEnv bool

	// LookupIP replaces the Go resolver when set.
	LookupIP func(ctx context.Context, network, host string) ([]net.IP, error)

	Logger obs.Logger
}

func NewCoreDialer() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: &ResolveConfig{},
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: append([]string(nil), DefaultNextProtos...),
		},
		KeyLogFromEnv: true,
	}
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		TLSConfig:     d.TLSConfig.Clone(),
		KeyLogFile:    d.KeyLogFile,
		KeyLogFromEnv: d.KeyLogFromEnv,
		LookupIP:      d.LookupIP,
		Logger:        d.Logger,
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}

func (d *CoreDialer) Dial(ctx context.Context, r *model.PreparedRequest) (Conn, error) {
	return d.Connect(ctx, r.U)
}

func (d *CoreDialer) logf(level obs.Level, format string, args ...interface{}) {
	obs.OrNop(d.Logger).Logf(level, "dialer: "+format, args...)
}
