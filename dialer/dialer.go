package dialer

import (
	"github.com/frankli0324/go-rawget/internal/dialer"
)

// Dialers are responsible for creating the underlying stream a request is
// written to and its response read from: a raw TCP connection for http, a
// TLS connection on top of one for https.
//
// A Dialer MUST NOT hold connection state. Every Dial returns a fresh stream
// that is closed after one request, so a Dialer can be swapped out of a
// [rawget.Client] at any time. It SHOULD hold the connection related
// configs, like [ResolveConfig] or a *[crypto/tls.Config].
type Dialer = dialer.Dialer

// Conn is the stream returned by a Dialer. Writes may be buffered until
// Flush.
type Conn = dialer.Conn

// CoreDialer is the default implementation of the [Dialer] interface. It
// would be used by a zero value [rawget.Client].
//
// TLS handshakes trust the system roots unless TLSConfig.RootCAs is set,
// offer [DefaultNextProtos] over ALPN and only write session secrets to a
// key log file when KeyLogFile (or SSLKEYLOGFILE with KeyLogFromEnv) is set.
type CoreDialer = dialer.CoreDialer

// Socket is the connection produced by [CoreDialer]: either plain or TLS,
// decided once at connect time.
type Socket = dialer.Socket

type Kind = dialer.Kind

const (
	Plain = dialer.Plain
	TLS   = dialer.TLS
)

// we need a dedicated resolver for two scenarios:
//
//  1. to pin hostnames to addresses (StaticHosts), like /etc/hosts
//  2. to customize the DNS server used for resolving hostname
//
// the standard library didn't provide a intuitive way of
// setting DNS server addresses since it only follows the
// system configuration (e.g. /etc/resolv.conf), leaving us only
// one option of using [net.Resolver.Dial] hook with a Go Resolver.
type ResolveConfig = dialer.ResolveConfig

type ErrUnsupportedProtocol = dialer.ErrUnsupportedProtocol

var (
	NewCoreDialer     = dialer.NewCoreDialer
	Connect           = dialer.Connect
	DefaultNextProtos = dialer.DefaultNextProtos
)

const KeyLogEnv = dialer.KeyLogEnv
