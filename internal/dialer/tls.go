package dialer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/obs"
)

// KeyLogEnv names the environment variable read when KeyLogFromEnv is set.
const KeyLogEnv = "SSLKEYLOGFILE"

// ErrUnsupportedProtocol is returned when the server picks an ALPN protocol
// other than http/1.1.
type ErrUnsupportedProtocol string

func (e ErrUnsupportedProtocol) Error() string {
	return fmt.Sprintf("server negotiated unsupported protocol %q", string(e))
}

func (d *CoreDialer) keyLogPath() string {
	if d.KeyLogFile != "" {
		return d.KeyLogFile
	}
	if d.KeyLogFromEnv {
		return os.Getenv(KeyLogEnv)
	}
	return ""
}

// tlsConfig returns the config for one handshake. The returned closer is
// the key log file, if any, and belongs to the socket.
func (d *CoreDialer) tlsConfig(serverName string) (*tls.Config, io.Closer, error) {
	config := d.TLSConfig.Clone()
	if config == nil {
		config = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if config.ServerName == "" {
		config.ServerName = serverName
	}
	if config.NextProtos == nil {
		config.NextProtos = append([]string(nil), DefaultNextProtos...)
	}
	if config.KeyLogWriter != nil {
		return config, nil, nil
	}
	path := d.keyLogPath()
	if path == "" {
		return config, nil, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open key log: %w", err)
	}
	d.logf(obs.Warn, "writing TLS secrets to %s", path)
	config.KeyLogWriter = f
	return config, f, nil
}

func (d *CoreDialer) handshake(ctx context.Context, conn net.Conn, host string) (*Socket, error) {
	config, keylog, err := d.tlsConfig(host)
	if err != nil {
		conn.Close()
		return nil, model.Network(host, err)
	}
	closeKeyLog := func() {
		if keylog != nil {
			keylog.Close()
		}
	}

	c := tls.Client(conn, config)
	t := traceOf(ctx)
	t.tlsHandshakeStart()
	err = c.HandshakeContext(ctx)
	t.tlsHandshakeDone(c.ConnectionState(), err)
	if err != nil {
		c.Close()
		closeKeyLog()
		return nil, model.Network(host, err)
	}

	if proto := c.ConnectionState().NegotiatedProtocol; proto != "" && proto != "http/1.1" {
		c.Close()
		closeKeyLog()
		return nil, model.Network(host, ErrUnsupportedProtocol(proto))
	}
	d.logf(obs.Debug, "tls handshake with %s done, alpn=%q", host, c.ConnectionState().NegotiatedProtocol)
	return newSocket(tlsStream{c, keylog}), nil
}
