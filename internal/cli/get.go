package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http/httptrace"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankli0324/go-rawget/internal/model"
	"github.com/frankli0324/go-rawget/internal/uri"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request and print the raw response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stderr := cmd.ErrOrStderr()
			if s.verbose {
				printURL(stderr, s.palette, uri.Parse(args[0]))
				ctx = httptrace.WithClientTrace(ctx, newTrace(stderr, s.palette))
			}

			resp, err := s.client.CtxDo(ctx, &model.Request{URL: args[0], Header: s.header})
			if err != nil {
				return err
			}
			if s.verbose {
				proto := resp.Proto
				if proto == "" {
					proto = "none"
				}
				fmt.Fprintf(stderr, "%s received %d bytes (alpn: %s)\n", s.palette.ok.Sprint("*"), len(resp.Raw), proto)
			}
			_, err = cmd.OutOrStdout().Write(resp.Raw)
			return err
		},
	}
	addConnFlags(cmd.Flags())
	return cmd
}

// newTrace prints one line per connection event, with the time elapsed
// since the trace was created.
func newTrace(w io.Writer, p palette) *httptrace.ClientTrace {
	start := time.Now()
	event := func(format string, args ...interface{}) {
		since := time.Since(start).Round(time.Microsecond)
		fmt.Fprintf(w, "%s %s %s\n", p.event.Sprint("*"), p.key.Sprintf("%10s", since), fmt.Sprintf(format, args...))
	}
	return &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			event("resolving %s", info.Host)
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			if info.Err != nil {
				event("resolve failed: %v", info.Err)
				return
			}
			event("resolved %v", info.Addrs)
		},
		ConnectStart: func(network, addr string) {
			event("connecting to %s (%s)", addr, network)
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				event("connect to %s failed: %v", addr, err)
				return
			}
			event("connected to %s", addr)
		},
		TLSHandshakeStart: func() {
			event("TLS handshake")
		},
		TLSHandshakeDone: func(st tls.ConnectionState, err error) {
			if err != nil {
				event("TLS handshake failed: %v", err)
				return
			}
			event("TLS %s, %s, alpn %q", tls.VersionName(st.Version), tls.CipherSuiteName(st.CipherSuite), st.NegotiatedProtocol)
		},
		GotConn: func(info httptrace.GotConnInfo) {
			event("using connection %s -> %s", info.Conn.LocalAddr(), info.Conn.RemoteAddr())
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err != nil {
				event("writing request failed: %v", info.Err)
				return
			}
			event("request sent")
		},
		GotFirstResponseByte: func() {
			event("first response byte")
		},
	}
}
