package cli

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/frankli0324/go-rawget/internal"
	"github.com/frankli0324/go-rawget/internal/config"
	"github.com/frankli0324/go-rawget/internal/dialer"
	"github.com/frankli0324/go-rawget/internal/obs"
)

// addConnFlags registers the flags shared by every command that sends
// requests.
func addConnFlags(fs *pflag.FlagSet) {
	fs.StringArrayP("header", "H", []string{}, "Extra request header \"Name: value\" (can be used multiple times)")
	fs.String("cacert", "", "PEM file with extra trusted CA certificates")
	fs.String("keylog", "", "Write TLS session secrets to this file (NSS key log format)")
	fs.StringArray("alpn", []string{}, "ALPN protocol to offer (can be used multiple times, default http/1.1)")
	fs.String("dns-server", "", "Resolve names with this DNS server (host:port)")
	fs.BoolP("ipv4", "4", false, "Only connect to IPv4 addresses")
	fs.BoolP("ipv6", "6", false, "Only connect to IPv6 addresses")
	fs.StringArray("resolve", []string{}, "Pin a host to an address \"host:ip\" (can be used multiple times)")
}

// session is what a request command needs, built from the config file with
// flags layered on top.
type session struct {
	client  *internal.Client
	header  http.Header
	verbose bool
	palette palette
	logger  obs.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	cfg := &config.Config{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := overlayFlags(cfg, flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	header := cfg.Header()
	extra, _ := flags.GetStringArray("header")
	parsed, err := parseHeaders(extra)
	if err != nil {
		return nil, err
	}
	for k, vs := range parsed {
		header[k] = vs
	}

	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	level := cfg.Level(obs.Warn)
	if verbose {
		level = obs.Debug
	}
	s := &session{
		client:  &internal.Client{},
		header:  header,
		verbose: verbose,
		palette: newPalette(cmd.ErrOrStderr(), noColor),
		logger:  newLogger(cmd.ErrOrStderr(), level),
	}

	var applyErr error
	s.client.UseCoreDialer(func(d *dialer.CoreDialer) dialer.Dialer {
		applyErr = cfg.Apply(d)
		return d
	})
	if applyErr != nil {
		return nil, applyErr
	}
	s.client.SetLogger(s.logger)
	return s, nil
}

func newLogger(w io.Writer, min obs.Level) obs.Logger {
	return obs.StdLogger{
		L:   log.New(w, "", log.Ltime|log.Lmicroseconds),
		Min: min,
	}
}

// overlayFlags writes the flags the user actually set onto cfg.
func overlayFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	if flags.Changed("dns-server") {
		cfg.Resolve.DNSServer, _ = flags.GetString("dns-server")
	}
	v4, _ := flags.GetBool("ipv4")
	v6, _ := flags.GetBool("ipv6")
	switch {
	case v4 && v6:
		return fmt.Errorf("--ipv4 and --ipv6 are mutually exclusive")
	case v4:
		cfg.Resolve.Network = "ip4"
	case v6:
		cfg.Resolve.Network = "ip6"
	}

	pins, _ := flags.GetStringArray("resolve")
	for _, pin := range pins {
		host, ip, ok := strings.Cut(pin, ":")
		if !ok || host == "" || ip == "" {
			return fmt.Errorf("invalid --resolve %q, expected host:ip", pin)
		}
		if cfg.Resolve.StaticHosts == nil {
			cfg.Resolve.StaticHosts = map[string]string{}
		}
		cfg.Resolve.StaticHosts[host] = ip
	}

	if flags.Changed("cacert") {
		cfg.TLS.CAFile, _ = flags.GetString("cacert")
	}
	if flags.Changed("keylog") {
		cfg.TLS.KeyLogFile, _ = flags.GetString("keylog")
	}
	if flags.Changed("alpn") {
		cfg.TLS.ALPN, _ = flags.GetStringArray("alpn")
	}
	return nil
}

func parseHeaders(lines []string) (http.Header, error) {
	h := http.Header{}
	for _, line := range lines {
		k, v, ok := strings.Cut(line, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", line)
		}
		h.Add(k, strings.TrimSpace(v))
	}
	return h, nil
}
