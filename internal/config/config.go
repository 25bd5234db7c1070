// Package config loads the optional rawget configuration file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// Example:
//
//	resolve:
//	  dns_server: 1.1.1.1:53
//	  network: ip4
//	  static_hosts:
//	    example.test: 127.0.0.1
//	tls:
//	  ca_file: ./ca.pem
//	  alpn: [http/1.1]
//	  keylog_file: ./keys.log
//	headers:
//	  User-Agent: rawget
//	log_level: warn
package config

import (
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frankli0324/go-rawget/internal/dialer"
	"github.com/frankli0324/go-rawget/internal/obs"
)

type Config struct {
	Resolve  Resolve           `yaml:"resolve" json:"resolve"`
	TLS      TLS               `yaml:"tls" json:"tls"`
	Headers  map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	LogLevel string            `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

type Resolve struct {
	DNSServer   string            `yaml:"dns_server,omitempty" json:"dns_server,omitempty"`
	Network     string            `yaml:"network,omitempty" json:"network,omitempty"`
	StaticHosts map[string]string `yaml:"static_hosts,omitempty" json:"static_hosts,omitempty"`
}

type TLS struct {
	CAFile     string `yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	ServerName string `yaml:"server_name,omitempty" json:"server_name,omitempty"`
	// ALPN replaces the offer list when not nil, an empty list disables ALPN.
	ALPN       []string `yaml:"alpn,omitempty" json:"alpn,omitempty"`
	KeyLogFile string   `yaml:"keylog_file,omitempty" json:"keylog_file,omitempty"`
}

// Load reads the config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses configuration data. The format is determined by the file
// extension in path, or defaults to YAML if the path is empty or has an
// unknown extension.
func Parse(data []byte, path string) (*Config, error) {
	var config Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	switch c.Resolve.Network {
	case "", "ip", "ip4", "ip6":
	default:
		errs = append(errs, fmt.Errorf("resolve.network: must be one of ip, ip4, ip6, got %q", c.Resolve.Network))
	}
	if c.Resolve.DNSServer != "" {
		if _, _, err := net.SplitHostPort(c.Resolve.DNSServer); err != nil {
			errs = append(errs, fmt.Errorf("resolve.dns_server: %w", err))
		}
	}
	for host, target := range c.Resolve.StaticHosts {
		if host == "" || target == "" {
			errs = append(errs, fmt.Errorf("resolve.static_hosts: empty entry %q -> %q", host, target))
		}
	}
	for i, p := range c.TLS.ALPN {
		if p == "" || len(p) > 255 {
			errs = append(errs, fmt.Errorf("tls.alpn[%d]: protocol name must be 1 to 255 bytes", i))
		}
	}
	for k := range c.Headers {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, errors.New("headers: empty header name"))
		}
	}
	if c.LogLevel != "" {
		if _, err := obs.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, def when unset.
func (c *Config) Level(def obs.Level) obs.Level {
	if l, err := obs.ParseLevel(c.LogLevel); err == nil {
		return l
	}
	return def
}

// Header converts the configured headers for a request.
func (c *Config) Header() http.Header {
	h := http.Header{}
	for k, v := range c.Headers {
		h.Add(k, v)
	}
	return h
}

// Apply writes the config onto d. The CA file, when set, is added to the
// system roots.
func (c *Config) Apply(d *dialer.CoreDialer) error {
	if d.ResolveConfig == nil {
		d.ResolveConfig = &dialer.ResolveConfig{}
	}
	if c.Resolve.DNSServer != "" {
		d.ResolveConfig.CustomDNSServer = c.Resolve.DNSServer
	}
	if c.Resolve.Network != "" {
		d.ResolveConfig.Network = c.Resolve.Network
	}
	if len(c.Resolve.StaticHosts) > 0 && d.ResolveConfig.StaticHosts == nil {
		d.ResolveConfig.StaticHosts = map[string]string{}
	}
	for k, v := range c.Resolve.StaticHosts {
		d.ResolveConfig.StaticHosts[k] = v
	}

	if d.TLSConfig == nil {
		d.TLSConfig = dialer.NewCoreDialer().TLSConfig
	}
	if c.TLS.CAFile != "" {
		pool, err := loadCAFile(c.TLS.CAFile)
		if err != nil {
			return err
		}
		d.TLSConfig.RootCAs = pool
	}
	if c.TLS.ServerName != "" {
		d.TLSConfig.ServerName = c.TLS.ServerName
	}
	if c.TLS.ALPN != nil {
		d.TLSConfig.NextProtos = append([]string{}, c.TLS.ALPN...)
	}
	if c.TLS.KeyLogFile != "" {
		d.KeyLogFile = c.TLS.KeyLogFile
	}
	return nil
}

func loadCAFile(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}
