// Package tlsconfig builds the TLS settings used to fetch remote passwords
// and to serve the HTTP endpoints.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Config holds client-side TLS options.
type Config struct {
	// Insecure allows plain http:// URLs and disables certificate
	// verification. NOT RECOMMENDED FOR PRODUCTION USE.
	Insecure bool

	// CACertFile is a PEM file of trusted CA certificates. Empty means
	// the system pool.
	CACertFile string
}

// DefaultTimeout bounds a single password fetch.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns a client honoring cfg with DefaultTimeout.
func NewHTTPClient(cfg Config) (*http.Client, error) {
	tlsCfg, err := cfg.clientTLS()
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
		Timeout:   DefaultTimeout,
	}, nil
}

func (c Config) clientTLS() (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.Insecure {
		tlsCfg.InsecureSkipVerify = true
	}

	if c.CACertFile != "" {
		pool, err := loadPool(c.CACertFile)
		if err != nil {
			return nil, err
		}
		tlsCfg.RootCAs = pool
	}

	return tlsCfg, nil
}

// ValidateURL rejects anything but https:// URLs, allowing http:// only when
// Insecure is set.
func (c Config) ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if c.Insecure {
			return nil
		}
		return fmt.Errorf("URL %q uses insecure http:// protocol; use https:// or pass --insecure to allow it", raw)
	default:
		return fmt.Errorf("URL %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// ServerConfig holds server certificate paths. Both empty means plain HTTP.
type ServerConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether a certificate was configured.
func (s ServerConfig) Enabled() bool {
	return s.CertFile != "" || s.KeyFile != ""
}

// Load reads the key pair. It returns nil when TLS is not enabled.
func (s ServerConfig) Load() (*tls.Config, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if s.CertFile == "" || s.KeyFile == "" {
		return nil, fmt.Errorf("both tls cert and key are required")
	}

	cert, err := tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}, nil
}

func loadPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate file %q: %w", path, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA certificate file %q: no valid certificates found", path)
	}
	return pool, nil
}
