package transcriber

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/nordunet/transcriber-adapter/internal/config"
	"github.com/nordunet/transcriber-adapter/pkg/reporter"
)

// ErrRemoteUnavailable covers transport and auth failures talking to the
// transcription service. Callers skip the affected task for the cycle.
var ErrRemoteUnavailable = errors.New("transcriber service unavailable")

const (
	apiPrefix      = "/api/v1"
	clientDN       = "Kaltura-adaptor"
	submitUserID   = "kaltura-adaptor"
	requestTimeout = 60 * time.Second
)

// Client talks to the transcription service over mutual TLS. The CA bundle
// pins the service certificate; the client keypair identifies this adapter.
// Certificates are configuration: with no paths set the client falls back to
// plain TLS, which the production service rejects.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	rep     *reporter.Reporter
}

func NewClient(cfg *config.TranscriberConfig, rep *reporter.Reporter) (*Client, error) {
	tlsConfig, err := newTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: cfg.BaseURL + apiPrefix,
		token:   cfg.Token,
		rep:     rep,
		hc: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSClientConfig:       tlsConfig,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}, nil
}

func newTLSConfig(cfg *config.TranscriberConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CABundle != "" {
		pem, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", cfg.CABundle)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCert != "" || cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("loading client keypair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-dn", clientDN)
	req.Header.Set("Authorization", "Bearer "+c.token)
}
