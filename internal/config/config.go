package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Vendor      *VendorConfig
	Transcriber *TranscriberConfig
	Service     *SvcConfig
}

// VendorConfig covers the media-platform task queue side. The partner secret
// is deliberately environment-only so it never ends up in unit files or shell
// history.
type VendorConfig struct {
	ServiceURL    string `envconfig:"REACH_VENDOR_URL" default:"https://api.kaltura.nordu.net"`
	PartnerID     int    `envconfig:"REACH_PARTNER_ID" default:"0"`
	AppTokenID    string `envconfig:"REACH_VENDOR_TOKEN_ID" default:""`
	PartnerSecret string `envconfig:"KALTURAPARTNERSECRET" default:""`
}

type TranscriberConfig struct {
	BaseURL string `envconfig:"REACH_TRANSCRIBER_URL" default:"https://localhost:8443"`
	Token   string `envconfig:"TRANSCRIBERTOKENSECRET" default:""`
	// Mutual TLS material. CABundle pins the service CA; ClientCert/ClientKey
	// identify this adapter. Empty paths fall back to plain TLS.
	CABundle   string `envconfig:"REACH_TRANSCRIBER_CA_BUNDLE" default:""`
	ClientCert string `envconfig:"REACH_TRANSCRIBER_CLIENT_CERT" default:""`
	ClientKey  string `envconfig:"REACH_TRANSCRIBER_CLIENT_KEY" default:""`
}

type SvcConfig struct {
	WorkerID        string `envconfig:"REACH_WORKER_ID" default:""`
	PollInterval    int    `envconfig:"REACH_POLL_INTERVAL" default:"30"`
	ModelConfigFile string `envconfig:"REACH_MODEL_CONFIG" default:"config.json"`
	StatusAddress   string `envconfig:"REACH_STATUS_ADDRESS" default:"localhost:8042"`
	LogLevel        string `envconfig:"REACH_LOG_LEVEL" default:"info"`
	SentryDSN       string `envconfig:"SENTRY_DSN" default:""`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Vendor.PartnerSecret == "" {
		return fmt.Errorf("KALTURAPARTNERSECRET must be set; keep this value secret, avoid bash_history and similar")
	}
	if c.Transcriber.Token == "" {
		return fmt.Errorf("TRANSCRIBERTOKENSECRET must be set; keep this value secret, avoid bash_history and similar")
	}
	if c.Vendor.PartnerID == 0 {
		return fmt.Errorf("REACH_PARTNER_ID is required")
	}
	if c.Vendor.AppTokenID == "" {
		return fmt.Errorf("REACH_VENDOR_TOKEN_ID is required")
	}
	if c.Service.WorkerID == "" {
		return fmt.Errorf("REACH_WORKER_ID is required")
	}
	if c.Service.PollInterval <= 0 {
		return fmt.Errorf("REACH_POLL_INTERVAL must be positive")
	}
	return nil
}
