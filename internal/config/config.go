// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"timeclock-control-plane/internal/duration"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	// Org channels resolve to Kafka topics; an empty list disables channel delivery.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// ChannelTopicPrefix is prepended to resolved channel topic names (default timeclock).
	ChannelTopicPrefix string `mapstructure:"CHANNEL_TOPIC_PREFIX"`

	// SessionSweep is the interval between session reconciliation passes (e.g. "60s").
	SessionSweep string `mapstructure:"SESSION_SWEEP_INTERVAL"`
	// LicenseSweep is the interval between license expiry passes (e.g. "5m").
	LicenseSweep string `mapstructure:"LICENSE_SWEEP_INTERVAL"`

	// PaymentReplyTimeout is how long a payment confirmation waits for a reply (e.g. "5s").
	PaymentReplyTimeout string `mapstructure:"PAYMENT_REPLY_TIMEOUT"`
	// PaymentGrant is the license duration granted on an approved payment, in
	// compact form (e.g. "30d").
	PaymentGrant string `mapstructure:"PAYMENT_GRANT"`
	// PaymentBeneficiaryID is the account credited by approved payments.
	PaymentBeneficiaryID string `mapstructure:"PAYMENT_BENEFICIARY_ID"`
	// PaymentPrice is the activation price quoted in outbound requests.
	PaymentPrice string `mapstructure:"PAYMENT_PRICE"`

	// OTLPEndpoint is the OTLP/gRPC collector address; empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("CHANNEL_TOPIC_PREFIX", "timeclock")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "60s")
	v.SetDefault("LICENSE_SWEEP_INTERVAL", "5m")
	v.SetDefault("PAYMENT_REPLY_TIMEOUT", "5s")
	v.SetDefault("PAYMENT_GRANT", "30d")
	v.SetDefault("PAYMENT_BENEFICIARY_ID", "")
	v.SetDefault("PAYMENT_PRICE", "10.0")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}
	if cfg.GrantMs() <= 0 {
		return nil, errors.New("config: PAYMENT_GRANT must be a positive duration (e.g. 30d)")
	}

	return &cfg, nil
}

// SessionSweepInterval parses SessionSweep as a time.Duration. Returns 60s if unset or invalid.
func (c *Config) SessionSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SessionSweep)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// LicenseSweepInterval parses LicenseSweep as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) LicenseSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.LicenseSweep)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// ReplyTimeout parses PaymentReplyTimeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) ReplyTimeout() time.Duration {
	d, err := time.ParseDuration(c.PaymentReplyTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GrantMs returns the payment grant in milliseconds, parsed from the compact
// duration form (e.g. "30d" or "1d12h").
func (c *Config) GrantMs() int64 {
	return duration.Parse(c.PaymentGrant)
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if channel delivery is enabled (non-empty list) and to create writers.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
