package clientcli

import (
	"fmt"
	"os"
	"time"
)

// DefaultEndpoint is the server used when no endpoint is configured.
const DefaultEndpoint = "http://localhost:5708"

// Environment variables read by the CLI.
const (
	EnvEndpoint = "FILEKEEP_ENDPOINT"
	EnvToken    = "FILEKEEP_TOKEN"
	EnvProfile  = "FILEKEEP_PROFILE"
	EnvConfig   = "FILEKEEP_CONFIG"
)

// Config is the endpoint and bearer token a Client talks with.
type Config struct {
	Endpoint string
	Token    string
}

// WithDefaults returns a copy with DefaultEndpoint filled in.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ValidateWithAuth fails when the token is missing, or when it is a JWT whose
// exp claim has already passed. Opaque tokens are left to the server.
func (c *Config) ValidateWithAuth() error {
	if c.Token == "" {
		return ErrTokenRequired
	}

	if info, err := InspectToken(c.Token); err == nil && info.Expired(time.Now()) {
		return fmt.Errorf("%w: expired at %s", ErrTokenExpired, info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// Override returns c with every non-empty field of o applied on top.
func (c Config) Override(o Config) Config {
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	return c
}

// EnvConfig reads FILEKEEP_ENDPOINT and FILEKEEP_TOKEN.
func EnvConfig() Config {
	return Config{
		Endpoint: os.Getenv(EnvEndpoint),
		Token:    os.Getenv(EnvToken),
	}
}
