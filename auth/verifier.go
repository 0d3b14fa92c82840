package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/filekeep"
)

// Verifier types.
const (
	TypeJWKS = "jwks"
	TypeHMAC = "hmac"
)

// Config selects and configures a token verifier.
type Config struct {
	Type   string       `mapstructure:"type" validate:"required,oneof=jwks hmac"`
	JWKS   JWKSConfig   `mapstructure:"jwks"`
	HMAC   HMACConfig   `mapstructure:"hmac"`
	Admins AdminsConfig `mapstructure:"admins"`
}

// NewVerifier builds the verifier named by cfg.Type.
func NewVerifier(ctx context.Context, cfg Config, logger *slog.Logger) (filekeep.TokenVerifier, error) {
	switch cfg.Type {
	case TypeJWKS:
		return NewJWKSVerifier(ctx, cfg.JWKS, logger)
	case TypeHMAC:
		return NewHMACVerifier(cfg.HMAC)
	default:
		return nil, fmt.Errorf("%w: unsupported auth type: %s", filekeep.ErrInvalidInput, cfg.Type)
	}
}
