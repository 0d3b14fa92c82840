package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sagarc03/filekeep"
)

// JWKSConfig holds settings for verifying tokens against a JWKS endpoint.
type JWKSConfig struct {
	URL             string        `mapstructure:"url"`
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ClientTimeout   time.Duration `mapstructure:"client_timeout"`
	Leeway          time.Duration `mapstructure:"leeway"`
}

// JWKSVerifier validates RS256 tokens using keys published by an identity provider.
type JWKSVerifier struct {
	keys   keyfunc.Keyfunc
	opts   []jwt.ParserOption
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches signing keys from cfg.URL
// and refreshes them in the background until ctx is cancelled.
//
// The first fetch may fail without error so the server can start before the
// identity provider is reachable; tokens are rejected until keys arrive.
func NewJWKSVerifier(ctx context.Context, cfg JWKSConfig, logger *slog.Logger) (*JWKSVerifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("jwks verifier: %w: url is required", filekeep.ErrInvalidInput)
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.URL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: cfg.ClientTimeout},
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.RefreshInterval,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			logger.ErrorContext(ctx, "jwks refresh failed", "url", cfg.URL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jwks verifier: create storage: %w", err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("jwks verifier: create keyfunc: %w", err)
	}

	return NewJWKSVerifierWithKeyfunc(kf, cfg, logger), nil
}

// NewJWKSVerifierWithKeyfunc creates a verifier around an existing key source.
// Only the Issuer, Audience and Leeway fields of cfg are used.
func NewJWKSVerifierWithKeyfunc(kf keyfunc.Keyfunc, cfg JWKSConfig, logger *slog.Logger) *JWKSVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWKSVerifier{
		keys:   kf,
		opts:   opts,
		logger: logger.With("component", "jwks_verifier"),
	}
}

// Verify implements filekeep.TokenVerifier.
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (filekeep.Principal, error) {
	if token == "" {
		return filekeep.Principal{}, fmt.Errorf("%w: empty token", filekeep.ErrUnauthorized)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, v.keys.KeyfuncCtx(ctx), v.opts...); err != nil {
		v.logger.DebugContext(ctx, "token rejected", "error", err)
		return filekeep.Principal{}, fmt.Errorf("%w: %w", filekeep.ErrUnauthorized, err)
	}

	return claims.Principal()
}
