package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sagarc03/filekeep"
)

// HMACConfig holds settings for shared-secret tokens.
type HMACConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Leeway time.Duration `mapstructure:"leeway"`
}

// HMACVerifier validates and issues HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	issuer string
	opts   []jwt.ParserOption
	now    func() time.Time
}

// NewHMACVerifier creates a verifier for tokens signed with cfg.Secret.
func NewHMACVerifier(cfg HMACConfig) (*HMACVerifier, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("hmac verifier: %w: secret is required", filekeep.ErrInvalidInput)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &HMACVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		opts:   opts,
		now:    time.Now,
	}, nil
}

// Verify implements filekeep.TokenVerifier.
func (v *HMACVerifier) Verify(_ context.Context, token string) (filekeep.Principal, error) {
	if token == "" {
		return filekeep.Principal{}, fmt.Errorf("%w: empty token", filekeep.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return filekeep.Principal{}, fmt.Errorf("%w: %w", filekeep.ErrUnauthorized, err)
	}

	return claims.Principal()
}

// Issue signs a token for p that expires after ttl.
func (v *HMACVerifier) Issue(p filekeep.Principal, ttl time.Duration) (string, error) {
	if p.ID == "" {
		return "", fmt.Errorf("issue token: %w: principal id is required", filekeep.ErrInvalidInput)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: %w: ttl must be positive", filekeep.ErrInvalidInput)
	}

	now := v.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: p.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return signed, nil
}
