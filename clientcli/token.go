package clientcli

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the unverified payload of a JWT bearer token.
type TokenInfo struct {
	Subject   string
	Email     string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an exp claim at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// InspectToken decodes the claims of a JWT without checking its signature.
// Tokens that are not JWTs return ErrOpaqueToken.
func InspectToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %w", ErrOpaqueToken, err)
	}

	var info TokenInfo
	info.Subject, _ = claims.GetSubject()
	info.Issuer, _ = claims.GetIssuer()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	info.Email, _ = claims["email"].(string)
	return info, nil
}

// MaskToken renders a token for display. A JWT is shown by its subject and
// expiry, never its signature. Opaque tokens keep only their last four
// characters, and short ones are hidden entirely.
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}

	info, err := InspectToken(token)
	if err != nil {
		if len(token) <= 12 {
			return "********"
		}
		return "********" + token[len(token)-4:]
	}

	parts := []string{"jwt"}
	if info.Subject != "" {
		parts = append(parts, "sub="+info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		parts = append(parts, "exp="+info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, " ")
}
