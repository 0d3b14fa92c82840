package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sagarc03/filekeep"
)

// Claims is the JWT payload understood by filekeep.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Principal converts verified claims into a filekeep.Principal.
func (c *Claims) Principal() (filekeep.Principal, error) {
	if c.Subject == "" {
		return filekeep.Principal{}, fmt.Errorf("%w: token has no subject", filekeep.ErrUnauthorized)
	}

	return filekeep.Principal{ID: c.Subject, Email: c.Email}, nil
}
