package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/auth"
	"github.com/sagarc03/filekeep/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token signed with the HMAC secret",
	Long: `Issue an HS256 bearer token for a user, signed with auth.hmac.secret.

Only available with auth.type=hmac. Tokens for a JWKS setup are issued by
the identity provider.

Examples:
  # Token for a regular user, valid for 24 hours
  filekeep token --sub user-123 --email alice@example.com

  # Short-lived token
  filekeep token --sub user-123 --ttl 15m`,
	RunE: runToken,
}

var (
	tokenSubject string
	tokenEmail   string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "user id (token subject)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.Auth.Type != auth.TypeHMAC {
		return errors.New("token: auth.type must be hmac")
	}

	issuer, err := auth.NewHMACVerifier(cfg.Auth.HMAC)
	if err != nil {
		return err
	}

	token, err := issuer.Issue(filekeep.Principal{ID: tokenSubject, Email: tokenEmail}, tokenTTL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
