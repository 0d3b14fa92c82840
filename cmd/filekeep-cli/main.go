package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	token      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "filekeep-cli",
	Version: version,
	Short:   "Client for the filekeep file service",
	Long: `filekeep-cli - Client for the filekeep file service

Every command authenticates with a bearer token. Resolution order, lowest
to highest precedence:
  - saved profile (~/.filekeep/config.yaml, see 'configure')
  - FILEKEEP_ENDPOINT / FILEKEEP_TOKEN environment variables
  - --endpoint / --token flags`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.filekeep/config.yaml, env: FILEKEEP_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: FILEKEEP_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:5708, env: FILEKEEP_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token (env: FILEKEEP_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// getConfigPath returns the profiles file from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv(clientcli.EnvConfig); p != "" {
		return p
	}
	return clientcli.DefaultProfilesPath()
}

// buildConfig layers the saved profile, then env vars, then flags.
func buildConfig() (*clientcli.Config, error) {
	profileName := profile
	if profileName == "" {
		profileName = os.Getenv(clientcli.EnvProfile)
	}

	var cfg clientcli.Config
	if path := getConfigPath(); path != "" {
		saved, err := clientcli.LoadProfiles(path)
		switch {
		case err == nil:
			_, p, resolveErr := saved.Resolve(profileName)
			switch {
			case resolveErr == nil:
				cfg = p.Config()
			case profileName != "" || !errors.Is(resolveErr, clientcli.ErrNoProfiles):
				return nil, resolveErr
			}
		case profileName != "" || cfgFile != "":
			return nil, err
		}
	}

	cfg = cfg.Override(clientcli.EnvConfig()).Override(clientcli.Config{
		Endpoint: endpoint,
		Token:    token,
	})
	return &cfg, nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates an authenticated client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, fmt.Errorf("%w: use --token, FILEKEEP_TOKEN, or 'filekeep-cli configure set'", err)
	}

	return clientcli.New(cfg)
}

// handleError prints err with the active formatter and returns it.
func handleError(w io.Writer, err error) error {
	_ = getFormatter().FormatError(w, err)
	return &exitError{code: 1}
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
