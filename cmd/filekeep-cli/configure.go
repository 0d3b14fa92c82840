package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

const tokenCheckTimeout = 10 * time.Second

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save and check bearer tokens per server",
	Long: `Save an endpoint and bearer token under a profile name.

Tokens are checked against the server before they are saved. The current
profile is used when neither --profile nor FILEKEEP_PROFILE is set.

Profiles are stored in ~/.filekeep/config.yaml with owner-only permissions.`,
}

var configureSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Add or replace a profile",
	Long: `Add or replace a profile.

The endpoint and token come from --endpoint and --token when given and are
prompted for otherwise. The token is sent to GET /files before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureSet,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE:  runConfigureList,
}

var configureUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile current",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureUse,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the resolved token against the server",
	Long: `Resolve the endpoint and token the other commands would use and check
that the server accepts them.`,
	Args: cobra.NoArgs,
	RunE: runConfigureVerify,
}

var (
	showToken  bool
	skipVerify bool
	makeUse    bool
)

func init() {
	configureCmd.AddCommand(configureSetCmd)
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureUseCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureVerifyCmd)

	configureSetCmd.Flags().BoolVar(&skipVerify, "no-verify", false, "save without checking the token")
	configureSetCmd.Flags().BoolVar(&makeUse, "use", false, "make the profile current")
	configureListCmd.Flags().BoolVar(&showToken, "show-token", false, "print tokens in full")
}

func runConfigureSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	path := getConfigPath()

	saved, err := clientcli.LoadProfilesOrEmpty(path)
	if err != nil {
		return err
	}

	prev := saved.Entries[name]

	endpointURL := endpoint
	if endpointURL == "" {
		def := prev.Endpoint
		if def == "" {
			def = clientcli.DefaultEndpoint
		}
		endpointURL, err = (&promptui.Prompt{Label: "Endpoint URL", Default: def, Validate: validateEndpoint}).Run()
		if err != nil {
			return handlePromptError(err)
		}
	} else if err := validateEndpoint(endpointURL); err != nil {
		return err
	}

	tokenVal := token
	if tokenVal == "" {
		tokenVal, err = (&promptui.Prompt{Label: "Bearer token", Mask: '*', Validate: validateToken}).Run()
		if err != nil {
			return handlePromptError(err)
		}
	} else if err := validateToken(tokenVal); err != nil {
		return err
	}

	cfg := &clientcli.Config{
		Endpoint: strings.TrimSuffix(strings.TrimSpace(endpointURL), "/"),
		Token:    strings.TrimSpace(tokenVal),
	}

	if !skipVerify {
		if err := checkToken(cmd.Context(), cfg); err != nil {
			fmt.Printf("Token check failed: %v\n", err)
			if _, promptErr := (&promptui.Prompt{Label: "Save anyway", IsConfirm: true}).Run(); promptErr != nil {
				fmt.Println("Not saved.")
				return nil //nolint:nilerr // declined
			}
		}
	}

	saved.Put(name, clientcli.Profile{Endpoint: cfg.Endpoint, Token: cfg.Token})
	if makeUse {
		_ = saved.Use(name)
	}
	if err := saved.Save(path); err != nil {
		return err
	}

	fmt.Printf("Saved profile %q (%s).\n", name, clientcli.MaskToken(cfg.Token))
	if saved.Current == name {
		fmt.Println("It is the current profile.")
	}
	return nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	saved, err := clientcli.LoadProfilesOrEmpty(getConfigPath())
	if err != nil {
		return err
	}

	now := time.Now()
	summaries := make([]clientcli.ProfileSummary, 0, len(saved.Entries))
	for _, name := range saved.Names() {
		summaries = append(summaries, saved.Summarize(name, showToken, now))
	}
	return getFormatter().FormatProfiles(os.Stdout, summaries)
}

func runConfigureUse(_ *cobra.Command, args []string) error {
	path := getConfigPath()
	saved, err := clientcli.LoadProfiles(path)
	if err != nil {
		return err
	}
	if err := saved.Use(args[0]); err != nil {
		return err
	}
	if err := saved.Save(path); err != nil {
		return err
	}
	fmt.Printf("Current profile is %q.\n", args[0])
	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	path := getConfigPath()
	saved, err := clientcli.LoadProfiles(path)
	if err != nil {
		return err
	}
	if err := saved.Delete(args[0]); err != nil {
		return err
	}
	if err := saved.Save(path); err != nil {
		return err
	}
	fmt.Printf("Removed profile %q.\n", args[0])
	return nil
}

func runConfigureVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if err := checkToken(cmd.Context(), cfg); err != nil {
		return handleError(os.Stderr, err)
	}
	return nil
}

// checkToken rejects expired JWTs locally, then asks the server.
func checkToken(ctx context.Context, cfg *clientcli.Config) error {
	if err := cfg.ValidateWithAuth(); err != nil {
		return err
	}

	client, err := clientcli.New(cfg, clientcli.WithTimeout(tokenCheckTimeout))
	if err != nil {
		return err
	}

	n, err := client.CheckToken(ctx)
	if err != nil {
		return err
	}

	who := "token"
	if info, inspectErr := clientcli.InspectToken(cfg.Token); inspectErr == nil && info.Subject != "" {
		who = info.Subject
	}
	if !quiet {
		fmt.Printf("%s accepted by %s, %d file(s) visible.\n", who, cfg.WithDefaults().Endpoint, n)
	}
	return nil
}

func validateEndpoint(input string) error {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

func validateToken(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return clientcli.ErrTokenRequired
	}
	if strings.HasPrefix(strings.ToLower(input), "bearer ") {
		return errors.New(`paste the token without the "Bearer " prefix`)
	}
	return nil
}

// handlePromptError turns Ctrl-C and Ctrl-D into a quiet cancel.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
