package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/config"
	"github.com/Temutjin2k/bookshelf-auth/internal/app"
	"github.com/Temutjin2k/bookshelf-auth/internal/service/auth"
	"github.com/Temutjin2k/bookshelf-auth/pkg/hasher"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/Temutjin2k/bookshelf-auth/pkg/passhash"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bookshelf-auth",
		Short:         "Authentication and favorites service for the bookshelf",
		Long:          "Authentication and favorites service for the bookshelf.\n\n" + config.HelpMessage,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the config yaml file")

	loadConfig := func() (*config.Config, error) {
		return config.NewConfig(configPath)
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newTokenCmd(loadConfig),
		newHashPasswordCmd(),
	)
	return root
}

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			log := logger.InitLogger(cfg.ServiceName, cfg.LogLevel)
			config.PrintConfig(cmd.OutOrStdout(), cfg)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			application, err := app.New(ctx, *cfg, log)
			if err != nil {
				log.Error(ctx, "failed to init application", err)
				return err
			}

			if err := application.Run(ctx); err != nil {
				log.Error(ctx, "failed to run application", err)
				return err
			}
			return nil
		},
	}
}

func newTokenCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or inspect access tokens with the configured secret",
	}

	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue <username>",
		Short: "Issue an access token for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := tokenService(load)
			if err != nil {
				return err
			}

			if ttl <= 0 {
				ttl = tokens.AccessTTL()
			}
			tok, err := tokens.IssueWithTTL(args[0], ttl)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return err
		},
	}
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to AUTH_ACCESS_TOKEN_TTL)")

	inspect := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Validate a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := tokenService(load)
			if err != nil {
				return err
			}

			claims, err := tokens.Validate(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subject:    %s\n", claims.Subject)
			fmt.Fprintf(out, "type:       %s\n", claims.TokenType)
			fmt.Fprintf(out, "id:         %s\n", claims.ID)
			fmt.Fprintf(out, "fp:         %s\n", hasher.Fingerprint(args[0]))
			fmt.Fprintf(out, "issued at:  %s\n", formatDate(claims.IssuedAt))
			fmt.Fprintf(out, "expires at: %s\n", formatDate(claims.ExpiresAt))
			return nil
		},
	}

	cmd.AddCommand(issue, inspect)
	return cmd
}

func tokenService(load configLoader) (*auth.TokenService, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	return auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
}

func formatDate(d *jwt.NumericDate) string {
	if d == nil {
		return "-"
	}
	return d.UTC().Format(time.RFC3339)
}

var errEmptyPassword = errors.New("password must not be empty")

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password and print its bcrypt hash",
		Long:  "Read a password and print its bcrypt hash. The password is read without echo from a terminal, or as the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if password == "" {
				return errEmptyPassword
			}

			hash, err := passhash.New(cost).HashPassword(password)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost")
	return cmd
}

// readPassword reads with masking when in is a terminal.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
