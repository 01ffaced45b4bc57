package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/flows"
	"github.com/jrsteele09/go-auth-frontend/guard"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/sessions"
	"github.com/jrsteele09/go-auth-frontend/storage"
	"github.com/spf13/cobra"
)

// cliScope is the storage scope the terminal commands share, the way one
// browser origin shares its local storage between pages.
const cliScope = "cli"

var (
	errNotSignedIn = errors.New("not signed in")
	errFailed      = errors.New("request failed")
)

// terminal bundles what the account commands need for one invocation.
type terminal struct {
	cfg      config.Config
	provider storage.Provider
	store    sessions.Store
	api      *authclient.Client
}

func openTerminal(ctx context.Context, flags *globalFlags) (*terminal, error) {
	cfg, err := flags.load()
	if err != nil {
		return nil, err
	}
	provider, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	area, err := provider.Area(cliScope)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}
	store := sessions.NewAreaStore(area)
	return &terminal{
		cfg:      cfg,
		provider: provider,
		store:    store,
		api: authclient.New(cfg.GetAPIBaseURL(),
			authclient.WithTimeout(cfg.GetAPITimeout()),
			authclient.WithTokenSource(authclient.SessionTokenSource{Store: store})),
	}, nil
}

func (t *terminal) Close() error {
	return t.provider.Close()
}

func loginCmd(flags *globalFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := openTerminal(ctx, flags)
			if err != nil {
				return err
			}
			defer t.Close()

			if password == "" {
				if password, err = prompt(cmd, "Password: "); err != nil {
					return err
				}
			}

			flow := flows.NewLoginFlow(t.api, t.store, flows.WithRedirectDelay(0))
			out, err := flow.Submit(ctx, email, password)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func forgotPasswordCmd(flags *globalFlags) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := openTerminal(ctx, flags)
			if err != nil {
				return err
			}
			defer t.Close()

			out, err := flows.NewForgotPasswordFlow(t.api, nil).Submit(ctx, email)
			if err != nil {
				return err
			}
			if err := report(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "A reset link was sent to %s\n", out.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := openTerminal(ctx, flags)
			if err != nil {
				return err
			}
			defer t.Close()

			decision := guard.New(t.store, nil).Activate(ctx)
			if !decision.Allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "Not signed in. Run `%s login` first.\n", appName)
				return errNotSignedIn
			}
			u := decision.Landing
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (ID: %s)\n", u.Name, u.Email, u.ID)
			return nil
		},
	}
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := openTerminal(ctx, flags)
			if err != nil {
				return err
			}
			defer t.Close()

			if _, err := guard.New(t.store, nil).Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// report prints an outcome banner and turns anything but success into an error
// so the exit status reflects it.
func report(w io.Writer, out flows.Outcome) error {
	fmt.Fprintln(w, out.Message)
	if out.State != flows.Success {
		return errFailed
	}
	return nil
}

func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
