package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-auth-frontend/mockapi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func mockAPICmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Run a local stand-in for the authentication API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			opts := mockapi.Options{
				Latency:    cfg.GetMockAPILatency(),
				SigningKey: cfg.GetMockAPISigningKey(),
				Cors:       cfg,
			}
			if path := cfg.GetMockAPIUsersFile(); path != "" {
				if opts.Users, err = mockapi.LoadDirectory(path); err != nil {
					return err
				}
				log.Info().Int("users", opts.Users.Len()).Str("file", path).Msg("Mock API checks passwords")
			} else {
				log.Warn().Msg("No users file configured; the mock API accepts any credentials")
			}

			srv := &http.Server{Addr: cfg.GetMockAPIPort(), Handler: mockapi.New(opts), ReadHeaderTimeout: 10 * time.Second}
			return serveUntilStopped(cmd.Context(), srv)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for a users file entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := mockapi.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	return cmd
}
