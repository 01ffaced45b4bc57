// Package main provides the authfront binary: the web frontend, a mock
// authentication backend for development, and terminal equivalents of the
// login, forgot-password and logout screens.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "authfront"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

// load resolves configuration and configures logging. Call it first in every RunE.
func (g *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(g.envFile, g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := g.logLevel
	if level == "" {
		level = cfg.GetLogLevel()
	}
	if err := setupLogging(level, cfg.GetEnv()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Login and password recovery frontend",
		Long: `authfront serves the login, forgot-password and landing pages in front of an
authentication API, and keeps each browser's session in a scoped store
(memory, files or Redis).

The same flows are available from the terminal, and mock-api runs a local
stand-in for the authentication API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load when present")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(
		serveCmd(flags),
		mockAPICmd(flags),
		loginCmd(flags),
		forgotPasswordCmd(flags),
		whoamiCmd(flags),
		logoutCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}
