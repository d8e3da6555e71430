// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jahkeup/acmestub"
)

// NewRootCmd creates the acmestub command. It serves the stub until
// interrupted.
func NewRootCmd() *cobra.Command {
	var (
		logLevel string
		withDNS  bool
	)

	rootCmd := &cobra.Command{
		Use:   "acmestub",
		Short: "Serve canned ACME responses on a loopback port",
		Long: `acmestub - Serve canned ACME responses on a loopback port

Prints the directory URL to configure ACME clients with, then serves until
interrupted.
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := acmestub.Start(acmestub.WithLogger(logger))
			if err != nil {
				return err
			}
			defer srv.Shutdown()
			fmt.Fprintln(cmd.OutOrStdout(), srv.DirectoryURL())

			if withDNS {
				ns, err := acmestub.NewDNS(ctx, acmestub.NewChallengeDB())
				if err != nil {
					return err
				}
				defer ns.Shutdown()
				fmt.Fprintln(cmd.OutOrStdout(), ns.Addr())
			}

			logger.Info().Str("directory", srv.DirectoryURL()).Msg("serving")

			select {
			case <-ctx.Done():
			case <-srv.Done():
			}

			logger.Info().Msg("shutting down")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&withDNS, "dns", false, "also serve a loopback nameserver for challenge identifiers")

	return rootCmd
}
