// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for authgate.
// It wires configuration, storage, the identity session SDK and the auth
// client registry together, and exposes status, login, logout, require and
// watch subcommands built with Cobra and rendered with pterm.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/logging"
)

var (
	showVersion bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "authgate",
	Short:         "Inspect and gate the local auth session",
	Long:          `authgate owns the process's auth client and reports who is signed in, whether they are a guest, and whether an operation that needs a registered account may proceed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		pterm.Error.Println(logging.PresentError("", err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to process exit codes so scripts can branch on
// `authgate require` without parsing output.
func exitCode(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.NotInitialized, apperrors.InitializationFailed:
		return 3
	case apperrors.NotAuthenticated:
		return 4
	case apperrors.GuestForbidden:
		return 5
	case apperrors.InvalidConfig:
		return 2
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging (also AUTHGATE_VERBOSE=1)")
}
