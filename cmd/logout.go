// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd clears the signed-in user and its persisted session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the persisted session",
	Long: `The logout command signs the current user out of the auth client and removes
the session from the configured storage backend. Running it while nobody is
signed in is not an error.`,

	RunE: runWithEnv(func(cmd *cobra.Command, e *env) error {
		ctx := cmd.Context()
		client, a, err := e.authenticator(ctx)
		if err != nil {
			return err
		}
		if client.CurrentUser() == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		if err := a.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("Signed out and session removed"))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
