// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var requireQuiet bool

// requireCmd exits non-zero unless a registered (non-guest) user is signed in.
var requireCmd = &cobra.Command{
	Use:   "require",
	Short: "Fail unless a registered user is signed in",
	Long: `The require command prints the signed-in user's ID and exits 0 when the user
is registered. It exits 3 when no auth client is available, 4 when nobody is
signed in and 5 when the user is a guest, so scripts can gate on it.`,

	RunE: runWithEnv(func(cmd *cobra.Command, e *env) error {
		uid, err := e.guard.RequireAuthenticatedUser(cmd.Context())
		if err != nil {
			return err
		}
		if !requireQuiet {
			fmt.Fprintln(cmd.OutOrStdout(), uid)
		}
		return nil
	}),
}

func init() {
	requireCmd.Flags().BoolVarP(&requireQuiet, "quiet", "q", false, "Print nothing on success")
	rootCmd.AddCommand(requireCmd)
}
