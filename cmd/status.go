// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"authgate/cli/internal/authstate"
)

// statusCmd reports the registry state and the signed-in user.
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show auth client state and the current user",
	Long: `The status command initializes the auth client (if an app is configured) and
prints whether a user is signed in, whether that user is a guest, and which
storage backend sessions are persisted in.

Without app.project_id the CLI runs offline and reports that no client exists.`,

	RunE: runWithEnv(func(cmd *cobra.Command, e *env) error {
		return renderStatus(cmd.Context(), cmd.OutOrStdout(), e, authstate.CheckFrom(cmd.Context(), e.registry))
	}),
}

func renderStatus(ctx context.Context, w io.Writer, e *env, res authstate.CheckResult) error {
	rows := [][]string{
		{"Field", "Value"},
		{"Initialized", strconv.FormatBool(e.registry.IsInitialized())},
	}
	if msg, failed := e.registry.InitializationError(); failed {
		rows = append(rows, []string{"Initialization error", msg})
	}
	if app, ok := e.platform.App(); ok {
		rows = append(rows, []string{"App", app.Name() + " (" + app.ProjectID() + ")"})
	} else {
		rows = append(rows, []string{"App", "offline"})
	}
	storageRow := e.cfg.Storage.Backend
	if c, ok := e.registry.Auth(ctx); ok {
		if p, ok := c.(interface{ Persistent() bool }); ok && !p.Persistent() {
			storageRow += " (not persisted)"
		}
	}
	rows = append(rows,
		[]string{"Storage", storageRow},
		[]string{"Authenticated", strconv.FormatBool(res.IsAuthenticated)},
		[]string{"Guest", strconv.FormatBool(res.IsGuest)},
	)
	if u := res.CurrentUser; u != nil {
		rows = append(rows, []string{"User ID", res.UserID})
		if u.Email != "" {
			rows = append(rows, []string{"Email", u.Email})
		}
		if u.DisplayName != "" {
			rows = append(rows, []string{"Name", u.DisplayName})
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
