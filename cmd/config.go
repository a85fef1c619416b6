// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"authgate/cli/internal/config"
	"authgate/cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

// configSetCmd persists one key to the config file.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Write a setting to the config file",
	Long: `The set command stores one setting in config.json under the XDG config dir.
Environment variables (AUTHGATE_*) still take precedence when the CLI runs.

The Postgres DSN is never written to the file; export
AUTHGATE_STORAGE_POSTGRES_DSN instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		c, err := config.ReadFile(path)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		// The DSN comes from the environment, so a postgres backend is
		// accepted here without one.
		if err := c.Validate(); err != nil && !(c.Storage.Backend == config.BackendPostgres && c.Storage.PostgresDSN == "") {
			return err
		}
		if err := config.Save(c); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("%s = %s", args[0], args[1]))
		return nil
	},
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		rows := [][]string{
			{"Key", "Value"},
			{"log_level", c.LogLevel},
			{"verbose", fmt.Sprint(c.Verbose)},
			{"app.name", c.App.Name},
			{"app.project_id", c.App.ProjectID},
			{"storage.backend", c.Storage.Backend},
			{"storage.postgres_dsn", logging.Mask(c.Storage.PostgresDSN)},
			{"storage.table", c.Storage.Table},
			{"persistence", c.Persistence},
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
		return err
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
