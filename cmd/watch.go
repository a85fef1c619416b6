// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/identity"
	"authgate/cli/internal/logging"
	"authgate/cli/internal/terminal"
	"authgate/cli/internal/watch"
)

var watchInterval time.Duration

// watchCmd follows the signed-in user until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow auth state changes live",
	Long: `The watch command subscribes to the auth client and redraws the current user
every time it changes. The persisted session is re-read every --interval so
a login or logout from another terminal shows up here. Press Ctrl+C to stop.`,

	RunE: runWithEnv(func(cmd *cobra.Command, e *env) error {
		if watchInterval <= 0 {
			return apperrors.New(apperrors.InvalidConfig, "--interval must be positive")
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		log := logging.Component(e.log, "watch")

		render := func(s watch.State) { fmt.Fprintln(out, formatState(s)) }
		if terminal.IsInteractive(os.Stdout) {
			cursor.Hide()
			defer cursor.Show()
			area, err := pterm.DefaultArea.WithRemoveWhenDone(false).Start()
			if err == nil {
				defer func() { _ = area.Stop() }()
				render = func(s watch.State) { area.Update(formatState(s)) }
			}
		}

		w, reloader := mountWatcher(ctx, e, render)
		defer w.Unmount()
		if reloader == nil {
			if e.registry.IsInitialized() {
				<-ctx.Done()
			}
			return nil
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := reloader.Reload(ctx); err != nil {
					log.Warn().Err(err).Msg("reload session")
				}
			}
		}
	}),
}

// mountWatcher initializes the registry before mounting, since Mount reads
// IsInitialized only once. The returned Authenticator is nil when there is no
// client or it cannot reload.
func mountWatcher(ctx context.Context, e *env, render func(watch.State)) (*watch.Watcher, identity.Authenticator) {
	client, ok := e.registry.Auth(ctx)

	w := watch.New(e.registry, render)
	w.Mount(ctx)
	if !ok {
		return w, nil
	}
	reloader, _ := client.(identity.Authenticator)
	return w, reloader
}

func formatState(s watch.State) string {
	switch {
	case s.Loading:
		return pterm.FgGray.Sprint("Loading auth state...")
	case !s.Initialized:
		return pterm.FgYellow.Sprint("Auth not initialized (offline)")
	case s.User == nil:
		return pterm.FgLightRed.Sprint("Signed out")
	case s.User.IsAnonymous:
		return pterm.FgLightYellow.Sprint("Guest ") + s.User.UID
	}
	return pterm.FgLightGreen.Sprint("Signed in ") + displayName(s.User) + pterm.FgGray.Sprint(" ("+s.User.UID+")")
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "How often to re-read the persisted session")
	rootCmd.AddCommand(watchCmd)
}
