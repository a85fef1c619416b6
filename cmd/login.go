// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/identity"
	"authgate/cli/internal/terminal"
)

var (
	loginGuest bool
	loginUID   string
	loginEmail string
	loginName  string
)

// loginCmd signs a user in on the local session client.
// The session is persisted through the configured storage backend so later
// invocations see the same user.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a registered user or as a guest",
	Long: `The login command records a signed-in user on the auth client.

Use --guest for an anonymous session, or --uid (with optional --email and
--name) for a registered one. In an interactive terminal the user ID is
prompted for when omitted. If the same user is already signed in the command
does nothing.`,

	RunE: runWithEnv(func(cmd *cobra.Command, e *env) error {
		ctx := cmd.Context()
		client, a, err := e.authenticator(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if loginGuest {
			if cur := client.CurrentUser(); cur != nil && cur.IsAnonymous {
				fmt.Fprintf(out, "Already signed in as guest %s\n", cur.UID)
				return nil
			}
			u, err := a.SignInAnonymously(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, pterm.Success.Sprintf("Signed in as guest %s", u.UID))
			return nil
		}

		uid := strings.TrimSpace(loginUID)
		if uid == "" {
			if !terminal.IsInteractive(os.Stdin) {
				return apperrors.New(apperrors.NotAuthenticated, "--uid or --guest is required")
			}
			uid, err = promptLine(cmd.InOrStdin(), out, "User ID: ")
			if err != nil {
				return err
			}
		}

		if cur := client.CurrentUser(); cur != nil && !cur.IsAnonymous && cur.UID == uid {
			fmt.Fprintf(out, "Already signed in as %s\n", displayName(cur))
			return nil
		}
		u, err := a.SignIn(ctx, identity.User{UID: uid, Email: loginEmail, DisplayName: loginName})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, pterm.Success.Sprintf("Signed in as %s", displayName(u)))
		return nil
	}),
}

// promptLine reads one line and clears the prompt and answer from the screen.
func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	terminal.ClearPreviousLines(out, len(prompt)+len(line), terminal.Width(os.Stdout))
	return strings.TrimSpace(line), nil
}

func displayName(u *identity.User) string {
	switch {
	case u.Email != "":
		return u.Email
	case u.DisplayName != "":
		return u.DisplayName
	}
	return u.UID
}

func init() {
	loginCmd.Flags().BoolVar(&loginGuest, "guest", false, "Sign in anonymously")
	loginCmd.Flags().StringVar(&loginUID, "uid", "", "User ID of a registered account")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email of the account")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Display name of the account")
	loginCmd.MarkFlagsMutuallyExclusive("guest", "uid")
	rootCmd.AddCommand(loginCmd)
}
