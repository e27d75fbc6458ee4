package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login <contact>",
		Short: "Log in with the unified login endpoint",
		Long: `Log in as a customer, hotel owner, or administrator.

The backend detects the role from the credentials; the detected role
determines which views are available.

Example:
  biteroute login asha@example.com --password secret`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password (required)")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *LoginOptions, contact string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	// Credential exchange happens here; the session store only records
	// the result.
	result, err := app.Backend.Login(ctx, contact, opts.Password)
	if err != nil {
		return WrapExitError(ExitFailure, "login failed", err)
	}
	if err := app.Session.Login(ctx, result.Identity, result.Token); err != nil {
		return WrapExitError(ExitCommandError, "persist session", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if done, err := out.PrintJSON(map[string]any{
		"role": result.Identity.Role,
		"name": result.Identity.DisplayName(),
	}); done {
		return err
	}
	out.Printf("Logged in as %s (%s)\n", result.Identity.DisplayName(), result.Identity.Role)
	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Log out and clear all local state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.Logout(ctx); err != nil {
				return WrapExitError(ExitCommandError, "logout", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
