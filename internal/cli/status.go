package cli

import (
	"github.com/spf13/cobra"

	"github.com/biteroute/storefront/internal/session"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show session, cart badge, and owner hotel count",
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

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			status := map[string]any{
				"authenticated": app.Session.Authenticated(),
				"cart_count":    app.Cart.TotalCount(),
			}

			role, hasRole := app.Session.CurrentRole()
			if hasRole {
				identity, _ := app.Session.Identity()
				status["role"] = role
				status["name"] = identity.DisplayName()
			}

			// Owner badge: the hotel count display re-queries the backend,
			// the same read that catalog-changed subscribers perform.
			if role == session.RoleHotel {
				count, err := app.Backend.HotelCount(ctx)
				if err != nil {
					app.Log.Warn("hotel count unavailable", "error", err)
					count = 0
				}
				status["hotel_count"] = count
			}

			if done, err := out.PrintJSON(status); done {
				return err
			}

			if !hasRole {
				out.Printf("Not logged in\n")
			} else {
				out.Printf("Logged in as %s (%s)\n", status["name"], role)
			}
			out.Printf("Cart: %d item(s)\n", app.Cart.TotalCount())
			if n, ok := status["hotel_count"]; ok {
				out.Printf("My hotels: %d\n", n)
			}
			return nil
		},
	}
}
