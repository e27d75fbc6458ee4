package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/biteroute/storefront/internal/catalog"
	"github.com/biteroute/storefront/internal/session"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Category string
	Location string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <food>",
		Short: "Search the catalog for food near a location",
		Long: `Search approved hotels for a food item within a diet category.

A query that contradicts the selected category (say, chicken under Veg)
is blocked before any request is made.

Example:
  biteroute search "masala dosa" --category Veg --location Mysuru`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", catalog.CategoryVeg, "diet category (Veg|Non-Veg)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location to search near (required)")
	cmd.MarkFlagRequired("location")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, food string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleUser); err != nil {
		return err
	}

	searcher := catalog.NewSearcher(app.Backend, app.Log)
	results, err := searcher.Search(ctx, opts.Category, food, opts.Location)

	var mismatch *catalog.MismatchError
	if errors.As(err, &mismatch) {
		return NewExitError(ExitFailure, mismatch.Error())
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "search", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if done, err := out.PrintJSON(results); done {
		return err
	}

	if len(results) == 0 {
		out.Printf("No food found\n")
		return nil
	}
	for _, r := range results {
		out.Printf("#%d  %s - %s (%s)  %s\n",
			r.FoodID, r.FoodName, r.HotelName, r.Location,
			Money(app.Config.Payment.Currency, r.Price))
	}
	return nil
}
