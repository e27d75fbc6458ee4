package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/biteroute/storefront/internal/bus"
	"github.com/biteroute/storefront/internal/cart"
	"github.com/biteroute/storefront/internal/session"
)

// CartAddOptions holds flags for the cart add command.
type CartAddOptions struct {
	*RootOptions
	Name     string
	Hotel    string
	Location string
	Price    float64
}

// NewCartCommand creates the cart command and its subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the guest cart",
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartListCommand(rootOpts))
	cmd.AddCommand(newCartAdjustCommand(rootOpts, "inc", "Increase a line's quantity by 1"))
	cmd.AddCommand(newCartAdjustCommand(rootOpts, "dec", "Decrease a line's quantity by 1"))
	cmd.AddCommand(newCartAdjustCommand(rootOpts, "rm", "Remove a line from the cart"))

	return cmd
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <food-id>",
		Short: "Add a food item to the cart",
		Long: `Add a food item from a search result to the cart.

Adding a food already in the cart increments its quantity; the price and
names recorded on first add are kept.

Example:
  biteroute cart add 3 --name "Masala Dosa" --hotel "Udupi Corner" --price 80`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			foodID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, "food-id must be an integer")
			}
			return runCartAdd(cmd, opts, foodID)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "food name (required)")
	cmd.Flags().StringVar(&opts.Hotel, "hotel", "", "hotel name (required)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "hotel location")
	cmd.Flags().Float64Var(&opts.Price, "price", 0, "unit price (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("hotel")
	cmd.MarkFlagRequired("price")

	return cmd
}

func runCartAdd(cmd *cobra.Command, opts *CartAddOptions, foodID int64) error {
	ctx := cmd.Context()
	app, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleUser); err != nil {
		return err
	}

	// Navigation badge: re-reads the count when cart-changed fires.
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	sub := app.Bus.Subscribe(bus.TopicCartChanged, func() {
		if opts.Format == "text" {
			out.Printf("Cart badge: %d\n", app.Cart.TotalCount())
		}
	})
	defer sub.Unsubscribe()

	item := cart.LineItem{
		FoodID:    foodID,
		FoodName:  opts.Name,
		HotelName: opts.Hotel,
		Location:  opts.Location,
		Price:     opts.Price,
	}
	if err := app.Cart.Add(ctx, item); err != nil {
		return WrapExitError(ExitCommandError, "add to cart", err)
	}

	if done, err := out.PrintJSON(map[string]any{"cart_count": app.Cart.TotalCount()}); done {
		return err
	}
	out.Printf("Item added to cart\n")
	return nil
}

func newCartListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "Show cart lines, count, and subtotal",
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

			if err := requireRole(app, session.RoleUser); err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			items := app.Cart.Items()

			if done, err := out.PrintJSON(map[string]any{
				"items":    items,
				"count":    app.Cart.TotalCount(),
				"subtotal": app.Cart.Subtotal(),
			}); done {
				return err
			}

			if len(items) == 0 {
				out.Printf("Cart is empty\n")
				return nil
			}
			currency := app.Config.Payment.Currency
			for _, item := range items {
				out.Printf("#%d  %s - %s  %s x %d\n",
					item.FoodID, item.FoodName, item.HotelName,
					Money(currency, item.Price), item.Qty)
			}
			out.Printf("Total: %s (%d items)\n", Money(currency, app.Cart.Subtotal()), app.Cart.TotalCount())
			return nil
		},
	}
}

// newCartAdjustCommand builds the inc/dec/rm commands, which share
// everything but the mutation they apply.
func newCartAdjustCommand(rootOpts *RootOptions, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:           verb + " <food-id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			foodID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, "food-id must be an integer")
			}

			ctx := cmd.Context()
			app, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := requireRole(app, session.RoleUser); err != nil {
				return err
			}

			switch verb {
			case "inc":
				err = app.Cart.Increment(ctx, foodID)
			case "dec":
				err = app.Cart.Decrement(ctx, foodID)
			case "rm":
				err = app.Cart.Remove(ctx, foodID)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "update cart", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if done, err := out.PrintJSON(map[string]any{"cart_count": app.Cart.TotalCount()}); done {
				return err
			}
			out.Printf("Cart: %d item(s)\n", app.Cart.TotalCount())
			return nil
		},
	}
}
