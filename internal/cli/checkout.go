package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biteroute/storefront/internal/checkout"
	"github.com/biteroute/storefront/internal/session"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Method   string
	Name     string
	Mobile   string
	HouseNo  string
	Area     string
	Landmark string
	City     string
	Pincode  string
	Confirm  bool
	QROut    string
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Convert the cart into a submitted order",
		Long: `Check out the current cart with complete delivery details.

Cash on delivery submits immediately. Online payment prints a scan-to-pay
reference (optionally writing a QR code PNG) and waits for --confirm; the
simulated gateway always succeeds once confirmed.

Example:
  biteroute checkout --method cod --name Asha --mobile 9876543210 \
    --house 12 --area "MG Road" --city Mysuru --pincode 570001`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Method, "method", string(checkout.MethodCash), "payment method (cod|online)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&opts.HouseNo, "house", "", "house / flat number")
	cmd.Flags().StringVar(&opts.Area, "area", "", "street / area")
	cmd.Flags().StringVar(&opts.Landmark, "landmark", "", "landmark (optional)")
	cmd.Flags().StringVar(&opts.City, "city", "", "city")
	cmd.Flags().StringVar(&opts.Pincode, "pincode", "", "pincode")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm", false, "confirm the online payment after scanning")
	cmd.Flags().StringVar(&opts.QROut, "qr-out", "", "write the scan-to-pay QR code PNG to this file")

	return cmd
}

func runCheckout(cmd *cobra.Command, opts *CheckoutOptions) error {
	ctx := cmd.Context()
	app, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleUser); err != nil {
		return err
	}

	payment := app.Config.Payment
	machine, err := checkout.New(app.Cart, app.Session, app.Backend,
		checkout.Payee{VPA: payment.PayeeVPA, Name: payment.PayeeName, Currency: payment.Currency},
		checkout.WithTaxRate(payment.TaxRate),
		checkout.WithLogger(app.Log),
	)
	if errors.Is(err, checkout.ErrCartEmpty) {
		return NewExitError(ExitFailure, "cart is empty - add items before checkout")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "checkout", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	currency := payment.Currency
	out.Printf("Subtotal: %s\n", Money(currency, machine.Subtotal()))
	out.Printf("GST (%.0f%%): %s\n", payment.TaxRate*100, Money(currency, machine.Tax()))
	out.Printf("Total payable: %s\n", Money(currency, machine.Total()))

	details := checkout.DeliveryDetails{
		Name:     opts.Name,
		Mobile:   opts.Mobile,
		HouseNo:  opts.HouseNo,
		Area:     opts.Area,
		Landmark: opts.Landmark,
		City:     opts.City,
		Pincode:  opts.Pincode,
	}

	err = machine.SubmitDetails(details)
	var blocked *checkout.BlockedError
	if errors.As(err, &blocked) {
		return NewExitError(ExitFailure, blocked.Reason)
	}
	if errors.Is(err, checkout.ErrLoginRequired) {
		return NewExitError(ExitFailure, "please login to continue")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "checkout", err)
	}

	switch checkout.PaymentMethod(opts.Method) {
	case checkout.MethodCash:
		if _, err := machine.PlaceOrder(ctx, checkout.MethodCash); err != nil {
			return WrapExitError(ExitCommandError, "place order", err)
		}
		out.Printf("Order placed successfully - pay %s on delivery\n", Money(currency, machine.Total()))
		return nil

	case checkout.MethodOnline:
		request, err := machine.PlaceOrder(ctx, checkout.MethodOnline)
		if err != nil {
			return WrapExitError(ExitCommandError, "place order", err)
		}

		out.Printf("Scan & pay: %s\n", request.URI)
		if opts.QROut != "" {
			png, err := request.QRCodePNG(256)
			if err != nil {
				return WrapExitError(ExitCommandError, "render qr code", err)
			}
			if err := os.WriteFile(opts.QROut, png, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write qr code", err)
			}
			out.Printf("QR code written to %s\n", opts.QROut)
		}

		if !opts.Confirm {
			out.Printf("Re-run with --confirm once the payment is scanned\n")
			return NewExitError(ExitFailure, "payment not confirmed")
		}

		out.Printf("Processing...\n")
		if err := machine.ConfirmPayment(ctx); err != nil {
			// Generic alert, no retry; the user can navigate away and
			// start a fresh checkout.
			return WrapExitError(ExitFailure, "online payment failed", err)
		}
		out.Printf("Order placed successfully - paid %s\n", request.Amount)
		return nil

	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown payment method %q", opts.Method))
	}
}
