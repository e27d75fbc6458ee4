package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/biteroute/storefront/internal/api"
	"github.com/biteroute/storefront/internal/cart"
	"github.com/biteroute/storefront/internal/session"
)

// State of one checkout attempt.
type State int

const (
	// StateDeliveryFormPending awaits complete delivery details.
	StateDeliveryFormPending State = iota
	// StateReadyToSubmit has validated details and an authenticated identity.
	StateReadyToSubmit
	// StateCashSubmitting is issuing the cash-on-delivery backend calls.
	StateCashSubmitting
	// StateOnlineAwaitingScan has rendered the payment reference and waits
	// for the user to confirm the simulated payment.
	StateOnlineAwaitingScan
	// StateOnlineConfirming is running the online-payment backend sequence.
	StateOnlineConfirming
	// StateCompleted is terminal for this attempt.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateDeliveryFormPending:
		return "delivery-form-pending"
	case StateReadyToSubmit:
		return "ready-to-submit"
	case StateCashSubmitting:
		return "cash-submitting"
	case StateOnlineAwaitingScan:
		return "online-awaiting-scan"
	case StateOnlineConfirming:
		return "online-confirming"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PaymentMethod selects the checkout path.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cod"
	MethodOnline PaymentMethod = "online"
)

// DefaultProcessingDelay simulates gateway latency between the user's
// payment confirmation and the backend sequence.
const DefaultProcessingDelay = time.Second

var (
	// ErrCartEmpty means no machine can be constructed: the view
	// redirects back to the cart.
	ErrCartEmpty = errors.New("checkout: cart is empty")
	// ErrLoginRequired means the view redirects to login. It is a
	// redirect, not a validation error.
	ErrLoginRequired = errors.New("checkout: login required")
)

// BlockedError is a recoverable validation failure. The machine stays at
// its prior state; the user corrects the input and retries.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

// DeliveryDetails is the delivery form. All fields except Landmark are
// required.
type DeliveryDetails struct {
	Name     string
	Mobile   string
	HouseNo  string
	Area     string
	Landmark string
	City     string
	Pincode  string
}

func (d DeliveryDetails) validate() error {
	required := []string{d.Name, d.Mobile, d.HouseNo, d.Area, d.City, d.Pincode}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return &BlockedError{Reason: "please fill all delivery details"}
		}
	}
	return nil
}

// composedAddress renders the address block exactly as the backend's
// order record and receipt expect it.
func (d DeliveryDetails) composedAddress() string {
	landmark := d.Landmark
	if landmark == "" {
		landmark = "N/A"
	}
	return fmt.Sprintf("\nHouse No: %s,\nArea: %s,\nLandmark: %s,\nCity: %s,\nPincode: %s\n",
		d.HouseNo, d.Area, landmark, d.City, d.Pincode)
}

// Machine is one checkout attempt over a non-empty cart.
type Machine struct {
	state   State
	cart    *cart.Store
	session *session.Store
	backend *api.Client
	payee   Payee
	taxRate float64
	delay   time.Duration
	sleep   func(time.Duration)
	log     *slog.Logger

	details DeliveryDetails
	payment *PaymentRequest
	order   *api.Order
}

// Option configures a Machine.
type Option func(*Machine)

// WithProcessingDelay overrides the simulated gateway latency.
// Tests pass 0.
func WithProcessingDelay(d time.Duration) Option {
	return func(m *Machine) {
		m.delay = d
	}
}

// WithTaxRate overrides the 5% tax rate.
func WithTaxRate(rate float64) Option {
	return func(m *Machine) {
		m.taxRate = rate
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Machine) {
		m.log = log
	}
}

// New constructs a checkout attempt. An empty cart returns ErrCartEmpty;
// there is no state in which a machine exists over zero items.
func New(c *cart.Store, s *session.Store, backend *api.Client, payee Payee, opts ...Option) (*Machine, error) {
	if c.TotalCount() == 0 {
		return nil, ErrCartEmpty
	}

	m := &Machine{
		state:   StateDeliveryFormPending,
		cart:    c,
		session: s,
		backend: backend,
		payee:   payee,
		taxRate: 0.05,
		delay:   DefaultProcessingDelay,
		sleep:   time.Sleep,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns the machine's current state.
func (m *Machine) State() State {
	return m.state
}

// Subtotal is the cart sum in full precision.
func (m *Machine) Subtotal() float64 {
	return m.cart.Subtotal()
}

// Tax is round2(subtotal x rate), rounded once.
func (m *Machine) Tax() float64 {
	return round2(m.Subtotal() * m.taxRate)
}

// Total is subtotal plus tax.
func (m *Machine) Total() float64 {
	return m.Subtotal() + m.Tax()
}

// SubmitDetails validates the delivery form and the session.
//
// Incomplete fields return a *BlockedError with no state change. A
// missing identity returns ErrLoginRequired - the view redirects to login
// rather than showing a validation message. On success the machine moves
// to ReadyToSubmit.
func (m *Machine) SubmitDetails(details DeliveryDetails) error {
	if m.state != StateDeliveryFormPending {
		return fmt.Errorf("checkout: cannot submit details in state %s", m.state)
	}

	if err := details.validate(); err != nil {
		return err
	}
	if _, ok := m.session.Identity(); !ok {
		return ErrLoginRequired
	}

	m.details = details
	m.state = StateReadyToSubmit
	return nil
}

// PlaceOrder submits the order with the chosen payment method.
//
// Cash on delivery: builds the order snapshot, issues the receipt and
// persistence calls fire-and-forget (failures are logged, never
// propagated, and nothing rolls back), clears the cart, and completes.
//
// Online: computes the payment reference and returns it for scanning; the
// machine waits in OnlineAwaitingScan for ConfirmPayment. No backend call
// happens yet.
func (m *Machine) PlaceOrder(ctx context.Context, method PaymentMethod) (*PaymentRequest, error) {
	if m.state != StateReadyToSubmit {
		return nil, fmt.Errorf("checkout: cannot place order in state %s", m.state)
	}

	order := m.buildOrder(method)
	m.order = &order

	switch method {
	case MethodCash:
		m.state = StateCashSubmitting

		// Fire-and-forget: the cart is cleared whether or not the backend
		// accepted the order. Observed behavior of the original client.
		if err := m.backend.SendReceipt(ctx, order); err != nil {
			m.log.Warn("receipt call failed", "error", err)
		}
		if err := m.backend.PlaceOrder(ctx, order); err != nil {
			m.log.Warn("order persistence failed", "error", err)
		}

		if err := m.cart.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		m.state = StateCompleted
		return nil, nil

	case MethodOnline:
		m.payment = &PaymentRequest{
			URI:    PaymentURI(m.payee, m.Total()),
			Amount: formatAmount(m.Total()),
		}
		m.state = StateOnlineAwaitingScan
		return m.payment, nil

	default:
		return nil, fmt.Errorf("checkout: unknown payment method %q", method)
	}
}

// ConfirmPayment is the user's explicit confirmation of the simulated
// online payment; there is no automatic polling of payment status.
//
// After a fixed processing delay it registers the payment, sends the
// receipt, and persists the order. Any failure leaves the machine in
// OnlineConfirming with the cart intact: the caller surfaces an alert and
// there is no automatic retry. On success the cart is cleared and the
// machine completes.
func (m *Machine) ConfirmPayment(ctx context.Context) error {
	if m.state != StateOnlineAwaitingScan {
		return fmt.Errorf("checkout: cannot confirm payment in state %s", m.state)
	}
	m.state = StateOnlineConfirming

	m.sleep(m.delay)

	if err := m.backend.CreatePaymentOrder(ctx, m.payment.Amount); err != nil {
		return fmt.Errorf("online payment: %w", err)
	}
	if err := m.backend.SendReceipt(ctx, *m.order); err != nil {
		return fmt.Errorf("online payment: %w", err)
	}
	if err := m.backend.PlaceOrder(ctx, *m.order); err != nil {
		return fmt.Errorf("online payment: %w", err)
	}

	if err := m.cart.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	m.state = StateCompleted
	return nil
}

// buildOrder snapshots the cart and delivery details into the immutable
// order submitted to the backend.
func (m *Machine) buildOrder(method PaymentMethod) api.Order {
	identity, _ := m.session.Identity()

	paymentMethod := api.PaymentMethodCash
	if method == MethodOnline {
		paymentMethod = api.PaymentMethodOnline
	}

	items := m.cart.Items()
	orderItems := make([]api.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = api.OrderItem{
			FoodID:    item.FoodID,
			Name:      item.FoodName,
			HotelName: item.HotelName,
			Qty:       item.Qty,
			Price:     item.Price,
		}
	}

	return api.Order{
		UserID:        identity.ID,
		Name:          m.details.Name,
		Mobile:        m.details.Mobile,
		Address:       m.details.composedAddress(),
		PaymentMethod: paymentMethod,
		Subtotal:      formatAmount(m.Subtotal()),
		GST:           formatAmount(m.Tax()),
		Total:         formatAmount(m.Total()),
		Items:         orderItems,
	}
}
