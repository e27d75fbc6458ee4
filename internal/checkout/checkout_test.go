package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biteroute/storefront/internal/api"
	"github.com/biteroute/storefront/internal/bus"
	"github.com/biteroute/storefront/internal/cart"
	"github.com/biteroute/storefront/internal/session"
	"github.com/biteroute/storefront/internal/store"
	"github.com/biteroute/storefront/internal/testutil"
)

type fixture struct {
	cart    *cart.Store
	session *session.Store
	bus     *bus.Bus
	backend *testutil.Backend
	client  *api.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)

	b := bus.New()
	c := cart.New(kv, b)
	require.NoError(t, c.Load(context.Background()))

	return &fixture{
		cart:    c,
		session: session.New(kv),
		bus:     b,
		backend: backend,
		client:  api.New(backend.URL()),
	}
}

func (f *fixture) loginCustomer(t *testing.T) {
	t.Helper()
	identity := session.Identity{ID: 7, Name: "Asha", Contact: "asha@example.com", Role: session.RoleUser}
	require.NoError(t, f.session.Login(context.Background(), identity, "tok"))
}

func (f *fixture) addBiryani(t *testing.T, times int) {
	t.Helper()
	item := cart.LineItem{FoodID: 1, HotelName: "Spice House", FoodName: "Chicken Biryani", Price: 100}
	for i := 0; i < times; i++ {
		require.NoError(t, f.cart.Add(context.Background(), item))
	}
}

func (f *fixture) newMachine(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	payee := Payee{VPA: "biteroute@upi", Name: "BiteRoute", Currency: "INR"}
	opts = append([]Option{WithProcessingDelay(0)}, opts...)
	m, err := New(f.cart, f.session, f.client, payee, opts...)
	require.NoError(t, err)
	return m
}

func completeDetails() DeliveryDetails {
	return DeliveryDetails{
		Name:    "Asha",
		Mobile:  "9876543210",
		HouseNo: "12",
		Area:    "MG Road",
		City:    "Mysuru",
		Pincode: "570001",
	}
}

func TestNew_EmptyCartIsRejected(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)

	_, err := New(f.cart, f.session, f.client, Payee{})
	assert.ErrorIs(t, err, ErrCartEmpty, "no machine may exist over zero items")
}

// Scenario: add the same item twice, then check the money pipeline.
func TestMoney_DoubleAddOfSameItem(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 2)

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)

	m := f.newMachine(t)
	assert.InDelta(t, 200.0, m.Subtotal(), 1e-9)
	assert.InDelta(t, 10.0, m.Tax(), 1e-9)
	assert.InDelta(t, 210.0, m.Total(), 1e-9)
}

func TestTax_RoundsOnceAtBoundary(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	require.NoError(t, f.cart.Add(context.Background(),
		cart.LineItem{FoodID: 9, FoodName: "Odd Priced", HotelName: "H", Price: 99.99}))
	require.NoError(t, f.cart.Increment(context.Background(), 9))
	require.NoError(t, f.cart.Increment(context.Background(), 9))

	m := f.newMachine(t)

	// subtotal 299.97 accumulates unrounded; 5% = 14.9985 rounds to 15.00
	assert.InDelta(t, 299.97, m.Subtotal(), 1e-9)
	assert.InDelta(t, 15.0, m.Tax(), 1e-9)
	assert.Equal(t, "299.97", formatAmount(m.Subtotal()))
	assert.Equal(t, "15.00", formatAmount(m.Tax()))
	assert.Equal(t, "314.97", formatAmount(m.Total()))
}

func TestSubmitDetails_MissingCityBlocks(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	m := f.newMachine(t)

	details := completeDetails()
	details.City = ""
	err := m.SubmitDetails(details)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Contains(t, blocked.Reason, "delivery details")
	assert.Equal(t, StateDeliveryFormPending, m.State(), "blocked validation must not change state")
	assert.Empty(t, f.backend.Calls(), "no backend call may be issued before ReadyToSubmit")

	// Correcting the input recovers
	require.NoError(t, m.SubmitDetails(completeDetails()))
	assert.Equal(t, StateReadyToSubmit, m.State())
}

func TestSubmitDetails_LandmarkIsOptional(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	m := f.newMachine(t)

	details := completeDetails()
	details.Landmark = ""
	assert.NoError(t, m.SubmitDetails(details))
}

func TestSubmitDetails_AnonymousRedirectsToLogin(t *testing.T) {
	f := newFixture(t)
	f.addBiryani(t, 1)
	m := f.newMachine(t)

	err := m.SubmitDetails(completeDetails())
	assert.ErrorIs(t, err, ErrLoginRequired, "missing identity is a redirect, not a validation error")
	assert.Equal(t, StateDeliveryFormPending, m.State())
}

func TestCashCheckout_CompletesAndClearsCart(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 2)

	cartChanged := 0
	f.bus.Subscribe(bus.TopicCartChanged, func() { cartChanged++ })

	m := f.newMachine(t)
	require.NoError(t, m.SubmitDetails(completeDetails()))

	request, err := m.PlaceOrder(context.Background(), MethodCash)
	require.NoError(t, err)
	assert.Nil(t, request, "cash path has no scan step")

	assert.Equal(t, StateCompleted, m.State())
	assert.Empty(t, f.cart.Items())
	assert.Equal(t, 1, cartChanged, "cart-changed published exactly once")

	assert.Equal(t, 1, f.backend.CallsTo("/api/send-receipt/"))
	assert.Equal(t, 1, f.backend.CallsTo("/api/orders/place/"))
	assert.Zero(t, f.backend.CallsTo("/api/cashfree/create-order/"))

	var sent api.Order
	require.True(t, f.backend.LastBody("/api/orders/place/", &sent))
	assert.Equal(t, int64(7), sent.UserID)
	assert.Equal(t, api.PaymentMethodCash, sent.PaymentMethod)
	assert.Equal(t, "200.00", sent.Subtotal)
	assert.Equal(t, "10.00", sent.GST)
	assert.Equal(t, "210.00", sent.Total)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, 2, sent.Items[0].Qty)
}

func TestCashCheckout_BackendFailureStillClearsCart(t *testing.T) {
	// The cash path clears the cart after issuing, not after confirming,
	// the backend calls. A failure silently loses the items: observed
	// behavior of the original client, preserved as specified.
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	f.backend.FailWith("/api/orders/place/", 500)

	m := f.newMachine(t)
	require.NoError(t, m.SubmitDetails(completeDetails()))

	_, err := m.PlaceOrder(context.Background(), MethodCash)
	require.NoError(t, err, "cash-path backend failures never propagate")

	assert.Equal(t, StateCompleted, m.State())
	assert.Empty(t, f.cart.Items())
}

func TestOnlineCheckout_HappyPath(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 2)

	cartChanged := 0
	f.bus.Subscribe(bus.TopicCartChanged, func() { cartChanged++ })

	m := f.newMachine(t)
	require.NoError(t, m.SubmitDetails(completeDetails()))

	request, err := m.PlaceOrder(context.Background(), MethodOnline)
	require.NoError(t, err)
	require.NotNil(t, request)

	assert.Equal(t, StateOnlineAwaitingScan, m.State())
	assert.Contains(t, request.URI, "am=210.00")
	assert.Equal(t, "210.00", request.Amount)
	assert.Empty(t, f.backend.Calls(), "no backend call before the user confirms")
	assert.Len(t, f.cart.Items(), 1, "cart intact while awaiting scan")

	require.NoError(t, m.ConfirmPayment(context.Background()))

	assert.Equal(t, StateCompleted, m.State())
	assert.Empty(t, f.cart.Items())
	assert.Equal(t, 1, cartChanged)

	assert.Equal(t, 1, f.backend.CallsTo("/api/cashfree/create-order/"))
	assert.Equal(t, 1, f.backend.CallsTo("/api/send-receipt/"))
	assert.Equal(t, 1, f.backend.CallsTo("/api/orders/place/"))

	var payment map[string]string
	require.True(t, f.backend.LastBody("/api/cashfree/create-order/", &payment))
	assert.Equal(t, "210.00", payment["amount"])

	var sent api.Order
	require.True(t, f.backend.LastBody("/api/orders/place/", &sent))
	assert.Equal(t, api.PaymentMethodOnline, sent.PaymentMethod)
}

func TestOnlineCheckout_GatewayFailureKeepsCartAndState(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	f.backend.FailWith("/api/cashfree/create-order/", 502)

	m := f.newMachine(t)
	require.NoError(t, m.SubmitDetails(completeDetails()))
	_, err := m.PlaceOrder(context.Background(), MethodOnline)
	require.NoError(t, err)

	err = m.ConfirmPayment(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateOnlineConfirming, m.State(), "no rollback to awaiting-scan, no retry")
	assert.Len(t, f.cart.Items(), 1, "cart untouched on online failure")
	assert.Zero(t, f.backend.CallsTo("/api/orders/place/"), "sequence stops at the first failure")
}

func TestOnlineCheckout_PersistFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	f.backend.FailWith("/api/orders/place/", 500)

	m := f.newMachine(t)
	require.NoError(t, m.SubmitDetails(completeDetails()))
	_, err := m.PlaceOrder(context.Background(), MethodOnline)
	require.NoError(t, err)

	require.Error(t, m.ConfirmPayment(context.Background()))
	assert.Equal(t, StateOnlineConfirming, m.State())
	assert.Len(t, f.cart.Items(), 1)
}

func TestTransitionGuards(t *testing.T) {
	f := newFixture(t)
	f.loginCustomer(t)
	f.addBiryani(t, 1)
	m := f.newMachine(t)
	ctx := context.Background()

	// PlaceOrder before details
	_, err := m.PlaceOrder(ctx, MethodCash)
	assert.Error(t, err)

	// ConfirmPayment without a pending online order
	assert.Error(t, m.ConfirmPayment(ctx))

	require.NoError(t, m.SubmitDetails(completeDetails()))

	// Resubmitting details from ReadyToSubmit
	assert.Error(t, m.SubmitDetails(completeDetails()))

	// Unknown payment method
	_, err = m.PlaceOrder(ctx, PaymentMethod("wire"))
	assert.Error(t, err)
	assert.Equal(t, StateReadyToSubmit, m.State())

	// Completed is terminal
	_, err = m.PlaceOrder(ctx, MethodCash)
	require.NoError(t, err)
	_, err = m.PlaceOrder(ctx, MethodCash)
	assert.Error(t, err)
}

func TestComposedAddress(t *testing.T) {
	details := completeDetails()
	assert.Equal(t,
		"\nHouse No: 12,\nArea: MG Road,\nLandmark: N/A,\nCity: Mysuru,\nPincode: 570001\n",
		details.composedAddress())

	details.Landmark = "Near Clock Tower"
	assert.Equal(t,
		"\nHouse No: 12,\nArea: MG Road,\nLandmark: Near Clock Tower,\nCity: Mysuru,\nPincode: 570001\n",
		details.composedAddress())
}
