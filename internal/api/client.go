package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biteroute/storefront/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client issues requests to the backend collaborator.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource attaches a credential source. When it returns a
// non-empty token, requests carry it as a bearer Authorization header.
func WithTokenSource(token func() string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult is the outcome of the unified login endpoint. The backend
// detects the role from the credentials and returns the matching account
// payload (customers and admins under "user", owners under "owner").
type LoginResult struct {
	Token    string
	Identity session.Identity
}

// Login exchanges credentials for a token and identity.
// It performs no local state change; the caller records the result in the
// session store.
func (c *Client) Login(ctx context.Context, contact, password string) (LoginResult, error) {
	payload := map[string]string{
		"contact":  strings.TrimSpace(contact),
		"password": strings.TrimSpace(password),
	}

	var resp struct {
		Message string            `json:"message"`
		Token   string            `json:"token"`
		Role    session.Role      `json:"role"`
		User    *session.Identity `json:"user"`
		Owner   *session.Identity `json:"owner"`
	}
	if err := c.postJSON(ctx, "/api/common/login/", payload, &resp); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	identity := resp.User
	if resp.Role == session.RoleHotel {
		identity = resp.Owner
	}
	if identity == nil {
		return LoginResult{}, fmt.Errorf("login: response missing account payload")
	}
	identity.Role = resp.Role

	return LoginResult{Token: resp.Token, Identity: *identity}, nil
}

// SendReceipt asks the backend to email a receipt for the order.
// Fire-and-forget from the checkout flow's perspective.
func (c *Client) SendReceipt(ctx context.Context, order Order) error {
	if err := c.postJSON(ctx, "/api/send-receipt/", order, nil); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	return nil
}

// PlaceOrder persists the order on the backend.
func (c *Client) PlaceOrder(ctx context.Context, order Order) error {
	if err := c.postJSON(ctx, "/api/orders/place/", order, nil); err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	return nil
}

// CreatePaymentOrder registers the online payment amount with the
// simulated gateway. Amount is the 2-decimal total string.
func (c *Client) CreatePaymentOrder(ctx context.Context, amount string) error {
	payload := map[string]string{"amount": amount}
	if err := c.postJSON(ctx, "/api/cashfree/create-order/", payload, nil); err != nil {
		return fmt.Errorf("create payment order: %w", err)
	}
	return nil
}

// SearchFood queries the catalog for foods of a diet category matching
// name, offered by approved hotels in location.
func (c *Client) SearchFood(ctx context.Context, foodType, food, location string) ([]FoodResult, error) {
	q := url.Values{}
	q.Set("type", foodType)
	q.Set("food", food)
	q.Set("location", location)

	var results []FoodResult
	if err := c.getJSON(ctx, "/api/user/search-food/?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("search food: %w", err)
	}
	return results, nil
}

// HotelCount returns how many hotels the authenticated owner has
// registered. Consumed by the owner-facing count display.
func (c *Client) HotelCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, "/api/hotel/count/", &resp); err != nil {
		return 0, fmt.Errorf("hotel count: %w", err)
	}
	return resp.Count, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the backend's message field when present
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, errBody.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
