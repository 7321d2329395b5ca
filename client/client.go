// Package client is the typed gateway to the gas delivery API. It hides
// transport details behind operation methods, performs no caching and no
// retries, and surfaces every failure as one of the error kinds in errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gas-delivery-api/models"
)

// Client talks to one gas delivery API deployment. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Profile is the signup profile payload.
type Profile struct {
	FullName string          `json:"full_name"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role"`
}

// AuthResult is returned by SignUp and SignIn.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignUp creates a customer account. Driver signups are refused before any
// network call; the server enforces the same rule independently.
func (c *Client) SignUp(ctx context.Context, email, password string, profile Profile) (*AuthResult, error) {
	if profile.Role == models.RoleDriver {
		return nil, &ValidationError{Message: "Drivers cannot create accounts. Please sign in."}
	}
	body := map[string]any{
		"email":     email,
		"password":  password,
		"full_name": profile.FullName,
		"phone":     profile.Phone,
	}
	if profile.Role != "" {
		body["role"] = profile.Role
	}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignIn resolves the current user on success and installs the session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignOut invalidates the session token. The token itself is stateless, so
// discarding it is the whole operation.
func (c *Client) SignOut(ctx context.Context) error {
	c.SetToken("")
	return nil
}

// CurrentUser resolves the profile behind the installed token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	return c.CurrentUser(ctx)
}

// ProfilePatch holds the mutable profile fields.
type ProfilePatch struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateProfile updates name and phone for the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/profile", patch, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// CreateOrderInput is the order form payload.
type CreateOrderInput struct {
	CylinderSize    int    `json:"cylinder_size"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes,omitempty"`
}

// CreateOrder places a new order for the authenticated customer.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	var out struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/customer/orders", input, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// ListCustomerOrders returns the customer's orders, newest first.
func (c *Client) ListCustomerOrders(ctx context.Context) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/customer/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder returns one of the customer's orders with its status history.
func (c *Client) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var out struct {
		Order *models.Order `json:"order"`
	}
	path := fmt.Sprintf("/api/customer/orders/%d", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// CancelOrder cancels a pending or accepted order owned by the customer.
func (c *Client) CancelOrder(ctx context.Context, orderID uint) error {
	path := fmt.Sprintf("/api/customer/orders/%d/cancel", orderID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// ListAvailableOrders returns unclaimed pending orders, newest first.
func (c *Client) ListAvailableOrders(ctx context.Context) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/driver/orders/available", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetActiveDelivery returns the driver's single in-flight order, or a
// NotFoundError when there is none.
func (c *Client) GetActiveDelivery(ctx context.Context) (*models.Order, error) {
	var out struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/driver/orders/active", nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// AcceptOrder claims a pending order for the authenticated driver. Losing a
// race for the order surfaces as a ConflictError.
func (c *Client) AcceptOrder(ctx context.Context, orderID uint) error {
	path := fmt.Sprintf("/api/driver/orders/%d/accept", orderID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// UpdateOrderStatus moves the driver's delivery to the next status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	path := fmt.Sprintf("/api/driver/orders/%d/status", orderID)
	body := map[string]any{"status": status}
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// EarningsResult is the driver earnings listing with its running total.
type EarningsResult struct {
	Total    float64                `json:"total"`
	Earnings []models.DriverEarning `json:"earnings"`
}

// DriverEarnings lists the driver's earnings, optionally filtered by period.
func (c *Client) DriverEarnings(ctx context.Context, period models.EarningPeriod) (*EarningsResult, error) {
	path := "/api/driver/earnings"
	if period != "" {
		path += "?period=" + string(period)
	}
	var out EarningsResult
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SafetyTips returns the newest safety content.
func (c *Client) SafetyTips(ctx context.Context) ([]models.SafetyTip, error) {
	var out struct {
		Tips []models.SafetyTip `json:"tips"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/safety-tips", nil, &out); err != nil {
		return nil, err
	}
	return out.Tips, nil
}

// LoyaltyPoints returns the customer's loyalty balance.
func (c *Client) LoyaltyPoints(ctx context.Context) (int, error) {
	var out struct {
		Points int `json:"points"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/customer/loyalty", nil, &out); err != nil {
		return 0, err
	}
	return out.Points, nil
}

// do performs one request: marshal body, send, classify failures, decode out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ValidationError{Message: "encode request: " + err.Error()}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		return classify(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
