package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/monitoring"
)

const defaultTimeout = 30 * time.Second

// Client is the typed REST client for the fuel-wallet API. All responses are
// decoded into explicit schemas at this boundary; callers never see raw maps.
type Client struct {
	baseURL   string
	http      *http.Client
	transport *authTransport
}

// Option customizes the client
type Option func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API at baseURL. The token source is consulted
// on every request; an empty token sends the request unauthenticated.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	transport := &authTransport{tokens: tokens}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers the hook invoked when a non-login call comes back
// 401 with a token attached
func (c *Client) OnUnauthorized(fn func()) {
	c.transport.onUnauthorized = fn
}

// Login authenticates the attendant. PhoneNumber must already carry the 234
// international prefix.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, EndpointLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the authenticated attendant's profile
func (c *Client) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	var resp models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, EndpointProfile, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyFuelToken submits a fuel token for verification
func (c *Client) VerifyFuelToken(ctx context.Context, req models.VerifyFuelTokenRequest) error {
	return c.do(ctx, http.MethodPost, EndpointVerifyToken, req, nil)
}

// Dispense redeems a dispense token for the selected service
func (c *Client) Dispense(ctx context.Context, req models.DispenseRequest) (*models.PaymentResponse, error) {
	var resp models.PaymentResponse
	if err := c.do(ctx, http.MethodPost, EndpointDispense, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BuyFuel charges the customer wallet for a fuel purchase
func (c *Client) BuyFuel(ctx context.Context, req models.BuyFuelRequest) (*models.PaymentResponse, error) {
	var resp models.PaymentResponse
	if err := c.do(ctx, http.MethodPost, EndpointBuyFuel, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reports fetches one page of transaction history
func (c *Client) Reports(ctx context.Context, page, limit int) (*models.ReportsResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp models.ReportsResponse
	if err := c.do(ctx, http.MethodGet, EndpointReports+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportMetrics fetches the aggregate transaction metrics
func (c *Client) ReportMetrics(ctx context.Context) (*models.ReportMetrics, error) {
	var resp models.ReportMetrics
	if err := c.do(ctx, http.MethodGet, EndpointReportMetrics, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one request and decodes the response into out (which may be nil
// for calls whose body the terminal ignores)
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := path
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.ObserveUpstreamRequest(endpoint, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	monitoring.ObserveUpstreamRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
