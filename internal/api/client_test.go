package api_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/stubapi"
)

type staticTokens struct {
	tok string
}

func (s *staticTokens) Token() string { return s.tok }

func newTestClient(t *testing.T) (*api.Client, *stubapi.Server, *staticTokens) {
	t.Helper()
	stub := stubapi.New()
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	tokens := &staticTokens{}
	client := api.New(srv.URL, tokens, api.WithTimeout(5*time.Second))
	return client, stub, tokens
}

func TestLogin(t *testing.T) {
	client, stub, _ := newTestClient(t)

	resp, err := client.Login(context.Background(), models.LoginRequest{
		PhoneNumber: stub.Phone,
		Password:    stub.Password,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogin_badCredentialsSurfacesServerMessage(t *testing.T) {
	client, stub, _ := newTestClient(t)

	_, err := client.Login(context.Background(), models.LoginRequest{
		PhoneNumber: stub.Phone,
		Password:    "wrong",
	})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, "invalid phone number or password", apiErr.Message)
}

func TestProfile_attachesBearer(t *testing.T) {
	client, stub, tokens := newTestClient(t)
	tokens.tok = stub.IssueToken(time.Hour)

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stub.Phone, profile.User.PhoneNumber)
	assert.True(t, profile.User.IsAdmin())
}

func TestUnauthorized_invokesInvalidationHook(t *testing.T) {
	client, _, tokens := newTestClient(t)
	tokens.tok = "not-a-valid-token"

	invalidated := false
	client.OnUnauthorized(func() { invalidated = true })

	_, err := client.Profile(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Unauthorized())
	assert.True(t, invalidated)
}

func TestUnauthorized_loginCallDoesNotInvalidate(t *testing.T) {
	client, stub, tokens := newTestClient(t)
	tokens.tok = "stale-token-from-previous-session"

	invalidated := false
	client.OnUnauthorized(func() { invalidated = true })

	_, err := client.Login(context.Background(), models.LoginRequest{
		PhoneNumber: stub.Phone,
		Password:    "wrong",
	})
	require.Error(t, err)
	assert.False(t, invalidated, "failed login must not invalidate the stored session")
}

func TestUnauthorized_withoutTokenDoesNotInvalidate(t *testing.T) {
	client, _, _ := newTestClient(t)

	invalidated := false
	client.OnUnauthorized(func() { invalidated = true })

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.False(t, invalidated, "there is no session to invalidate")
}

func TestVerifyFuelToken(t *testing.T) {
	client, stub, tokens := newTestClient(t)
	tokens.tok = stub.IssueToken(time.Hour)

	require.NoError(t, client.VerifyFuelToken(context.Background(), models.VerifyFuelTokenRequest{FuelToken: "1234567"}))

	err := client.VerifyFuelToken(context.Background(), models.VerifyFuelTokenRequest{FuelToken: "0000000"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid fuel token", apiErr.Message)
}

func TestBuyFuel(t *testing.T) {
	client, stub, tokens := newTestClient(t)
	tokens.tok = stub.IssueToken(time.Hour)

	resp, err := client.BuyFuel(context.Background(), models.BuyFuelRequest{
		WalletID: "2349011112222",
		Amount:   5000,
		PIN:      stub.PIN,
	})
	require.NoError(t, err)
	assert.Equal(t, "5000.00", resp.Payments.Amount)
	assert.False(t, resp.Settings.IgnoreDispenseToken)
}

func TestReports_pagination(t *testing.T) {
	client, stub, tokens := newTestClient(t)
	tokens.tok = stub.IssueToken(time.Hour)

	for i := 0; i < 3; i++ {
		stub.Reports = append(stub.Reports, models.ReportEntry{ID: "r", Amount: "100.00"})
	}

	resp, err := client.Reports(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 2)
	assert.Equal(t, 3, resp.Meta.TotalCount)
}

func TestTransportError_isNotAPIError(t *testing.T) {
	tokens := &staticTokens{}
	client := api.New("http://127.0.0.1:1", tokens, api.WithTimeout(500*time.Millisecond))

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	var apiErr *api.APIError
	assert.False(t, errors.As(err, &apiErr))
}
