package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/credstore"
	"fuelpay-terminal/internal/session"
	"fuelpay-terminal/internal/stubapi"
)

func newManager(t *testing.T) (*session.Manager, *credstore.Store, *stubapi.Server) {
	t.Helper()
	stub := stubapi.New()
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	store, err := credstore.New(t.TempDir())
	require.NoError(t, err)

	client := api.New(srv.URL, store, api.WithTimeout(5*time.Second))
	return session.NewManager(client, store), store, stub
}

func TestBootstrap_noStoredToken(t *testing.T) {
	mgr, _, _ := newManager(t)

	state, err := mgr.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateUnauthenticated, state)
}

func TestLoginThenBootstrap(t *testing.T) {
	mgr, store, stub := newManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Login(ctx, "09011112222", stub.Password))
	assert.Equal(t, session.StateAuthenticated, mgr.State())

	// Token persisted for the next launch
	tok, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	state, err := mgr.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StateAuthenticated, state)
	require.NotNil(t, mgr.CurrentUser())
	assert.Equal(t, stub.Phone, mgr.CurrentUser().PhoneNumber)
}

func TestLogin_normalizesPhoneNumber(t *testing.T) {
	mgr, _, stub := newManager(t)

	// Stub only accepts the 234-prefixed form; the local form must be
	// normalized before submission
	err := mgr.Login(context.Background(), "09011112222", stub.Password)
	require.NoError(t, err)
}

func TestLogin_invalidPhoneNeverReachesNetwork(t *testing.T) {
	mgr, _, stub := newManager(t)

	err := mgr.Login(context.Background(), "0901111222", stub.Password)
	require.Error(t, err)
	assert.Equal(t, 0, stub.Hits(api.EndpointLogin))
}

func TestLogin_badPasswordKeepsUnauthenticated(t *testing.T) {
	mgr, store, _ := newManager(t)

	err := mgr.Login(context.Background(), "09011112222", "wrong")
	require.Error(t, err)

	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, credstore.ErrNoToken)
}

func TestBootstrap_expiredTokenClearedLocally(t *testing.T) {
	mgr, store, stub := newManager(t)

	require.NoError(t, store.Save(stub.IssueToken(-time.Hour)))

	state, err := mgr.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateUnauthenticated, state)

	// Expired token is deleted without a network round trip
	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, credstore.ErrNoToken)
	assert.Equal(t, 0, stub.Hits(api.EndpointProfile))
}

func TestBootstrap_rejectedTokenInvalidatesSession(t *testing.T) {
	mgr, store, _ := newManager(t)

	// A token signed with the wrong key passes the local expiry pre-check
	// but is rejected upstream
	other := stubapi.New()
	other.Secret = []byte("some-other-secret")
	require.NoError(t, store.Save(other.IssueToken(time.Hour)))

	state, err := mgr.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateUnauthenticated, state)

	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, credstore.ErrNoToken)
}

func TestBootstrap_transientFailureKeepsToken(t *testing.T) {
	stub := stubapi.New()
	store, err := credstore.New(t.TempDir())
	require.NoError(t, err)

	// Point at a dead upstream
	client := api.New("http://127.0.0.1:1", store, api.WithTimeout(500*time.Millisecond))
	mgr := session.NewManager(client, store)

	require.NoError(t, store.Save(stub.IssueToken(time.Hour)))

	state, bootErr := mgr.Bootstrap(context.Background())
	assert.Error(t, bootErr)
	assert.Equal(t, session.StateUnauthenticated, state)

	// The token survives for the next launch
	_, loadErr := store.Load()
	assert.NoError(t, loadErr)
}

func TestLogout(t *testing.T) {
	mgr, store, stub := newManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Login(ctx, "09011112222", stub.Password))
	require.NoError(t, mgr.Logout())

	assert.Equal(t, session.StateUnauthenticated, mgr.State())
	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, credstore.ErrNoToken)
}
