package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/credstore"
	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/token"
)

// State is the session lifecycle state
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// ErrNotAuthenticated is returned by operations that need a live session
var ErrNotAuthenticated = errors.New("not authenticated")

// Manager owns the session lifecycle: bootstrap on launch, login, logout and
// 401-driven invalidation. It is the only writer of the credential store.
type Manager struct {
	api   *api.Client
	store *credstore.Store

	mu    sync.Mutex
	state State
	user  *models.User
}

// NewManager wires a session manager to the API client and credential store.
// The client's 401 hook is pointed at Invalidate.
func NewManager(client *api.Client, store *credstore.Store) *Manager {
	m := &Manager{
		api:   client,
		store: store,
		state: StateInitializing,
	}
	client.OnUnauthorized(m.Invalidate)
	return m
}

// State returns the current session state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the profile loaded during bootstrap, if any
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Bootstrap resolves the initial session state. A stored token that passes
// the expiry pre-check and a successful profile fetch yields authenticated;
// everything else yields unauthenticated. The terminal never stays in the
// initializing state after Bootstrap returns. The stored token is deleted
// only when the server explicitly rejected it; a transient fetch failure
// keeps it for the next launch.
func (m *Manager) Bootstrap(ctx context.Context) (State, error) {
	tok, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, credstore.ErrNoToken) {
			log.Printf("[Session] credential load failed: %v", err)
		}
		return m.setState(StateUnauthenticated, nil), nil
	}

	if tokenExpired(tok) {
		log.Printf("[Session] stored token expired, clearing")
		m.store.Delete()
		return m.setState(StateUnauthenticated, nil), nil
	}

	profile, err := m.api.Profile(ctx)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			// The transport hook already deleted the credential
			return m.setState(StateUnauthenticated, nil), nil
		}
		return m.setState(StateUnauthenticated, nil), fmt.Errorf("profile fetch: %w", err)
	}

	return m.setState(StateAuthenticated, &profile.User), nil
}

// Login authenticates the attendant with the 11-digit phone number and
// password, and persists the returned access token
func (m *Manager) Login(ctx context.Context, phone, password string) error {
	if err := token.ValidatePhoneNumber(phone); err != nil {
		return err
	}
	if password == "" {
		return errors.New("password is required")
	}

	normalized, err := token.NormalizeWalletID(phone)
	if err != nil {
		return err
	}

	resp, err := m.api.Login(ctx, models.LoginRequest{
		PhoneNumber: normalized,
		Password:    password,
	})
	if err != nil {
		return err
	}

	if err := m.store.Save(resp.AccessToken); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	m.setState(StateAuthenticated, nil)
	return nil
}

// Logout deletes the credential and drops to unauthenticated
func (m *Manager) Logout() error {
	if err := m.store.Delete(); err != nil {
		return err
	}
	m.setState(StateUnauthenticated, nil)
	return nil
}

// Invalidate handles an inbound 401: the token is gone server-side, so the
// local copy is deleted and the session dropped
func (m *Manager) Invalidate() {
	log.Printf("[Session] token rejected upstream, invalidating session")
	if err := m.store.Delete(); err != nil {
		log.Printf("[Session] credential delete failed: %v", err)
	}
	m.setState(StateUnauthenticated, nil)
}

func (m *Manager) setState(s State, user *models.User) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	if s != StateAuthenticated {
		m.user = nil
	} else if user != nil {
		m.user = user
	}
	return s
}

// tokenExpired pre-checks the exp claim of a JWT-shaped token without
// verifying the signature (the terminal does not hold the signing key).
// Opaque tokens pass through; the server remains the authority.
func tokenExpired(tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
