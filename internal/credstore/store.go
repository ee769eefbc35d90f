package credstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrNoToken means no credential is stored. Callers treat this as the
// unauthenticated case, not as a failure.
var ErrNoToken = errors.New("no stored token")

const (
	tokenFile = "token.bin"
	keyFile   = "store.key"
)

// Store persists the opaque bearer token encrypted at rest. The sealing key
// lives next to the token file; both are private to the terminal user.
type Store struct {
	dir string
}

// New creates a credential store rooted at dir, creating it if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credstore dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save encrypts and writes the bearer token
func (s *Store) Save(token string) error {
	key, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	if err := os.WriteFile(s.tokenPath(), sealed, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load decrypts and returns the stored bearer token. Returns ErrNoToken when
// nothing is stored.
func (s *Store) Load() (string, error) {
	sealed, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token: %w", err)
	}

	key, err := s.loadOrCreateKey()
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return "", errors.New("stored token is corrupt")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}
	return string(plain), nil
}

// Delete removes the stored token. Deleting an empty store is a no-op.
func (s *Store) Delete() error {
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when none is stored. This is
// the read path used by the HTTP transport on every request.
func (s *Store) Token() string {
	tok, err := s.Load()
	if err != nil {
		return ""
	}
	return tok
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dir, tokenFile)
}

func (s *Store) keyPath() string {
	return filepath.Join(s.dir, keyFile)
}

func (s *Store) loadOrCreateKey() ([]byte, error) {
	key, err := os.ReadFile(s.keyPath())
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, errors.New("sealing key is corrupt")
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read sealing key: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate sealing key: %w", err)
	}
	if err := os.WriteFile(s.keyPath(), key, 0o600); err != nil {
		return nil, fmt.Errorf("write sealing key: %w", err)
	}
	return key, nil
}
