// Package session reads the credential written by a successful sign-in and
// uses it for follow-up API requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/goliatone/go-authform/pkg/storage"
)

// ErrNotLoggedIn is returned when no credential is stored.
var ErrNotLoggedIn = errors.New("session: not logged in")

// Manager wraps the durable store holding the access credential.
type Manager struct {
	store storage.Store
}

// New returns a Manager reading from store.
func New(store storage.Store) *Manager {
	return &Manager{store: store}
}

// LoggedIn reports whether the logged-in flag is set.
func (m *Manager) LoggedIn() bool {
	v, err := m.store.Get(storage.KeyLoggedIn)
	return err == nil && v == storage.LoggedInValue
}

// AccessToken returns the stored credential.
func (m *Manager) AccessToken() (string, error) {
	tok, err := m.store.Get(storage.KeyAccessToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && tok == "") {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	return tok, nil
}

// Client returns an HTTP client sending the stored credential as a bearer
// token. Requests made with ctx's HTTP client (oauth2.HTTPClient) are wrapped.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	tok, err := m.AccessToken()
	if err != nil {
		return nil, err
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: tok,
		TokenType:   "Bearer",
	})
	return oauth2.NewClient(ctx, src), nil
}

// Logout removes the credential and the logged-in flag.
func (m *Manager) Logout() error {
	if err := m.store.Delete(storage.KeyAccessToken, storage.KeyLoggedIn); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}
