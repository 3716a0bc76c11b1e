// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// ProfileFetcher fetches the caller's own profile with a bearer token; the
// API client satisfies it.
type ProfileFetcher interface {
	GetCurrentUser(
		ctx context.Context,
		token string,
	) (*user.UserResponse, error)
}

// Manager holds the current session in memory and mirrors every change to
// the store.
type Manager struct {
	store   *Store
	fetcher ProfileFetcher
	current *Session
}

func NewManager(store *Store, fetcher ProfileFetcher) (*Manager, error) {
	current, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:   store,
		fetcher: fetcher,
		current: current,
	}, nil
}

func (m *Manager) Current() *Session {
	return m.current
}

func (m *Manager) IsAuthenticated() bool {
	return m.current.IsAuthenticated()
}

func (m *Manager) IsAdmin() bool {
	return m.current.IsAdmin()
}

func (m *Manager) Login(auth *identity.AuthResponse) error {
	session := &Session{
		User:  auth.User,
		Token: auth.Token,
	}

	if err := m.store.Save(session); err != nil {
		return err
	}

	m.current = session
	return nil
}

func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}

	m.current = nil
	return nil
}

// Refresh re-fetches the profile so locally cached eco-points and credits
// catch up with awards that happened server-side.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	profile, err := m.fetcher.GetCurrentUser(
		ctx,
		m.current.Token.AccessToken,
	)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	next := &Session{
		User:  *profile,
		Token: m.current.Token,
	}

	if err := m.store.Save(next); err != nil {
		return err
	}

	m.current = next
	return nil
}

func (m *Manager) AccessToken() string {
	if !m.IsAuthenticated() {
		return ""
	}
	return m.current.Token.AccessToken
}
