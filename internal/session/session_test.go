// AngelaMos | 2026
// session_test.go

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

func validSession() *Session {
	return &Session{
		User: user.UserResponse{
			ID:    "u-1",
			Email: "jo@example.com",
			Name:  "Jo Citizen",
			Role:  user.RoleUser,
		},
		Token: identity.TokenResponse{
			AccessToken: "token-123",
			TokenType:   "Bearer",
			ExpiresIn:   900,
			ExpiresAt:   time.Now().Add(15 * time.Minute),
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(validSession()))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u-1", loaded.User.ID)
	assert.Equal(t, "token-123", loaded.Token.AccessToken)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CorruptedFileIsPurged(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	path := filepath.Join(dir, sessionFileName)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt file must be removed")
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(validSession()))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// clearing an already-clear store is fine
	require.NoError(t, store.Clear())
}

func TestSession_IsAuthenticated(t *testing.T) {
	assert.False(t, (*Session)(nil).IsAuthenticated())

	s := validSession()
	assert.True(t, s.IsAuthenticated())

	s.Token.ExpiresAt = time.Now().Add(-time.Minute)
	assert.False(t, s.IsAuthenticated(), "expired token is not authenticated")

	s = validSession()
	s.Token.AccessToken = ""
	assert.False(t, s.IsAuthenticated())
}

func TestSession_IsAdmin(t *testing.T) {
	s := validSession()
	assert.False(t, s.IsAdmin())

	s.User.Role = user.RoleAdmin
	assert.True(t, s.IsAdmin())
}

type stubFetcher struct {
	profile *user.UserResponse
	gotTok  string
}

func (s *stubFetcher) GetCurrentUser(
	_ context.Context,
	token string,
) (*user.UserResponse, error) {
	s.gotTok = token
	return s.profile, nil
}

func TestManager_LoginLogout(t *testing.T) {
	store := NewStore(t.TempDir())
	manager, err := NewManager(store, &stubFetcher{})
	require.NoError(t, err)

	assert.False(t, manager.IsAuthenticated())
	assert.Empty(t, manager.AccessToken())

	s := validSession()
	require.NoError(t, manager.Login(&identity.AuthResponse{
		User:  s.User,
		Token: s.Token,
	}))

	assert.True(t, manager.IsAuthenticated())
	assert.Equal(t, "token-123", manager.AccessToken())

	// a fresh manager picks the session up from disk
	reloaded, err := NewManager(store, &stubFetcher{})
	require.NoError(t, err)
	assert.True(t, reloaded.IsAuthenticated())

	require.NoError(t, manager.Logout())
	assert.False(t, manager.IsAuthenticated())

	reloaded, err = NewManager(store, &stubFetcher{})
	require.NoError(t, err)
	assert.False(t, reloaded.IsAuthenticated())
}

func TestManager_Refresh(t *testing.T) {
	store := NewStore(t.TempDir())
	fetcher := &stubFetcher{
		profile: &user.UserResponse{
			ID:        "u-1",
			Email:     "jo@example.com",
			Name:      "Jo Citizen",
			Role:      user.RoleUser,
			EcoPoints: 50,
		},
	}

	manager, err := NewManager(store, fetcher)
	require.NoError(t, err)

	s := validSession()
	require.NoError(t, manager.Login(&identity.AuthResponse{
		User:  s.User,
		Token: s.Token,
	}))

	require.NoError(t, manager.Refresh(context.Background()))

	assert.Equal(t, "token-123", fetcher.gotTok)
	assert.Equal(t, 50, manager.Current().User.EcoPoints)
	assert.Equal(t, "token-123", manager.AccessToken(), "token survives refresh")

	// refreshed profile is persisted
	reloaded, err := NewManager(store, fetcher)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Current().User.EcoPoints)
}

func TestManager_RefreshWhileLoggedOut(t *testing.T) {
	manager, err := NewManager(NewStore(t.TempDir()), &stubFetcher{})
	require.NoError(t, err)

	require.ErrorIs(
		t,
		manager.Refresh(context.Background()),
		ErrNotAuthenticated,
	)
}
