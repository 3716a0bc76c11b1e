// AngelaMos | 2026
// session.go

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

// The fixed filename mirrors the storage key the web client always used, so
// a session written by one CLI invocation is found by the next.
const sessionFileName = "rubbish_auth_user.json"

// Session is the locally persisted login state.
type Session struct {
	User  user.UserResponse      `json:"user"`
	Token identity.TokenResponse `json:"token"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil &&
		s.Token.AccessToken != "" &&
		time.Now().Before(s.Token.ExpiresAt)
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == user.RoleAdmin
}

// Store persists the session as a single JSON file.
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, sessionFileName)}
}

// Load reads the persisted session. A missing or corrupted file is not an
// error: corruption purges the file and leaves the caller logged out.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		//nolint:errcheck // purging a corrupt file is best-effort
		_ = os.Remove(s.path)
		return nil, nil
	}

	return &session, nil
}

// Save writes atomically so a crash mid-write never leaves a half-written
// session behind.
func (s *Store) Save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		//nolint:errcheck // cleanup of the temp file is best-effort
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
