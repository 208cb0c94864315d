// Package session persists the signed-in user's credentials on disk as a
// single opaque blob. It is loaded once at startup to decide whether the
// user is signed in and to supply the ledger's userKey, and cleared
// entirely on sign-out. The Session value is passed explicitly to whatever
// needs the identity; nothing reads ambient state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotSignedIn is returned by Load when no session exists.
var ErrNotSignedIn = errors.New("not signed in")

// Session holds the persisted credentials of the signed-in user.
type Session struct {
	// Email is the account email, used as the friend-collection key.
	Email string `json:"email"`

	// Name is the account display name.
	Name string `json:"name"`

	// Token is the server session token.
	Token string `json:"token"`
}

// Store reads and writes the session blob at a fixed path.
type Store struct {
	path string
}

// NewStore creates a session store rooted at dir (typically the user
// config directory).
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "session.json")}
}

// DefaultStore places the session under the OS user config directory.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return NewStore(filepath.Join(dir, "splitmate")), nil
}

// Load reads the stored session. Returns ErrNotSignedIn when none exists.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if sess.Email == "" || sess.Token == "" {
		return nil, ErrNotSignedIn
	}

	return &sess, nil
}

// Save writes the session blob, creating the directory if needed. The
// file is user-only: it contains a live token.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the session entirely. Clearing an absent session is fine.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
