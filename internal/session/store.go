// Package session owns the persisted bearer token and the identity derived
// from it. The store is the single authority over session state; everything
// else subscribes instead of polling shared storage.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fixed file names under the config dir. Token and user id mirror the two
// storage keys the backend contract expects on the client side; returnTo keeps
// the path a denied navigation was headed to.
const (
	tokenFileName    = "token.json"
	userIDFileName   = "user_id"
	returnToFileName = "return_to"
)

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"` // diagnostics only, never enforced
}

// Store persists session state as flat files under the user config dir.
type Store struct {
	dir string
}

// NewStore returns a store rooted at the shopctl config dir
// ($XDG_CONFIG_HOME/shopctl or ~/.config/shopctl).
func NewStore() *Store {
	return &Store{dir: cfgDir()}
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopctl")
}

func (s *Store) tokenPath() string { return filepath.Join(s.dir, tokenFileName) }

// Token returns the persisted token, or "" if none is stored. Expired tokens
// are returned as-is: expiry is enforced by the backend, not locally.
func (s *Store) Token() string {
	b, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return ""
	}
	return tf.AccessToken
}

// SaveToken persists the token. exp is recorded for diagnostics only.
func (s *Store) SaveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), b, 0o600)
}

// UserID returns the cached user id of the last successful claim decode.
func (s *Store) UserID() string {
	b, err := os.ReadFile(filepath.Join(s.dir, userIDFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// SaveUserID caches the derived user id next to the token.
func (s *Store) SaveUserID(uid string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userIDFileName), []byte(strings.TrimSpace(uid)), 0o600)
}

// Clear removes the token and the cached user id. The remembered return path
// is left alone so a re-login can still resume an interrupted navigation.
func (s *Store) Clear() error {
	var firstErr error
	for _, name := range []string{tokenFileName, userIDFileName} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ReturnTo returns the remembered navigation target, or "".
func (s *Store) ReturnTo() string {
	b, err := os.ReadFile(filepath.Join(s.dir, returnToFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// SaveReturnTo remembers where a denied navigation was headed.
func (s *Store) SaveReturnTo(path string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, returnToFileName), []byte(path), 0o600)
}

// ClearReturnTo drops the remembered navigation target.
func (s *Store) ClearReturnTo() error {
	err := os.Remove(filepath.Join(s.dir, returnToFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
