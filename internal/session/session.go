package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token payload fields the client displays. They are never
// verified locally; the backend re-validates the token on every request, so a
// decoded claim must never substitute for server authorization.
type Claims struct {
	UserID string
	Email  string
}

// DecodeClaims parses the middle segment of a three-part dot-separated token.
// It tolerates both the URL-safe and standard base64 alphabets and missing
// padding. Any structural corruption yields (Claims{}, false), never an error:
// the caller treats decode failure exactly like "no session".
func DecodeClaims(token string) (Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, false
	}
	payload := strings.NewReplacer("-", "+", "_", "/").Replace(parts[1])
	if m := len(payload) % 4; m != 0 {
		payload += strings.Repeat("=", 4-m)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, false
	}
	var body struct {
		UserID    string `json:"user_id"`
		UserIDAlt string `json:"userId"`
		Email     string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Claims{}, false
	}
	c := Claims{UserID: body.UserID, Email: body.Email}
	if c.UserID == "" {
		c.UserID = body.UserIDAlt
	}
	return c, true
}

// Snapshot is the session state handed to subscribers on every change.
type Snapshot struct {
	Token  string
	UserID string
	Email  string
}

// LoggedIn reports whether a token is present. Identity may still be empty
// when the token payload does not decode; such a session dies on its first
// authenticated request.
func (s Snapshot) LoggedIn() bool { return s.Token != "" }

// Session is the single session authority. It wraps the persistent store,
// re-derives identity synchronously whenever the token changes and notifies
// subscribers after the store has been updated.
type Session struct {
	mu    sync.Mutex
	store *Store
	cur   Snapshot
	subs  []func(Snapshot)
}

// New loads the persisted token and derives identity from it. The cached
// user id on disk is only a cache of the last decode; the decode result wins.
func New(store *Store) *Session {
	s := &Session{store: store}
	if tok := store.Token(); tok != "" {
		s.cur = snapshotFor(tok)
	}
	return s
}

func snapshotFor(tok string) Snapshot {
	snap := Snapshot{Token: tok}
	if c, ok := DecodeClaims(tok); ok {
		snap.UserID = c.UserID
		snap.Email = c.Email
	}
	return snap
}

// Subscribe registers fn to run after every session change. fn is called
// outside the internal lock with the state it was derived from.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Current returns the current snapshot.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string { return s.Current().Token }

// UserID returns the last successfully decoded user id, or "".
func (s *Session) UserID() string { return s.Current().UserID }

// SetToken installs a new token or, when value is empty, clears the session.
// A non-empty token is persisted and its claims re-decoded synchronously; the
// store is updated before any subscriber or caller observes the change.
func (s *Session) SetToken(value string) error {
	s.mu.Lock()
	var snap Snapshot
	var err error
	if value == "" {
		err = s.store.Clear()
	} else {
		snap = snapshotFor(value)
		err = s.store.SaveToken(value, tokenExpiry(value))
		if err == nil {
			// Unconditional: a token whose claims fail to decode must not
			// inherit the previous token's cached identity.
			err = s.store.SaveUserID(snap.UserID)
		}
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cur = snap
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// Clear tears the session down. Safe to call with no session present.
func (s *Session) Clear() error { return s.SetToken("") }

// tokenExpiry extracts exp for the diagnostics field of the token file.
// Signature and claims are deliberately not validated.
func tokenExpiry(tok string) time.Time {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &rc); err != nil || rc.ExpiresAt == nil {
		return time.Time{}
	}
	return rc.ExpiresAt.Time
}
