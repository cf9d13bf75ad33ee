package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned three-segment token with the given claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(body)
	return header + "." + payload + ".sig"
}

func Test_DecodeClaims(t *testing.T) {
	t.Parallel()

	t.Run("user_id claim", func(t *testing.T) {
		c, ok := DecodeClaims(makeToken(t, map[string]any{"user_id": "u-1", "email": "a@b.c"}))
		require.True(t, ok)
		assert.Equal(t, "u-1", c.UserID)
		assert.Equal(t, "a@b.c", c.Email)
	})

	t.Run("userId fallback", func(t *testing.T) {
		c, ok := DecodeClaims(makeToken(t, map[string]any{"userId": "u-2"}))
		require.True(t, ok)
		assert.Equal(t, "u-2", c.UserID)
	})

	t.Run("standard alphabet and padding tolerated", func(t *testing.T) {
		// "~~~" encodes to "fn5+" and "???" to "Pz8/", so the payload is
		// guaranteed to carry standard-alphabet characters.
		body, err := json.Marshal(map[string]any{
			"user_id": "u-3",
			"pad":     strings.Repeat("~~~???", 10),
		})
		require.NoError(t, err)
		payload := base64.StdEncoding.EncodeToString(body)
		c, ok := DecodeClaims("h." + payload + ".s")
		require.True(t, ok)
		assert.Equal(t, "u-3", c.UserID)
	})

	t.Run("structural corruption yields empty, never panics", func(t *testing.T) {
		for _, tok := range []string{
			"",
			"only-one-segment",
			"two.segments",
			"a.b.c.d",
			"h." + "%%%not-base64%%%" + ".s",
			"h." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".s",
		} {
			c, ok := DecodeClaims(tok)
			assert.False(t, ok, "token %q", tok)
			assert.Empty(t, c.UserID)
		}
	})
}

func Test_Session_SetToken_DerivesIdentity(t *testing.T) {
	_ = withTmpConfig(t)
	store := NewStore()
	s := New(store)

	tok := makeToken(t, map[string]any{"user_id": "u-9"})
	require.NoError(t, s.SetToken(tok))
	assert.Equal(t, "u-9", s.UserID())
	assert.Equal(t, tok, s.Token())
	assert.Equal(t, tok, store.Token(), "token must be persisted")
	assert.Equal(t, "u-9", store.UserID(), "derived id cached next to the token")

	// Empty token clears everything derived.
	require.NoError(t, s.SetToken(""))
	assert.Empty(t, s.UserID())
	assert.Empty(t, s.Token())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.UserID())
}

func Test_Session_DecodeFailure_KeepsTokenDropsIdentity(t *testing.T) {
	_ = withTmpConfig(t)
	store := NewStore()
	s := New(store)

	// Establish a valid identity first, then replace it with a corrupt token.
	require.NoError(t, s.SetToken(makeToken(t, map[string]any{"user_id": "u-old"})))
	require.NoError(t, s.SetToken("garbage-token"))

	assert.Equal(t, "garbage-token", s.Token(), "token itself is not cleared on decode failure")
	assert.Empty(t, s.UserID(), "decode failure means no identity")
	assert.Empty(t, store.UserID(), "stale cached identity must not survive")
	assert.True(t, s.Current().LoggedIn())
}

func Test_Session_ReloadsFromStore(t *testing.T) {
	_ = withTmpConfig(t)
	store := NewStore()
	tok := makeToken(t, map[string]any{"user_id": "u-5"})
	require.NoError(t, store.SaveToken(tok, time.Time{}))

	s := New(store)
	assert.Equal(t, "u-5", s.UserID(), "identity re-derived from the persisted token at init")
}

func Test_Session_SubscribersSeeEveryChange(t *testing.T) {
	_ = withTmpConfig(t)
	store := NewStore()
	s := New(store)

	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap)
		// The store must already reflect the change when subscribers run.
		assert.Equal(t, snap.Token, store.Token())
	})

	tok := makeToken(t, map[string]any{"user_id": "u-7"})
	require.NoError(t, s.SetToken(tok))
	require.NoError(t, s.Clear())

	require.Len(t, seen, 2)
	assert.Equal(t, "u-7", seen[0].UserID)
	assert.True(t, seen[0].LoggedIn())
	assert.False(t, seen[1].LoggedIn())
}

func Test_tokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := makeToken(t, map[string]any{"user_id": "u", "exp": exp.Unix()})
	got := tokenExpiry(tok)
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)

	assert.True(t, tokenExpiry("no-exp-here").IsZero())
	assert.True(t, tokenExpiry(makeToken(t, map[string]any{"user_id": "u"})).IsZero())

	// Sanity: the jwt parser agrees with our tolerant decoder on well-formed input.
	var rc jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(tok, &rc)
	require.NoError(t, err)
}
