package view

import (
	"strings"

	"github.com/akraev/shopctl/internal/session"
)

// LoginPath is where denied navigations are redirected.
const LoginPath = "/login"

// Paths that require a session. Children are covered by prefix.
var protectedPrefixes = []string{"/cart", "/checkout", "/orders", "/admin"}

// Protected reports whether path requires a session.
func Protected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Decision is the outcome of resolving one navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string // set when denied
}

// Guard gates session-only paths. It is a pure function of current session
// state, re-evaluated on every navigation — the decision is never cached.
type Guard struct {
	session *session.Session
	store   *session.Store
}

// NewGuard wires the guard to the session authority and the store that keeps
// the remembered destination across process runs.
func NewGuard(sess *session.Session, store *session.Store) *Guard {
	return &Guard{session: sess, store: store}
}

// Resolve decides whether path may render. A denied navigation is redirected
// to login and the original destination remembered, so a later successful
// login can resume it. Presence of a token is what counts: a token whose
// claims do not decode still passes here and dies on its first request.
func (g *Guard) Resolve(path string) Decision {
	if !Protected(path) {
		return Decision{Allowed: true}
	}
	if g.session.Current().LoggedIn() {
		return Decision{Allowed: true}
	}
	_ = g.store.SaveReturnTo(path)
	return Decision{Allowed: false, RedirectTo: LoginPath}
}

// ConsumeReturnTo returns the remembered destination and clears it. Empty
// when nothing was remembered.
func (g *Guard) ConsumeReturnTo() string {
	path := g.store.ReturnTo()
	if path != "" {
		_ = g.store.ClearReturnTo()
	}
	return path
}
