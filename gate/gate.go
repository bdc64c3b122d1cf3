// Package gate decides, once per page entry point, whether the current
// session may proceed. It replaces the per-page redirect branching the
// legacy pages carried: callers check the decision and return early.
package gate

import (
	"fmt"

	"ulavan-storefront/session"
	"ulavan-storefront/ui"
)

// Decision is the typed outcome of a gate check.
type Decision struct {
	Allowed    bool
	RedirectTo ui.Page
	Notice     string
}

// Gate derives access decisions from the session store. It never clears the
// session itself: only logout or a 401 from the API layer may do that.
type Gate struct {
	Session session.Store
}

// New creates a Gate over the given session store.
func New(store session.Store) *Gate { return &Gate{Session: store} }

// RequireAuthenticated allows any logged-in session and sends everyone else
// to the login page.
func (g *Gate) RequireAuthenticated() Decision {
	if !session.IsAuthenticated(g.Session) {
		return Decision{RedirectTo: ui.PageLogin, Notice: "please login to continue"}
	}
	return Decision{Allowed: true}
}

// RequireRole allows a logged-in session carrying the role. Unauthenticated
// sessions go to login; a role mismatch goes to the home page with a denial
// notice, leaving the session intact.
func (g *Gate) RequireRole(role string) Decision {
	if !session.IsAuthenticated(g.Session) {
		return Decision{RedirectTo: ui.PageLogin, Notice: "please login to continue"}
	}
	if !session.HasRole(g.Session, role) {
		return Decision{
			RedirectTo: ui.PageHome,
			Notice:     fmt.Sprintf("access denied: this page is for %ss only", role),
		}
	}
	return Decision{Allowed: true}
}

// Enforce applies a decision through the UI and reports whether the caller
// may continue.
func Enforce(d Decision, u ui.UI) bool {
	if d.Allowed {
		return true
	}
	if d.Notice != "" {
		u.Notify(ui.Warning, d.Notice)
	}
	u.Navigate(d.RedirectTo)
	return false
}
