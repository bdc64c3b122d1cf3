// Package session holds the client-side session: the auth token, the cached
// profile snapshot and the in-progress checkout address. It is pure storage
// plus predicates; it never touches the network. Components depend on the
// Store interface so each runtime supplies its own backing (a key file for
// the terminal storefront, memory for tests).
package session

import "ulavan-storefront/models"

// Store is the session contract. Token and user are independent persistent
// values; the draft address is ephemeral and must not survive restarts.
type Store interface {
	SaveToken(token string) error
	Token() string
	ClearToken() error

	SaveUser(user *models.User) error
	User() *models.User
	ClearUser() error

	SaveDraftAddress(addr *models.DraftAddress) error
	DraftAddress() *models.DraftAddress
	ClearDraftAddress() error
}

// IsAuthenticated reports whether a token is present.
func IsAuthenticated(s Store) bool {
	return s.Token() != ""
}

// HasRole reports whether the cached user carries the given role. Asking for
// "buyer" also accepts the legacy "customer" role.
func HasRole(s Store, role string) bool {
	user := s.User()
	if user == nil {
		return false
	}
	if role == models.RoleBuyer {
		return user.IsBuyer()
	}
	return user.Role == role
}

// Clear wipes everything, including the draft address. Used on logout.
func Clear(s Store) {
	s.ClearToken()
	s.ClearUser()
	s.ClearDraftAddress()
}
