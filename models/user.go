package models

// Roles used by the backend. Older accounts may still carry "customer",
// which the storefront treats as a buyer.
const (
	RoleBuyer          = "buyer"
	RoleSeller         = "seller"
	RoleLegacyCustomer = "customer"
)

// User represents the profile snapshot cached alongside the auth token.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// IsBuyer reports whether the user's role grants buyer pages, accepting the
// legacy "customer" value.
func (u *User) IsBuyer() bool {
	return u != nil && (u.Role == RoleBuyer || u.Role == RoleLegacyCustomer)
}

// IsSeller reports whether the user's role grants seller pages.
func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}

// LoginResponse is the payload returned by the login and signup endpoints.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user"`
}

// SignupRequest is the payload sent to create an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ProfileUpdate carries the mutable profile fields for PUT /users/me.
// Empty fields are omitted so partial updates stay partial.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}
