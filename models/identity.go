package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the caller as resolved once at the HTTP boundary.
// The zero value is an unauthenticated caller.
type Identity struct {
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Authenticated reports whether a user id was resolved from credentials.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// IsAdmin reports whether the caller carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}
