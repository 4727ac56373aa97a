package auth

import "time"

type Role string

const (
	RoleProvider Role = "provider"
	RoleClient   Role = "client"
)

// Account is the domain representation of a registered user.
// PasswordHash is only populated on values read inside this package; accounts
// handed to callers of Service have it cleared.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// RegisterRequest contains registration data supplied by callers.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ParseRole normalizes a role name. The legacy "hairstylist" user type maps to provider.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleProvider, "hairstylist":
		return RoleProvider, true
	case RoleClient:
		return RoleClient, true
	default:
		return "", false
	}
}

func (a Account) withoutHash() Account {
	a.PasswordHash = ""
	return a
}
