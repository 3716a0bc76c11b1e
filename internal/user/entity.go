// AngelaMos | 2026
// entity.go

package user

import (
	"strings"
	"time"
)

// User is the stored profile document. Credentials live in a separate
// document keyed by the same email, so a User never carries a password hash.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	EcoPoints int       `json:"ecoPoints"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Credential is the stored password document, keyed by normalized email.
type Credential struct {
	Hash string `json:"hash"`
}

// NormalizeEmail lowercases and trims an address; every store key derived
// from an email goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
