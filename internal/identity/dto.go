// AngelaMos | 2026
// dto.go

package identity

import (
	"strings"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name"     validate:"required,min=2,max=100"`
}

// Normalize trims surrounding whitespace so " Jo " does not sneak past the
// length checks.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AuthResponse struct {
	User  user.UserResponse `json:"user"`
	Token TokenResponse     `json:"token"`
}
