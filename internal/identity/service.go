// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/middleware"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type Service struct {
	users user.Repository
	jwt   *JWTManager
	redis *redis.Client
	admin config.AdminConfig
}

func NewService(
	users user.Repository,
	jwt *JWTManager,
	redisClient *redis.Client,
	admin config.AdminConfig,
) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
		redis: redisClient,
		admin: admin,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	email := user.NormalizeEmail(req.Email)

	// Allowlisted operator addresses are provisioned through admin login
	// only; reporting them as taken matches what a real signup would see.
	if s.admin.IsAdminEmail(email) {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      req.Name,
		Role:      user.RoleUser,
		EcoPoints: 0,
		Credits:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, u, passwordHash); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(u)
}

// Login authenticates a community member. Every failure mode costs a full
// argon2 verification and surfaces the same error, so callers cannot
// distinguish an unknown address from a wrong password.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	email := user.NormalizeEmail(req.Email)

	hash, err := s.users.GetCredentialHash(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &hash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.createAuthResponse(u)
}

// AdminLogin checks the operator allowlist and shared secret. The profile is
// provisioned lazily on first login, so repeated logins keep a stable id.
func (s *Service) AdminLogin(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	email := user.NormalizeEmail(req.Email)

	allowed := s.admin.IsAdminEmail(email)
	secretOK := core.ConstantTimeEquals(req.Password, s.admin.Password)

	if !allowed || !secretOK {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return s.createAuthResponse(u)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get admin user: %w", err)
	}

	now := time.Now().UTC()
	u = &user.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      adminDisplayName(email),
		Role:      user.RoleAdmin,
		EcoPoints: 0,
		Credits:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Provision a real credential so the profile behaves like any other
	// account; admin login itself keeps checking the configured secret.
	passwordHash, err := core.HashPassword(s.admin.Password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	if err := s.users.Create(ctx, u, passwordHash); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			// Lost a concurrent first-login race; the winner's profile is
			// the canonical one.
			u, err = s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("get admin user: %w", err)
			}
			return s.createAuthResponse(u)
		}
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	return s.createAuthResponse(u)
}

// Logout blacklists the token's jti until the token would have expired
// anyway.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	key := "blacklist:" + claims.JTI

	ttl := s.jwt.config.AccessTokenExpire
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	exists, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier: signature checks
// first, then the revocation list.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsAccessTokenBlacklisted(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) createAuthResponse(u *user.User) (*AuthResponse, error) {
	accessToken, expiresAt, err := s.jwt.CreateAccessToken(
		u.ID,
		u.Email,
		u.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		User: user.ToUserResponse(u),
		Token: TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(time.Until(expiresAt) / time.Second),
			ExpiresAt:   expiresAt,
		},
	}, nil
}

// adminDisplayName derives a profile name from the address local part:
// "admin2@sydney.gov.au" becomes "Admin".
func adminDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range local {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		return "Admin"
	}

	return strings.ToUpper(name[:1]) + name[1:]
}
