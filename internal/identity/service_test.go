// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/config"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/kv"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	repo := user.NewRepository(kv.NewMemoryStore())
	manager := newTestJWTManager(t, 15*time.Minute)

	return NewService(repo, manager, nil, config.AdminConfig{
		Emails:   []string{"admin1@sydney.gov.au", "admin2@sydney.gov.au"},
		Password: "Admin@123",
	})
}

func TestService_RegisterThenLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:    "jo@example.com",
		Password: "hunter2secret",
		Name:     "Jo Citizen",
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", registered.User.Email)
	assert.Equal(t, user.RoleUser, registered.User.Role)
	assert.Zero(t, registered.User.EcoPoints)
	assert.Zero(t, registered.User.Credits)
	assert.NotEmpty(t, registered.Token.AccessToken)
	assert.Equal(t, "Bearer", registered.Token.TokenType)

	loggedIn, err := svc.Login(ctx, LoginRequest{
		Email:    "jo@example.com",
		Password: "hunter2secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestService_RegisterNormalizesEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:    "JO@Example.COM",
		Password: "hunter2secret",
		Name:     "Jo Citizen",
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", registered.User.Email)

	_, err = svc.Login(ctx, LoginRequest{
		Email:    "jo@example.com",
		Password: "hunter2secret",
	})
	require.NoError(t, err)
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "jo@example.com",
		Password: "hunter2secret",
		Name:     "Jo Citizen",
	}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestService_RegisterAdminEmailRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "admin1@sydney.gov.au",
		Password: "hunter2secret",
		Name:     "Pretend Admin",
	})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "jo@example.com",
		Password: "hunter2secret",
		Name:     "Jo Citizen",
	})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})
	_, wrongErr := svc.Login(ctx, LoginRequest{
		Email:    "jo@example.com",
		Password: "wrongpassword",
	})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestService_AdminLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.AdminLogin(ctx, LoginRequest{
		Email:    "admin1@sydney.gov.au",
		Password: "Admin@123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, first.User.Role)
	assert.Equal(t, "Admin", first.User.Name)

	// second login finds the lazily provisioned profile
	second, err := svc.AdminLogin(ctx, LoginRequest{
		Email:    "admin1@sydney.gov.au",
		Password: "Admin@123",
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestService_AdminLoginRejections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AdminLogin(ctx, LoginRequest{
		Email:    "admin1@sydney.gov.au",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AdminLogin(ctx, LoginRequest{
		Email:    "stranger@example.com",
		Password: "Admin@123",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_VerifyAccessTokenWithoutBlacklist(t *testing.T) {
	repo := user.NewRepository(kv.NewMemoryStore())
	manager := newTestJWTManager(t, 15*time.Minute)

	// nil redis means no blacklist; verification must still work for the
	// happy path used by tests and local tooling
	svc := &Service{users: repo, jwt: manager}

	token, _, err := manager.CreateAccessToken("u-1", "a@b.c", "user")
	require.NoError(t, err)

	claims, err := svc.jwt.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestAdminDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"admin1@sydney.gov.au", "Admin"},
		{"admin42@sydney.gov.au", "Admin"},
		{"ops@sydney.gov.au", "Ops"},
		{"123@sydney.gov.au", "Admin"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, adminDisplayName(tt.email), tt.email)
	}
}
