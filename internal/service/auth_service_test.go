package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahu431/snapbill-service/internal/domain"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(AuthServiceConfig{
		Users:                newTestStore(t),
		JWTSecret:            "test-secret",
		JWTAccessExpiration:  time.Hour,
		JWTRefreshExpiration: 24 * time.Hour,
		SuperAdminEmail:      "admin@example.com",
		SuperAdminPassword:   "admin-password",
	})
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice@Example.com", "secret123", "Alice")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.UserPending, user.Status)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterSuperAdminIsApprovedImmediately(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "admin@example.com", "admin-password", "Admin")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSuperAdmin, user.Role)
	assert.Equal(t, domain.UserApproved, user.Status)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "secret123", "Bob")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "BOB@example.com", "other", "Bob Again")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginBlockedUntilApproved(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "carol@example.com", "secret123", "Carol")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "carol@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserNotApproved)

	_, err = svc.ApproveUser(ctx, user.ID)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "carol@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLoginRejectedAccount(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "dave@example.com", "secret123", "Dave")
	require.NoError(t, err)

	_, err = svc.RejectUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dave@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "erin@example.com", "secret123", "Erin")
	require.NoError(t, err)
	_, err = svc.ApproveUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "erin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccessTokenCarriesRoleClaims(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx))

	resp, err := svc.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, domain.RoleSuperAdmin, claims.Role)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx))
	resp, err := svc.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)

	pair, err := svc.RefreshAccessToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.RefreshAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := NewAuthService(AuthServiceConfig{
		Users:                store,
		JWTSecret:            "test-secret",
		JWTAccessExpiration:  time.Hour,
		JWTRefreshExpiration: 24 * time.Hour,
		SuperAdminEmail:      "admin@example.com",
		SuperAdminPassword:   "admin-password",
	})
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx))
	require.NoError(t, svc.EnsureSuperAdmin(ctx))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
