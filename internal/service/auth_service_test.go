package service

import (
	"context"
	"testing"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository/memory"
	"gymdesk/gym-app/internal/revocation"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
	}{
		{name: "member by default", in: RegisterInput{Name: "Ann", Email: "Ann@Example.com", Password: "secret1"}},
		{name: "trainer", in: RegisterInput{Name: "Tom", Email: "tom@example.com", Password: "secret1", Role: "trainer"}},
		{name: "admin disabled", in: RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret1", Role: "admin"}, wantErr: ErrForbidden},
		{name: "unknown role", in: RegisterInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: "owner"}, wantErr: ErrValidation},
		{name: "short password", in: RegisterInput{Name: "Ann", Email: "a@example.com", Password: "12345"}, wantErr: ErrValidation},
		{name: "short name", in: RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}, wantErr: ErrValidation},
		{name: "bad email", in: RegisterInput{Name: "Ann", Email: "not-an-email", Password: "secret1"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user, err := env.auth.Register(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, env.notifier.welcomed)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, user.PasswordHash)
			assert.Len(t, env.notifier.welcomed, 1)

			switch user.Role {
			case domain.RoleMember:
				_, err = env.repos.Members.GetByUserID(context.Background(), user.ID)
			case domain.RoleTrainer:
				_, err = env.repos.Trainers.GetByUserID(context.Background(), user.ID)
			}
			assert.NoError(t, err, "profile record created with the user")
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: " ANN@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_AdminAllowed(t *testing.T) {
	repos := memory.NewRepositories()
	auth := NewAuthService(repos, nil, nil, AuthConfig{JWTSecret: testSecret, AllowAdminSignup: true})
	user, err := auth.Register(context.Background(), RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestLoginAndVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := env.auth.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.PasswordHash)

	claims, err := env.auth.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleMember, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, res.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestVerifyToken_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID: adminActor.UserID.Hex(),
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{UserID: adminActor.UserID.Hex(), Role: domain.RoleAdmin})
	otherKeyToken, err := otherKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{UserID: adminActor.UserID.Hex(), Role: "owner"})
	badRoleToken, err := badRole.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":   "not.a.token",
		"expired":   expiredToken,
		"wrong key": otherKeyToken,
		"bad role":  badRoleToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.VerifyToken(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	res, err := env.auth.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	claims, err := env.auth.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(ctx, claims))

	_, err = env.auth.VerifyToken(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	revoked, err := env.revoked.IsRevoked(ctx, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_WithoutStore(t *testing.T) {
	auth := NewAuthService(memory.NewRepositories(), nil, nil, AuthConfig{JWTSecret: testSecret})
	assert.NoError(t, auth.Logout(context.Background(), &TokenClaims{TokenID: "x", ExpiresAt: time.Now().Add(time.Hour)}))
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.auth.ResetPassword(ctx, "nobody@example.com", "newpass1"), ErrUserNotFound)
	assert.ErrorIs(t, env.auth.ResetPassword(ctx, "ann@example.com", "123"), ErrValidation)

	require.NoError(t, env.auth.ResetPassword(ctx, "ann@example.com", "newpass1"))
	assert.Len(t, env.notifier.passwordChanged, 1)

	_, err = env.auth.Login(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "ann@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestResetPassword_NotificationFailureIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	env.notifier.err = errBoom
	assert.NoError(t, env.auth.ResetPassword(ctx, "ann@example.com", "newpass1"))
}

func TestEnsureAdmin(t *testing.T) {
	repos := memory.NewRepositories()
	auth := NewAuthService(repos, revocation.NewMemoryStore(), nil, AuthConfig{JWTSecret: testSecret})
	ctx := context.Background()

	created, err := auth.EnsureAdmin(ctx, "Administrator", "admin@gym.io", "adminpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, "Administrator", "admin@gym.io", "adminpass")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := auth.Login(ctx, "admin@gym.io", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthService(memory.NewRepositories(), nil, nil, AuthConfig{})
	})
}
