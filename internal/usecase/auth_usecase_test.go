package usecase

import (
	"context"
	"testing"
	"time"

	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/jwt"
	ucauth "skillbridge/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*Auth, *fakeUsers, *jwt.HMACService) {
	users := newFakeUsers()
	tokens := jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	svc := ucauth.NewService(users).WithCost(bcrypt.MinCost)
	return NewAuthUsecase(svc, users, tokens), users, tokens
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	uc, _, tokens := newAuthFixture()
	ctx := context.Background()

	s, err := uc.Register(ctx, ucauth.RegisterInput{Email: " Ada@Example.com ", Name: "Ada", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.User.Email)
	assert.Equal(t, user.RoleUser, s.User.Role)
	assert.Empty(t, s.User.PasswordHash)

	claims, err := tokens.ValidateAccessToken(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.UserID)
	assert.Equal(t, "USER", claims.Role)

	logged, err := uc.Login(ctx, ucauth.LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, logged.User.ID)

	_, err = uc.Login(ctx, ucauth.LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidCredentials)
}

func TestAuth_RegisterRejects(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := uc.Register(ctx, ucauth.RegisterInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)
	_, err = uc.Register(ctx, ucauth.RegisterInput{Email: "a@b.io", Password: "short"})
	assert.ErrorIs(t, err, ucauth.ErrInvalidInput)

	_, err = uc.Register(ctx, ucauth.RegisterInput{Email: "a@b.io", Password: "long-enough"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, ucauth.RegisterInput{Email: "A@B.io", Password: "long-enough"})
	assert.ErrorIs(t, err, ucauth.ErrEmailAlreadyRegistered)
}

func TestAuth_Refresh(t *testing.T) {
	uc, users, tokens := newAuthFixture()
	ctx := context.Background()
	s, err := uc.Register(ctx, ucauth.RegisterInput{Email: "grace@example.com", Password: "long-enough"})
	require.NoError(t, err)

	next, err := uc.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, next.User.ID)
	assert.NotEmpty(t, next.AccessToken)

	_, err = uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = uc.Refresh(ctx, s.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	expired := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	old, err := expired.GenerateRefreshToken(s.User.ID)
	require.NoError(t, err)
	_, err = uc.Refresh(ctx, old)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)

	ghost, err := tokens.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = uc.Refresh(ctx, ghost)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	users.err = errBoom
	_, err = uc.Refresh(ctx, s.RefreshToken)
	assert.ErrorIs(t, err, ErrInternal)
}
