package usecase

import (
	"context"
	"testing"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UpdateProfileOnboards(t *testing.T) {
	u := user.User{ID: uuid.New(), Email: "lin@example.com", PasswordHash: "hash"}
	users := newFakeUsers(u)
	profiles := newFakeProfiles()
	uow := &fakeUOW{}
	uc := NewUserUsecase(users, profiles, uow)
	ctx := context.Background()

	me, err := uc.GetMe(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, me.Profile)
	assert.Empty(t, me.User.PasswordHash)

	p, err := uc.UpdateProfile(ctx, u.ID, ProfileInput{
		TargetRole:    ptr(" Data Engineer "),
		LearningGoals: []string{"spark", " ", "airflow"},
		Timeframe:     ptr("6months"),
		WeeklyHours:   ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", p.TargetRole)
	assert.Equal(t, []string{"spark", "airflow"}, p.LearningGoals)
	assert.Equal(t, "6months", p.Timeframe)
	assert.Equal(t, 1, uow.calls)

	p, err = uc.UpdateProfile(ctx, u.ID, ProfileInput{Industry: ptr("fintech")})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", p.TargetRole)
	assert.Equal(t, "fintech", p.Industry)

	me, err = uc.GetMe(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, me.User.Onboarded)
	require.NotNil(t, me.Profile)
	assert.Equal(t, 10, me.Profile.WeeklyHours)
}

func TestUser_UpdateProfileValidation(t *testing.T) {
	u := user.User{ID: uuid.New()}
	profiles := newFakeProfiles()
	uc := NewUserUsecase(newFakeUsers(u), profiles, &fakeUOW{})
	ctx := context.Background()

	_, err := uc.UpdateProfile(ctx, u.ID, ProfileInput{WeeklyHours: ptr(200)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.UpdateProfile(ctx, u.ID, ProfileInput{Timeframe: ptr("someday")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.UpdateProfile(ctx, uuid.New(), ProfileInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, profiles.upserts)

	_, err = uc.GetMe(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
