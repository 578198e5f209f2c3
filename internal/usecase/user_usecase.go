package usecase

import (
	"context"
	"errors"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/recommendation"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

const maxWeeklyHours = 168

// ProfileInput is a partial update: nil fields keep their stored value.
type ProfileInput struct {
	CurrentRole     *string
	TargetRole      *string
	ExperienceYears *int
	LearningGoals   []string
	PreferredStyle  *string
	WeeklyHours     *int
	Timeframe       *string
	Industry        *string
}

type Me struct {
	User    user.User
	Profile *user.Profile
}

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (Me, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (user.Profile, error)
}

type User struct {
	users    user.Repository
	profiles user.ProfileRepository
	uow      database.UnitOfWork
}

func NewUserUsecase(users user.Repository, profiles user.ProfileRepository, uow database.UnitOfWork) *User {
	return &User{users: users, profiles: profiles, uow: uow}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (Me, error) {
	usr, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Me{}, notFound("user")
		}
		return Me{}, internalErr(err)
	}
	usr.PasswordHash = ""

	out := Me{User: usr}
	p, err := u.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		out.Profile = &p
	case errors.Is(err, user.ErrProfileNotFound):
	default:
		return Me{}, internalErr(err)
	}
	return out, nil
}

// UpdateProfile upserts the profile and marks the user onboarded in one
// transaction.
func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (user.Profile, error) {
	var out user.Profile
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		p, err := upsertProfile(ctx, u.users, u.profiles, userID, in)
		if err != nil {
			return err
		}
		if err := u.users.MarkOnboarded(ctx, userID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return notFound("user")
			}
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return user.Profile{}, mapProfileErr(err)
	}
	return out, nil
}

func upsertProfile(ctx context.Context, users user.Repository, profiles user.ProfileRepository, userID uuid.UUID, in ProfileInput) (user.Profile, error) {
	if err := in.validate(); err != nil {
		return user.Profile{}, err
	}
	if _, err := users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, notFound("user")
		}
		return user.Profile{}, err
	}

	current, err := profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrProfileNotFound) {
		return user.Profile{}, err
	}
	current.UserID = userID
	in.applyTo(&current)

	p, err := profiles.UpsertProfile(ctx, current)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, notFound("user")
		}
		return user.Profile{}, err
	}
	return p, nil
}

func mapProfileErr(err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return err
	}
	return internalErr(err)
}

func (in ProfileInput) validate() error {
	if in.ExperienceYears != nil && (*in.ExperienceYears < 0 || *in.ExperienceYears > 80) {
		return invalidInput("experienceYears must be between 0 and 80")
	}
	if in.WeeklyHours != nil && (*in.WeeklyHours < 0 || *in.WeeklyHours > maxWeeklyHours) {
		return invalidInput("weeklyHours must be between 0 and %d", maxWeeklyHours)
	}
	if in.Timeframe != nil && strings.TrimSpace(*in.Timeframe) != "" {
		if _, ok := recommendation.ParseTimeframe(*in.Timeframe); !ok {
			return invalidInput("timeframe must be one of 1month, 3months, 6months, 1year")
		}
	}
	return nil
}

func (in ProfileInput) applyTo(p *user.Profile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.CurrentRole, in.CurrentRole)
	setString(&p.TargetRole, in.TargetRole)
	setString(&p.PreferredStyle, in.PreferredStyle)
	setString(&p.Industry, in.Industry)
	if in.Timeframe != nil {
		tf, _ := recommendation.ParseTimeframe(*in.Timeframe)
		p.Timeframe = string(tf)
	}
	if in.ExperienceYears != nil {
		p.ExperienceYears = *in.ExperienceYears
	}
	if in.WeeklyHours != nil {
		p.WeeklyHours = *in.WeeklyHours
	}
	if in.LearningGoals != nil {
		goals := make([]string, 0, len(in.LearningGoals))
		for _, g := range in.LearningGoals {
			if g = strings.TrimSpace(g); g != "" {
				goals = append(goals, g)
			}
		}
		p.LearningGoals = goals
	}
	if p.LearningGoals == nil {
		p.LearningGoals = []string{}
	}
}
