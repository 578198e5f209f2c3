package dto

import (
	"time"

	"skillbridge/internal/domain/user"
	"skillbridge/internal/usecase"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	Onboarded bool      `json:"onboarded"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProfileResponse struct {
	CurrentRole     string    `json:"currentRole"`
	TargetRole      string    `json:"targetRole"`
	ExperienceYears int       `json:"experienceYears"`
	LearningGoals   []string  `json:"learningGoals"`
	PreferredStyle  string    `json:"preferredStyle"`
	WeeklyHours     int       `json:"weeklyHours"`
	Timeframe       string    `json:"timeframe,omitempty"`
	Industry        string    `json:"industry"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type MeResponse struct {
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile"`
}

type SessionResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Onboarded: u.Onboarded,
		CreatedAt: u.CreatedAt,
	}
}

func NewProfileResponse(p user.Profile) ProfileResponse {
	goals := p.LearningGoals
	if goals == nil {
		goals = []string{}
	}
	return ProfileResponse{
		CurrentRole:     p.CurrentRole,
		TargetRole:      p.TargetRole,
		ExperienceYears: p.ExperienceYears,
		LearningGoals:   goals,
		PreferredStyle:  p.PreferredStyle,
		WeeklyHours:     p.WeeklyHours,
		Timeframe:       p.Timeframe,
		Industry:        p.Industry,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewMeResponse(me usecase.Me) MeResponse {
	out := MeResponse{User: NewUserResponse(me.User)}
	if me.Profile != nil {
		p := NewProfileResponse(*me.Profile)
		out.Profile = &p
	}
	return out
}

func NewSessionResponse(s usecase.Session) SessionResponse {
	return SessionResponse{
		User:         NewUserResponse(s.User),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
