package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Onboarded    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile holds the learning preferences used by recommendations.
type Profile struct {
	UserID          uuid.UUID
	CurrentRole     string
	TargetRole      string
	ExperienceYears int
	LearningGoals   []string
	PreferredStyle  string
	WeeklyHours     int
	Timeframe       string
	Industry        string
	UpdatedAt       time.Time
}
