package skill

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("skill not found")
	ErrAlreadyExists = errors.New("skill already exists")
)

type Repository interface {
	List(ctx context.Context, category string) ([]Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (Skill, error)
	Create(ctx context.Context, s Skill) (Skill, error)
	Update(ctx context.Context, s Skill) (Skill, error)
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error)
	FindByUserAndSkill(ctx context.Context, userID, skillID uuid.UUID) (UserSkill, error)
	// Upsert creates or updates the row keyed by (user_id, skill_id).
	Upsert(ctx context.Context, us UserSkill) (UserSkill, error)
	Delete(ctx context.Context, userID, skillID uuid.UUID) error
}
