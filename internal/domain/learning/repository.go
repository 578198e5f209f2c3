package learning

import (
	"context"

	"github.com/google/uuid"
)

type PathRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Path, error)
	// GetByID returns ErrPathNotFound when the path does not exist or belongs
	// to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (Path, error)
	Create(ctx context.Context, p Path) error
	UpdateDetails(ctx context.Context, p Path) error
	ReplaceSkills(ctx context.Context, pathID uuid.UUID, skills []PathSkill) error
	ReplaceResources(ctx context.Context, pathID uuid.UUID, resources []Resource) error
	// Delete removes the path with its skill links and resources.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ProgressRepository interface {
	// ListByUser returns records newest first; limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Progress, error)
	ListByPath(ctx context.Context, userID, pathID uuid.UUID, limit int) ([]Progress, error)
	Append(ctx context.Context, p Progress) error
}

type MilestoneRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Milestone, error)
	Create(ctx context.Context, m Milestone) error
}
