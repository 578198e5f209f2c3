package usecase

import (
	"context"
	"errors"
	"strings"

	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

// SkillInput is a partial catalog write. Create requires Name and Category.
type SkillInput struct {
	Name          *string
	Category      *string
	Description   *string
	MarketDemand  *int
	TrendingScore *int
	AverageSalary *int
}

type SkillUsecase interface {
	List(ctx context.Context, category string) ([]skill.Skill, error)
	Create(ctx context.Context, actorID uuid.UUID, in SkillInput) (skill.Skill, error)
	Update(ctx context.Context, actorID, skillID uuid.UUID, in SkillInput) (skill.Skill, error)
}

type Skill struct {
	skills    skill.Repository
	users     user.Repository
	baselines BaselineForgetter
}

func NewSkillUsecase(skills skill.Repository, users user.Repository) *Skill {
	return &Skill{skills: skills, users: users}
}

// WithBaselines makes catalog writes drop the cached market figures of the
// written skill, so stored demand and salary show up immediately.
func (u *Skill) WithBaselines(b BaselineForgetter) *Skill {
	cp := *u
	cp.baselines = b
	return &cp
}

func (u *Skill) List(ctx context.Context, category string) ([]skill.Skill, error) {
	items, err := u.skills.List(ctx, category)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *Skill) Create(ctx context.Context, actorID uuid.UUID, in SkillInput) (skill.Skill, error) {
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return skill.Skill{}, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return skill.Skill{}, invalidInput("name is required")
	}
	if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
		return skill.Skill{}, invalidInput("category is required")
	}

	var s skill.Skill
	in.applyTo(&s)
	created, err := u.skills.Create(ctx, s)
	if err != nil {
		if errors.Is(err, skill.ErrAlreadyExists) {
			return skill.Skill{}, ErrConflict
		}
		return skill.Skill{}, internalErr(err)
	}
	u.forget(ctx, created.Name)
	return created, nil
}

func (u *Skill) Update(ctx context.Context, actorID, skillID uuid.UUID, in SkillInput) (skill.Skill, error) {
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return skill.Skill{}, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return skill.Skill{}, invalidInput("name must not be empty")
	}

	current, err := u.skills.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return skill.Skill{}, notFound("skill")
		}
		return skill.Skill{}, internalErr(err)
	}
	previousName := current.Name
	in.applyTo(&current)

	updated, err := u.skills.Update(ctx, current)
	if err != nil {
		switch {
		case errors.Is(err, skill.ErrNotFound):
			return skill.Skill{}, notFound("skill")
		case errors.Is(err, skill.ErrAlreadyExists):
			return skill.Skill{}, ErrConflict
		}
		return skill.Skill{}, internalErr(err)
	}
	u.forget(ctx, previousName)
	if !strings.EqualFold(previousName, updated.Name) {
		u.forget(ctx, updated.Name)
	}
	return updated, nil
}

func (u *Skill) forget(ctx context.Context, name string) {
	if u.baselines != nil {
		u.baselines.Forget(ctx, name)
	}
}

func (u *Skill) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := u.users.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnauthorized
		}
		return internalErr(err)
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// applyTo copies the set fields; scores are clamped by skill.Normalize on
// write.
func (in SkillInput) applyTo(s *skill.Skill) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.MarketDemand != nil {
		s.MarketDemand = *in.MarketDemand
	}
	if in.TrendingScore != nil {
		s.TrendingScore = *in.TrendingScore
	}
	if in.AverageSalary != nil {
		v := *in.AverageSalary
		s.AverageSalary = &v
	}
	*s = s.Normalize()
}
