package usecase

import (
	"context"
	"errors"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

const maxPathItems = 50

type PathSkillInput struct {
	SkillID     uuid.UUID
	TargetLevel string
}

type ResourceInput struct {
	Title           string
	URL             string
	Type            string
	DurationMinutes int
}

// PathInput is shared by create and update. On update nil fields keep their
// stored value and non-nil slices replace the stored set.
type PathInput struct {
	Title          *string
	Description    *string
	Difficulty     *string
	EstimatedHours *int
	IsActive       *bool
	Skills         []PathSkillInput
	Resources      []ResourceInput
}

type LearningPathUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]learning.Path, error)
	Get(ctx context.Context, userID, pathID uuid.UUID) (learning.Path, error)
	Create(ctx context.Context, userID uuid.UUID, in PathInput) (learning.Path, error)
	Update(ctx context.Context, userID, pathID uuid.UUID, in PathInput) (learning.Path, error)
	Delete(ctx context.Context, userID, pathID uuid.UUID) error
}

type LearningPaths struct {
	paths     learning.PathRepository
	uow       database.UnitOfWork
	analytics *analyticsCache
}

func NewLearningPathUsecase(paths learning.PathRepository, uow database.UnitOfWork, cache Cache, log *logger.Logger) *LearningPaths {
	return &LearningPaths{paths: paths, uow: uow, analytics: newAnalyticsCache(cache, log)}
}

func (u *LearningPaths) List(ctx context.Context, userID uuid.UUID) ([]learning.Path, error) {
	items, err := u.paths.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *LearningPaths) Get(ctx context.Context, userID, pathID uuid.UUID) (learning.Path, error) {
	p, err := u.paths.GetByID(ctx, userID, pathID)
	if err != nil {
		return learning.Path{}, mapPathErr(err)
	}
	return p, nil
}

func (u *LearningPaths) Create(ctx context.Context, userID uuid.UUID, in PathInput) (learning.Path, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return learning.Path{}, invalidInput("title is required")
	}
	p := learning.Path{
		ID:         uuid.New(),
		UserID:     userID,
		Difficulty: skill.LevelBeginner,
		IsActive:   true,
	}
	if err := in.applyTo(&p); err != nil {
		return learning.Path{}, err
	}
	pathSkills, resources, err := in.children()
	if err != nil {
		return learning.Path{}, err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.paths.Create(ctx, p); err != nil {
			return err
		}
		if err := u.paths.ReplaceSkills(ctx, p.ID, pathSkills); err != nil {
			return err
		}
		return u.paths.ReplaceResources(ctx, p.ID, resources)
	})
	if err != nil {
		return learning.Path{}, mapPathErr(err)
	}
	u.analytics.invalidate(ctx, userID)
	return u.Get(ctx, userID, p.ID)
}

func (u *LearningPaths) Update(ctx context.Context, userID, pathID uuid.UUID, in PathInput) (learning.Path, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return learning.Path{}, invalidInput("title must not be empty")
	}
	pathSkills, resources, err := in.children()
	if err != nil {
		return learning.Path{}, err
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		p, err := u.paths.GetByID(ctx, userID, pathID)
		if err != nil {
			return err
		}
		if err := in.applyTo(&p); err != nil {
			return err
		}
		if err := u.paths.UpdateDetails(ctx, p); err != nil {
			return err
		}
		if in.Skills != nil {
			if err := u.paths.ReplaceSkills(ctx, p.ID, pathSkills); err != nil {
				return err
			}
		}
		if in.Resources != nil {
			if err := u.paths.ReplaceResources(ctx, p.ID, resources); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return learning.Path{}, mapPathErr(err)
	}
	u.analytics.invalidate(ctx, userID)
	return u.Get(ctx, userID, pathID)
}

func (u *LearningPaths) Delete(ctx context.Context, userID, pathID uuid.UUID) error {
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		return u.paths.Delete(ctx, userID, pathID)
	})
	if err != nil {
		return mapPathErr(err)
	}
	u.analytics.invalidate(ctx, userID)
	return nil
}

func (in PathInput) applyTo(p *learning.Path) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Difficulty != nil {
		lvl, err := skill.ParseLevel(*in.Difficulty)
		if err != nil {
			return invalidInput("difficulty must be one of BEGINNER, INTERMEDIATE, ADVANCED, EXPERT")
		}
		p.Difficulty = lvl
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return invalidInput("estimatedHours must not be negative")
		}
		p.EstimatedHours = *in.EstimatedHours
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

// children validates and orders the skill links and resources.
func (in PathInput) children() ([]learning.PathSkill, []learning.Resource, error) {
	if len(in.Skills) > maxPathItems || len(in.Resources) > maxPathItems {
		return nil, nil, invalidInput("a learning path holds at most %d skills and %d resources", maxPathItems, maxPathItems)
	}

	seen := make(map[uuid.UUID]bool, len(in.Skills))
	skills := make([]learning.PathSkill, 0, len(in.Skills))
	for i, s := range in.Skills {
		if s.SkillID == uuid.Nil {
			return nil, nil, invalidInput("skills[%d].skillId is required", i)
		}
		if seen[s.SkillID] {
			return nil, nil, invalidInput("skills[%d] repeats a skill", i)
		}
		seen[s.SkillID] = true
		lvl := skill.LevelIntermediate
		if s.TargetLevel != "" {
			parsed, err := skill.ParseLevel(s.TargetLevel)
			if err != nil {
				return nil, nil, invalidInput("skills[%d].targetLevel is invalid", i)
			}
			lvl = parsed
		}
		skills = append(skills, learning.PathSkill{SkillID: s.SkillID, Order: i, TargetLevel: lvl})
	}

	resources := make([]learning.Resource, 0, len(in.Resources))
	for i, r := range in.Resources {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			return nil, nil, invalidInput("resources[%d].title is required", i)
		}
		typ := learning.ResourceArticle
		if r.Type != "" {
			typ = learning.ResourceType(strings.ToUpper(strings.TrimSpace(r.Type)))
			if !typ.Valid() {
				return nil, nil, invalidInput("resources[%d].type is invalid", i)
			}
		}
		if r.DurationMinutes < 0 {
			return nil, nil, invalidInput("resources[%d].durationMinutes must not be negative", i)
		}
		resources = append(resources, learning.Resource{
			Title:           title,
			URL:             strings.TrimSpace(r.URL),
			Type:            typ,
			DurationMinutes: r.DurationMinutes,
			Order:           i,
		})
	}
	return skills, resources, nil
}

func mapPathErr(err error) error {
	switch {
	case errors.Is(err, learning.ErrPathNotFound):
		return notFound("learning path")
	case errors.Is(err, skill.ErrNotFound):
		return notFound("skill")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return err
	default:
		return internalErr(err)
	}
}
