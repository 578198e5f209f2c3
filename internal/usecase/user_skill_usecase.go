package usecase

import (
	"context"
	"errors"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

type AssessSkillInput struct {
	SkillID         uuid.UUID
	Proficiency     int
	TargetLevel     *string
	YearsExperience *int
}

type UserSkillUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	Assess(ctx context.Context, userID uuid.UUID, in AssessSkillInput) (skill.UserSkill, []learning.Milestone, error)
	Remove(ctx context.Context, userID, skillID uuid.UUID) error
}

type UserSkill struct {
	userSkills skill.UserSkillRepository
	leveler    *skillLeveler
	uow        database.UnitOfWork
	analytics  *analyticsCache
	notifier   Notifier
	log        *logger.Logger
}

func NewUserSkillUsecase(
	userSkills skill.UserSkillRepository,
	skills skill.Repository,
	milestones learning.MilestoneRepository,
	uow database.UnitOfWork,
	cache Cache,
	notifier Notifier,
	log *logger.Logger,
) *UserSkill {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &UserSkill{
		userSkills: userSkills,
		leveler:    newSkillLeveler(userSkills, skills, milestones),
		uow:        uow,
		analytics:  newAnalyticsCache(cache, log),
		notifier:   notifier,
		log:        log,
	}
}

func (u *UserSkill) List(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	items, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *UserSkill) Assess(ctx context.Context, userID uuid.UUID, in AssessSkillInput) (skill.UserSkill, []learning.Milestone, error) {
	if in.SkillID == uuid.Nil {
		return skill.UserSkill{}, nil, invalidInput("skillId is required")
	}
	change := proficiencyChange{
		SkillID:         in.SkillID,
		Proficiency:     in.Proficiency,
		YearsExperience: in.YearsExperience,
	}
	if in.TargetLevel != nil {
		lvl, err := skill.ParseLevel(*in.TargetLevel)
		if err != nil {
			return skill.UserSkill{}, nil, invalidInput("targetLevel must be one of BEGINNER, INTERMEDIATE, ADVANCED, EXPERT")
		}
		change.TargetLevel = &lvl
	}
	if err := change.validate(); err != nil {
		return skill.UserSkill{}, nil, err
	}

	var (
		saved   skill.UserSkill
		awarded []learning.Milestone
	)
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		saved, awarded, err = u.leveler.apply(ctx, userID, change)
		return err
	})
	if err != nil {
		return skill.UserSkill{}, nil, mapLevelerErr(err)
	}

	u.analytics.invalidate(ctx, userID)
	notifyMilestones(u.notifier, userID, awarded)
	return saved, awarded, nil
}

func (u *UserSkill) Remove(ctx context.Context, userID, skillID uuid.UUID) error {
	if err := u.userSkills.Delete(ctx, userID, skillID); err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return notFound("skill")
		}
		return internalErr(err)
	}
	u.analytics.invalidate(ctx, userID)
	return nil
}
