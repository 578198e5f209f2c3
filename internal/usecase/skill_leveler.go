package usecase

import (
	"context"
	"errors"
	"time"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

const EventMilestoneAchieved = "milestone.achieved"

type proficiencyChange struct {
	SkillID         uuid.UUID
	Proficiency     int
	TargetLevel     *skill.Level
	YearsExperience *int
}

func (c proficiencyChange) validate() error {
	if c.Proficiency < 0 || c.Proficiency > 100 {
		return invalidInput("proficiency must be between 0 and 100")
	}
	if c.YearsExperience != nil && *c.YearsExperience < 0 {
		return invalidInput("yearsExperience must not be negative")
	}
	return nil
}

// skillLeveler writes a user's new proficiency and records the milestones it
// earns. Callers run it inside a unit of work.
type skillLeveler struct {
	userSkills skill.UserSkillRepository
	skills     skill.Repository
	milestones learning.MilestoneRepository
	now        func() time.Time
}

func newSkillLeveler(userSkills skill.UserSkillRepository, skills skill.Repository, milestones learning.MilestoneRepository) *skillLeveler {
	return &skillLeveler{userSkills: userSkills, skills: skills, milestones: milestones, now: time.Now}
}

// apply upserts the UserSkill. Milestones are only awarded when an existing
// assessment moves up a level; a first assessment earns none.
func (l *skillLeveler) apply(ctx context.Context, userID uuid.UUID, c proficiencyChange) (skill.UserSkill, []learning.Milestone, error) {
	sk, err := l.skills.GetByID(ctx, c.SkillID)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return skill.UserSkill{}, nil, notFound("skill")
		}
		return skill.UserSkill{}, nil, err
	}

	existing, err := l.userSkills.FindByUserAndSkill(ctx, userID, c.SkillID)
	isNew := errors.Is(err, skill.ErrNotFound)
	if err != nil && !isNew {
		return skill.UserSkill{}, nil, err
	}

	us := existing
	if isNew {
		us = skill.UserSkill{UserID: userID, SkillID: c.SkillID}
	}
	before := skill.LevelFromProficiency(existing.Proficiency)

	us.Proficiency = c.Proficiency
	us.CurrentLevel = skill.LevelFromProficiency(c.Proficiency)
	switch {
	case c.TargetLevel != nil:
		us.TargetLevel = *c.TargetLevel
	case us.TargetLevel.Rank() <= us.CurrentLevel.Rank():
		us.TargetLevel = ""
	}
	if c.YearsExperience != nil {
		us.YearsExperience = *c.YearsExperience
	}

	saved, err := l.userSkills.Upsert(ctx, us)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return skill.UserSkill{}, nil, notFound("skill")
		}
		return skill.UserSkill{}, nil, err
	}
	if isNew {
		return saved, nil, nil
	}

	awarded := learning.MilestonesFor(before, us.CurrentLevel, sk.Name)
	if err := l.record(ctx, userID, awarded); err != nil {
		return skill.UserSkill{}, nil, err
	}
	return saved, awarded, nil
}

func (l *skillLeveler) record(ctx context.Context, userID uuid.UUID, ms []learning.Milestone) error {
	now := l.now().UTC()
	for i := range ms {
		ms[i].ID = uuid.New()
		ms[i].UserID = userID
		ms[i].AchievedAt = now
		if err := l.milestones.Create(ctx, ms[i]); err != nil {
			return err
		}
	}
	return nil
}

func mapLevelerErr(err error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return err
	}
	return internalErr(err)
}

func notifyMilestones(n Notifier, userID uuid.UUID, ms []learning.Milestone) {
	for _, m := range ms {
		n.Notify(userID, EventMilestoneAchieved, m)
	}
}
