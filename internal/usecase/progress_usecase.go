package usecase

import (
	"context"
	"strings"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	EventProgressUpdated = "progress.updated"

	defaultProgressLimit = 50
	maxProgressLimit     = 500
	maxNotesLength       = 2000
)

type ProgressInput struct {
	PathID           *uuid.UUID
	SkillID          *uuid.UUID
	Completion       int
	TimeSpentMinutes int
	Notes            string
	// Proficiency, with SkillID, also reassesses the user's skill.
	Proficiency *int
}

type ProgressResult struct {
	Progress   learning.Progress
	UserSkill  *skill.UserSkill
	Milestones []learning.Milestone
}

type ProgressHistory struct {
	Records    []learning.Progress
	Milestones []learning.Milestone
}

type ProgressUsecase interface {
	List(ctx context.Context, userID uuid.UUID, pathID *uuid.UUID, limit int) (ProgressHistory, error)
	Append(ctx context.Context, userID uuid.UUID, in ProgressInput) (ProgressResult, error)
}

type Progress struct {
	paths      learning.PathRepository
	progress   learning.ProgressRepository
	milestones learning.MilestoneRepository
	leveler    *skillLeveler
	uow        database.UnitOfWork
	analytics  *analyticsCache
	notifier   Notifier
	log        *logger.Logger
	now        func() time.Time
}

func NewProgressUsecase(
	paths learning.PathRepository,
	progress learning.ProgressRepository,
	milestones learning.MilestoneRepository,
	userSkills skill.UserSkillRepository,
	skills skill.Repository,
	uow database.UnitOfWork,
	cache Cache,
	notifier Notifier,
	log *logger.Logger,
) *Progress {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Progress{
		paths:      paths,
		progress:   progress,
		milestones: milestones,
		leveler:    newSkillLeveler(userSkills, skills, milestones),
		uow:        uow,
		analytics:  newAnalyticsCache(cache, log),
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

func (u *Progress) List(ctx context.Context, userID uuid.UUID, pathID *uuid.UUID, limit int) (ProgressHistory, error) {
	switch {
	case limit < 0:
		return ProgressHistory{}, invalidInput("limit must not be negative")
	case limit == 0:
		limit = defaultProgressLimit
	case limit > maxProgressLimit:
		limit = maxProgressLimit
	}

	var (
		records []learning.Progress
		err     error
	)
	if pathID != nil {
		if _, err := u.paths.GetByID(ctx, userID, *pathID); err != nil {
			return ProgressHistory{}, mapPathErr(err)
		}
		records, err = u.progress.ListByPath(ctx, userID, *pathID, limit)
	} else {
		records, err = u.progress.ListByUser(ctx, userID, limit)
	}
	if err != nil {
		return ProgressHistory{}, internalErr(err)
	}

	milestones, err := u.milestones.ListByUser(ctx, userID)
	if err != nil {
		return ProgressHistory{}, internalErr(err)
	}
	return ProgressHistory{Records: records, Milestones: milestones}, nil
}

// Append records progress. Skill reassessment, milestone awards and the
// record itself commit together; notifications go out after commit.
func (u *Progress) Append(ctx context.Context, userID uuid.UUID, in ProgressInput) (ProgressResult, error) {
	if err := in.validate(); err != nil {
		return ProgressResult{}, err
	}

	record := learning.Progress{
		ID:               uuid.New(),
		UserID:           userID,
		PathID:           in.PathID,
		SkillID:          in.SkillID,
		Completion:       in.Completion,
		TimeSpentMinutes: in.TimeSpentMinutes,
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        u.now().UTC(),
	}

	var out ProgressResult
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		var path *learning.Path
		if in.PathID != nil {
			p, err := u.paths.GetByID(ctx, userID, *in.PathID)
			if err != nil {
				return err
			}
			path = &p
		}

		if err := u.progress.Append(ctx, record); err != nil {
			return err
		}

		if in.SkillID != nil && in.Proficiency != nil {
			saved, awarded, err := u.leveler.apply(ctx, userID, proficiencyChange{
				SkillID:     *in.SkillID,
				Proficiency: *in.Proficiency,
			})
			if err != nil {
				return err
			}
			out.UserSkill = &saved
			out.Milestones = append(out.Milestones, awarded...)
		}

		if path != nil && !path.IsCompleted() && record.Completion >= 100 {
			done := []learning.Milestone{learning.PathCompletedMilestone(path.Title)}
			if err := u.leveler.record(ctx, userID, done); err != nil {
				return err
			}
			out.Milestones = append(out.Milestones, done...)
		}
		return nil
	})
	if err != nil {
		return ProgressResult{}, mapPathErr(err)
	}
	out.Progress = record

	u.analytics.invalidate(ctx, userID)
	u.notifier.Notify(userID, EventProgressUpdated, record)
	notifyMilestones(u.notifier, userID, out.Milestones)
	u.log.Debug("progress recorded", "user_id", userID, "progress_id", record.ID, "milestones", len(out.Milestones))
	return out, nil
}

func (in ProgressInput) validate() error {
	if in.PathID == nil && in.SkillID == nil {
		return invalidInput("pathId or skillId is required")
	}
	if in.Completion < 0 || in.Completion > 100 {
		return invalidInput("completion must be between 0 and 100")
	}
	if in.TimeSpentMinutes < 0 {
		return invalidInput("timeSpent must not be negative")
	}
	if len(in.Notes) > maxNotesLength {
		return invalidInput("notes must be at most %d characters", maxNotesLength)
	}
	if in.Proficiency != nil {
		if in.SkillID == nil {
			return invalidInput("proficiency requires skillId")
		}
		return proficiencyChange{Proficiency: *in.Proficiency}.validate()
	}
	return nil
}
