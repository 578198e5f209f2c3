package learning

import (
	"errors"
	"sort"
	"time"

	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrPathNotFound = errors.New("learning path not found")
)

type ResourceType string

const (
	ResourceArticle  ResourceType = "ARTICLE"
	ResourceVideo    ResourceType = "VIDEO"
	ResourceCourse   ResourceType = "COURSE"
	ResourceBook     ResourceType = "BOOK"
	ResourceProject  ResourceType = "PROJECT"
	ResourceExercise ResourceType = "EXERCISE"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceArticle, ResourceVideo, ResourceCourse, ResourceBook, ResourceProject, ResourceExercise:
		return true
	default:
		return false
	}
}

type Path struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Title          string
	Description    string
	Difficulty     skill.Level
	EstimatedHours int
	IsActive       bool
	Progress       int
	Skills         []PathSkill
	Resources      []Resource
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Path) IsCompleted() bool {
	return p.Progress >= 100
}

type PathSkill struct {
	SkillID     uuid.UUID
	SkillName   string
	Order       int
	TargetLevel skill.Level
}

type Resource struct {
	ID              uuid.UUID
	Title           string
	URL             string
	Type            ResourceType
	DurationMinutes int
	Order           int
}

type Progress struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"userId"`
	PathID           *uuid.UUID `json:"pathId,omitempty"`
	SkillID          *uuid.UUID `json:"skillId,omitempty"`
	Completion       int        `json:"completion"`
	TimeSpentMinutes int        `json:"timeSpent"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Milestone struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Badge       *string   `json:"badge,omitempty"`
	AchievedAt  time.Time `json:"achievedAt"`
}

// LatestCompletion returns the completion carried by the most recent record
// for pathID, or 0 when the path has no records.
func LatestCompletion(records []Progress, pathID uuid.UUID) int {
	var (
		found  bool
		latest Progress
	)
	for _, r := range records {
		if r.PathID == nil || *r.PathID != pathID {
			continue
		}
		if !found || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
			found = true
		}
	}
	if !found {
		return 0
	}
	return skill.ClampScore(latest.Completion)
}

// ApplyProgress sets Progress on every path from records.
func ApplyProgress(paths []Path, records []Progress) []Path {
	out := make([]Path, len(paths))
	for i, p := range paths {
		p.Progress = LatestCompletion(records, p.ID)
		out[i] = p
	}
	return out
}

// SortByRecency orders records newest first; ties keep input order.
func SortByRecency(records []Progress) []Progress {
	out := make([]Progress, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
