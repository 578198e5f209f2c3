package dto

import (
	"time"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/usecase"

	"github.com/google/uuid"
)

type PathSkillResponse struct {
	SkillID     uuid.UUID   `json:"skillId"`
	SkillName   string      `json:"skillName"`
	Order       int         `json:"order"`
	TargetLevel skill.Level `json:"targetLevel"`
}

type ResourceResponse struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title"`
	URL             string                `json:"url,omitempty"`
	Type            learning.ResourceType `json:"type"`
	DurationMinutes int                   `json:"duration"`
	Order           int                   `json:"order"`
}

type PathResponse struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Difficulty     skill.Level         `json:"difficulty"`
	EstimatedHours int                 `json:"estimatedHours"`
	IsActive       bool                `json:"isActive"`
	Progress       int                 `json:"progress"`
	Skills         []PathSkillResponse `json:"skills"`
	Resources      []ResourceResponse  `json:"resources"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type ProgressEntryResponse struct {
	Progress   learning.Progress    `json:"progress"`
	UserSkill  *UserSkillResponse   `json:"userSkill,omitempty"`
	Milestones []learning.Milestone `json:"milestones"`
}

type ProgressHistoryResponse struct {
	Records    []learning.Progress  `json:"records"`
	Milestones []learning.Milestone `json:"milestones"`
}

func NewPathResponse(p learning.Path) PathResponse {
	out := PathResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Difficulty:     p.Difficulty,
		EstimatedHours: p.EstimatedHours,
		IsActive:       p.IsActive,
		Progress:       p.Progress,
		Skills:         make([]PathSkillResponse, 0, len(p.Skills)),
		Resources:      make([]ResourceResponse, 0, len(p.Resources)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, s := range p.Skills {
		out.Skills = append(out.Skills, PathSkillResponse(s))
	}
	for _, r := range p.Resources {
		out.Resources = append(out.Resources, ResourceResponse(r))
	}
	return out
}

func NewPathResponses(items []learning.Path) []PathResponse {
	out := make([]PathResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewPathResponse(p))
	}
	return out
}

func NewProgressEntryResponse(res usecase.ProgressResult) ProgressEntryResponse {
	out := ProgressEntryResponse{Progress: res.Progress, Milestones: Milestones(res.Milestones)}
	if res.UserSkill != nil {
		us := NewUserSkillResponse(*res.UserSkill)
		out.UserSkill = &us
	}
	return out
}

func NewProgressHistoryResponse(h usecase.ProgressHistory) ProgressHistoryResponse {
	records := h.Records
	if records == nil {
		records = []learning.Progress{}
	}
	return ProgressHistoryResponse{Records: records, Milestones: Milestones(h.Milestones)}
}
