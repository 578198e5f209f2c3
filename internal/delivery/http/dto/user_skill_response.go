package dto

import (
	"time"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	MarketDemand  int       `json:"marketDemand"`
	TrendingScore int       `json:"trendingScore"`
	AverageSalary *int      `json:"averageSalary,omitempty"`
}

type UserSkillResponse struct {
	ID              uuid.UUID   `json:"id"`
	SkillID         uuid.UUID   `json:"skillId"`
	SkillName       string      `json:"skillName"`
	Category        string      `json:"category"`
	Proficiency     int         `json:"proficiency"`
	CurrentLevel    skill.Level `json:"currentLevel"`
	TargetLevel     skill.Level `json:"targetLevel,omitempty"`
	YearsExperience int         `json:"yearsExperience"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type AssessmentResponse struct {
	UserSkill  UserSkillResponse    `json:"userSkill"`
	Milestones []learning.Milestone `json:"milestones"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{
		ID:            s.ID,
		Name:          s.Name,
		Category:      s.Category,
		Description:   s.Description,
		MarketDemand:  s.MarketDemand,
		TrendingScore: s.TrendingScore,
		AverageSalary: s.AverageSalary,
	}
}

func NewSkillResponses(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSkillResponse(s))
	}
	return out
}

func NewUserSkillResponse(us skill.UserSkill) UserSkillResponse {
	return UserSkillResponse{
		ID:              us.ID,
		SkillID:         us.SkillID,
		SkillName:       us.SkillName,
		Category:        us.Category,
		Proficiency:     us.Proficiency,
		CurrentLevel:    us.CurrentLevel,
		TargetLevel:     us.TargetLevel,
		YearsExperience: us.YearsExperience,
		UpdatedAt:       us.UpdatedAt,
	}
}

func NewUserSkillResponses(items []skill.UserSkill) []UserSkillResponse {
	out := make([]UserSkillResponse, 0, len(items))
	for _, us := range items {
		out = append(out, NewUserSkillResponse(us))
	}
	return out
}

func Milestones(ms []learning.Milestone) []learning.Milestone {
	if ms == nil {
		return []learning.Milestone{}
	}
	return ms
}
