package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
	LevelExpert       Level = "EXPERT"
)

var ErrInvalidLevel = errors.New("invalid skill level")

var levelRank = map[Level]int{
	LevelBeginner:     0,
	LevelIntermediate: 1,
	LevelAdvanced:     2,
	LevelExpert:       3,
}

func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; !ok {
		return "", ErrInvalidLevel
	}
	return l, nil
}

// Rank orders levels from BEGINNER (0) to EXPERT (3). Unknown levels rank -1.
func (l Level) Rank() int {
	r, ok := levelRank[l]
	if !ok {
		return -1
	}
	return r
}

func LevelFromProficiency(p int) Level {
	p = ClampScore(p)
	switch {
	case p >= 90:
		return LevelExpert
	case p >= 70:
		return LevelAdvanced
	case p >= 40:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type Skill struct {
	ID            uuid.UUID
	Name          string
	Category      string
	Description   string
	MarketDemand  int
	TrendingScore int
	AverageSalary *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Normalize applies the write-path invariants: trimmed text, scores in
// [0,100], no negative salary.
func (s Skill) Normalize() Skill {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	s.Description = strings.TrimSpace(s.Description)
	s.MarketDemand = ClampScore(s.MarketDemand)
	s.TrendingScore = ClampScore(s.TrendingScore)
	if s.AverageSalary != nil && *s.AverageSalary < 0 {
		s.AverageSalary = nil
	}
	return s
}

type UserSkill struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SkillID         uuid.UUID
	SkillName       string
	Category        string
	MarketDemand    int
	TrendingScore   int
	AverageSalary   *int
	Proficiency     int
	CurrentLevel    Level
	TargetLevel     Level
	YearsExperience int
	UpdatedAt       time.Time
}

func (us UserSkill) Normalize() UserSkill {
	us.Proficiency = ClampScore(us.Proficiency)
	if us.CurrentLevel.Rank() < 0 {
		us.CurrentLevel = LevelFromProficiency(us.Proficiency)
	}
	if us.TargetLevel.Rank() < 0 {
		us.TargetLevel = nextLevel(us.CurrentLevel)
	}
	if us.YearsExperience < 0 {
		us.YearsExperience = 0
	}
	return us
}

func (us UserSkill) IsMastered() bool {
	return LevelFromProficiency(us.Proficiency) == LevelExpert
}

func nextLevel(l Level) Level {
	switch l {
	case LevelBeginner:
		return LevelIntermediate
	case LevelIntermediate:
		return LevelAdvanced
	default:
		return LevelExpert
	}
}
