package market

import (
	"context"
	"strings"
)

// Skill is the subset of skill data baselines are keyed on. Stored figures
// are optional; zero values mean "unknown".
type Skill struct {
	Name          string
	Category      string
	MarketDemand  int
	TrendingScore int
	AverageSalary *int
}

type SkillMarket struct {
	SkillName     string  `json:"skillName"`
	AverageSalary int     `json:"averageSalary"`
	DemandIndex   int     `json:"demandIndex"`
	GrowthRate    float64 `json:"growthRate"`
	JobOpenings   int     `json:"jobOpenings"`
}

// Benchmark is the proficiency baseline other practitioners of a skill hold.
type Benchmark struct {
	SkillName     string `json:"skillName"`
	MarketAverage int    `json:"marketAverage"`
	TopPerformer  int    `json:"topPerformer"`
}

type BaselineProvider interface {
	SkillMarket(ctx context.Context, s Skill) (SkillMarket, error)
	Benchmark(ctx context.Context, s Skill) (Benchmark, error)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
