package analytics

import (
	"context"
	"math"

	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/skill"
)

const (
	DefaultPopulationSize = 10000

	strengthGap          = 5
	improvementGap       = -5
	improvementMinDemand = 85
)

type SkillComparison struct {
	SkillName        string `json:"skillName"`
	Proficiency      int    `json:"proficiency"`
	MarketAverage    int    `json:"marketAverage"`
	TopPerformer     int    `json:"topPerformer"`
	Gap              int    `json:"gap"`
	DemandIndex      int    `json:"demandIndex"`
	IsStrength       bool   `json:"isStrength"`
	NeedsImprovement bool   `json:"needsImprovement"`
}

type CompetitiveSnapshot struct {
	Comparisons      []SkillComparison `json:"comparisons"`
	Strengths        []string          `json:"strengths"`
	ImprovementAreas []string          `json:"improvementAreas"`
	AverageGap       float64           `json:"averageGap"`
	Percentile       int               `json:"percentile"`
	Rank             int               `json:"rank"`
	PopulationSize   int               `json:"populationSize"`
}

func AggregateCompetitive(ctx context.Context, provider market.BaselineProvider, userSkills []skill.UserSkill, populationSize int) (CompetitiveSnapshot, error) {
	if populationSize <= 0 {
		populationSize = DefaultPopulationSize
	}
	snap := CompetitiveSnapshot{
		Comparisons:      make([]SkillComparison, 0, len(userSkills)),
		Strengths:        []string{},
		ImprovementAreas: []string{},
		PopulationSize:   populationSize,
	}

	gapSum := 0
	for _, us := range userSkills {
		ms := MarketSkill(us)
		bench, err := provider.Benchmark(ctx, ms)
		if err != nil {
			return CompetitiveSnapshot{}, err
		}
		mk, err := provider.SkillMarket(ctx, ms)
		if err != nil {
			return CompetitiveSnapshot{}, err
		}

		prof := skill.ClampScore(us.Proficiency)
		c := SkillComparison{
			SkillName:     us.SkillName,
			Proficiency:   prof,
			MarketAverage: bench.MarketAverage,
			TopPerformer:  bench.TopPerformer,
			Gap:           prof - bench.MarketAverage,
			DemandIndex:   mk.DemandIndex,
		}
		c.IsStrength = c.Gap > strengthGap
		c.NeedsImprovement = c.Gap < improvementGap && c.DemandIndex > improvementMinDemand
		if c.IsStrength {
			snap.Strengths = append(snap.Strengths, c.SkillName)
		}
		if c.NeedsImprovement {
			snap.ImprovementAreas = append(snap.ImprovementAreas, c.SkillName)
		}
		gapSum += c.Gap
		snap.Comparisons = append(snap.Comparisons, c)
	}

	if len(snap.Comparisons) == 0 {
		snap.Rank = populationSize
		return snap, nil
	}

	snap.AverageGap = round1(float64(gapSum) / float64(len(snap.Comparisons)))
	snap.Percentile = clampInt(int(math.Round(50+1.5*snap.AverageGap)), 1, 99)
	snap.Rank = clampInt(((100-snap.Percentile)*populationSize+99)/100, 1, populationSize)
	return snap, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
