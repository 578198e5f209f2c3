package analytics

import (
	"context"
	"math"
	"time"

	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/skill"
)

const trendMonths = 6

// Trend multipliers are a display heuristic, not a forecast.
const (
	salaryMonthlyStep = 0.02
	demandMonthlyStep = 0.015
)

type TrendPoint struct {
	Month         string  `json:"month"`
	AverageSalary int     `json:"averageSalary"`
	DemandIndex   float64 `json:"demandIndex"`
}

type MarketSnapshot struct {
	Skills         []market.SkillMarket `json:"skills"`
	AverageSalary  int                  `json:"averageSalary"`
	AverageDemand  float64              `json:"averageDemand"`
	AverageGrowth  float64              `json:"averageGrowth"`
	TotalOpenings  int                  `json:"totalOpenings"`
	TopDemandSkill string               `json:"topDemandSkill,omitempty"`
	Trends         []TrendPoint         `json:"trends"`
}

func AggregateMarket(ctx context.Context, provider market.BaselineProvider, userSkills []skill.UserSkill, now time.Time) (MarketSnapshot, error) {
	snap := MarketSnapshot{Skills: make([]market.SkillMarket, 0, len(userSkills))}

	var salarySum, demandSum int
	var growthSum float64
	topDemand := -1
	for _, us := range userSkills {
		m, err := provider.SkillMarket(ctx, MarketSkill(us))
		if err != nil {
			return MarketSnapshot{}, err
		}
		snap.Skills = append(snap.Skills, m)
		salarySum += m.AverageSalary
		demandSum += m.DemandIndex
		growthSum += m.GrowthRate
		snap.TotalOpenings += m.JobOpenings
		if m.DemandIndex > topDemand {
			topDemand = m.DemandIndex
			snap.TopDemandSkill = m.SkillName
		}
	}

	if n := len(snap.Skills); n > 0 {
		snap.AverageSalary = int(math.Round(float64(salarySum) / float64(n)))
		snap.AverageDemand = round1(float64(demandSum) / float64(n))
		snap.AverageGrowth = round1(growthSum / float64(n))
	}

	snap.Trends = trendSeries(snap.AverageSalary, snap.AverageDemand, now)
	return snap, nil
}

// trendSeries walks back from the current month; older months get smaller
// multipliers so the series is non-decreasing.
func trendSeries(salary int, demand float64, now time.Time) []TrendPoint {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]TrendPoint, 0, trendMonths)
	for k := trendMonths - 1; k >= 0; k-- {
		month := first.AddDate(0, -k, 0)
		out = append(out, TrendPoint{
			Month:         month.Format("2006-01"),
			AverageSalary: int(math.Round(float64(salary) * (1 - salaryMonthlyStep*float64(k)))),
			DemandIndex:   round1(demand * (1 - demandMonthlyStep*float64(k))),
		})
	}
	return out
}

func MarketSkill(us skill.UserSkill) market.Skill {
	return market.Skill{
		Name:          us.SkillName,
		Category:      us.Category,
		MarketDemand:  us.MarketDemand,
		TrendingScore: us.TrendingScore,
		AverageSalary: us.AverageSalary,
	}
}
