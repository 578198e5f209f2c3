package dto

import (
	"time"

	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/recommendation"
	"skillbridge/internal/usecase"
)

type RecommendationResponse struct {
	Skill          SkillResponse                      `json:"skill"`
	Reason         string                             `json:"reason"`
	MatchScore     int                                `json:"matchScore"`
	EstimatedHours int                                `json:"estimatedHours"`
	WeeklyHours    float64                            `json:"weeklyHours"`
	RelatedSkills  []string                           `json:"relatedSkills"`
	Resources      []recommendation.SuggestedResource `json:"resources"`
	MarketData     *market.SkillMarket                `json:"marketData,omitempty"`
}

type RecommendationsResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	TargetRole      string                   `json:"targetRole,omitempty"`
	Timeframe       recommendation.Timeframe `json:"timeframe"`
	GeneratedAt     time.Time                `json:"generatedAt"`
}

func NewRecommendationsResponse(res usecase.RecommendationResult) RecommendationsResponse {
	items := make([]RecommendationResponse, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		related := r.RelatedSkills
		if related == nil {
			related = []string{}
		}
		items = append(items, RecommendationResponse{
			Skill:          NewSkillResponse(r.Skill),
			Reason:         r.Reason,
			MatchScore:     r.MatchScore,
			EstimatedHours: r.EstimatedHours,
			WeeklyHours:    r.WeeklyHours,
			RelatedSkills:  related,
			Resources:      r.Resources,
			MarketData:     r.Market,
		})
	}
	return RecommendationsResponse{
		Recommendations: items,
		TargetRole:      res.TargetRole,
		Timeframe:       res.Timeframe,
		GeneratedAt:     res.GeneratedAt,
	}
}
