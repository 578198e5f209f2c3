package usecase

import (
	"context"
	"errors"
	"time"

	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/recommendation"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeframe        = recommendation.Timeframe3Months
	regenerateDefaultCount  = 10
	marketLookupConcurrency = 8
)

type RecommendationParams struct {
	Count             int
	IncludeMarketData bool
	Timeframe         string
}

type RecommendationResult struct {
	Recommendations []recommendation.Recommendation
	TargetRole      string
	Timeframe       recommendation.Timeframe
	GeneratedAt     time.Time
}

type RecommendationUsecase interface {
	Get(ctx context.Context, userID uuid.UUID, params RecommendationParams) (RecommendationResult, error)
	UpdatePreferencesAndRegenerate(ctx context.Context, userID uuid.UUID, prefs ProfileInput, count int) (RecommendationResult, error)
}

type Recommendations struct {
	users      user.Repository
	profiles   user.ProfileRepository
	skills     skill.Repository
	userSkills skill.UserSkillRepository
	market     market.BaselineProvider
	log        *logger.Logger
	now        func() time.Time
}

func NewRecommendationUsecase(
	users user.Repository,
	profiles user.ProfileRepository,
	skills skill.Repository,
	userSkills skill.UserSkillRepository,
	provider market.BaselineProvider,
	log *logger.Logger,
) *Recommendations {
	return &Recommendations{
		users:      users,
		profiles:   profiles,
		skills:     skills,
		userSkills: userSkills,
		market:     provider,
		log:        log,
		now:        time.Now,
	}
}

func (u *Recommendations) Get(ctx context.Context, userID uuid.UUID, params RecommendationParams) (RecommendationResult, error) {
	if params.Count < 0 {
		return RecommendationResult{}, invalidInput("count must be a positive integer")
	}
	var explicit *recommendation.Timeframe
	if params.Timeframe != "" {
		tf, ok := recommendation.ParseTimeframe(params.Timeframe)
		if !ok {
			return RecommendationResult{}, invalidInput("timeframe must be one of 1month, 3months, 6months, 1year")
		}
		explicit = &tf
	}

	var (
		owned   []skill.UserSkill
		profile user.Profile
		catalog []skill.Skill
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := u.users.GetUserByID(gctx, userID)
		if errors.Is(err, user.ErrNotFound) {
			return notFound("user")
		}
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = u.userSkills.FindByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		p, err := u.profiles.GetProfile(gctx, userID)
		if errors.Is(err, user.ErrProfileNotFound) {
			return nil
		}
		profile = p
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = u.skills.List(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return RecommendationResult{}, err
		}
		return RecommendationResult{}, internalErr(err)
	}

	tf := defaultTimeframe
	if explicit != nil {
		tf = *explicit
	} else if p, ok := recommendation.ParseTimeframe(profile.Timeframe); ok {
		tf = p
	}

	in := recommendation.Input{
		CurrentSkills: toCurrentSkills(owned),
		TargetRole:    profile.TargetRole,
		Catalog:       catalog,
	}
	recs := recommendation.Recommend(in, recommendation.Options{
		Count:             params.Count,
		IncludeMarketData: params.IncludeMarketData,
		Timeframe:         tf,
	})
	if params.IncludeMarketData {
		u.attachMarket(ctx, recs)
	}

	return RecommendationResult{
		Recommendations: recs,
		TargetRole:      profile.TargetRole,
		Timeframe:       tf,
		GeneratedAt:     u.now().UTC(),
	}, nil
}

// UpdatePreferencesAndRegenerate stores the preferences first so the fresh
// set reflects them. Market data is always attached.
func (u *Recommendations) UpdatePreferencesAndRegenerate(ctx context.Context, userID uuid.UUID, prefs ProfileInput, count int) (RecommendationResult, error) {
	if count <= 0 {
		count = regenerateDefaultCount
	}
	if _, err := upsertProfile(ctx, u.users, u.profiles, userID, prefs); err != nil {
		return RecommendationResult{}, mapProfileErr(err)
	}
	return u.Get(ctx, userID, RecommendationParams{Count: count, IncludeMarketData: true})
}

// attachMarket is best effort: a failed lookup leaves Market nil.
func (u *Recommendations) attachMarket(ctx context.Context, recs []recommendation.Recommendation) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(marketLookupConcurrency)
	for i := range recs {
		g.Go(func() error {
			s := recs[i].Skill
			m, err := u.market.SkillMarket(gctx, market.Skill{
				Name:          s.Name,
				Category:      s.Category,
				MarketDemand:  s.MarketDemand,
				TrendingScore: s.TrendingScore,
				AverageSalary: s.AverageSalary,
			})
			if err != nil {
				u.log.Warn("market lookup failed", "skill", s.Name, "error", err)
				return nil
			}
			recs[i].Market = &m
			return nil
		})
	}
	_ = g.Wait()
}

func toCurrentSkills(owned []skill.UserSkill) []recommendation.CurrentSkill {
	out := make([]recommendation.CurrentSkill, 0, len(owned))
	for _, us := range owned {
		out = append(out, recommendation.CurrentSkill{
			SkillID:     us.SkillID,
			Name:        us.SkillName,
			Category:    us.Category,
			Proficiency: us.Proficiency,
		})
	}
	return out
}
