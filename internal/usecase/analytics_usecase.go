package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillbridge/internal/domain/analytics"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", invalidInput("format must be json or csv")
	}
}

type AnalyticsSnapshot struct {
	Progress    analytics.ProgressSnapshot    `json:"progress"`
	Market      analytics.MarketSnapshot      `json:"market"`
	Competitive analytics.CompetitiveSnapshot `json:"competitive"`
	GeneratedAt time.Time                     `json:"generatedAt"`
}

type AnalyticsExport struct {
	Format   ExportFormat
	Snapshot AnalyticsSnapshot
	// Body is set for CSV exports.
	Body     []byte
	Filename string
}

type AnalyticsUsecase interface {
	Progress(ctx context.Context, userID uuid.UUID) (analytics.ProgressSnapshot, error)
	Market(ctx context.Context, userID uuid.UUID) (analytics.MarketSnapshot, error)
	Competitive(ctx context.Context, userID uuid.UUID) (analytics.CompetitiveSnapshot, error)
	Export(ctx context.Context, userID uuid.UUID, format ExportFormat) (AnalyticsExport, error)
}

type Analytics struct {
	users      user.Repository
	userSkills skill.UserSkillRepository
	paths      learning.PathRepository
	progress   learning.ProgressRepository
	market     market.BaselineProvider
	cache      *analyticsCache
	population int
	now        func() time.Time
}

func NewAnalyticsUsecase(
	users user.Repository,
	userSkills skill.UserSkillRepository,
	paths learning.PathRepository,
	progress learning.ProgressRepository,
	provider market.BaselineProvider,
	cache Cache,
	log *logger.Logger,
) *Analytics {
	return &Analytics{
		users:      users,
		userSkills: userSkills,
		paths:      paths,
		progress:   progress,
		market:     provider,
		cache:      newAnalyticsCache(cache, log),
		population: analytics.DefaultPopulationSize,
		now:        time.Now,
	}
}

func (u *Analytics) Progress(ctx context.Context, userID uuid.UUID) (analytics.ProgressSnapshot, error) {
	var snap analytics.ProgressSnapshot
	if u.cache.load(ctx, userID, snapshotProgress, &snap) {
		return snap, nil
	}

	var (
		paths   []learning.Path
		records []learning.Progress
		owned   []skill.UserSkill
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return u.requireUser(gctx, userID) })
	g.Go(func() error {
		var err error
		paths, err = u.paths.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = u.progress.ListByUser(gctx, userID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = u.userSkills.FindByUserID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.ProgressSnapshot{}, mapAnalyticsErr(err)
	}

	snap = analytics.AggregateProgress(paths, records, owned, u.now())
	u.cache.store(ctx, userID, snapshotProgress, snap)
	return snap, nil
}

func (u *Analytics) Market(ctx context.Context, userID uuid.UUID) (analytics.MarketSnapshot, error) {
	var snap analytics.MarketSnapshot
	if u.cache.load(ctx, userID, snapshotMarket, &snap) {
		return snap, nil
	}

	owned, err := u.ownedSkills(ctx, userID)
	if err != nil {
		return analytics.MarketSnapshot{}, err
	}
	snap, err = analytics.AggregateMarket(ctx, u.market, owned, u.now())
	if err != nil {
		return analytics.MarketSnapshot{}, internalErr(err)
	}
	u.cache.store(ctx, userID, snapshotMarket, snap)
	return snap, nil
}

func (u *Analytics) Competitive(ctx context.Context, userID uuid.UUID) (analytics.CompetitiveSnapshot, error) {
	var snap analytics.CompetitiveSnapshot
	if u.cache.load(ctx, userID, snapshotCompetitive, &snap) {
		return snap, nil
	}

	owned, err := u.ownedSkills(ctx, userID)
	if err != nil {
		return analytics.CompetitiveSnapshot{}, err
	}
	snap, err = analytics.AggregateCompetitive(ctx, u.market, owned, u.population)
	if err != nil {
		return analytics.CompetitiveSnapshot{}, internalErr(err)
	}
	u.cache.store(ctx, userID, snapshotCompetitive, snap)
	return snap, nil
}

func (u *Analytics) Export(ctx context.Context, userID uuid.UUID, format ExportFormat) (AnalyticsExport, error) {
	if format != ExportJSON && format != ExportCSV {
		return AnalyticsExport{}, invalidInput("format must be json or csv")
	}

	var snap AnalyticsSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Progress, err = u.Progress(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Market, err = u.Market(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Competitive, err = u.Competitive(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return AnalyticsExport{}, err
	}
	snap.GeneratedAt = u.now().UTC()

	out := AnalyticsExport{
		Format:   format,
		Snapshot: snap,
		Filename: "skillbridge-analytics-" + snap.GeneratedAt.Format("20060102") + "." + string(format),
	}
	if format == ExportCSV {
		body, err := renderCSV(snap)
		if err != nil {
			return AnalyticsExport{}, internalErr(err)
		}
		out.Body = body
	}
	return out, nil
}

func (u *Analytics) ownedSkills(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	var owned []skill.UserSkill
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return u.requireUser(gctx, userID) })
	g.Go(func() error {
		var err error
		owned, err = u.userSkills.FindByUserID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapAnalyticsErr(err)
	}
	return owned, nil
}

func (u *Analytics) requireUser(ctx context.Context, userID uuid.UUID) error {
	_, err := u.users.GetUserByID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return notFound("user")
	}
	return err
}

func mapAnalyticsErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return internalErr(err)
}
