package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	userID     uuid.UUID
	skills     *fakeSkills
	userSkills *fakeUserSkills
	paths      *fakePaths
	progress   *fakeProgress
	cache      *fakeCache
	uc         *Analytics
}

func newAnalyticsFixture(t *testing.T) analyticsFixture {
	t.Helper()
	userID := uuid.New()
	skills := newFakeSkills(
		skill.Skill{ID: uuid.New(), Name: "Go", Category: "Backend", MarketDemand: 90, TrendingScore: 85},
		skill.Skill{ID: uuid.New(), Name: "Kubernetes", Category: "DevOps", MarketDemand: 95, TrendingScore: 88},
	)
	userSkills := newFakeUserSkills(skills)
	for _, s := range skills.items {
		_, err := userSkills.Upsert(context.Background(), skill.UserSkill{UserID: userID, SkillID: s.ID, Proficiency: 60})
		require.NoError(t, err)
	}
	progress := &fakeProgress{}
	paths := newFakePaths(progress)
	cache := newFakeCache()
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	provider := market.NewSeededProvider("test").WithClock(func() time.Time { return now })

	uc := NewAnalyticsUsecase(newFakeUsers(user.User{ID: userID}), userSkills, paths, progress, provider, cache, logger.Nop())
	uc.now = func() time.Time { return now }
	return analyticsFixture{userID: userID, skills: skills, userSkills: userSkills, paths: paths, progress: progress, cache: cache, uc: uc}
}

func TestAnalytics_Progress_NoPaths(t *testing.T) {
	f := newAnalyticsFixture(t)

	snap, err := f.uc.Progress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.TotalPaths)
	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.Equal(t, 2, snap.TotalSkills)
	assert.Equal(t, 2, snap.SkillLevels[skill.LevelIntermediate])
}

func TestAnalytics_Progress_UsesLatestRecordPerPath(t *testing.T) {
	f := newAnalyticsFixture(t)
	done := learning.Path{ID: uuid.New(), UserID: f.userID, Title: "Done", IsActive: true}
	open := learning.Path{ID: uuid.New(), UserID: f.userID, Title: "Open", IsActive: true}
	f.paths.items[done.ID] = done
	f.paths.items[open.ID] = open

	base := f.uc.now().Add(-48 * time.Hour)
	f.progress.items = []learning.Progress{
		{UserID: f.userID, PathID: &done.ID, Completion: 60, TimeSpentMinutes: 30, CreatedAt: base},
		{UserID: f.userID, PathID: &done.ID, Completion: 100, TimeSpentMinutes: 30, CreatedAt: base.Add(time.Hour)},
		{UserID: f.userID, PathID: &open.ID, Completion: 80, TimeSpentMinutes: 60, CreatedAt: base},
		{UserID: f.userID, PathID: &open.ID, Completion: 20, TimeSpentMinutes: 60, CreatedAt: base.Add(2 * time.Hour)},
	}

	snap, err := f.uc.Progress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalPaths)
	assert.Equal(t, 1, snap.CompletedPaths)
	assert.Equal(t, 50.0, snap.CompletionRate)
	assert.Equal(t, 60.0, snap.AverageProgress)
	assert.Equal(t, 3.0, snap.TotalHours)
}

func TestAnalytics_Progress_CachedUntilInvalidated(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	first, err := f.uc.Progress(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, f.cache.has(analyticsKey(f.userID, snapshotProgress)))

	p := learning.Path{ID: uuid.New(), UserID: f.userID, Title: "New"}
	f.paths.items[p.ID] = p

	cached, err := f.uc.Progress(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalPaths, cached.TotalPaths)

	f.uc.cache.invalidate(ctx, f.userID)
	fresh, err := f.uc.Progress(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalPaths)
}

func TestAnalytics_MarketAndCompetitive(t *testing.T) {
	f := newAnalyticsFixture(t)
	ctx := context.Background()

	m, err := f.uc.Market(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, m.Skills, 2)
	assert.Equal(t, 92.5, m.AverageDemand)
	assert.Equal(t, "Kubernetes", m.TopDemandSkill)
	assert.Len(t, m.Trends, 6)

	c, err := f.uc.Competitive(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, c.Comparisons, 2)
	assert.GreaterOrEqual(t, c.Percentile, 1)
	assert.LessOrEqual(t, c.Percentile, 99)

	again, err := f.uc.Competitive(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestAnalytics_UnknownUser(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.uc.Market(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.uc.Progress(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalytics_ExportCSV(t *testing.T) {
	f := newAnalyticsFixture(t)

	out, err := f.uc.Export(context.Background(), f.userID, ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, "skillbridge-analytics-20260520.csv", out.Filename)
	rows, err := csv.NewReader(bytes.NewReader(out.Body)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"section", "metric", "value"}, rows[0])

	sections := map[string]bool{}
	for _, r := range rows[1:] {
		require.Len(t, r, 3)
		sections[r[0]] = true
	}
	assert.True(t, sections["progress"])
	assert.True(t, sections["market"])
	assert.True(t, sections["competitive"])
}

func TestAnalytics_ExportJSONAndFormat(t *testing.T) {
	f := newAnalyticsFixture(t)

	out, err := f.uc.Export(context.Background(), f.userID, ExportJSON)
	require.NoError(t, err)
	assert.Nil(t, out.Body)
	assert.Equal(t, 2, out.Snapshot.Progress.TotalSkills)

	_, err = ParseExportFormat("xml")
	assert.ErrorIs(t, err, ErrInvalidInput)
	fmtJSON, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportJSON, fmtJSON)
}

func TestRenderCSV_EscapesFormulaText(t *testing.T) {
	var snap AnalyticsSnapshot
	snap.Market.TopDemandSkill = "=HYPERLINK(\"http://x\")"
	snap.Competitive.AverageGap = -1.5

	body, err := renderCSV(snap)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)

	values := map[string]string{}
	for _, r := range rows[1:] {
		values[r[1]] = r[2]
	}
	assert.Equal(t, "'=HYPERLINK(\"http://x\")", values["topDemandSkill"])
	assert.Equal(t, "-1.5", values["averageGap"])

	cases := map[string]string{
		"+1":       "'+1",
		"-SUM(A1)": "'-SUM(A1)",
		"@cmd":     "'@cmd",
		"Go":       "Go",
		"":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, csvText(in), in)
	}
}
