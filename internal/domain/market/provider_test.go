package market

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(day string) func() time.Time {
	t, _ := time.Parse(time.DateOnly, day)
	return func() time.Time { return t.Add(15 * time.Hour) }
}

func TestSeededProvider_DeterministicPerDay(t *testing.T) {
	ctx := context.Background()
	p := NewSeededProvider("test").WithClock(fixedClock("2026-10-16"))

	a, err := p.SkillMarket(ctx, Skill{Name: "Kubernetes"})
	require.NoError(t, err)
	b, err := p.SkillMarket(ctx, Skill{Name: "  kubernetes "})
	require.NoError(t, err)
	assert.Equal(t, a.AverageSalary, b.AverageSalary)
	assert.Equal(t, a.DemandIndex, b.DemandIndex)
	assert.Equal(t, a.JobOpenings, b.JobOpenings)

	ba, err := p.Benchmark(ctx, Skill{Name: "Kubernetes"})
	require.NoError(t, err)
	bb, err := p.Benchmark(ctx, Skill{Name: "Kubernetes"})
	require.NoError(t, err)
	assert.Equal(t, ba, bb)
}

func TestSeededProvider_Ranges(t *testing.T) {
	ctx := context.Background()
	p := NewSeededProvider("test").WithClock(fixedClock("2026-01-02"))

	for _, name := range []string{"Go", "Rust", "React", "SQL", "PyTorch", "Terraform"} {
		m, err := p.SkillMarket(ctx, Skill{Name: name})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.AverageSalary, 70000)
		assert.LessOrEqual(t, m.AverageSalary, 150000)
		assert.GreaterOrEqual(t, m.DemandIndex, 60)
		assert.LessOrEqual(t, m.DemandIndex, 99)
		assert.Positive(t, m.JobOpenings)

		b, err := p.Benchmark(ctx, Skill{Name: name})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.MarketAverage, 45)
		assert.Less(t, b.MarketAverage, 70)
		assert.GreaterOrEqual(t, b.TopPerformer, 85)
		assert.Less(t, b.TopPerformer, 99)
	}
}

func TestSeededProvider_StoredFiguresWin(t *testing.T) {
	salary := 123456
	p := NewSeededProvider("test")

	m, err := p.SkillMarket(context.Background(), Skill{Name: "Go", MarketDemand: 140, AverageSalary: &salary})
	require.NoError(t, err)
	assert.Equal(t, 100, m.DemandIndex)
	assert.Equal(t, 123500, m.AverageSalary)
}

func TestSeededProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeededProvider("x").SkillMarket(ctx, Skill{Name: "Go"})
	assert.ErrorIs(t, err, context.Canceled)
}

type mapCache struct {
	mu     sync.Mutex
	items  map[string][]byte
	getErr error
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	return nil
}

type countingProvider struct {
	calls int
}

func (p *countingProvider) SkillMarket(_ context.Context, s Skill) (SkillMarket, error) {
	p.calls++
	return SkillMarket{SkillName: s.Name, AverageSalary: 100000, DemandIndex: 90}, nil
}

func (p *countingProvider) Benchmark(_ context.Context, s Skill) (Benchmark, error) {
	p.calls++
	return Benchmark{SkillName: s.Name, MarketAverage: 55, TopPerformer: 95}, nil
}

func TestCachedProvider_HitsCacheOnSecondCall(t *testing.T) {
	inner := &countingProvider{}
	cache := &mapCache{items: map[string][]byte{}}
	p := NewCachedProvider(inner, cache, time.Hour, nil)

	for i := 0; i < 3; i++ {
		m, err := p.SkillMarket(context.Background(), Skill{Name: "Go"})
		require.NoError(t, err)
		assert.Equal(t, 100000, m.AverageSalary)
	}
	assert.Equal(t, 1, inner.calls)

	_, err := p.Benchmark(context.Background(), Skill{Name: "Go"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_CacheErrorFallsThrough(t *testing.T) {
	inner := &countingProvider{}
	cache := &mapCache{items: map[string][]byte{}, getErr: errors.New("redis down")}
	p := NewCachedProvider(inner, cache, time.Hour, nil)

	b, err := p.Benchmark(context.Background(), Skill{Name: "Go"})
	require.NoError(t, err)
	assert.Equal(t, 55, b.MarketAverage)
	assert.Equal(t, 1, inner.calls)
}

type patternCache struct {
	mapCache
	patterns []string
}

func (c *patternCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	for k := range c.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.items, k)
		}
	}
	return nil
}

func TestCachedProvider_ForgetDropsEveryKind(t *testing.T) {
	inner := &countingProvider{}
	cache := &patternCache{mapCache: mapCache{items: map[string][]byte{}}}
	p := NewCachedProvider(inner, cache, time.Hour, nil)
	ctx := context.Background()

	_, err := p.SkillMarket(ctx, Skill{Name: "C++"})
	require.NoError(t, err)
	_, err = p.Benchmark(ctx, Skill{Name: "C++"})
	require.NoError(t, err)
	_, err = p.SkillMarket(ctx, Skill{Name: "Go"})
	require.NoError(t, err)

	p.Forget(ctx, " C++ ")

	assert.Equal(t, []string{"market:*:c++:*"}, cache.patterns)
	assert.Len(t, cache.items, 1)
	_, err = p.SkillMarket(ctx, Skill{Name: "C++"})
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
}

func TestCachedProvider_ForgetWithoutPatternSupport(t *testing.T) {
	p := NewCachedProvider(&countingProvider{}, &mapCache{items: map[string][]byte{}}, time.Hour, nil)
	assert.NotPanics(t, func() { p.Forget(context.Background(), "Go") })
}
