package market

import (
	"context"
	"strings"
	"time"

	"skillbridge/internal/pkg/logger"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// PatternDeleter is implemented by caches that can drop keys by glob.
type PatternDeleter interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CachedProvider memoizes another provider per skill and UTC day. Cache
// failures fall through to the inner provider.
type CachedProvider struct {
	inner BaselineProvider
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewCachedProvider(inner BaselineProvider, cache Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, log: log, now: time.Now}
}

func (p *CachedProvider) SkillMarket(ctx context.Context, s Skill) (SkillMarket, error) {
	key := p.key("skill", s.Name)
	var out SkillMarket
	if p.load(ctx, key, &out) {
		return out, nil
	}
	out, err := p.inner.SkillMarket(ctx, s)
	if err != nil {
		return SkillMarket{}, err
	}
	p.store(ctx, key, out)
	return out, nil
}

func (p *CachedProvider) Benchmark(ctx context.Context, s Skill) (Benchmark, error) {
	key := p.key("bench", s.Name)
	var out Benchmark
	if p.load(ctx, key, &out) {
		return out, nil
	}
	out, err := p.inner.Benchmark(ctx, s)
	if err != nil {
		return Benchmark{}, err
	}
	p.store(ctx, key, out)
	return out, nil
}

// Forget drops the cached baselines of the named skill for every day. It is a
// no-op when the cache cannot delete by pattern.
func (p *CachedProvider) Forget(ctx context.Context, name string) {
	pd, ok := p.cache.(PatternDeleter)
	if !ok {
		return
	}
	pattern := "market:*:" + globEscaper.Replace(normalizeName(name)) + ":*"
	if err := pd.DeleteByPattern(ctx, pattern); err != nil {
		p.log.Warn("market baseline cache invalidation failed", "pattern", pattern, "error", err)
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

func (p *CachedProvider) key(kind, name string) string {
	return "market:" + kind + ":" + normalizeName(name) + ":" + p.now().UTC().Format(time.DateOnly)
}

func (p *CachedProvider) load(ctx context.Context, key string, out any) bool {
	if p.cache == nil {
		return false
	}
	ok, err := p.cache.GetJSON(ctx, key, out)
	if err != nil {
		p.log.Warn("market baseline cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (p *CachedProvider) store(ctx context.Context, key string, v any) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetJSON(ctx, key, v, p.ttl); err != nil {
		p.log.Warn("market baseline cache write failed", "key", key, "error", err)
	}
}
