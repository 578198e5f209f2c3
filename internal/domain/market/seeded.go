package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// SeededProvider synthesizes baselines that are stable for a given skill
// within one UTC day. Stored skill figures win over synthesized ones.
type SeededProvider struct {
	salt string
	now  func() time.Time
}

func NewSeededProvider(salt string) *SeededProvider {
	return &SeededProvider{salt: salt, now: time.Now}
}

// WithClock returns a copy that reads the day from now.
func (p *SeededProvider) WithClock(now func() time.Time) *SeededProvider {
	cp := *p
	cp.now = now
	return &cp
}

func (p *SeededProvider) SkillMarket(ctx context.Context, s Skill) (SkillMarket, error) {
	if err := ctx.Err(); err != nil {
		return SkillMarket{}, err
	}
	r := p.rng("market", s.Name)

	salary := 70000 + r.IntN(80000)
	if s.AverageSalary != nil && *s.AverageSalary > 0 {
		salary = *s.AverageSalary
	}

	demand := 60 + r.IntN(40)
	if s.MarketDemand > 0 {
		demand = clamp(s.MarketDemand, 0, 100)
	}

	growth := 5 + r.Float64()*25
	if s.TrendingScore > 0 {
		growth = float64(clamp(s.TrendingScore, 0, 100))*0.3 + r.Float64()*2
	}

	openings := demand*50 + r.IntN(2000)

	return SkillMarket{
		SkillName:     s.Name,
		AverageSalary: roundTo(salary, 500),
		DemandIndex:   demand,
		GrowthRate:    math.Round(growth*10) / 10,
		JobOpenings:   openings,
	}, nil
}

func (p *SeededProvider) Benchmark(ctx context.Context, s Skill) (Benchmark, error) {
	if err := ctx.Err(); err != nil {
		return Benchmark{}, err
	}
	r := p.rng("benchmark", s.Name)
	return Benchmark{
		SkillName:     s.Name,
		MarketAverage: 45 + r.IntN(25),
		TopPerformer:  85 + r.IntN(14),
	}, nil
}

func (p *SeededProvider) rng(kind, name string) *rand.Rand {
	day := p.day()
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.salt))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(normalizeName(name)))
	seed := h.Sum64()

	h.Reset()
	_, _ = h.Write([]byte(day))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

func (p *SeededProvider) day() string {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return now().UTC().Format(time.DateOnly)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v, step int) int {
	if step <= 0 {
		return v
	}
	return int(math.Round(float64(v)/float64(step))) * step
}
