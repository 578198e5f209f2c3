package recommendation

import (
	"fmt"
	"math"
	"sort"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/market"
	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
)

const (
	DefaultCount = 5
	MaxCount     = 20

	trendingThreshold = 80
	topSkillsForPool  = 3

	demandWeight      = 0.45
	trendWeight       = 0.30
	roleBonus         = 20.0
	categoryBonus     = 10.0
	proficiencyWeight = 0.4
	expertOverlapCap  = 15.0
)

type Timeframe string

const (
	Timeframe1Month  Timeframe = "1month"
	Timeframe3Months Timeframe = "3months"
	Timeframe6Months Timeframe = "6months"
	Timeframe1Year   Timeframe = "1year"
)

var timeframeWeeks = map[Timeframe]int{
	Timeframe1Month:  4,
	Timeframe3Months: 13,
	Timeframe6Months: 26,
	Timeframe1Year:   52,
}

func ParseTimeframe(s string) (Timeframe, bool) {
	tf := Timeframe(normalize(s))
	_, ok := timeframeWeeks[tf]
	return tf, ok
}

type CurrentSkill struct {
	SkillID     uuid.UUID
	Name        string
	Category    string
	Proficiency int
}

type Input struct {
	CurrentSkills []CurrentSkill
	TargetRole    string
	Catalog       []skill.Skill
}

type Options struct {
	Count             int
	IncludeMarketData bool
	Timeframe         Timeframe
}

type SuggestedResource struct {
	Title string                `json:"title"`
	Type  learning.ResourceType `json:"type"`
}

type Recommendation struct {
	Skill          skill.Skill
	Reason         string
	MatchScore     int
	EstimatedHours int
	WeeklyHours    float64
	RelatedSkills  []string
	Resources      []SuggestedResource
	Market         *market.SkillMarket
}

type source int

const (
	sourceTrending source = 1 << iota
	sourceCategory
	sourceRole
)

type candidate struct {
	skill       skill.Skill
	sources     source
	proficiency int
	score       float64
}

// Recommend ranks catalog skills for the user. The result holds at most
// opts.Count items sorted by MatchScore desc, MarketDemand desc, name asc.
// Market data is not attached here.
func Recommend(in Input, opts Options) []Recommendation {
	count := opts.Count
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	owned := make(map[string]CurrentSkill, len(in.CurrentSkills))
	ownedByCategory := map[string]int{}
	expertByCategory := map[string]int{}
	for _, cs := range in.CurrentSkills {
		if cs.SkillID != uuid.Nil {
			owned[skillKey(cs.SkillID, "")] = cs
		}
		owned[skillKey(uuid.Nil, cs.Name)] = cs
		cat := normalize(cs.Category)
		ownedByCategory[cat]++
		if skill.LevelFromProficiency(cs.Proficiency) == skill.LevelExpert {
			expertByCategory[cat]++
		}
	}

	poolCategories := topCategories(in.CurrentSkills, topSkillsForPool)
	role := newRoleMatcher(in.TargetRole)

	cands := make([]candidate, 0, len(in.Catalog))
	for _, raw := range in.Catalog {
		s := raw.Normalize()
		if s.Name == "" {
			continue
		}

		prof := 0
		if cs, ok := lookupOwned(owned, s); ok {
			prof = skill.ClampScore(cs.Proficiency)
		}
		if skill.LevelFromProficiency(prof) == skill.LevelExpert {
			continue
		}

		var src source
		if _, ok := poolCategories[normalize(s.Category)]; ok {
			src |= sourceCategory
		}
		if !role.empty() && role.matches(s.Name, s.Category) {
			src |= sourceRole
		}
		if s.TrendingScore >= trendingThreshold {
			src |= sourceTrending
		}
		if src == 0 {
			continue
		}

		c := candidate{skill: s, sources: src, proficiency: prof}
		c.score = score(c, ownedByCategory, expertByCategory)
		cands = append(cands, c)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := matchScore(cands[i].score), matchScore(cands[j].score)
		if si != sj {
			return si > sj
		}
		if cands[i].skill.MarketDemand != cands[j].skill.MarketDemand {
			return cands[i].skill.MarketDemand > cands[j].skill.MarketDemand
		}
		return normalize(cands[i].skill.Name) < normalize(cands[j].skill.Name)
	})

	if len(cands) > count {
		cands = cands[:count]
	}

	weeks := timeframeWeeks[opts.Timeframe]
	out := make([]Recommendation, 0, len(cands))
	for _, c := range cands {
		hours := estimatedHours(c.proficiency)
		rec := Recommendation{
			Skill:          c.skill,
			Reason:         reason(c, in.TargetRole),
			MatchScore:     matchScore(c.score),
			EstimatedHours: hours,
			RelatedSkills:  relatedSkills(in.Catalog, c.skill, owned, 3),
			Resources:      suggestedResources(c.skill.Name),
		}
		if weeks > 0 {
			rec.WeeklyHours = math.Round(float64(hours)/float64(weeks)*10) / 10
		}
		out = append(out, rec)
	}
	return out
}

func score(c candidate, ownedByCategory, expertByCategory map[string]int) float64 {
	v := demandWeight*float64(c.skill.MarketDemand) + trendWeight*float64(c.skill.TrendingScore)
	if c.sources&sourceRole != 0 {
		v += roleBonus
	}
	if c.sources&sourceCategory != 0 {
		v += categoryBonus
	}
	v -= proficiencyWeight * float64(c.proficiency)

	cat := normalize(c.skill.Category)
	if n := ownedByCategory[cat]; n > 0 {
		v -= expertOverlapCap * float64(expertByCategory[cat]) / float64(n)
	}
	return v
}

func matchScore(v float64) int {
	return skill.ClampScore(int(math.Round(v)))
}

func estimatedHours(proficiency int) int {
	return int(math.Round(20 + 0.6*float64(100-skill.ClampScore(proficiency))))
}

func reason(c candidate, targetRole string) string {
	switch {
	case c.sources&sourceRole != 0:
		return fmt.Sprintf("%s is in high demand for %s roles", c.skill.Name, targetRole)
	case c.sources&sourceCategory != 0:
		return fmt.Sprintf("%s builds on your existing %s skills", c.skill.Name, c.skill.Category)
	default:
		return fmt.Sprintf("%s is trending with strong market momentum", c.skill.Name)
	}
}

func topCategories(current []CurrentSkill, n int) map[string]struct{} {
	sorted := make([]CurrentSkill, len(current))
	copy(sorted, current)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Proficiency != sorted[j].Proficiency {
			return sorted[i].Proficiency > sorted[j].Proficiency
		}
		return normalize(sorted[i].Name) < normalize(sorted[j].Name)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make(map[string]struct{}, len(sorted))
	for _, cs := range sorted {
		if cat := normalize(cs.Category); cat != "" {
			out[cat] = struct{}{}
		}
	}
	return out
}

func relatedSkills(catalog []skill.Skill, target skill.Skill, owned map[string]CurrentSkill, limit int) []string {
	cat := normalize(target.Category)
	if cat == "" {
		return []string{}
	}
	related := make([]skill.Skill, 0)
	for _, s := range catalog {
		if normalize(s.Category) != cat || normalize(s.Name) == normalize(target.Name) {
			continue
		}
		if cs, ok := lookupOwned(owned, s); ok && skill.LevelFromProficiency(cs.Proficiency) == skill.LevelExpert {
			continue
		}
		related = append(related, s)
	}
	sort.SliceStable(related, func(i, j int) bool {
		if related[i].MarketDemand != related[j].MarketDemand {
			return related[i].MarketDemand > related[j].MarketDemand
		}
		return normalize(related[i].Name) < normalize(related[j].Name)
	})
	if len(related) > limit {
		related = related[:limit]
	}
	out := make([]string, 0, len(related))
	for _, s := range related {
		out = append(out, s.Name)
	}
	return out
}

func suggestedResources(name string) []SuggestedResource {
	return []SuggestedResource{
		{Title: name + " official documentation", Type: learning.ResourceArticle},
		{Title: name + " fundamentals course", Type: learning.ResourceCourse},
		{Title: "Build a portfolio project with " + name, Type: learning.ResourceProject},
	}
}

// skillKey is the id when known, otherwise the normalized name.
func skillKey(id uuid.UUID, name string) string {
	if id != uuid.Nil {
		return id.String()
	}
	return "name:" + normalize(name)
}

func lookupOwned(owned map[string]CurrentSkill, s skill.Skill) (CurrentSkill, bool) {
	if s.ID != uuid.Nil {
		if cs, ok := owned[skillKey(s.ID, "")]; ok {
			return cs, true
		}
	}
	cs, ok := owned[skillKey(uuid.Nil, s.Name)]
	return cs, ok
}
