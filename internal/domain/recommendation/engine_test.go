package recommendation

import (
	"fmt"
	"testing"

	"skillbridge/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogSkill(name, category string, demand, trending int) skill.Skill {
	return skill.Skill{ID: uuid.New(), Name: name, Category: category, MarketDemand: demand, TrendingScore: trending}
}

func scenarioCatalog() []skill.Skill {
	return []skill.Skill{
		catalogSkill("React", "Frontend", 90, 85),
		catalogSkill("Vue", "Frontend", 75, 70),
		catalogSkill("SQL", "Database", 80, 60),
		catalogSkill("PyTorch", "AI/ML", 88, 92),
		catalogSkill("TensorFlow", "AI/ML", 84, 78),
		catalogSkill("Blockchain", "Web3", 50, 85),
		catalogSkill("COBOL", "Legacy", 40, 10),
	}
}

func TestRecommend_ExampleScenario(t *testing.T) {
	catalog := scenarioCatalog()
	in := Input{
		CurrentSkills: []CurrentSkill{
			{SkillID: catalog[0].ID, Name: "React", Category: "Frontend", Proficiency: 90},
			{SkillID: catalog[2].ID, Name: "SQL", Category: "Database", Proficiency: 40},
		},
		TargetRole: "AI Engineer",
		Catalog:    catalog,
	}

	recs := Recommend(in, Options{Count: 2})
	require.Len(t, recs, 2)

	for _, r := range recs {
		assert.NotEqual(t, "React", r.Skill.Name)
	}
	assert.Equal(t, "PyTorch", recs[0].Skill.Name)
	assert.Equal(t, "AI/ML", recs[0].Skill.Category)
	assert.Contains(t, recs[0].Reason, "AI Engineer")

	all := Recommend(in, Options{Count: MaxCount})
	pos := map[string]int{}
	for i, r := range all {
		pos[r.Skill.Name] = i
	}
	assert.NotContains(t, pos, "React")
	assert.NotContains(t, pos, "COBOL")
	require.Contains(t, pos, "Blockchain")
	assert.Less(t, pos["PyTorch"], pos["Blockchain"])
	assert.Less(t, pos["TensorFlow"], pos["Blockchain"])
}

func TestRecommend_CountAndScoreBounds(t *testing.T) {
	catalog := make([]skill.Skill, 0, 40)
	for i := 0; i < 40; i++ {
		catalog = append(catalog, catalogSkill(fmt.Sprintf("Skill-%02d", i), "Cloud", (i*37)%130-10, 80+(i%30)))
	}

	for _, count := range []int{1, 3, 7, 20} {
		recs := Recommend(Input{Catalog: catalog}, Options{Count: count})
		assert.LessOrEqual(t, len(recs), count)
		for i, r := range recs {
			assert.GreaterOrEqual(t, r.MatchScore, 0)
			assert.LessOrEqual(t, r.MatchScore, 100)
			if i > 0 {
				assert.GreaterOrEqual(t, recs[i-1].MatchScore, r.MatchScore)
			}
		}
	}

	assert.Len(t, Recommend(Input{Catalog: catalog}, Options{}), DefaultCount)
	assert.Len(t, Recommend(Input{Catalog: catalog}, Options{Count: 500}), MaxCount)
}

func TestRecommend_TieBreaksByDemandThenName(t *testing.T) {
	catalog := []skill.Skill{
		catalogSkill("Zig", "Systems", 80, 80),
		catalogSkill("Ada", "Systems", 80, 80),
		catalogSkill("Nim", "Systems", 70, 92),
	}
	// Nim: 0.45*70+0.3*92 = 59.1 -> 59; Ada/Zig: 36+24 = 60.
	recs := Recommend(Input{Catalog: catalog}, Options{Count: 3})
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Ada", "Zig", "Nim"}, []string{recs[0].Skill.Name, recs[1].Skill.Name, recs[2].Skill.Name})

	catalog = []skill.Skill{
		catalogSkill("Low", "Systems", 60, 89),
		catalogSkill("High", "Systems", 62, 86),
	}
	// Low: 27+26.7 = 53.7 -> 54; High: 27.9+25.8 = 53.7 -> 54.
	recs = Recommend(Input{Catalog: catalog}, Options{Count: 2})
	require.Len(t, recs, 2)
	assert.Equal(t, "High", recs[0].Skill.Name)
}

func TestRecommend_PartialProficiencyPenalized(t *testing.T) {
	a := catalogSkill("Kubernetes", "DevOps", 85, 85)
	b := catalogSkill("Terraform", "DevOps", 85, 85)
	in := Input{
		CurrentSkills: []CurrentSkill{{Name: "kubernetes", Category: "DevOps", Proficiency: 60}},
		Catalog:       []skill.Skill{a, b},
	}

	recs := Recommend(in, Options{Count: 2})
	require.Len(t, recs, 2)
	assert.Equal(t, "Terraform", recs[0].Skill.Name)
	assert.Equal(t, 80, recs[0].EstimatedHours)
	assert.Equal(t, 44, recs[1].EstimatedHours)
}

func TestRecommend_TimeframeAndExtras(t *testing.T) {
	catalog := []skill.Skill{
		catalogSkill("Go", "Backend", 90, 85),
		catalogSkill("Rust", "Backend", 80, 88),
		catalogSkill("Java", "Backend", 85, 40),
	}
	tf, ok := ParseTimeframe(" 3Months ")
	require.True(t, ok)

	recs := Recommend(Input{Catalog: catalog}, Options{Count: 1, Timeframe: tf})
	require.Len(t, recs, 1)
	assert.Equal(t, "Go", recs[0].Skill.Name)
	assert.InDelta(t, 6.2, recs[0].WeeklyHours, 0.001)
	assert.Equal(t, []string{"Java", "Rust"}, recs[0].RelatedSkills)
	assert.Len(t, recs[0].Resources, 3)
	assert.Nil(t, recs[0].Market)

	_, ok = ParseTimeframe("forever")
	assert.False(t, ok)
}

func TestRecommend_EmptyInputs(t *testing.T) {
	assert.Empty(t, Recommend(Input{}, Options{Count: 5}))
	assert.Empty(t, Recommend(Input{Catalog: []skill.Skill{catalogSkill("COBOL", "Legacy", 40, 10)}}, Options{}))
}
