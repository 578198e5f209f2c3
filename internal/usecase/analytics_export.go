package usecase

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"skillbridge/internal/domain/skill"
)

// renderCSV flattens a snapshot into section,metric,value rows.
func renderCSV(s AnalyticsSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"section", "metric", "value"}}
	add := func(section, metric, value string) {
		rows = append(rows, []string{section, csvText(metric), value})
	}
	itoa := strconv.Itoa
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	add("meta", "generatedAt", s.GeneratedAt.Format(time.RFC3339))

	p := s.Progress
	add("progress", "totalPaths", itoa(p.TotalPaths))
	add("progress", "completedPaths", itoa(p.CompletedPaths))
	add("progress", "activePaths", itoa(p.ActivePaths))
	add("progress", "completionRate", ftoa(p.CompletionRate))
	add("progress", "totalHours", ftoa(p.TotalHours))
	add("progress", "averageProgress", ftoa(p.AverageProgress))
	add("progress", "learningVelocity", ftoa(p.LearningVelocity))
	add("progress", "totalSkills", itoa(p.TotalSkills))
	for _, lvl := range []skill.Level{skill.LevelBeginner, skill.LevelIntermediate, skill.LevelAdvanced, skill.LevelExpert} {
		add("progress", "skillLevel."+string(lvl), itoa(p.SkillLevels[lvl]))
	}
	for _, d := range p.DailyActivity {
		add("progress", "activity."+d.Date, itoa(d.Updates))
	}

	m := s.Market
	add("market", "averageSalary", itoa(m.AverageSalary))
	add("market", "averageDemand", ftoa(m.AverageDemand))
	add("market", "averageGrowth", ftoa(m.AverageGrowth))
	add("market", "totalOpenings", itoa(m.TotalOpenings))
	add("market", "topDemandSkill", csvText(m.TopDemandSkill))
	for _, sm := range m.Skills {
		add("market", "salary."+sm.SkillName, itoa(sm.AverageSalary))
		add("market", "demand."+sm.SkillName, itoa(sm.DemandIndex))
	}
	for _, t := range m.Trends {
		add("market", "trendSalary."+t.Month, itoa(t.AverageSalary))
	}

	c := s.Competitive
	add("competitive", "percentile", itoa(c.Percentile))
	add("competitive", "rank", itoa(c.Rank))
	add("competitive", "populationSize", itoa(c.PopulationSize))
	add("competitive", "averageGap", ftoa(c.AverageGap))
	for _, cmp := range c.Comparisons {
		add("competitive", "gap."+cmp.SkillName, itoa(cmp.Gap))
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvText quotes free text that a spreadsheet would otherwise evaluate as a
// formula. Numeric cells are written as-is so negative values stay numbers.
func csvText(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
