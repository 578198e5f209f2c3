package analytics

import (
	"math"
	"time"

	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
)

const (
	hoursWindowRecords = 30
	velocityWindowDays = 30
	activityWindowDays = 7
)

type DailyActivity struct {
	Date    string `json:"date"`
	Updates int    `json:"updates"`
	Minutes int    `json:"minutes"`
}

type ProgressSnapshot struct {
	TotalPaths       int                 `json:"totalPaths"`
	CompletedPaths   int                 `json:"completedPaths"`
	ActivePaths      int                 `json:"activePaths"`
	CompletionRate   float64             `json:"completionRate"`
	TotalHours       float64             `json:"totalHours"`
	AverageProgress  float64             `json:"averageProgress"`
	LearningVelocity float64             `json:"learningVelocity"`
	TotalSkills      int                 `json:"totalSkills"`
	SkillLevels      map[skill.Level]int `json:"skillLevels"`
	DailyActivity    []DailyActivity     `json:"dailyActivity"`
}

// AggregateProgress expects paths with Progress already resolved to the
// latest record per path. records may be in any order.
func AggregateProgress(paths []learning.Path, records []learning.Progress, userSkills []skill.UserSkill, now time.Time) ProgressSnapshot {
	snap := ProgressSnapshot{
		TotalPaths:  len(paths),
		TotalSkills: len(userSkills),
		SkillLevels: map[skill.Level]int{
			skill.LevelBeginner:     0,
			skill.LevelIntermediate: 0,
			skill.LevelAdvanced:     0,
			skill.LevelExpert:       0,
		},
	}

	progressSum := 0
	for _, p := range paths {
		if p.IsCompleted() {
			snap.CompletedPaths++
		} else if p.IsActive {
			snap.ActivePaths++
		}
		progressSum += skill.ClampScore(p.Progress)
	}
	if snap.TotalPaths > 0 {
		snap.CompletionRate = round1(float64(snap.CompletedPaths) / float64(snap.TotalPaths) * 100)
		snap.AverageProgress = round1(float64(progressSum) / float64(snap.TotalPaths))
	}

	sorted := learning.SortByRecency(records)
	minutes := 0
	for i, r := range sorted {
		if i >= hoursWindowRecords {
			break
		}
		if r.TimeSpentMinutes > 0 {
			minutes += r.TimeSpentMinutes
		}
	}
	snap.TotalHours = round1(float64(minutes) / 60)

	since := now.Add(-velocityWindowDays * 24 * time.Hour)
	recent := 0
	for _, r := range sorted {
		if r.CreatedAt.After(since) && !r.CreatedAt.After(now) {
			recent++
		}
	}
	snap.LearningVelocity = math.Round(float64(recent)/velocityWindowDays*100) / 100

	for _, us := range userSkills {
		snap.SkillLevels[skill.LevelFromProficiency(us.Proficiency)]++
	}

	snap.DailyActivity = dailyActivity(sorted, now)
	return snap
}

func dailyActivity(records []learning.Progress, now time.Time) []DailyActivity {
	today := truncateDay(now)
	out := make([]DailyActivity, activityWindowDays)
	index := make(map[string]int, activityWindowDays)
	for i := 0; i < activityWindowDays; i++ {
		d := today.AddDate(0, 0, i-(activityWindowDays-1))
		key := d.Format(time.DateOnly)
		out[i] = DailyActivity{Date: key}
		index[key] = i
	}
	for _, r := range records {
		i, ok := index[truncateDay(r.CreatedAt).Format(time.DateOnly)]
		if !ok {
			continue
		}
		out[i].Updates++
		if r.TimeSpentMinutes > 0 {
			out[i].Minutes += r.TimeSpentMinutes
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
