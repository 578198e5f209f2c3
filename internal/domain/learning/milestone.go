package learning

import (
	"fmt"

	"skillbridge/internal/domain/skill"
)

type levelReward struct {
	points int
	badge  string
}

var levelRewards = map[skill.Level]levelReward{
	skill.LevelIntermediate: {points: 50},
	skill.LevelAdvanced:     {points: 100, badge: "advanced"},
	skill.LevelExpert:       {points: 200, badge: "expert"},
}

const pathCompletedPoints = 150

// MilestonesFor returns one milestone per level threshold crossed when a
// skill moves from before to after. Moving down or staying put yields none.
func MilestonesFor(before, after skill.Level, skillName string) []Milestone {
	if after.Rank() <= before.Rank() {
		return nil
	}

	out := make([]Milestone, 0, after.Rank()-before.Rank())
	for _, lvl := range []skill.Level{skill.LevelIntermediate, skill.LevelAdvanced, skill.LevelExpert} {
		if lvl.Rank() <= before.Rank() || lvl.Rank() > after.Rank() {
			continue
		}
		reward := levelRewards[lvl]
		m := Milestone{
			Title:       fmt.Sprintf("%s: reached %s", skillName, lvl),
			Description: fmt.Sprintf("Your %s proficiency reached the %s level.", skillName, lvl),
			Points:      reward.points,
		}
		if reward.badge != "" {
			b := reward.badge
			m.Badge = &b
		}
		out = append(out, m)
	}
	return out
}

func PathCompletedMilestone(pathTitle string) Milestone {
	badge := "path-complete"
	return Milestone{
		Title:       fmt.Sprintf("Completed %s", pathTitle),
		Description: fmt.Sprintf("You finished every step of the %s learning path.", pathTitle),
		Points:      pathCompletedPoints,
		Badge:       &badge,
	}
}
