package progression

import "fmt"

// Achievement describes a task-count milestone that was just crossed.
type Achievement struct {
	Threshold  int
	Name       string
	BonusCoins int
}

// Description is the human-readable text used for the feed post and the
// bonus ledger entry.
func (a Achievement) Description() string {
	return fmt.Sprintf("Completed %d tasks", a.Threshold)
}

// taskMilestones are the exact counts at which achievements fire. They
// are matched exactly against a monotonic counter, so each fires at
// most once per user.
var taskMilestones = map[int]string{
	1:   "First Steps",
	10:  "Getting Things Done",
	50:  "Productivity Pro",
	100: "Task Centurion",
}

// AchievementForTaskCount returns the achievement unlocked when the
// user's total completed-task count reaches exactly total, or nil when
// total is not a milestone. Bonus coins are total/10 (so the first
// milestone pays no bonus).
func AchievementForTaskCount(total int) *Achievement {
	name, ok := taskMilestones[total]
	if !ok {
		return nil
	}
	return &Achievement{
		Threshold:  total,
		Name:       name,
		BonusCoins: total / 10,
	}
}
