package progression

import (
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
)

// StreakMilestoneInterval is the cadence of streak milestone posts.
const StreakMilestoneInterval = 7

// AdvanceStreak computes the new current streak for a habit completion.
// The streak continues while each completion lands within one cadence
// unit of the period the previous completion fell in: the same or next
// calendar day for daily habits, within 14 days for weekly, within two
// months for monthly. A longer gap restarts the streak at 1, as does a
// first-ever completion. The caller is responsible for rejecting
// duplicate same-day completions of daily habits before calling this.
func AdvanceStreak(current int, lastCompleted *time.Time, now time.Time, frequency string) int {
	if lastCompleted == nil || current <= 0 {
		return 1
	}
	if continuesStreak(*lastCompleted, now, frequency) {
		return current + 1
	}
	return 1
}

func continuesStreak(last, now time.Time, frequency string) bool {
	last, now = last.UTC(), now.UTC()
	if now.Before(last) {
		return true
	}
	switch frequency {
	case models.FrequencyWeekly:
		return !now.After(last.AddDate(0, 0, 14))
	case models.FrequencyMonthly:
		return !now.After(last.AddDate(0, 2, 0))
	default: // daily
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
		return now.Before(lastDay.AddDate(0, 0, 2))
	}
}

// IsStreakMilestone reports whether a streak value should produce a
// streak_milestone activity (every 7th consecutive completion).
func IsStreakMilestone(streak int) bool {
	return streak > 0 && streak%StreakMilestoneInterval == 0
}
