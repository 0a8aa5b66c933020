// Package progression holds the reward, streak, and achievement rules
// that turn completions into experience points and coins. Everything in
// here is pure computation; persistence belongs to the handlers.
package progression

// Reward amounts per completion kind
const (
	TaskXP        = 10
	TaskCoins     = 1
	BigTaskCoins  = 4
	HabitXP       = 5
	HabitCoins    = 1
	XPPerKarmaLvl = 100
)

// Reward is the outcome of recording a single completion
type Reward struct {
	Coins int `json:"coins_earned"`
	XP    int `json:"xp_earned"`
}

// TaskReward returns the reward for completing a task. Big tasks earn
// extra coins; XP is flat.
func TaskReward(bigTask bool) Reward {
	if bigTask {
		return Reward{Coins: BigTaskCoins, XP: TaskXP}
	}
	return Reward{Coins: TaskCoins, XP: TaskXP}
}

// HabitReward returns the flat reward for completing a habit.
func HabitReward() Reward {
	return Reward{Coins: HabitCoins, XP: HabitXP}
}

// KarmaLevel derives the display level from lifetime experience points.
func KarmaLevel(experiencePoints int) int {
	if experiencePoints < 0 {
		experiencePoints = 0
	}
	return experiencePoints/XPPerKarmaLvl + 1
}
