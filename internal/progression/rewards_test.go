package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskRewardAmounts(t *testing.T) {
	small := TaskReward(false)
	assert.Equal(t, 1, small.Coins)
	assert.Equal(t, 10, small.XP)

	big := TaskReward(true)
	assert.Equal(t, 4, big.Coins)
	assert.Equal(t, 10, big.XP, "XP is flat regardless of size")
}

func TestHabitRewardAmounts(t *testing.T) {
	r := HabitReward()
	assert.Equal(t, 1, r.Coins)
	assert.Equal(t, 5, r.XP)
}

func TestKarmaLevel(t *testing.T) {
	assert.Equal(t, 1, KarmaLevel(0))
	assert.Equal(t, 1, KarmaLevel(99))
	assert.Equal(t, 2, KarmaLevel(100))
	assert.Equal(t, 3, KarmaLevel(250))
	assert.Equal(t, 1, KarmaLevel(-5), "negative XP clamps to level 1")
}
