package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementThresholdsExactMatch(t *testing.T) {
	for _, total := range []int{1, 10, 50, 100} {
		a := AchievementForTaskCount(total)
		require.NotNil(t, a, "threshold %d should fire", total)
		assert.Equal(t, total, a.Threshold)
		assert.Equal(t, total/10, a.BonusCoins)
	}
}

func TestAchievementDoesNotFireOffThreshold(t *testing.T) {
	for _, total := range []int{0, 2, 9, 11, 12, 49, 51, 99, 101, 150} {
		assert.Nil(t, AchievementForTaskCount(total), "count %d must not fire", total)
	}
}

// The counter is monotonic and thresholds are exact-match, so invoking
// the detector again without the counter changing cannot re-fire: the
// next invocation sees a higher count.
func TestAchievementFiresOncePerThreshold(t *testing.T) {
	fired := 0
	for total := 1; total <= 120; total++ {
		if AchievementForTaskCount(total) != nil {
			fired++
		}
	}
	assert.Equal(t, 4, fired)
}

func TestAchievementBonusAmounts(t *testing.T) {
	assert.Equal(t, 0, AchievementForTaskCount(1).BonusCoins)
	assert.Equal(t, 1, AchievementForTaskCount(10).BonusCoins)
	assert.Equal(t, 5, AchievementForTaskCount(50).BonusCoins)
	assert.Equal(t, 10, AchievementForTaskCount(100).BonusCoins)
}
