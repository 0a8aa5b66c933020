package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBigTaskClassification(t *testing.T) {
	p := DefaultBigTaskPolicy

	tests := []struct {
		name     string
		duration int
		descLen  int
		priority int
		want     bool
	}{
		{"long duration alone", 150, 10, 1, true},
		{"duration at threshold", 120, 0, 1, true},
		{"short everything", 10, 20, 1, false},
		{"high priority alone", 0, 0, 4, true},
		{"top priority", 5, 5, 5, true},
		{"long description alone", 0, 101, 1, true},
		{"description at threshold is not big", 0, 100, 1, false},
		{"no estimate, low priority", 0, 0, 1, false},
		{"duration just under", 119, 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsBig(tt.duration, tt.descLen, tt.priority))
		})
	}
}

func TestBigTaskPolicyTunable(t *testing.T) {
	p := BigTaskPolicy{MinDuration: 60, LongDescription: 50, MinPriority: 5}
	assert.True(t, p.IsBig(60, 0, 1))
	assert.False(t, p.IsBig(59, 0, 4), "priority 4 is not big under a stricter policy")
}
