package progression

// BigTaskPolicy classifies a task as "big" for reward purposes. The
// three signals are independent; any single one crossing its threshold
// makes the task big.
type BigTaskPolicy struct {
	MinDuration     int // minutes; estimated duration at or above this is big
	LongDescription int // description strictly longer than this is big
	MinPriority     int // priority at or above this is big
}

// DefaultBigTaskPolicy is the production classification policy.
var DefaultBigTaskPolicy = BigTaskPolicy{
	MinDuration:     120,
	LongDescription: 100,
	MinPriority:     4,
}

// IsBig reports whether a task with the given attributes qualifies as a
// big task. estimatedDuration of 0 means no estimate was provided.
func (p BigTaskPolicy) IsBig(estimatedDuration, descriptionLen, priority int) bool {
	if estimatedDuration >= p.MinDuration {
		return true
	}
	if descriptionLen > p.LongDescription {
		return true
	}
	if priority >= p.MinPriority {
		return true
	}
	return false
}
