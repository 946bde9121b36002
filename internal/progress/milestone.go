package progress

import "github.com/pure8plus/pure8/internal/model"

// CurrentMilestone returns the largest milestone at or below the given
// hours. Below the first milestone it returns that first milestone as a
// floor; callers must check hours >= CurrentMilestone(hours) before
// treating it as achieved.
func CurrentMilestone(hours float64) int {
	current := model.Milestones[0]
	for _, m := range model.Milestones {
		if float64(m) <= hours {
			current = m
		}
	}
	return current
}

// NextMilestone returns the smallest milestone above the given hours.
// The second return is false once the final milestone is reached.
func NextMilestone(hours float64) (int, bool) {
	for _, m := range model.Milestones {
		if float64(m) > hours {
			return m, true
		}
	}
	return 0, false
}

// MilestoneProgress returns how far (0-100) the hours have advanced
// from the current milestone toward the next. Before the first
// milestone the span is 0..100h; past the last one it returns 0.
func MilestoneProgress(hours float64) float64 {
	next, ok := NextMilestone(hours)
	if !ok {
		return 0
	}

	current := 0
	if hours >= float64(model.Milestones[0]) {
		current = CurrentMilestone(hours)
	}

	progress := (hours - float64(current)) / float64(next-current) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
