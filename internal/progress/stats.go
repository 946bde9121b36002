package progress

import (
	"context"
	"math"

	"github.com/pure8plus/pure8/internal/model"
)

// Stats aggregates a goal's ledger into the numbers the statistics
// screens show.
func (s *Service) Stats(ctx context.Context, goalID string) (model.Statistics, error) {
	goal, err := s.resolveGoal(ctx, goalID)
	if err != nil {
		return model.Statistics{}, err
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return model.Statistics{}, err
	}
	records, err := s.store.ListRecordsForGoal(ctx, goal.ID)
	if err != nil {
		return model.Statistics{}, err
	}

	stats := model.Statistics{
		GoalID:               goal.ID,
		TotalRecords:         len(records),
		TimeSlotDistribution: make(map[model.TimeSlot]float64),
		CurrentStreak:        cfg.ConstitutionStreak,
		BestStreak:           cfg.ConstitutionBest,
		CalculatedAt:         s.now(),
	}

	dayTotals := make(map[string]float64)
	keptDays := make(map[string]bool)
	for _, record := range records {
		hours := record.HourValue()
		stats.TotalHours += hours
		if record.TimeSlot != "" {
			stats.TimeSlotDistribution[record.TimeSlot] += hours
		}
		day := dayKey(record.Date)
		dayTotals[day] += hours
		if record.ConstitutionKept {
			keptDays[day] = true
		}
	}

	stats.ConstitutionTotalDays = len(dayTotals)
	stats.ConstitutionKeptDays = len(keptDays)
	if stats.ConstitutionTotalDays > 0 {
		stats.ConstitutionRate = round1(float64(stats.ConstitutionKeptDays) / float64(stats.ConstitutionTotalDays) * 100)
		stats.AverageDaily = round1(stats.TotalHours / float64(stats.ConstitutionTotalDays))
	}

	if stats.AverageDaily > 0 {
		remaining := float64(goal.TargetHours) - goal.CurrentHours
		if remaining > 0 {
			stats.EstimatedRemainingDays = int(math.Ceil(remaining / stats.AverageDaily))
		}
	}
	return stats, nil
}
