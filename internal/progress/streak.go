package progress

import (
	"context"
	"time"

	"github.com/pure8plus/pure8/internal/model"
)

// dayKeyLayout keys local calendar days in config columns and miss rows.
const dayKeyLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// applyStreak runs the day's streak bookkeeping after a record landed.
// When a record on a later day arrives, a pending earlier active day
// that never reached its target is settled as a miss first, then the
// record's day is credited at most once, however many records push the
// total past the target. LastSettledDay guards both directions: a day
// settles at most once, as a credit or as a miss, and backdated records
// never reopen it. The caller persists cfg afterwards.
func (s *Service) applyStreak(ctx context.Context, cfg *model.UserConfig, goal model.Goal, date time.Time, dayTotal, target float64) error {
	day := dayKey(date)

	pending := cfg.LastActivityDay
	if pending != "" && pending < day && pending > cfg.LastSettledDay && pending != cfg.LastCreditedDay {
		if err := s.settleMiss(ctx, cfg, goal, pending); err != nil {
			return err
		}
	}
	if day > cfg.LastActivityDay {
		cfg.LastActivityDay = day
	}

	if dayTotal >= target && cfg.LastCreditedDay != day && day > cfg.LastSettledDay {
		cfg.ConstitutionStreak++
		if cfg.ConstitutionStreak > cfg.ConstitutionBest {
			cfg.ConstitutionBest = cfg.ConstitutionStreak
		}
		cfg.LastCreditedDay = day
		cfg.LastSettledDay = day
	}
	return nil
}

// EvaluateDay settles one calendar day explicitly: credit the streak if
// the day's total met the target, otherwise record a miss and reset.
// Each day settles at most once either way.
func (s *Service) EvaluateDay(ctx context.Context, goalID string, date time.Time) error {
	goal, err := s.resolveGoal(ctx, goalID)
	if err != nil {
		return err
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}

	day := dayKey(date)
	if cfg.LastCreditedDay == day || (cfg.LastSettledDay != "" && day <= cfg.LastSettledDay) {
		return nil
	}

	start, end := dayBounds(date)
	total, err := s.sumRecords(ctx, goal.ID, start, end)
	if err != nil {
		return err
	}
	target := s.dailyTarget(goal, cfg)

	if total >= target {
		cfg.ConstitutionStreak++
		if cfg.ConstitutionStreak > cfg.ConstitutionBest {
			cfg.ConstitutionBest = cfg.ConstitutionStreak
		}
		cfg.LastCreditedDay = day
	} else {
		if err := s.store.AddConstitutionMiss(ctx, model.ConstitutionMiss{
			UserID: s.userID,
			Day:    day,
			Hours:  round1(total),
		}); err != nil {
			return err
		}
		cfg.ConstitutionStreak = 0
	}
	if day > cfg.LastSettledDay {
		cfg.LastSettledDay = day
	}
	return s.store.UpdateUserConfig(ctx, cfg)
}

// settleMiss books a miss event for an uncredited past day, marks the
// day settled and resets the running streak.
func (s *Service) settleMiss(ctx context.Context, cfg *model.UserConfig, goal model.Goal, day string) error {
	achieved := 0.0
	if parsed, err := time.ParseInLocation(dayKeyLayout, day, time.Local); err == nil {
		start, end := dayBounds(parsed)
		total, err := s.sumRecords(ctx, goal.ID, start, end)
		if err != nil {
			return err
		}
		achieved = total
	}

	if err := s.store.AddConstitutionMiss(ctx, model.ConstitutionMiss{
		UserID: s.userID,
		Day:    day,
		Hours:  round1(achieved),
	}); err != nil {
		return err
	}
	cfg.ConstitutionStreak = 0
	if day > cfg.LastSettledDay {
		cfg.LastSettledDay = day
	}
	return nil
}

func (s *Service) ConstitutionMisses(ctx context.Context) ([]model.ConstitutionMiss, error) {
	return s.store.ListConstitutionMisses(ctx, s.userID)
}

func (s *Service) UserConfig(ctx context.Context) (model.UserConfig, error) {
	return s.store.GetOrCreateUserConfig(ctx, s.userID)
}
