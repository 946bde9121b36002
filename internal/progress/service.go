// Package progress is the engine behind the hour grid: it keeps the
// record ledger, the goal's running total and every view derived from
// it (grid pages, milestones, streaks, statistics).
package progress

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pure8plus/pure8/internal/db"
	"github.com/pure8plus/pure8/internal/model"
)

type Service struct {
	store  *db.Store
	userID string
	now    func() time.Time
}

func NewService(store *db.Store, userID string) *Service {
	if userID == "" {
		userID = model.DefaultUserID
	}
	return &Service{
		store:  store,
		userID: userID,
		now:    time.Now,
	}
}

type AddRecordInput struct {
	GoalID      string // empty means the active goal
	Date        time.Time
	Hours       int
	Minutes     int
	TimeSlot    model.TimeSlot
	EnergyLevel *int
	Type        model.RecordType
	Note        string
}

type CreateGoalInput struct {
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Description      string  `json:"description"`
	Color            string  `json:"color"`
	TargetHours      int     `json:"targetHours"`
	DailyPureTarget  float64 `json:"dailyPureTarget"`
	ConstitutionMode bool    `json:"constitutionMode"`
}

// CreateGoal validates the input, stores the goal and makes it the
// user's active goal.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (model.Goal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return model.Goal{}, fmt.Errorf("goal name is required: %w", model.ErrValidation)
	}
	if input.TargetHours <= 0 {
		return model.Goal{}, fmt.Errorf("target hours must be positive: %w", model.ErrValidation)
	}

	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return model.Goal{}, err
	}

	target := input.DailyPureTarget
	if target <= 0 {
		target = s.dailyTarget(model.Goal{}, cfg)
	}

	goal, err := s.store.CreateGoal(ctx, db.GoalInput{
		UserID:           s.userID,
		Name:             strings.TrimSpace(input.Name),
		Icon:             input.Icon,
		Description:      input.Description,
		Color:            input.Color,
		StartDate:        s.now(),
		TargetHours:      input.TargetHours,
		DailyPureTarget:  target,
		ConstitutionMode: input.ConstitutionMode,
	})
	if err != nil {
		return model.Goal{}, err
	}

	if err := s.store.SetActiveGoal(ctx, s.userID, goal.ID); err != nil {
		return model.Goal{}, err
	}
	goal.IsActive = true

	cfg.TotalGoals++
	if err := s.store.UpdateUserConfig(ctx, cfg); err != nil {
		return model.Goal{}, err
	}
	return goal, nil
}

func (s *Service) ActiveGoal(ctx context.Context) (model.Goal, error) {
	return s.store.ActiveGoal(ctx, s.userID)
}

func (s *Service) Goal(ctx context.Context, goalID string) (model.Goal, error) {
	return s.store.GetGoal(ctx, goalID)
}

func (s *Service) Goals(ctx context.Context) ([]model.Goal, error) {
	return s.store.ListGoals(ctx, s.userID)
}

func (s *Service) SwitchGoal(ctx context.Context, goalID string) error {
	return s.store.SetActiveGoal(ctx, s.userID, goalID)
}

func (s *Service) ArchiveGoal(ctx context.Context, goalID string) error {
	return s.store.ArchiveGoal(ctx, goalID)
}

// AddRecord appends a time entry and rolls its hours into the goal's
// running total, milestone and streak state. Validation happens before
// any write.
func (s *Service) AddRecord(ctx context.Context, input AddRecordInput) (model.TimeRecord, error) {
	if input.Hours < 0 || input.Minutes < 0 || input.Minutes > 59 {
		return model.TimeRecord{}, fmt.Errorf("hours must be >= 0 and minutes in 0..59: %w", model.ErrValidation)
	}
	if input.Hours == 0 && input.Minutes == 0 {
		return model.TimeRecord{}, fmt.Errorf("time entry must not be empty: %w", model.ErrValidation)
	}

	goal, err := s.resolveGoal(ctx, input.GoalID)
	if err != nil {
		return model.TimeRecord{}, err
	}
	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return model.TimeRecord{}, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	slot := input.TimeSlot
	if slot == "" {
		slot = deriveTimeSlot(date)
	}

	delta := float64(input.Hours) + float64(input.Minutes)/60
	dayStart, dayEnd := dayBounds(date)
	already, err := s.sumRecords(ctx, goal.ID, dayStart, dayEnd)
	if err != nil {
		return model.TimeRecord{}, err
	}
	dayTotal := already + delta
	target := s.dailyTarget(goal, cfg)

	record, err := s.store.CreateRecord(ctx, db.RecordInput{
		GoalID:           goal.ID,
		UserID:           s.userID,
		Date:             date,
		Hours:            input.Hours,
		Minutes:          input.Minutes,
		TimeSlot:         slot,
		EnergyLevel:      input.EnergyLevel,
		Type:             input.Type,
		ConstitutionKept: dayTotal >= target,
		Note:             input.Note,
	})
	if err != nil {
		return model.TimeRecord{}, err
	}

	goal.CurrentHours += delta
	goal.CurrentMilestone = CurrentMilestone(goal.CurrentHours)
	if goal.CompletedAt == nil && goal.CurrentHours >= float64(goal.TargetHours) {
		completed := s.now()
		goal.CompletedAt = &completed
	}
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return model.TimeRecord{}, err
	}

	if err := s.applyStreak(ctx, &cfg, goal, date, dayTotal, target); err != nil {
		return model.TimeRecord{}, err
	}

	now := s.now()
	cfg.TotalRecords++
	cfg.LastRecordDate = &now
	if err := s.store.UpdateUserConfig(ctx, cfg); err != nil {
		return model.TimeRecord{}, err
	}
	return record, nil
}

// DeleteRecord removes a record and reverses exactly the hour delta it
// applied when added. The running total clamps at zero rather than
// going negative on inconsistent data.
func (s *Service) DeleteRecord(ctx context.Context, recordID string) error {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	goal, err := s.store.GetGoal(ctx, record.GoalID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRecord(ctx, recordID); err != nil {
		return err
	}

	goal.CurrentHours -= record.HourValue()
	if goal.CurrentHours < 0 {
		goal.CurrentHours = 0
	}
	goal.CurrentMilestone = CurrentMilestone(goal.CurrentHours)
	if goal.CompletedAt != nil && goal.CurrentHours < float64(goal.TargetHours) {
		goal.CompletedAt = nil
	}
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return err
	}

	cfg, err := s.store.GetOrCreateUserConfig(ctx, s.userID)
	if err != nil {
		return err
	}
	if cfg.TotalRecords > 0 {
		cfg.TotalRecords--
	}
	return s.store.UpdateUserConfig(ctx, cfg)
}

// TodayTotal sums the goal's hours for the current local calendar day.
func (s *Service) TodayTotal(ctx context.Context, goalID string) (float64, error) {
	start, end := dayBounds(s.now())
	return s.sumRecords(ctx, goalID, start, end)
}

func (s *Service) RecordsForGoal(ctx context.Context, goalID string) ([]model.TimeRecord, error) {
	return s.store.ListRecordsForGoal(ctx, goalID)
}

// Info assembles the progress header numbers for a goal.
func Info(goal model.Goal) model.ProgressInfo {
	info := model.ProgressInfo{
		CurrentHours:      goal.CurrentHours,
		TargetHours:       goal.TargetHours,
		CurrentMilestone:  CurrentMilestone(goal.CurrentHours),
		MilestoneProgress: MilestoneProgress(goal.CurrentHours),
	}
	if goal.TargetHours > 0 {
		info.Percentage = goal.CurrentHours / float64(goal.TargetHours) * 100
		if info.Percentage > 100 {
			info.Percentage = 100
		}
	}
	if next, ok := NextMilestone(goal.CurrentHours); ok {
		info.NextMilestone = next
	}
	return info
}

// ResetAll wipes the user's data and returns them to a fresh state.
func (s *Service) ResetAll(ctx context.Context) error {
	return s.store.ResetAll(ctx, s.userID)
}

func (s *Service) resolveGoal(ctx context.Context, goalID string) (model.Goal, error) {
	if goalID == "" {
		return s.store.ActiveGoal(ctx, s.userID)
	}
	return s.store.GetGoal(ctx, goalID)
}

func (s *Service) sumRecords(ctx context.Context, goalID string, from, to time.Time) (float64, error) {
	records, err := s.store.ListRecordsBetween(ctx, goalID, from, to)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, record := range records {
		total += record.HourValue()
	}
	return total, nil
}

// dailyTarget resolves the effective daily pure-time target: the goal's
// own target, then the user's custom one, then the built-in default.
func (s *Service) dailyTarget(goal model.Goal, cfg model.UserConfig) float64 {
	if goal.DailyPureTarget > 0 {
		return goal.DailyPureTarget
	}
	if cfg.CustomPureTarget > 0 {
		return cfg.CustomPureTarget
	}
	return model.DefaultPureTarget
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func deriveTimeSlot(t time.Time) model.TimeSlot {
	if day := t.Weekday(); day == time.Saturday || day == time.Sunday {
		return model.SlotWeekend
	}
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return model.SlotMorning
	case hour >= 12 && hour < 18:
		return model.SlotAfternoon
	case hour >= 18 && hour < 23:
		return model.SlotEvening
	default:
		return model.SlotNight
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
