package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure8plus/pure8/internal/db"
	"github.com/pure8plus/pure8/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewService(db.NewStore(database), model.DefaultUserID)
}

func createTestGoal(t *testing.T, service *Service, dailyTarget float64) model.Goal {
	t.Helper()
	goal, err := service.CreateGoal(context.Background(), CreateGoalInput{
		Name:            "Deep work",
		TargetHours:     10000,
		DailyPureTarget: dailyTarget,
	})
	require.NoError(t, err)
	return goal
}

func TestCreateGoalValidation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateGoal(ctx, CreateGoalInput{Name: "  ", TargetHours: 100})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = service.CreateGoal(ctx, CreateGoalInput{Name: "x", TargetHours: 0})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreateGoalBecomesActive(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	goal := createTestGoal(t, service, 6)
	active, err := service.ActiveGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, active.ID)
	assert.Equal(t, 6.0, active.DailyPureTarget)
}

func TestAddRecordIncrementsHours(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	record, err := service.AddRecord(ctx, AddRecordInput{Hours: 2, Minutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 150, record.TotalMinutes)

	goal, err := service.ActiveGoal(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, goal.CurrentHours, 1e-9)
}

func TestAddRecordValidation(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	tests := []struct {
		name  string
		input AddRecordInput
	}{
		{"zero entry", AddRecordInput{}},
		{"negative hours", AddRecordInput{Hours: -1, Minutes: 30}},
		{"minutes overflow", AddRecordInput{Hours: 1, Minutes: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddRecord(ctx, tt.input)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestDeleteRecordRoundTrip(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	before, err := service.ActiveGoal(ctx)
	require.NoError(t, err)

	record, err := service.AddRecord(ctx, AddRecordInput{Hours: 3, Minutes: 15})
	require.NoError(t, err)
	require.NoError(t, service.DeleteRecord(ctx, record.ID))

	after, err := service.ActiveGoal(ctx)
	require.NoError(t, err)
	assert.InDelta(t, before.CurrentHours, after.CurrentHours, 1e-9,
		"delete must reverse exactly the added delta")

	err = service.DeleteRecord(ctx, record.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAddRecordAdvancesMilestone(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	for i := 0; i < 5; i++ {
		_, err := service.AddRecord(ctx, AddRecordInput{Hours: 23})
		require.NoError(t, err)
	}

	goal, err := service.ActiveGoal(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 115, goal.CurrentHours, 1e-9)
	assert.Equal(t, 100, goal.CurrentMilestone)
}

func TestTodayTotal(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	goal := createTestGoal(t, service, 6)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := service.AddRecord(ctx, AddRecordInput{Date: yesterday, Hours: 4})
	require.NoError(t, err)
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 1, Minutes: 30})
	require.NoError(t, err)
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 2})
	require.NoError(t, err)

	total, err := service.TodayTotal(ctx, goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, total, 1e-9, "yesterday's record must not count")
}

func TestStreakCreditsOncePerDay(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	_, err := service.AddRecord(ctx, AddRecordInput{Hours: 6})
	require.NoError(t, err)

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConstitutionStreak, "6.0h meets a 6h target")
	assert.Equal(t, 1, cfg.ConstitutionBest)

	// Further qualifying records the same day must not re-credit.
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 2})
	require.NoError(t, err)
	cfg, err = service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConstitutionStreak)
}

func TestStreakBelowTargetNotCredited(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	_, err := service.AddRecord(ctx, AddRecordInput{Hours: 5, Minutes: 54})
	require.NoError(t, err)

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ConstitutionStreak, "5.9h misses a 6h target")
}

func TestEvaluateDayMissResetsStreak(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	goal := createTestGoal(t, service, 6)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := service.AddRecord(ctx, AddRecordInput{Date: yesterday, Hours: 5, Minutes: 54})
	require.NoError(t, err)

	require.NoError(t, service.EvaluateDay(ctx, goal.ID, yesterday))

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ConstitutionStreak)

	misses, err := service.ConstitutionMisses(ctx)
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.InDelta(t, 5.9, misses[0].Hours, 1e-9)
}

func TestStreakSettlesPreviousActiveDay(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	// Day one falls short; nothing settles until the next activity.
	dayOne := time.Now().AddDate(0, 0, -1)
	_, err := service.AddRecord(ctx, AddRecordInput{Date: dayOne, Hours: 4})
	require.NoError(t, err)
	misses, err := service.ConstitutionMisses(ctx)
	require.NoError(t, err)
	assert.Empty(t, misses)

	// Day two's first record settles day one as a miss and then
	// credits day two on its own merits.
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 6})
	require.NoError(t, err)

	misses, err = service.ConstitutionMisses(ctx)
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.Equal(t, dayOne.Format("2006-01-02"), misses[0].Day)
	assert.InDelta(t, 4, misses[0].Hours, 1e-9)

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConstitutionStreak)
}

func TestEvaluatedDayNotSettledAgainByLaterRecord(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	goal := createTestGoal(t, service, 6)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := service.AddRecord(ctx, AddRecordInput{Date: yesterday, Hours: 4})
	require.NoError(t, err)

	// Explicit day-end evaluation books the miss once.
	require.NoError(t, service.EvaluateDay(ctx, goal.ID, yesterday))
	require.NoError(t, service.EvaluateDay(ctx, goal.ID, yesterday))

	// The next day's first record must not settle yesterday a second time.
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 6})
	require.NoError(t, err)

	misses, err := service.ConstitutionMisses(ctx)
	require.NoError(t, err)
	require.Len(t, misses, 1)
	assert.Equal(t, yesterday.Format("2006-01-02"), misses[0].Day)

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConstitutionStreak)
}

func TestBackdatedRecordKeepsCreditedStreak(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	// Today reaches the target and is credited.
	_, err := service.AddRecord(ctx, AddRecordInput{Hours: 6})
	require.NoError(t, err)

	// A backdated short day must not rewind the activity pointer.
	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	_, err = service.AddRecord(ctx, AddRecordInput{Date: threeDaysAgo, Hours: 4})
	require.NoError(t, err)

	// Another record on the credited day settles nothing and credits nothing twice.
	_, err = service.AddRecord(ctx, AddRecordInput{Hours: 1})
	require.NoError(t, err)

	misses, err := service.ConstitutionMisses(ctx)
	require.NoError(t, err)
	assert.Empty(t, misses)

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ConstitutionStreak)
	assert.Equal(t, time.Now().Format("2006-01-02"), cfg.LastActivityDay)
}

func TestGoalCompletion(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	goal, err := service.CreateGoal(ctx, CreateGoalInput{Name: "Sprint", TargetHours: 2})
	require.NoError(t, err)

	_, err = service.AddRecord(ctx, AddRecordInput{GoalID: goal.ID, Hours: 2})
	require.NoError(t, err)

	done, err := service.Goal(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	records, err := service.RecordsForGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, service.DeleteRecord(ctx, records[0].ID))

	reopened, err := service.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt, "dropping below target reopens the goal")
}

func TestStats(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	goal := createTestGoal(t, service, 6)

	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local) // a Monday
	_, err := service.AddRecord(ctx, AddRecordInput{Date: morning, Hours: 4})
	require.NoError(t, err)
	_, err = service.AddRecord(ctx, AddRecordInput{Date: morning.Add(5 * time.Hour), Hours: 2})
	require.NoError(t, err)
	_, err = service.AddRecord(ctx, AddRecordInput{Date: morning.AddDate(0, 0, 1), Hours: 3})
	require.NoError(t, err)

	stats, err := service.Stats(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.InDelta(t, 9, stats.TotalHours, 1e-9)
	assert.Equal(t, 2, stats.ConstitutionTotalDays)
	assert.Equal(t, 1, stats.ConstitutionKeptDays, "only the 6h day was kept")
	assert.InDelta(t, 4.5, stats.AverageDaily, 1e-9)
	assert.InDelta(t, 7, stats.TimeSlotDistribution[model.SlotMorning], 1e-9, "both 9am records are morning")
	assert.InDelta(t, 2, stats.TimeSlotDistribution[model.SlotAfternoon], 1e-9)
	assert.Positive(t, stats.EstimatedRemainingDays)
}

func TestExportDocument(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	goal := createTestGoal(t, service, 6)

	_, err := service.AddRecord(ctx, AddRecordInput{Hours: 1})
	require.NoError(t, err)

	doc, err := service.Export(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, doc.Version)
	assert.Equal(t, goal.ID, doc.Goal.ID)
	require.Len(t, doc.Records, 1)
	assert.False(t, doc.ExportedAt.IsZero())
}

func TestOnboardingFlow(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.StartExploration(ctx))
	assert.ErrorIs(t, service.StartExploration(ctx), model.ErrValidation)

	for _, hours := range []float64{3, 4, 5.5} {
		_, err := service.LogExplorationDay(ctx, hours, "")
		require.NoError(t, err)
	}

	recommended, err := service.CompleteExploration(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 4.2, recommended, 1e-9, "average of 3, 4, 5.5 rounded to 0.1")

	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StageConfirmed, cfg.OnboardingStage)
	assert.InDelta(t, 4.2, cfg.CustomPureTarget, 1e-9)

	require.NoError(t, service.ActivateConstitution(ctx, 0))
	cfg, err = service.UserConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.ConstitutionActive)
	assert.Equal(t, model.StageCommitted, cfg.OnboardingStage)
}

func TestSetUserMode(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.SetUserMode(ctx, model.ModeFulltime))
	cfg, err := service.UserConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.CustomPureTarget)

	assert.ErrorIs(t, service.SetUserMode(ctx, model.UserMode("monk")), model.ErrValidation)
}

func TestResetAll(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	createTestGoal(t, service, 6)

	_, err := service.AddRecord(ctx, AddRecordInput{Hours: 2})
	require.NoError(t, err)
	require.NoError(t, service.ResetAll(ctx))

	_, err = service.ActiveGoal(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
