package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pure8plus/pure8/internal/model"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

type GoalInput struct {
	UserID           string
	Name             string
	Icon             string
	Description      string
	Color            string
	StartDate        time.Time
	TargetHours      int
	DailyPureTarget  float64
	ConstitutionMode bool
}

type RecordInput struct {
	GoalID           string
	UserID           string
	Date             time.Time
	Hours            int
	Minutes          int
	TimeSlot         model.TimeSlot
	EnergyLevel      *int
	Type             model.RecordType
	ConstitutionKept bool
	Note             string
}

// ----------------------------------------------------------------------------
// Goals

func (s *Store) CreateGoal(ctx context.Context, input GoalInput) (model.Goal, error) {
	now := time.Now()
	goal := model.Goal{
		ID:               newID(),
		UserID:           input.UserID,
		Name:             input.Name,
		Icon:             input.Icon,
		Description:      input.Description,
		Color:            input.Color,
		StartDate:        input.StartDate,
		TargetHours:      input.TargetHours,
		DailyPureTarget:  input.DailyPureTarget,
		ConstitutionMode: input.ConstitutionMode,
		CurrentMilestone: model.Milestones[0],
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if goal.Color == "" {
		goal.Color = "#3B82F6"
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = now
	}

	query, args, err := sq.Insert("goals").
		Columns("id", "user_id", "name", "icon", "description", "color",
			"start_date", "target_hours", "daily_pure_target", "constitution_mode",
			"current_hours", "current_milestone", "is_active", "is_archived",
			"completed_at", "created_at", "updated_at").
		Values(goal.ID, goal.UserID, goal.Name, goal.Icon, goal.Description, goal.Color,
			goal.StartDate.Unix(), goal.TargetHours, goal.DailyPureTarget, goal.ConstitutionMode,
			goal.CurrentHours, goal.CurrentMilestone, goal.IsActive, goal.IsArchived,
			nullUnix(goal.CompletedAt), goal.CreatedAt.Unix(), goal.UpdatedAt.Unix()).
		ToSql()
	if err != nil {
		return model.Goal{}, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return model.Goal{}, wrapErr("create goal", err)
	}
	return goal, nil
}

func (s *Store) GetGoal(ctx context.Context, goalID string) (model.Goal, error) {
	query, args, err := selectGoals().Where(sq.Eq{"id": goalID}).ToSql()
	if err != nil {
		return model.Goal{}, err
	}
	goal, err := scanGoal(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Goal{}, wrapErr("get goal", err)
	}
	return goal, nil
}

// ActiveGoal returns the newest active, non-archived goal for the user.
func (s *Store) ActiveGoal(ctx context.Context, userID string) (model.Goal, error) {
	query, args, err := selectGoals().
		Where(sq.Eq{"user_id": userID, "is_active": true, "is_archived": false}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Goal{}, err
	}
	goal, err := scanGoal(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Goal{}, wrapErr("active goal", err)
	}
	return goal, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	query, args, err := selectGoals().
		Where(sq.Eq{"user_id": userID, "is_archived": false}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list goals", err)
	}
	defer rows.Close()

	goals := make([]model.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, wrapErr("list goals", err)
		}
		goals = append(goals, goal)
	}
	return goals, wrapErr("list goals", rows.Err())
}

// UpdateGoal replaces every mutable field of the goal row. Callers read
// the aggregate, apply the full delta and persist the whole replacement.
func (s *Store) UpdateGoal(ctx context.Context, goal model.Goal) error {
	query, args, err := sq.Update("goals").
		Set("name", goal.Name).
		Set("icon", goal.Icon).
		Set("description", goal.Description).
		Set("color", goal.Color).
		Set("target_hours", goal.TargetHours).
		Set("daily_pure_target", goal.DailyPureTarget).
		Set("constitution_mode", goal.ConstitutionMode).
		Set("current_hours", goal.CurrentHours).
		Set("current_milestone", goal.CurrentMilestone).
		Set("is_active", goal.IsActive).
		Set("is_archived", goal.IsArchived).
		Set("completed_at", nullUnix(goal.CompletedAt)).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": goal.ID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("update goal", err)
	}
	return requireAffected("update goal", result)
}

// SetActiveGoal makes one goal active and deactivates the user's others.
func (s *Store) SetActiveGoal(ctx context.Context, userID, goalID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("set active goal", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE goals SET is_active = 0, updated_at = ? WHERE user_id = ? AND is_active = 1",
		time.Now().Unix(), userID); err != nil {
		return wrapErr("set active goal", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE goals SET is_active = 1, updated_at = ? WHERE id = ?",
		time.Now().Unix(), goalID)
	if err != nil {
		return wrapErr("set active goal", err)
	}
	if err := requireAffected("set active goal", result); err != nil {
		return err
	}

	return wrapErr("set active goal", tx.Commit())
}

func (s *Store) ArchiveGoal(ctx context.Context, goalID string) error {
	result, err := s.DB.ExecContext(ctx,
		"UPDATE goals SET is_archived = 1, is_active = 0, updated_at = ? WHERE id = ?",
		time.Now().Unix(), goalID)
	if err != nil {
		return wrapErr("archive goal", err)
	}
	return requireAffected("archive goal", result)
}

// ----------------------------------------------------------------------------
// Records

func (s *Store) CreateRecord(ctx context.Context, input RecordInput) (model.TimeRecord, error) {
	now := time.Now()
	record := model.TimeRecord{
		ID:               newID(),
		GoalID:           input.GoalID,
		UserID:           input.UserID,
		Date:             input.Date,
		Hours:            input.Hours,
		Minutes:          input.Minutes,
		TotalMinutes:     input.Hours*60 + input.Minutes,
		TimeSlot:         input.TimeSlot,
		EnergyLevel:      input.EnergyLevel,
		Type:             input.Type,
		ConstitutionKept: input.ConstitutionKept,
		Note:             input.Note,
		CreatedAt:        now,
	}
	if record.Date.IsZero() {
		record.Date = now
	}
	if record.Type == "" {
		record.Type = model.RecordManual
	}

	query, args, err := sq.Insert("records").
		Columns("id", "goal_id", "user_id", "date", "hours", "minutes", "total_minutes",
			"time_slot", "energy_level", "type", "constitution_kept", "note", "created_at").
		Values(record.ID, record.GoalID, record.UserID, record.Date.Unix(),
			record.Hours, record.Minutes, record.TotalMinutes,
			string(record.TimeSlot), nullInt(record.EnergyLevel), string(record.Type),
			record.ConstitutionKept, record.Note, record.CreatedAt.Unix()).
		ToSql()
	if err != nil {
		return model.TimeRecord{}, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return model.TimeRecord{}, wrapErr("create record", err)
	}
	return record, nil
}

func (s *Store) GetRecord(ctx context.Context, recordID string) (model.TimeRecord, error) {
	query, args, err := selectRecords().Where(sq.Eq{"id": recordID}).ToSql()
	if err != nil {
		return model.TimeRecord{}, err
	}
	record, err := scanRecord(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.TimeRecord{}, wrapErr("get record", err)
	}
	return record, nil
}

func (s *Store) DeleteRecord(ctx context.Context, recordID string) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM records WHERE id = ?", recordID)
	if err != nil {
		return wrapErr("delete record", err)
	}
	return requireAffected("delete record", result)
}

// ListRecordsForGoal returns the goal's records most-recent-first.
func (s *Store) ListRecordsForGoal(ctx context.Context, goalID string) ([]model.TimeRecord, error) {
	query, args, err := selectRecords().
		Where(sq.Eq{"goal_id": goalID}).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, "list records", query, args)
}

// ListRecordsBetween returns records with date in [from, to), oldest first.
func (s *Store) ListRecordsBetween(ctx context.Context, goalID string, from, to time.Time) ([]model.TimeRecord, error) {
	query, args, err := selectRecords().
		Where(sq.Eq{"goal_id": goalID}).
		Where(sq.GtOrEq{"date": from.Unix()}).
		Where(sq.Lt{"date": to.Unix()}).
		OrderBy("date ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, "list records between", query, args)
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args []any) ([]model.TimeRecord, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	records := make([]model.TimeRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		records = append(records, record)
	}
	return records, wrapErr(op, rows.Err())
}

// ----------------------------------------------------------------------------
// User config

func (s *Store) GetOrCreateUserConfig(ctx context.Context, userID string) (model.UserConfig, error) {
	cfg, err := s.getUserConfig(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.UserConfig{}, err
	}

	now := time.Now()
	cfg = model.UserConfig{
		UserID:           userID,
		OnboardingStage:  model.StageNew,
		CustomPureTarget: model.DefaultPureTarget,
		UserMode:         model.ModeCustom,
		Theme:            "auto",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query, args, err := sq.Insert("user_config").
		Columns("user_id", "onboarding_stage", "exploration_days", "custom_pure_target",
			"constitution_active", "constitution_streak", "constitution_best",
			"last_activity_day", "last_credited_day", "last_settled_day", "user_mode", "theme",
			"total_goals", "total_records", "last_record_date", "created_at", "updated_at").
		Values(cfg.UserID, string(cfg.OnboardingStage), cfg.ExplorationDays, cfg.CustomPureTarget,
			cfg.ConstitutionActive, cfg.ConstitutionStreak, cfg.ConstitutionBest,
			cfg.LastActivityDay, cfg.LastCreditedDay, cfg.LastSettledDay, string(cfg.UserMode), cfg.Theme,
			cfg.TotalGoals, cfg.TotalRecords, nullUnix(cfg.LastRecordDate),
			cfg.CreatedAt.Unix(), cfg.UpdatedAt.Unix()).
		ToSql()
	if err != nil {
		return model.UserConfig{}, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return model.UserConfig{}, wrapErr("create user config", err)
	}
	return cfg, nil
}

func (s *Store) getUserConfig(ctx context.Context, userID string) (model.UserConfig, error) {
	query, args, err := sq.Select("user_id", "onboarding_stage", "exploration_days",
		"custom_pure_target", "constitution_active", "constitution_streak", "constitution_best",
		"last_activity_day", "last_credited_day", "last_settled_day", "user_mode", "theme",
		"total_goals", "total_records", "last_record_date", "created_at", "updated_at").
		From("user_config").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return model.UserConfig{}, err
	}

	var (
		cfg            model.UserConfig
		stage, mode    string
		lastRecordDate sql.NullInt64
		created, upd   int64
	)
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(
		&cfg.UserID, &stage, &cfg.ExplorationDays, &cfg.CustomPureTarget,
		&cfg.ConstitutionActive, &cfg.ConstitutionStreak, &cfg.ConstitutionBest,
		&cfg.LastActivityDay, &cfg.LastCreditedDay, &cfg.LastSettledDay, &mode, &cfg.Theme,
		&cfg.TotalGoals, &cfg.TotalRecords, &lastRecordDate, &created, &upd)
	if err != nil {
		return model.UserConfig{}, wrapErr("get user config", err)
	}

	cfg.OnboardingStage = model.OnboardingStage(stage)
	cfg.UserMode = model.UserMode(mode)
	cfg.LastRecordDate = fromNullUnix(lastRecordDate)
	cfg.CreatedAt = time.Unix(created, 0)
	cfg.UpdatedAt = time.Unix(upd, 0)
	return cfg, nil
}

// UpdateUserConfig persists the whole config aggregate.
func (s *Store) UpdateUserConfig(ctx context.Context, cfg model.UserConfig) error {
	query, args, err := sq.Update("user_config").
		Set("onboarding_stage", string(cfg.OnboardingStage)).
		Set("exploration_days", cfg.ExplorationDays).
		Set("custom_pure_target", cfg.CustomPureTarget).
		Set("constitution_active", cfg.ConstitutionActive).
		Set("constitution_streak", cfg.ConstitutionStreak).
		Set("constitution_best", cfg.ConstitutionBest).
		Set("last_activity_day", cfg.LastActivityDay).
		Set("last_credited_day", cfg.LastCreditedDay).
		Set("last_settled_day", cfg.LastSettledDay).
		Set("user_mode", string(cfg.UserMode)).
		Set("theme", cfg.Theme).
		Set("total_goals", cfg.TotalGoals).
		Set("total_records", cfg.TotalRecords).
		Set("last_record_date", nullUnix(cfg.LastRecordDate)).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"user_id": cfg.UserID}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("update user config", err)
	}
	return requireAffected("update user config", result)
}

func (s *Store) AddConstitutionMiss(ctx context.Context, miss model.ConstitutionMiss) error {
	query, args, err := sq.Insert("constitution_misses").
		Columns("user_id", "day", "hours", "reason").
		Values(miss.UserID, miss.Day, miss.Hours, miss.Reason).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, query, args...)
	return wrapErr("add constitution miss", err)
}

func (s *Store) ListConstitutionMisses(ctx context.Context, userID string) ([]model.ConstitutionMiss, error) {
	query, args, err := sq.Select("id", "user_id", "day", "hours", "reason").
		From("constitution_misses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("day ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list constitution misses", err)
	}
	defer rows.Close()

	misses := make([]model.ConstitutionMiss, 0)
	for rows.Next() {
		var miss model.ConstitutionMiss
		if err := rows.Scan(&miss.ID, &miss.UserID, &miss.Day, &miss.Hours, &miss.Reason); err != nil {
			return nil, wrapErr("list constitution misses", err)
		}
		misses = append(misses, miss)
	}
	return misses, wrapErr("list constitution misses", rows.Err())
}

func (s *Store) AddExplorationDay(ctx context.Context, day model.ExplorationDay) error {
	query, args, err := sq.Insert("exploration_days").
		Columns("user_id", "day", "hours", "date", "notes").
		Values(day.UserID, day.Day, day.Hours, day.Date.Unix(), day.Notes).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, query, args...)
	return wrapErr("add exploration day", err)
}

func (s *Store) ListExplorationDays(ctx context.Context, userID string) ([]model.ExplorationDay, error) {
	query, args, err := sq.Select("id", "user_id", "day", "hours", "date", "notes").
		From("exploration_days").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list exploration days", err)
	}
	defer rows.Close()

	days := make([]model.ExplorationDay, 0)
	for rows.Next() {
		var (
			day  model.ExplorationDay
			date int64
		)
		if err := rows.Scan(&day.ID, &day.UserID, &day.Day, &day.Hours, &date, &day.Notes); err != nil {
			return nil, wrapErr("list exploration days", err)
		}
		day.Date = time.Unix(date, 0)
		days = append(days, day)
	}
	return days, wrapErr("list exploration days", rows.Err())
}

// ----------------------------------------------------------------------------
// Quotes

func (s *Store) CountQuotes(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&count)
	return count, wrapErr("count quotes", err)
}

// SeedDefaultQuotes inserts the default set if the table is empty.
func (s *Store) SeedDefaultQuotes(ctx context.Context, quotes []model.Quote) error {
	count, err := s.CountQuotes(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, quote := range quotes {
		query, args, err := sq.Insert("quotes").
			Columns("id", "content", "author", "source", "category",
				"display_count", "is_custom", "is_favorite", "created_at").
			Values(newID(), quote.Content, quote.Author, quote.Source, quote.Category,
				0, false, false, now.Unix()).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
			return wrapErr("seed quotes", err)
		}
	}
	return nil
}

// ListQuotes returns quotes in stable insertion order. The quote-of-day
// selection depends on this ordering staying put.
func (s *Store) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	query, args, err := sq.Select("id", "content", "author", "source", "category",
		"display_count", "is_custom", "is_favorite", "created_at").
		From("quotes").
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list quotes", err)
	}
	defer rows.Close()

	quotes := make([]model.Quote, 0)
	for rows.Next() {
		var (
			quote   model.Quote
			created int64
		)
		if err := rows.Scan(&quote.ID, &quote.Content, &quote.Author, &quote.Source,
			&quote.Category, &quote.DisplayCount, &quote.IsCustom, &quote.IsFavorite, &created); err != nil {
			return nil, wrapErr("list quotes", err)
		}
		quote.CreatedAt = time.Unix(created, 0)
		quotes = append(quotes, quote)
	}
	return quotes, wrapErr("list quotes", rows.Err())
}

func (s *Store) CreateQuote(ctx context.Context, quote model.Quote) (model.Quote, error) {
	quote.ID = newID()
	quote.CreatedAt = time.Now()
	quote.DisplayCount = 0

	query, args, err := sq.Insert("quotes").
		Columns("id", "content", "author", "source", "category",
			"display_count", "is_custom", "is_favorite", "created_at").
		Values(quote.ID, quote.Content, quote.Author, quote.Source, quote.Category,
			quote.DisplayCount, quote.IsCustom, quote.IsFavorite, quote.CreatedAt.Unix()).
		ToSql()
	if err != nil {
		return model.Quote{}, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return model.Quote{}, wrapErr("create quote", err)
	}
	return quote, nil
}

func (s *Store) BumpQuoteDisplayCount(ctx context.Context, quoteID string) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE quotes SET display_count = display_count + 1 WHERE id = ?", quoteID)
	return wrapErr("bump quote display count", err)
}

// ToggleQuoteFavorite flips the favorite flag on one quote.
func (s *Store) ToggleQuoteFavorite(ctx context.Context, quoteID string) error {
	result, err := s.DB.ExecContext(ctx,
		"UPDATE quotes SET is_favorite = 1 - is_favorite WHERE id = ?", quoteID)
	if err != nil {
		return wrapErr("toggle quote favorite", err)
	}
	return requireAffected("toggle quote favorite", result)
}

// ----------------------------------------------------------------------------
// Reset

// ResetAll wipes the user's goals, records and constitution history and
// restores the config defaults. Quotes are kept.
func (s *Store) ResetAll(ctx context.Context, userID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("reset all", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM records WHERE user_id = ?",
		"DELETE FROM goals WHERE user_id = ?",
		"DELETE FROM constitution_misses WHERE user_id = ?",
		"DELETE FROM exploration_days WHERE user_id = ?",
		"DELETE FROM user_config WHERE user_id = ?",
	}
	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement, userID); err != nil {
			return wrapErr("reset all", err)
		}
	}

	return wrapErr("reset all", tx.Commit())
}

// ----------------------------------------------------------------------------
// Helpers

func selectGoals() sq.SelectBuilder {
	return sq.Select("id", "user_id", "name", "icon", "description", "color",
		"start_date", "target_hours", "daily_pure_target", "constitution_mode",
		"current_hours", "current_milestone", "is_active", "is_archived",
		"completed_at", "created_at", "updated_at").
		From("goals")
}

func selectRecords() sq.SelectBuilder {
	return sq.Select("id", "goal_id", "user_id", "date", "hours", "minutes",
		"total_minutes", "time_slot", "energy_level", "type",
		"constitution_kept", "note", "created_at").
		From("records")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (model.Goal, error) {
	var (
		goal         model.Goal
		start        int64
		completedAt  sql.NullInt64
		created, upd int64
	)
	err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Icon, &goal.Description,
		&goal.Color, &start, &goal.TargetHours, &goal.DailyPureTarget,
		&goal.ConstitutionMode, &goal.CurrentHours, &goal.CurrentMilestone,
		&goal.IsActive, &goal.IsArchived, &completedAt, &created, &upd)
	if err != nil {
		return model.Goal{}, err
	}

	goal.StartDate = time.Unix(start, 0)
	goal.CompletedAt = fromNullUnix(completedAt)
	goal.CreatedAt = time.Unix(created, 0)
	goal.UpdatedAt = time.Unix(upd, 0)
	return goal, nil
}

func scanRecord(row rowScanner) (model.TimeRecord, error) {
	var (
		record      model.TimeRecord
		date        int64
		slot, rtype string
		energy      sql.NullInt64
		created     int64
	)
	err := row.Scan(&record.ID, &record.GoalID, &record.UserID, &date,
		&record.Hours, &record.Minutes, &record.TotalMinutes, &slot, &energy,
		&rtype, &record.ConstitutionKept, &record.Note, &created)
	if err != nil {
		return model.TimeRecord{}, err
	}

	record.Date = time.Unix(date, 0)
	record.TimeSlot = model.TimeSlot(slot)
	record.Type = model.RecordType(rtype)
	record.CreatedAt = time.Unix(created, 0)
	if energy.Valid {
		level := int(energy.Int64)
		record.EnergyLevel = &level
	}
	return record, nil
}

// newID returns a time-ordered UUIDv7 so that ids sort by creation.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func nullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromNullUnix(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(n.Int64, 0)
	return &t
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func requireAffected(op string, result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return nil
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, model.ErrStorage, err)
}
