// ABOUTME: Workout session, activity record and adjustment audit operations for SQLite storage.
// ABOUTME: Sessions feed the progress signal; adjustments are unique per plan and window start.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

const sessionColumns = `id, profile_id, plan_id, started_at, completed_at, duration_minutes,
	difficulty_rating, calories_burned, notes, created_at`

// CreateSession stores a new workout session.
func (d *DB) CreateSession(s *models.WorkoutSession) error {
	query := `INSERT INTO workout_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query, sessionArgs(s)...)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateSession overwrites a stored session.
func (d *DB) UpdateSession(s *models.WorkoutSession) error {
	query := `
		UPDATE workout_sessions SET plan_id = ?, started_at = ?, completed_at = ?, duration_minutes = ?,
			difficulty_rating = ?, calories_burned = ?, notes = ?
		WHERE id = ?
	`
	args := sessionArgs(s)
	result, err := d.db.Exec(query, append(args[2:9], s.ID.String())...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return checkAffected(result, "update session", s.ID.String())
}

func sessionArgs(s *models.WorkoutSession) []any {
	var planID any
	if s.PlanID != nil {
		planID = s.PlanID.String()
	}
	return []any{
		s.ID.String(),
		s.ProfileID.String(),
		planID,
		formatTime(s.StartedAt),
		nullTime(s.CompletedAt),
		s.DurationMinutes,
		s.DifficultyRating,
		s.CaloriesBurned,
		s.Notes,
		formatTime(s.CreatedAt),
	}
}

// GetSession retrieves a session by ID or ID prefix.
func (d *DB) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	id, err := d.resolveID("workout_sessions", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanSession(d.db.QueryRow(`SELECT `+sessionColumns+` FROM workout_sessions WHERE id = ?`, id))
}

// ListSessions returns a profile's sessions started in [from, to), oldest first.
// A zero bound is open.
func (d *DB) ListSessions(profileID uuid.UUID, from, to time.Time) ([]*models.WorkoutSession, error) {
	clauses := []string{"profile_id = ?"}
	args := []any{profileID.String()}
	if !from.IsZero() {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		clauses = append(clauses, "started_at < ?")
		args = append(args, formatTime(to))
	}
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY started_at ASC, id ASC`
	return d.querySessions(query, args...)
}

func (d *DB) querySessions(query string, args ...any) ([]*models.WorkoutSession, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	var idStr, profileIDStr, startedAt, createdAt string
	var planID, completedAt, notes sql.NullString
	var duration, rating, calories sql.NullInt64

	err := row.Scan(&idStr, &profileIDStr, &planID, &startedAt, &completedAt, &duration,
		&rating, &calories, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	s.ProfileID, _ = uuid.Parse(profileIDStr)
	if planID.Valid {
		pid, _ := uuid.Parse(planID.String)
		s.PlanID = &pid
	}
	s.StartedAt = parseTime(startedAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		s.CompletedAt = &t
	}
	s.DurationMinutes = nullIntPtr(duration)
	s.DifficultyRating = nullIntPtr(rating)
	s.CaloriesBurned = nullIntPtr(calories)
	if notes.Valid {
		s.Notes = &notes.String
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// SaveActivity upserts the activity record for (profile, date, source).
func (d *DB) SaveActivity(a *models.ActivityRecord) error {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now()
	}
	query := `
		INSERT OR REPLACE INTO activity_records (profile_id, entry_date, source, steps, distance_km,
			active_calories, active_minutes, heart_rate_avg, sleep_hours, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		a.ProfileID.String(),
		a.Date,
		string(a.Source),
		a.Steps,
		a.DistanceKm,
		a.ActiveCalories,
		a.ActiveMinutes,
		a.HeartRateAvg,
		a.SleepHours,
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

const activitySelect = `
	SELECT profile_id, entry_date, source, steps, distance_km, active_calories, active_minutes,
		heart_rate_avg, sleep_hours, updated_at
	FROM activity_records
`

// ListActivity returns a profile's activity records for one date, by source.
func (d *DB) ListActivity(profileID uuid.UUID, date string) ([]*models.ActivityRecord, error) {
	return d.queryActivity(activitySelect+` WHERE profile_id = ? AND entry_date = ? ORDER BY source ASC`,
		profileID.String(), date)
}

func (d *DB) queryActivity(query string, args ...any) ([]*models.ActivityRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var records []*models.ActivityRecord
	for rows.Next() {
		var a models.ActivityRecord
		var profileIDStr, source, updatedAt string
		var heartRate sql.NullInt64
		var sleep sql.NullFloat64

		err := rows.Scan(&profileIDStr, &a.Date, &source, &a.Steps, &a.DistanceKm, &a.ActiveCalories,
			&a.ActiveMinutes, &heartRate, &sleep, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ProfileID, _ = uuid.Parse(profileIDStr)
		a.Source = models.ActivitySource(source)
		a.HeartRateAvg = nullIntPtr(heartRate)
		a.SleepHours = nullFloatPtr(sleep)
		a.UpdatedAt = parseTime(updatedAt)
		records = append(records, &a)
	}
	return records, rows.Err()
}

// RecordAdjustment stores an adjustment. A second adjustment for the same
// plan and window start returns ErrAdjustmentExists.
func (d *DB) RecordAdjustment(a *models.Adjustment) error {
	exists, err := d.HasAdjustment(a.PlanID, a.WindowStart)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("plan %s window %s: %w", a.PlanID, a.WindowStart, ErrAdjustmentExists)
	}

	query := `
		INSERT INTO plan_adjustments (id, plan_id, window_start, window_end, decision, rationale,
			workouts_completed, workouts_planned, average_rating, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		a.ID.String(),
		a.PlanID.String(),
		a.WindowStart,
		a.WindowEnd,
		string(a.Decision),
		a.Rationale,
		a.Signal.WorkoutsCompleted,
		a.Signal.WorkoutsPlanned,
		a.Signal.AverageDifficultyRating,
		formatTime(a.AppliedAt),
	)
	if err != nil {
		return fmt.Errorf("record adjustment: %w", err)
	}
	return nil
}

// HasAdjustment reports whether a plan already has an adjustment for a window.
func (d *DB) HasAdjustment(planID uuid.UUID, windowStart string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM plan_adjustments WHERE plan_id = ? AND window_start = ?`,
		planID.String(), windowStart).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check adjustment: %w", err)
	}
	return count > 0, nil
}

// ListAdjustments returns a plan's adjustment history, oldest window first.
func (d *DB) ListAdjustments(planID uuid.UUID) ([]*models.Adjustment, error) {
	return d.queryAdjustments(`
		SELECT id, plan_id, window_start, window_end, decision, rationale, workouts_completed,
			workouts_planned, average_rating, applied_at
		FROM plan_adjustments
		WHERE plan_id = ?
		ORDER BY window_start ASC
	`, planID.String())
}

func (d *DB) queryAdjustments(query string, args ...any) ([]*models.Adjustment, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []*models.Adjustment
	for rows.Next() {
		var a models.Adjustment
		var idStr, planIDStr, decision, appliedAt string
		var rationale sql.NullString
		var rating sql.NullFloat64

		err := rows.Scan(&idStr, &planIDStr, &a.WindowStart, &a.WindowEnd, &decision, &rationale,
			&a.Signal.WorkoutsCompleted, &a.Signal.WorkoutsPlanned, &rating, &appliedAt)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		a.ID, _ = uuid.Parse(idStr)
		a.PlanID, _ = uuid.Parse(planIDStr)
		a.Decision = models.DecisionKind(decision)
		a.Rationale = rationale.String
		a.Signal.AverageDifficultyRating = nullFloatPtr(rating)
		a.AppliedAt = parseTime(appliedAt)
		adjustments = append(adjustments, &a)
	}
	return adjustments, rows.Err()
}
