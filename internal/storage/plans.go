// ABOUTME: Plan and prescription CRUD operations for SQLite storage.
// ABOUTME: Prescriptions cascade with their plan and are replaced as a set on adjustment.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

const planColumns = `id, profile_id, name, description, difficulty, duration_weeks, workouts_per_week,
	exercises_per_workout, rest_days, fitness_score, tags, created_at, updated_at`

// CreatePlan stores a plan and its prescriptions in one transaction.
func (d *DB) CreatePlan(p *models.Plan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(query,
		p.ID.String(),
		p.ProfileID.String(),
		p.Name,
		p.Description,
		string(p.Difficulty),
		p.Structure.DurationWeeks,
		p.Structure.WorkoutsPerWeek,
		p.Structure.ExercisesPerWorkout,
		p.Structure.RestDays,
		p.FitnessScore,
		encodeList(p.Tags),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}

	if err := insertPrescriptions(tx, p.ID, p.Exercises); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return tx.Commit()
}

func insertPrescriptions(tx *sql.Tx, planID uuid.UUID, rx []models.ExercisePrescription) error {
	query := `
		INSERT INTO plan_exercises (id, plan_id, exercise_id, exercise_name, sets, reps,
			duration_seconds, rest_seconds, order_index, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range rx {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		_, err := tx.Exec(query,
			r.ID.String(),
			planID.String(),
			r.ExerciseID.String(),
			r.ExerciseName,
			r.Sets,
			r.Reps,
			r.DurationSeconds,
			r.RestSeconds,
			r.OrderIndex,
			r.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert prescription %d: %w", r.OrderIndex, err)
		}
	}
	return nil
}

// GetPlan retrieves a plan with its prescriptions by ID or ID prefix.
func (d *DB) GetPlan(idOrPrefix string) (*models.Plan, error) {
	id, err := d.resolveID("plans", idOrPrefix)
	if err != nil {
		return nil, err
	}

	p, err := scanPlan(d.db.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if p.Exercises, err = d.listPrescriptions(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans returns plans newest first, optionally for one profile.
func (d *DB) ListPlans(profileID *uuid.UUID, limit int) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	var args []any
	if profileID != nil {
		query += ` WHERE profile_id = ?`
		args = append(args, profileID.String())
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var plans []*models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, p := range plans {
		if p.Exercises, err = d.listPrescriptions(p.ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// UpdatePrescriptions replaces a plan's prescriptions and bumps its UpdatedAt.
func (d *DB) UpdatePrescriptions(planID uuid.UUID, rx []models.ExercisePrescription) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("update prescriptions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`UPDATE plans SET updated_at = ? WHERE id = ?`, formatTime(time.Now()), planID.String())
	if err != nil {
		return fmt.Errorf("update prescriptions: %w", err)
	}
	if err := checkAffected(result, "update prescriptions", planID.String()); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM plan_exercises WHERE plan_id = ?`, planID.String()); err != nil {
		return fmt.Errorf("update prescriptions: %w", err)
	}
	if err := insertPrescriptions(tx, planID, rx); err != nil {
		return fmt.Errorf("update prescriptions: %w", err)
	}
	return tx.Commit()
}

// DeletePlan removes a plan, its prescriptions and its adjustment history.
func (d *DB) DeletePlan(idOrPrefix string) error {
	id, err := d.resolveID("plans", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is per connection, so children are removed explicitly.
	for _, table := range []string{"plan_adjustments", "plan_exercises"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE plan_id = ?", id); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
	}
	result, err := tx.Exec("DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if err := checkAffected(result, "delete plan", idOrPrefix); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) listPrescriptions(planID uuid.UUID) ([]models.ExercisePrescription, error) {
	rows, err := d.db.Query(`
		SELECT id, plan_id, exercise_id, exercise_name, sets, reps, duration_seconds,
			rest_seconds, order_index, notes
		FROM plan_exercises
		WHERE plan_id = ?
		ORDER BY order_index ASC
	`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var rx []models.ExercisePrescription
	for rows.Next() {
		var r models.ExercisePrescription
		var idStr, planIDStr, exerciseIDStr string
		var reps, duration sql.NullInt64
		var notes sql.NullString

		err := rows.Scan(&idStr, &planIDStr, &exerciseIDStr, &r.ExerciseName, &r.Sets, &reps, &duration,
			&r.RestSeconds, &r.OrderIndex, &notes)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		r.ID, _ = uuid.Parse(idStr)
		r.PlanID, _ = uuid.Parse(planIDStr)
		r.ExerciseID, _ = uuid.Parse(exerciseIDStr)
		r.Reps = nullIntPtr(reps)
		r.DurationSeconds = nullIntPtr(duration)
		r.Notes = notes.String
		rx = append(rx, r)
	}
	return rx, rows.Err()
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	var p models.Plan
	var idStr, profileIDStr, difficulty, tags, createdAt, updatedAt string
	var description sql.NullString

	err := row.Scan(&idStr, &profileIDStr, &p.Name, &description, &difficulty,
		&p.Structure.DurationWeeks, &p.Structure.WorkoutsPerWeek, &p.Structure.ExercisesPerWorkout,
		&p.Structure.RestDays, &p.FitnessScore, &tags, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	p.ID, _ = uuid.Parse(idStr)
	p.ProfileID, _ = uuid.Parse(profileIDStr)
	p.Description = description.String
	p.Difficulty = models.FitnessLevel(difficulty)
	p.Tags = decodeList[string](tags)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
