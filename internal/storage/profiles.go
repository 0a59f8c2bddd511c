// ABOUTME: Profile and exercise catalog operations for SQLite storage.
// ABOUTME: Profiles are upserted; the catalog is listed in name order.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

const profileColumns = `id, name, weight_kg, height_cm, age, sex, fitness_level, goals,
	activity_level, total_workouts, streak_days, created_at, updated_at`

// SaveProfile inserts a profile or replaces an existing one with the same ID.
func (d *DB) SaveProfile(p *models.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			age = excluded.age,
			sex = excluded.sex,
			fitness_level = excluded.fitness_level,
			goals = excluded.goals,
			activity_level = excluded.activity_level,
			total_workouts = excluded.total_workouts,
			streak_days = excluded.streak_days,
			updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query,
		p.ID.String(),
		p.Name,
		p.WeightKg,
		p.HeightCm,
		p.Age,
		string(p.Sex),
		string(p.FitnessLevel),
		encodeList(p.Goals),
		string(p.ActivityLevel),
		p.TotalWorkouts,
		p.StreakDays,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID or ID prefix.
func (d *DB) GetProfile(idOrPrefix string) (*models.Profile, error) {
	id, err := d.resolveID("profiles", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanProfile(d.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
}

// ListProfiles returns all profiles, oldest first.
func (d *DB) ListProfiles() ([]*models.Profile, error) {
	rows, err := d.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var idStr, sex, level, goals, activity, createdAt, updatedAt string
	var weight, height sql.NullFloat64
	var age sql.NullInt64

	err := row.Scan(&idStr, &p.Name, &weight, &height, &age, &sex, &level, &goals,
		&activity, &p.TotalWorkouts, &p.StreakDays, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.ID, _ = uuid.Parse(idStr)
	p.WeightKg = nullFloatPtr(weight)
	p.HeightCm = nullFloatPtr(height)
	p.Age = nullIntPtr(age)
	p.Sex = models.Sex(sex)
	p.FitnessLevel = models.FitnessLevel(level)
	p.Goals = decodeList[models.Goal](goals)
	p.ActivityLevel = models.ActivityLevel(activity)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// CreateExercise adds an exercise to the catalog.
func (d *DB) CreateExercise(e *models.Exercise) error {
	query := `
		INSERT INTO exercises (id, name, description, muscle_groups, equipment, time_based, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		e.Name,
		e.Description,
		encodeList(e.MuscleGroups),
		encodeList(e.Equipment),
		e.TimeBased,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// ListExercises returns the catalog ordered by name.
func (d *DB) ListExercises() ([]*models.Exercise, error) {
	rows, err := d.db.Query(`
		SELECT id, name, description, muscle_groups, equipment, time_based, created_at
		FROM exercises
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		var e models.Exercise
		var idStr, groups, equipment, createdAt string
		var description sql.NullString

		if err := rows.Scan(&idStr, &e.Name, &description, &groups, &equipment, &e.TimeBased, &createdAt); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.ID, _ = uuid.Parse(idStr)
		e.Description = description.String
		e.MuscleGroups = decodeList[string](groups)
		e.Equipment = decodeList[string](equipment)
		e.CreatedAt = parseTime(createdAt)
		exercises = append(exercises, &e)
	}
	return exercises, rows.Err()
}
