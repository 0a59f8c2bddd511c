// ABOUTME: Exercise catalog, plan structure, plan and prescription models.
// ABOUTME: Plans are regenerated wholesale; prescriptions are adjusted in place.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exercise is a catalog entry that can be prescribed in a plan.
type Exercise struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	MuscleGroups []string  `json:"muscle_groups" yaml:"muscle_groups"`
	Equipment    []string  `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	TimeBased    bool      `json:"time_based,omitempty" yaml:"time_based,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewExercise creates an Exercise with a generated UUID.
// Muscle groups are stored lower-cased.
func NewExercise(name string, muscleGroups ...string) *Exercise {
	groups := make([]string, 0, len(muscleGroups))
	for _, g := range muscleGroups {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			groups = append(groups, g)
		}
	}
	return &Exercise{
		ID:           uuid.New(),
		Name:         name,
		MuscleGroups: groups,
		CreatedAt:    time.Now(),
	}
}

// WithEquipment sets the equipment list.
func (e *Exercise) WithEquipment(equipment ...string) *Exercise {
	e.Equipment = append([]string(nil), equipment...)
	return e
}

// WithDescription sets the description.
func (e *Exercise) WithDescription(d string) *Exercise {
	e.Description = d
	return e
}

// Timed marks the exercise as held for a duration instead of counted in reps.
func (e *Exercise) Timed() *Exercise {
	e.TimeBased = true
	return e
}

// PlanStructure is the weekly shape of a plan.
type PlanStructure struct {
	DurationWeeks       int `json:"duration_weeks" yaml:"duration_weeks"`
	WorkoutsPerWeek     int `json:"workouts_per_week" yaml:"workouts_per_week"`
	ExercisesPerWorkout int `json:"exercises_per_workout" yaml:"exercises_per_workout"`
	RestDays            int `json:"rest_days" yaml:"rest_days"`
}

// ExercisePrescription is the sets/reps/rest assigned to one exercise slot.
type ExercisePrescription struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	PlanID          uuid.UUID `json:"plan_id" yaml:"plan_id"`
	ExerciseID      uuid.UUID `json:"exercise_id" yaml:"exercise_id"`
	ExerciseName    string    `json:"exercise_name" yaml:"exercise_name"`
	Sets            int       `json:"sets" yaml:"sets"`
	Reps            *int      `json:"reps,omitempty" yaml:"reps,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	RestSeconds     int       `json:"rest_seconds" yaml:"rest_seconds"`
	OrderIndex      int       `json:"order_index" yaml:"order_index"`
	Notes           string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsTimed reports whether the prescription is held for a duration rather than counted.
func (rx ExercisePrescription) IsTimed() bool {
	return rx.Reps == nil && rx.DurationSeconds != nil
}

// Plan is a generated workout plan owned by a profile.
type Plan struct {
	ID           uuid.UUID              `json:"id" yaml:"id"`
	ProfileID    uuid.UUID              `json:"profile_id" yaml:"profile_id"`
	Name         string                 `json:"name" yaml:"name"`
	Description  string                 `json:"description" yaml:"description"`
	Difficulty   FitnessLevel           `json:"difficulty" yaml:"difficulty"`
	Structure    PlanStructure          `json:"structure" yaml:"structure"`
	FitnessScore float64                `json:"fitness_score" yaml:"fitness_score"`
	Tags         []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Exercises    []ExercisePrescription `json:"exercises,omitempty" yaml:"exercises,omitempty"`
	CreatedAt    time.Time              `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" yaml:"updated_at"`
}

// NewPlan creates a Plan for a profile with a generated UUID.
// Name, description and tags are derived from the profile.
func NewPlan(p Profile, s PlanStructure, score float64) *Plan {
	now := time.Now()
	level := p.LevelLabel()
	goals := p.GoalLabels()

	tags := make([]string, 0, len(p.Goals)+2)
	for _, g := range p.Goals {
		tags = append(tags, string(g))
	}
	tags = append(tags, string(level), "generated")

	return &Plan{
		ID:           uuid.New(),
		ProfileID:    p.ID,
		Name:         "Custom Plan for " + p.Name,
		Description:  "Personalized " + string(level) + " plan targeting " + strings.Join(goals, ", "),
		Difficulty:   level,
		Structure:    s,
		FitnessScore: score,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// WithExercises attaches prescriptions, stamping each with the plan ID
// and a fresh UUID when it has none.
func (pl *Plan) WithExercises(rx []ExercisePrescription) *Plan {
	pl.Exercises = make([]ExercisePrescription, len(rx))
	for i, r := range rx {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.PlanID = pl.ID
		pl.Exercises[i] = r
	}
	return pl
}
