// ABOUTME: Progress signal, workout session, wearable activity and adjustment models.
// ABOUTME: Sessions feed the progress signal; adjustments audit every applied decision.
package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDifficultyRating is used when a progress window has no ratings.
const DefaultDifficultyRating = 3.0

// Difficulty ratings are on a 1-5 scale.
const (
	MinDifficultyRating = 1.0
	MaxDifficultyRating = 5.0
)

// ProgressSignal summarises one review window of training.
type ProgressSignal struct {
	WorkoutsCompleted       int      `json:"workouts_completed" yaml:"workouts_completed"`
	WorkoutsPlanned         int      `json:"workouts_planned" yaml:"workouts_planned"`
	AverageDifficultyRating *float64 `json:"average_difficulty_rating,omitempty" yaml:"average_difficulty_rating,omitempty"`
}

// Rating returns the average difficulty rating clamped to 1-5, 3 when none
// was reported.
func (s ProgressSignal) Rating() float64 {
	if s.AverageDifficultyRating == nil || math.IsNaN(*s.AverageDifficultyRating) {
		return DefaultDifficultyRating
	}
	return min(MaxDifficultyRating, max(MinDifficultyRating, *s.AverageDifficultyRating))
}

// RatingInRange reports whether the reported rating is absent or within 1-5.
func (s ProgressSignal) RatingInRange() bool {
	r := s.AverageDifficultyRating
	return r == nil || (*r >= MinDifficultyRating && *r <= MaxDifficultyRating)
}

// WorkoutSession is one performed (or started) training session.
type WorkoutSession struct {
	ID               uuid.UUID  `json:"id" yaml:"id"`
	ProfileID        uuid.UUID  `json:"profile_id" yaml:"profile_id"`
	PlanID           *uuid.UUID `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	StartedAt        time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	DurationMinutes  *int       `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	DifficultyRating *int       `json:"difficulty_rating,omitempty" yaml:"difficulty_rating,omitempty"`
	CaloriesBurned   *int       `json:"calories_burned,omitempty" yaml:"calories_burned,omitempty"`
	Notes            *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at" yaml:"created_at"`
}

// NewWorkoutSession starts a session now.
func NewWorkoutSession(profileID uuid.UUID) *WorkoutSession {
	now := time.Now()
	return &WorkoutSession{
		ID:        uuid.New(),
		ProfileID: profileID,
		StartedAt: now,
		CreatedAt: now,
	}
}

// ForPlan links the session to a plan.
func (s *WorkoutSession) ForPlan(planID uuid.UUID) *WorkoutSession {
	s.PlanID = &planID
	return s
}

// WithStartedAt sets a custom start timestamp.
func (s *WorkoutSession) WithStartedAt(t time.Time) *WorkoutSession {
	s.StartedAt = t
	return s
}

// WithNotes sets notes on the session.
func (s *WorkoutSession) WithNotes(notes string) *WorkoutSession {
	s.Notes = &notes
	return s
}

// Complete marks the session finished at t with an optional 1-5 difficulty rating
// (0 leaves it unrated). Duration is derived from StartedAt.
func (s *WorkoutSession) Complete(t time.Time, rating int) *WorkoutSession {
	s.CompletedAt = &t
	minutes := int(t.Sub(s.StartedAt).Minutes())
	if minutes > 0 {
		s.DurationMinutes = &minutes
	}
	if rating > 0 {
		s.DifficultyRating = &rating
	}
	return s
}

// IsCompleted reports whether the session has been finished.
func (s WorkoutSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// ActivitySource names where an activity record came from.
type ActivitySource string

const (
	SourceAppleHealth ActivitySource = "apple_health"
	SourceGoogleFit   ActivitySource = "google_fit"
	SourceFitbit      ActivitySource = "fitbit"
	SourceGarmin      ActivitySource = "garmin"
	SourceWhoop       ActivitySource = "whoop"
	SourceManual      ActivitySource = "manual"
)

// AllActivitySources lists the recognized sources.
var AllActivitySources = []ActivitySource{
	SourceAppleHealth, SourceGoogleFit, SourceFitbit, SourceGarmin, SourceWhoop, SourceManual,
}

// ParseActivitySource parses a case-insensitive source name.
func ParseActivitySource(s string) (ActivitySource, error) {
	src := ActivitySource(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range AllActivitySources {
		if src == known {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown activity source: %s", s)
}

// ActivityRecord is a normalized daily activity summary from a wearable.
type ActivityRecord struct {
	ProfileID      uuid.UUID      `json:"profile_id" yaml:"profile_id"`
	Date           string         `json:"date" yaml:"date"`
	Source         ActivitySource `json:"source" yaml:"source"`
	Steps          int            `json:"steps" yaml:"steps"`
	DistanceKm     float64        `json:"distance_km" yaml:"distance_km"`
	ActiveCalories int            `json:"active_calories" yaml:"active_calories"`
	ActiveMinutes  int            `json:"active_minutes" yaml:"active_minutes"`
	HeartRateAvg   *int           `json:"heart_rate_avg,omitempty" yaml:"heart_rate_avg,omitempty"`
	SleepHours     *float64       `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at" yaml:"updated_at"`
}

// DecisionKind is the outcome of one difficulty review.
type DecisionKind string

const (
	DecisionIncrease DecisionKind = "increase"
	DecisionDecrease DecisionKind = "decrease"
	DecisionMaintain DecisionKind = "maintain"
)

// Adjustment records a difficulty decision made for a plan over a review window.
type Adjustment struct {
	ID          uuid.UUID      `json:"id" yaml:"id"`
	PlanID      uuid.UUID      `json:"plan_id" yaml:"plan_id"`
	WindowStart string         `json:"window_start" yaml:"window_start"`
	WindowEnd   string         `json:"window_end" yaml:"window_end"`
	Decision    DecisionKind   `json:"decision" yaml:"decision"`
	Rationale   string         `json:"rationale" yaml:"rationale"`
	Signal      ProgressSignal `json:"signal" yaml:"signal"`
	AppliedAt   time.Time      `json:"applied_at" yaml:"applied_at"`
}
