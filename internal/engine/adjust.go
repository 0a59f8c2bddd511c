// ABOUTME: Adaptive difficulty adjuster.
// ABOUTME: Turns a progress signal into an increase/decrease/maintain decision and applies its deltas.
package engine

import (
	"fmt"

	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// Adjustment thresholds.
const (
	IncreaseConsistency = 0.9
	IncreaseMaxRating   = 3.0
	DecreaseConsistency = 0.6
	DecreaseMinRating   = 4.0

	// defaultReps stands in for a missing rep count on a counted exercise.
	defaultReps = 10
)

// Decision is one difficulty review outcome and the deltas it implies.
type Decision struct {
	Kind        models.DecisionKind `json:"kind"`
	SetsDelta   int                 `json:"sets_delta"`
	RepsDelta   int                 `json:"reps_delta"`
	RestDelta   int                 `json:"rest_delta"`
	Consistency float64             `json:"consistency"`
	Rating      float64             `json:"rating"`
	Rationale   string              `json:"rationale"`
}

// ShouldAdjust reports whether applying the decision changes prescriptions.
func (d Decision) ShouldAdjust() bool {
	return d.Kind != models.DecisionMaintain
}

// Consistency returns completed/planned. No planned workouts means zero consistency.
func Consistency(sig models.ProgressSignal) float64 {
	if sig.WorkoutsPlanned <= 0 {
		return 0
	}
	return float64(max(0, sig.WorkoutsCompleted)) / float64(sig.WorkoutsPlanned)
}

// Decide evaluates a progress signal. Increase is checked first, then decrease.
func Decide(sig models.ProgressSignal) Decision {
	consistency := Consistency(sig)
	rating := sig.Rating()

	d := Decision{Consistency: consistency, Rating: rating}
	switch {
	case consistency >= IncreaseConsistency && rating < IncreaseMaxRating:
		d.Kind = models.DecisionIncrease
		d.SetsDelta, d.RepsDelta, d.RestDelta = 1, 2, -15
		d.Rationale = fmt.Sprintf("Great progress! %.0f%% of workouts completed at an average difficulty of %.1f. Increasing intensity to challenge you more.",
			consistency*100, rating)
	case consistency <= DecreaseConsistency || rating > DecreaseMinRating:
		d.Kind = models.DecisionDecrease
		d.SetsDelta, d.RepsDelta, d.RestDelta = -1, -2, 15
		d.Rationale = fmt.Sprintf("Adjusting plan for better sustainability and consistency: %.0f%% of workouts completed at an average difficulty of %.1f.",
			consistency*100, rating)
	default:
		d.Kind = models.DecisionMaintain
		d.Rationale = "Current plan difficulty is optimal for your progress."
	}
	return d
}

// Apply returns a copy of the prescriptions with the decision's deltas applied.
// Sets and reps never drop below 1 and rest never below 30 seconds. Time-based
// prescriptions keep their duration and stay without reps.
func Apply(d Decision, prescriptions []models.ExercisePrescription) []models.ExercisePrescription {
	out := make([]models.ExercisePrescription, len(prescriptions))
	for i, rx := range prescriptions {
		if rx.Reps != nil {
			reps := *rx.Reps
			rx.Reps = &reps
		}
		if rx.DurationSeconds != nil {
			secs := *rx.DurationSeconds
			rx.DurationSeconds = &secs
		}
		if d.ShouldAdjust() {
			rx.Sets = max(MinSets, rx.Sets+d.SetsDelta)
			rx.RestSeconds = max(MinRestSeconds, rx.RestSeconds+d.RestDelta)
			if !rx.IsTimed() {
				reps := defaultReps
				if rx.Reps != nil {
					reps = *rx.Reps
				}
				reps = max(MinReps, reps+d.RepsDelta)
				rx.Reps = &reps
			}
		}
		out[i] = rx
	}
	return out
}
