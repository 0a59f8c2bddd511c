// ABOUTME: Exercise prescription engine.
// ABOUTME: Assigns sets, reps, rest and form notes per exercise from level and muscle groups.
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// Prescription constants.
const (
	CompoundBaseReps  = 8
	IsolationBaseReps = 12
	// TimedBaseSeconds is the hold duration for time-based exercises before scaling.
	TimedBaseSeconds = 30
	MinRestSeconds   = 30
	MinSets          = 1
	MinReps          = 1
)

// compoundMuscleGroups classify an exercise as compound/strength work.
var compoundMuscleGroups = map[string]bool{
	"chest":     true,
	"back":      true,
	"legs":      true,
	"shoulders": true,
}

// IsCompound reports whether any of the muscle groups is a compound group.
func IsCompound(muscleGroups []string) bool {
	for _, g := range muscleGroups {
		if compoundMuscleGroups[strings.ToLower(strings.TrimSpace(g))] {
			return true
		}
	}
	return false
}

// SetsFor returns the number of sets for a level.
func SetsFor(l models.FitnessLevel) int {
	switch l {
	case models.LevelBeginner:
		return 2
	case models.LevelIntermediate:
		return 3
	case models.LevelAdvanced:
		return 4
	default:
		return 3
	}
}

// RepMultiplier scales base reps by level.
func RepMultiplier(l models.FitnessLevel) float64 {
	switch l {
	case models.LevelBeginner:
		return 0.8
	case models.LevelAdvanced:
		return 1.2
	default:
		return 1
	}
}

// RepsFor returns reps for an exercise with the given muscle groups at a level.
func RepsFor(muscleGroups []string, l models.FitnessLevel) int {
	base := IsolationBaseReps
	if IsCompound(muscleGroups) {
		base = CompoundBaseReps
	}
	return max(MinReps, int(math.Round(float64(base)*RepMultiplier(l))))
}

// RestFor returns rest between sets, in seconds, for a level.
func RestFor(l models.FitnessLevel) int {
	switch l {
	case models.LevelBeginner:
		return 90
	case models.LevelIntermediate:
		return 75
	case models.LevelAdvanced:
		return 60
	default:
		return 75
	}
}

// HoldSecondsFor returns the work duration of a time-based exercise at a level.
func HoldSecondsFor(l models.FitnessLevel) int {
	return max(1, int(math.Round(TimedBaseSeconds*RepMultiplier(l))))
}

// NotesFor returns form guidance for a level. The text is descriptive only.
func NotesFor(l models.FitnessLevel) string {
	notes := []string{
		fmt.Sprintf("Customized for %s level", l),
		"Focus on proper form over speed",
	}
	switch l {
	case models.LevelBeginner:
		notes = append(notes, "Start with bodyweight if needed")
	case models.LevelAdvanced:
		notes = append(notes, "Consider adding progressive overload")
	}
	return strings.Join(notes, ". ") + "."
}

// SelectCandidates picks the exercises for one session: the first
// ExercisesPerWorkout entries of the catalog, in catalog order.
func SelectCandidates(catalog []models.Exercise, s models.PlanStructure) []models.Exercise {
	n := min(len(catalog), max(0, s.ExercisesPerWorkout))
	return append([]models.Exercise(nil), catalog[:n]...)
}

// Prescribe assigns a prescription to every candidate exercise, in input order.
// An empty candidate list yields an empty result.
func Prescribe(candidates []models.Exercise, p models.Profile) ([]models.ExercisePrescription, error) {
	for i, ex := range candidates {
		if ex.ID == uuid.Nil {
			return nil, invalid(fmt.Sprintf("candidates[%d].id", i), "must be set")
		}
		if strings.TrimSpace(ex.Name) == "" {
			return nil, invalid(fmt.Sprintf("candidates[%d].name", i), "must not be empty")
		}
	}

	level := p.FitnessLevel
	notes := NotesFor(p.LevelLabel())
	sets := SetsFor(level)
	rest := RestFor(level)

	out := make([]models.ExercisePrescription, 0, len(candidates))
	for i, ex := range candidates {
		rx := models.ExercisePrescription{
			ExerciseID:   ex.ID,
			ExerciseName: ex.Name,
			Sets:         sets,
			RestSeconds:  rest,
			OrderIndex:   i + 1,
			Notes:        notes,
		}
		if ex.TimeBased {
			hold := HoldSecondsFor(level)
			rx.DurationSeconds = &hold
		} else {
			reps := RepsFor(ex.MuscleGroups, level)
			rx.Reps = &reps
		}
		out = append(out, rx)
	}
	return out, nil
}
