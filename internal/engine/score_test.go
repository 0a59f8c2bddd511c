// ABOUTME: Tests for the fitness score and plan structure calculators.
// ABOUTME: Covers bonuses, clamping, goal priority and structure bounds.
package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		level    models.FitnessLevel
		workouts int
		streak   int
		want     float64
	}{
		{"beginner no history", models.LevelBeginner, 0, 0, 1},
		{"intermediate no history", models.LevelIntermediate, 0, 0, 2},
		{"advanced no history", models.LevelAdvanced, 0, 0, 3},
		{"unknown level", "", 0, 0, 1},
		{"unrecognized level", "elite", 0, 0, 1},
		{"exactly 50 workouts gets no bonus", models.LevelBeginner, 50, 0, 1},
		{"51 workouts", models.LevelBeginner, 51, 0, 2},
		{"101 workouts gets both bonuses", models.LevelBeginner, 101, 0, 3},
		{"exactly 7 streak gets no bonus", models.LevelBeginner, 0, 7, 1},
		{"8 day streak", models.LevelBeginner, 0, 8, 1.5},
		{"31 day streak", models.LevelBeginner, 0, 31, 2},
		{"intermediate everything", models.LevelIntermediate, 150, 40, 5},
		{"advanced everything clamps", models.LevelAdvanced, 150, 40, 5},
		{"negative counters clamp", models.LevelIntermediate, -10, -3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Profile{FitnessLevel: tt.level, TotalWorkouts: tt.workouts, StreakDays: tt.streak}
			if got := Score(p); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBoundedAndMonotone(t *testing.T) {
	levels := append([]models.FitnessLevel{""}, models.AllFitnessLevels...)
	counts := []int{-5, 0, 7, 8, 30, 31, 50, 51, 100, 101, 500}

	for _, level := range levels {
		for _, streak := range counts {
			prev := -1.0
			for _, workouts := range counts {
				got := Score(models.Profile{FitnessLevel: level, TotalWorkouts: workouts, StreakDays: streak})
				if got < 0 || got > MaxFitnessScore {
					t.Fatalf("Score(%s, %d, %d) = %v out of [0,5]", level, workouts, streak, got)
				}
				if got < prev {
					t.Errorf("Score decreased in workouts: level=%s streak=%d workouts=%d", level, streak, workouts)
				}
				prev = got
			}
		}
		for _, workouts := range counts {
			prev := -1.0
			for _, streak := range counts {
				got := Score(models.Profile{FitnessLevel: level, TotalWorkouts: workouts, StreakDays: streak})
				if got < prev {
					t.Errorf("Score decreased in streak: level=%s workouts=%d streak=%d", level, workouts, streak)
				}
				prev = got
			}
		}
	}
}

func TestStructure(t *testing.T) {
	tests := []struct {
		name  string
		goals []models.Goal
		score float64
		want  models.PlanStructure
	}{
		{"no goals", nil, 1, models.PlanStructure{DurationWeeks: 8, WorkoutsPerWeek: 3, ExercisesPerWorkout: 6, RestDays: 4}},
		{"general", []models.Goal{models.GoalGeneral}, 1, models.PlanStructure{DurationWeeks: 8, WorkoutsPerWeek: 3, ExercisesPerWorkout: 6, RestDays: 4}},
		{"weight loss", []models.Goal{models.GoalWeightLoss}, 1, models.PlanStructure{DurationWeeks: 12, WorkoutsPerWeek: 4, ExercisesPerWorkout: 6, RestDays: 3}},
		{"muscle gain", []models.Goal{models.GoalMuscleGain}, 1, models.PlanStructure{DurationWeeks: 16, WorkoutsPerWeek: 4, ExercisesPerWorkout: 8, RestDays: 3}},
		{"endurance", []models.Goal{models.GoalEndurance}, 1, models.PlanStructure{DurationWeeks: 10, WorkoutsPerWeek: 5, ExercisesPerWorkout: 6, RestDays: 2}},
		{"weight loss beats muscle gain regardless of order", []models.Goal{models.GoalMuscleGain, models.GoalWeightLoss}, 1, models.PlanStructure{DurationWeeks: 12, WorkoutsPerWeek: 4, ExercisesPerWorkout: 6, RestDays: 3}},
		{"muscle gain beats endurance", []models.Goal{models.GoalEndurance, models.GoalMuscleGain}, 1, models.PlanStructure{DurationWeeks: 16, WorkoutsPerWeek: 4, ExercisesPerWorkout: 8, RestDays: 3}},
		{"score bonus at threshold", nil, 4, models.PlanStructure{DurationWeeks: 8, WorkoutsPerWeek: 4, ExercisesPerWorkout: 8, RestDays: 3}},
		{"score just below threshold", nil, 3.5, models.PlanStructure{DurationWeeks: 8, WorkoutsPerWeek: 3, ExercisesPerWorkout: 6, RestDays: 4}},
		{"endurance with bonus", []models.Goal{models.GoalEndurance}, 5, models.PlanStructure{DurationWeeks: 10, WorkoutsPerWeek: 6, ExercisesPerWorkout: 8, RestDays: 1}},
		{"muscle gain with bonus", []models.Goal{models.GoalMuscleGain}, 4.5, models.PlanStructure{DurationWeeks: 16, WorkoutsPerWeek: 5, ExercisesPerWorkout: 10, RestDays: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Structure(models.Profile{Goals: tt.goals}, tt.score)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Structure() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStructureDeterministicAndBounded(t *testing.T) {
	goalSets := [][]models.Goal{
		nil,
		{models.GoalGeneral},
		{models.GoalWeightLoss},
		{models.GoalMuscleGain},
		{models.GoalEndurance},
		{models.GoalWeightLoss, models.GoalMuscleGain, models.GoalEndurance},
		{models.GoalEndurance, models.GoalGeneral},
	}
	scores := []float64{-1, 0, 1, 3.99, 4, 5, 100}

	for _, goals := range goalSets {
		for _, score := range scores {
			p := models.Profile{Goals: goals}
			first := Structure(p, score)
			second := Structure(p, score)
			if first != second {
				t.Errorf("Structure not deterministic for goals=%v score=%v", goals, score)
			}
			if first.WorkoutsPerWeek < 1 || first.WorkoutsPerWeek > 7 {
				t.Errorf("WorkoutsPerWeek = %d out of [1,7]", first.WorkoutsPerWeek)
			}
			if first.RestDays != 7-first.WorkoutsPerWeek {
				t.Errorf("RestDays = %d, want %d", first.RestDays, 7-first.WorkoutsPerWeek)
			}
			if first.DurationWeeks < 1 || first.ExercisesPerWorkout < 1 {
				t.Errorf("structure below minimums: %+v", first)
			}
		}
	}
}

func TestActiveGoal(t *testing.T) {
	if got := ActiveGoal(models.Profile{}); got != models.GoalGeneral {
		t.Errorf("ActiveGoal(empty) = %s, want general", got)
	}
	p := models.Profile{Goals: []models.Goal{models.GoalEndurance, models.GoalWeightLoss}}
	if got := ActiveGoal(p); got != models.GoalWeightLoss {
		t.Errorf("ActiveGoal = %s, want weight_loss", got)
	}
}
