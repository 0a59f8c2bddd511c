// ABOUTME: Tests for the exercise prescription engine.
// ABOUTME: Covers per-level sets/reps/rest, compound classification and validation.
package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

func TestRepsFor(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		level  models.FitnessLevel
		want   int
	}{
		{"compound beginner", []string{"chest", "triceps"}, models.LevelBeginner, 6},
		{"compound intermediate", []string{"legs"}, models.LevelIntermediate, 8},
		{"compound advanced", []string{"back"}, models.LevelAdvanced, 10},
		{"compound unknown level", []string{"shoulders"}, "", 8},
		{"isolation beginner", []string{"biceps"}, models.LevelBeginner, 10},
		{"isolation intermediate", []string{"calves"}, models.LevelIntermediate, 12},
		{"isolation advanced", []string{"core"}, models.LevelAdvanced, 14},
		{"case insensitive", []string{"Chest"}, models.LevelIntermediate, 8},
		{"no groups is isolation", nil, models.LevelIntermediate, 12},
		{"quadriceps is not a compound group", []string{"quadriceps", "glutes"}, models.LevelIntermediate, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepsFor(tt.groups, tt.level); got != tt.want {
				t.Errorf("RepsFor(%v, %s) = %d, want %d", tt.groups, tt.level, got, tt.want)
			}
		})
	}
}

func TestSetsAndRestFor(t *testing.T) {
	tests := []struct {
		level models.FitnessLevel
		sets  int
		rest  int
	}{
		{models.LevelBeginner, 2, 90},
		{models.LevelIntermediate, 3, 75},
		{models.LevelAdvanced, 4, 60},
		{"", 3, 75},
		{"elite", 3, 75},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := SetsFor(tt.level); got != tt.sets {
				t.Errorf("SetsFor = %d, want %d", got, tt.sets)
			}
			if got := RestFor(tt.level); got != tt.rest {
				t.Errorf("RestFor = %d, want %d", got, tt.rest)
			}
		})
	}
}

func TestNotesFor(t *testing.T) {
	tests := []struct {
		level models.FitnessLevel
		want  string
	}{
		{models.LevelBeginner, "Customized for beginner level. Focus on proper form over speed. Start with bodyweight if needed."},
		{models.LevelIntermediate, "Customized for intermediate level. Focus on proper form over speed."},
		{models.LevelAdvanced, "Customized for advanced level. Focus on proper form over speed. Consider adding progressive overload."},
	}

	for _, tt := range tests {
		if got := NotesFor(tt.level); got != tt.want {
			t.Errorf("NotesFor(%s) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestPrescribe(t *testing.T) {
	pushUp := models.NewExercise("Push-up", "chest", "triceps", "shoulders")
	curl := models.NewExercise("Bicep curl", "biceps")
	plank := models.NewExercise("Plank", "core").Timed()

	p := models.NewProfile("x").WithLevel(models.LevelAdvanced)
	got, err := Prescribe([]models.Exercise{*pushUp, *curl, *plank}, *p)
	if err != nil {
		t.Fatalf("Prescribe failed: %v", err)
	}

	ten, fourteen, thirtySix := 10, 14, 36
	notes := NotesFor(models.LevelAdvanced)
	want := []models.ExercisePrescription{
		{ExerciseID: pushUp.ID, ExerciseName: "Push-up", Sets: 4, Reps: &ten, RestSeconds: 60, OrderIndex: 1, Notes: notes},
		{ExerciseID: curl.ID, ExerciseName: "Bicep curl", Sets: 4, Reps: &fourteen, RestSeconds: 60, OrderIndex: 2, Notes: notes},
		{ExerciseID: plank.ID, ExerciseName: "Plank", Sets: 4, DurationSeconds: &thirtySix, RestSeconds: 60, OrderIndex: 3, Notes: notes},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prescribe() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrescribeEmpty(t *testing.T) {
	got, err := Prescribe(nil, models.Profile{})
	if err != nil {
		t.Fatalf("Prescribe(nil) error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Prescribe(nil) = %v, want empty non-nil slice", got)
	}
}

func TestPrescribeValidation(t *testing.T) {
	good := *models.NewExercise("Squat", "legs")

	tests := []struct {
		name      string
		candidate models.Exercise
		field     string
	}{
		{"missing id", models.Exercise{Name: "Row"}, "candidates[1].id"},
		{"blank name", models.Exercise{ID: uuid.New(), Name: "  "}, "candidates[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prescribe([]models.Exercise{good, tt.candidate}, models.Profile{})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestPrescribeOrderIndexDense(t *testing.T) {
	var catalog []models.Exercise
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		catalog = append(catalog, *models.NewExercise(name, "legs"))
	}

	got, err := Prescribe(SelectCandidates(catalog, models.PlanStructure{ExercisesPerWorkout: 6}), models.Profile{})
	if err != nil {
		t.Fatalf("Prescribe failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i, rx := range got {
		if rx.OrderIndex != i+1 {
			t.Errorf("OrderIndex[%d] = %d, want %d", i, rx.OrderIndex, i+1)
		}
		if rx.RestSeconds < MinRestSeconds || rx.Sets < MinSets || rx.Reps == nil || *rx.Reps < MinReps {
			t.Errorf("prescription below minimums: %+v", rx)
		}
	}
}

func TestSelectCandidates(t *testing.T) {
	catalog := []models.Exercise{*models.NewExercise("a"), *models.NewExercise("b")}

	if got := SelectCandidates(catalog, models.PlanStructure{ExercisesPerWorkout: 6}); len(got) != 2 {
		t.Errorf("len = %d, want 2 when catalog is smaller", len(got))
	}
	if got := SelectCandidates(catalog, models.PlanStructure{ExercisesPerWorkout: 1}); len(got) != 1 || got[0].Name != "a" {
		t.Errorf("SelectCandidates = %v, want [a]", got)
	}
	if got := SelectCandidates(nil, models.PlanStructure{ExercisesPerWorkout: 3}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
