// ABOUTME: Built-in exercise catalog seeded into an empty store.
// ABOUTME: Returns fresh records each call so callers may mutate them.
package models

// DefaultCatalog returns the starter exercise catalog.
func DefaultCatalog() []*Exercise {
	return []*Exercise{
		NewExercise("Push-ups", "chest", "triceps", "shoulders").
			WithEquipment("bodyweight").
			WithDescription("Classic bodyweight chest exercise"),
		NewExercise("Squats", "quadriceps", "glutes", "hamstrings").
			WithEquipment("bodyweight").
			WithDescription("Fundamental leg exercise"),
		NewExercise("Bent-over Rows", "back", "biceps").
			WithEquipment("dumbbells").
			WithDescription("Horizontal pull for the upper back"),
		NewExercise("Overhead Press", "shoulders", "triceps").
			WithEquipment("dumbbells").
			WithDescription("Standing vertical press"),
		NewExercise("Lunges", "legs", "glutes").
			WithEquipment("bodyweight").
			WithDescription("Alternating forward lunges"),
		NewExercise("Plank", "core").
			WithEquipment("bodyweight").
			WithDescription("Hold a straight-arm or forearm plank").
			Timed(),
		NewExercise("Bicep Curls", "biceps").
			WithEquipment("dumbbells").
			WithDescription("Elbow flexion with supinated grip"),
		NewExercise("Tricep Dips", "triceps").
			WithEquipment("bench").
			WithDescription("Dips off a bench or parallel bars"),
		NewExercise("Glute Bridges", "glutes", "hamstrings").
			WithEquipment("bodyweight").
			WithDescription("Hip extension from the floor"),
		NewExercise("Mountain Climbers", "core", "cardio").
			WithEquipment("bodyweight").
			WithDescription("Alternating knee drives from a plank").
			Timed(),
		NewExercise("Deadlifts", "back", "legs", "glutes").
			WithEquipment("barbell").
			WithDescription("Hip hinge from the floor"),
		NewExercise("Calf Raises", "calves").
			WithEquipment("bodyweight").
			WithDescription("Standing heel raises"),
	}
}
