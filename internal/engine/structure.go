// ABOUTME: Plan structure generator.
// ABOUTME: Picks duration, weekly frequency and session size from goals and fitness score.
package engine

import "github.com/stevenrego/FitSync-Pro/internal/models"

// Plan structure defaults and bonuses.
const (
	DefaultDurationWeeks       = 8
	DefaultWorkoutsPerWeek     = 3
	DefaultExercisesPerWorkout = 6

	// HighScoreThreshold is the fitness score from which volume is increased.
	HighScoreThreshold     = 4.0
	highScoreWorkoutBonus  = 1
	highScoreExerciseBonus = 2
	daysPerWeek            = 7
	minWorkoutsPerWeek     = 1
	minExercisesPerWorkout = 1
	minDurationWeeks       = 1
)

// goalStructure is the override applied when a goal is the active one.
// Zero fields keep the default.
type goalStructure struct {
	durationWeeks       int
	workoutsPerWeek     int
	exercisesPerWorkout int
}

// GoalPriority is the order in which goals are checked. The first goal the
// profile has wins; goals never combine.
var GoalPriority = []models.Goal{models.GoalWeightLoss, models.GoalMuscleGain, models.GoalEndurance}

var goalStructures = map[models.Goal]goalStructure{
	models.GoalWeightLoss: {durationWeeks: 12, workoutsPerWeek: 4},
	models.GoalMuscleGain: {durationWeeks: 16, workoutsPerWeek: 4, exercisesPerWorkout: 8},
	models.GoalEndurance:  {durationWeeks: 10, workoutsPerWeek: 5},
}

// ActiveGoal returns the highest-priority goal the profile has, or general.
func ActiveGoal(p models.Profile) models.Goal {
	for _, g := range GoalPriority {
		if p.HasGoal(g) {
			return g
		}
	}
	return models.GoalGeneral
}

// Structure derives the plan structure for a profile and its fitness score.
func Structure(p models.Profile, fitnessScore float64) models.PlanStructure {
	s := models.PlanStructure{
		DurationWeeks:       DefaultDurationWeeks,
		WorkoutsPerWeek:     DefaultWorkoutsPerWeek,
		ExercisesPerWorkout: DefaultExercisesPerWorkout,
	}

	if o, ok := goalStructures[ActiveGoal(p)]; ok {
		if o.durationWeeks > 0 {
			s.DurationWeeks = o.durationWeeks
		}
		if o.workoutsPerWeek > 0 {
			s.WorkoutsPerWeek = o.workoutsPerWeek
		}
		if o.exercisesPerWorkout > 0 {
			s.ExercisesPerWorkout = o.exercisesPerWorkout
		}
	}

	if fitnessScore >= HighScoreThreshold {
		s.WorkoutsPerWeek += highScoreWorkoutBonus
		s.ExercisesPerWorkout += highScoreExerciseBonus
	}

	s.DurationWeeks = max(minDurationWeeks, s.DurationWeeks)
	s.WorkoutsPerWeek = min(daysPerWeek, max(minWorkoutsPerWeek, s.WorkoutsPerWeek))
	s.ExercisesPerWorkout = max(minExercisesPerWorkout, s.ExercisesPerWorkout)
	s.RestDays = max(0, daysPerWeek-s.WorkoutsPerWeek)
	return s
}
