// ABOUTME: Fitness score calculator.
// ABOUTME: Maps level, workout count and streak into a score between 0 and 5.
package engine

import "github.com/stevenrego/FitSync-Pro/internal/models"

// Fitness score constants.
const (
	MaxFitnessScore = 5.0

	workoutBonusThresholdLow  = 50
	workoutBonusThresholdHigh = 100
	workoutBonus              = 1.0

	streakBonusThresholdLow  = 7
	streakBonusThresholdHigh = 30
	streakBonus              = 0.5
)

// levelBase returns the score a level starts from; unknown levels count as beginner.
func levelBase(l models.FitnessLevel) float64 {
	switch l {
	case models.LevelIntermediate:
		return 2
	case models.LevelAdvanced:
		return 3
	default:
		return 1
	}
}

// Score computes the fitness score of a profile.
func Score(p models.Profile) float64 {
	score := levelBase(p.FitnessLevel)

	workouts := p.Workouts()
	if workouts > workoutBonusThresholdLow {
		score += workoutBonus
	}
	if workouts > workoutBonusThresholdHigh {
		score += workoutBonus
	}

	streak := p.Streak()
	if streak > streakBonusThresholdLow {
		score += streakBonus
	}
	if streak > streakBonusThresholdHigh {
		score += streakBonus
	}

	return min(score, MaxFitnessScore)
}
