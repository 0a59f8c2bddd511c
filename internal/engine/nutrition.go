// ABOUTME: Nutrition goal calculator.
// ABOUTME: Mifflin-St Jeor BMR, activity-scaled TDEE, goal-adjusted calories and macro split.
package engine

import (
	"math"

	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// Energy density of macronutrients, kcal per gram.
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0
)

// Goal adjustment and micro-target constants.
const (
	WeightLossFactor  = 0.85
	MuscleGainFactor  = 1.15
	FiberPerKcal      = 0.014
	MinCalories       = 1200.0
	WaterMlPerKg      = 35.0
	DefaultWaterMl    = 2500
	defaultMultiplier = 1.55
)

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// MacroSplit is the share of calories from each macronutrient.
type MacroSplit struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// Macro splits by active goal.
var (
	DefaultSplit    = MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30}
	MuscleGainSplit = MacroSplit{Protein: 0.30, Carbs: 0.45, Fat: 0.25}
	WeightLossSplit = MacroSplit{Protein: 0.35, Carbs: 0.35, Fat: 0.30}
)

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(p models.Profile) float64 {
	base := 10*p.Weight() + 6.25*p.Height() - 5*float64(p.AgeYears())
	if p.Gender() == models.SexMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier returns the TDEE multiplier for an activity level.
func ActivityMultiplier(a models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return defaultMultiplier
}

// TDEE is BMR scaled by the profile's activity level.
func TDEE(p models.Profile) float64 {
	return BMR(p) * ActivityMultiplier(p.Activity())
}

// nutritionGoal returns the goal driving calories and macros. Weight loss wins
// over muscle gain; endurance and general leave maintenance calories.
func nutritionGoal(p models.Profile) models.Goal {
	switch {
	case p.HasGoal(models.GoalWeightLoss):
		return models.GoalWeightLoss
	case p.HasGoal(models.GoalMuscleGain):
		return models.GoalMuscleGain
	default:
		return models.GoalGeneral
	}
}

// MacroSplitFor returns the macro split for a profile's goals.
func MacroSplitFor(p models.Profile) MacroSplit {
	switch nutritionGoal(p) {
	case models.GoalWeightLoss:
		return WeightLossSplit
	case models.GoalMuscleGain:
		return MuscleGainSplit
	default:
		return DefaultSplit
	}
}

// CalorieTarget returns the unrounded daily calorie target, never below
// MinCalories. Whole-gram macros stay within 1% of the target above that floor.
func CalorieTarget(p models.Profile) float64 {
	target := TDEE(p)
	switch nutritionGoal(p) {
	case models.GoalWeightLoss:
		target *= WeightLossFactor
	case models.GoalMuscleGain:
		target *= MuscleGainFactor
	}
	return max(MinCalories, target)
}

// Goals computes daily calorie, macro, fiber and water targets for a profile.
func Goals(p models.Profile) models.NutritionGoal {
	calories := CalorieTarget(p)
	split := MacroSplitFor(p)

	water := DefaultWaterMl
	if p.HasWeight() {
		water = round(p.Weight() * WaterMlPerKg)
	}

	return models.NutritionGoal{
		Calories: round(calories),
		ProteinG: round(calories * split.Protein / KcalPerGramProtein),
		CarbsG:   round(calories * split.Carbs / KcalPerGramCarbs),
		FatG:     round(calories * split.Fat / KcalPerGramFat),
		FiberG:   round(calories * FiberPerKcal),
		WaterMl:  water,
	}
}

// MacroCalories returns the energy implied by a goal's macros.
func MacroCalories(g models.NutritionGoal) float64 {
	return float64(g.ProteinG)*KcalPerGramProtein + float64(g.CarbsG)*KcalPerGramCarbs + float64(g.FatG)*KcalPerGramFat
}

func round(v float64) int {
	return int(math.Round(v))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
