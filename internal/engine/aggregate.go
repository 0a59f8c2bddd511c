// ABOUTME: Nutrition aggregator.
// ABOUTME: Reduces a day's food entries into totals and compares them against a goal.
package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// contribution is one entry's share of the day's nutrients.
type contribution struct {
	key      string
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

func compareContribution(a, b contribution) int {
	return cmp.Or(
		cmp.Compare(a.key, b.key),
		cmp.Compare(a.calories, b.calories),
		cmp.Compare(a.protein, b.protein),
		cmp.Compare(a.carbs, b.carbs),
		cmp.Compare(a.fat, b.fat),
	)
}

// EntryContribution returns the unrounded nutrients one entry adds to its day.
func EntryContribution(e models.FoodEntry) (calories, protein, carbs, fat float64, err error) {
	c, err := entryContribution(0, e)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return c.calories, c.protein, c.carbs, c.fat, nil
}

func entryContribution(i int, e models.FoodEntry) (contribution, error) {
	field := func(name string) string { return fmt.Sprintf("entries[%d].%s", i, name) }

	switch {
	case e.Food != nil:
		f := e.Food
		for _, chk := range []struct {
			name string
			v    float64
		}{
			{"quantity_grams", e.QuantityGrams},
			{"food.calories_per_100g", f.CaloriesPer100g},
			{"food.protein_per_100g", f.ProteinPer100g},
			{"food.carbs_per_100g", f.CarbsPer100g},
			{"food.fat_per_100g", f.FatPer100g},
		} {
			if err := checkNonNegative(field(chk.name), chk.v); err != nil {
				return contribution{}, err
			}
		}
		scale := e.QuantityGrams / 100
		return contribution{
			key:      e.ID.String(),
			calories: f.CaloriesPer100g * scale,
			protein:  f.ProteinPer100g * scale,
			carbs:    f.CarbsPer100g * scale,
			fat:      f.FatPer100g * scale,
		}, nil
	case e.Custom != nil:
		c := e.Custom
		for _, chk := range []struct {
			name string
			v    float64
		}{
			{"custom.calories", c.Calories},
			{"custom.protein", c.Protein},
			{"custom.carbs", c.Carbs},
			{"custom.fat", c.Fat},
		} {
			if err := checkNonNegative(field(chk.name), chk.v); err != nil {
				return contribution{}, err
			}
		}
		return contribution{
			key:      e.ID.String(),
			calories: c.Calories,
			protein:  c.Protein,
			carbs:    c.Carbs,
			fat:      c.Fat,
		}, nil
	default:
		return contribution{}, invalid(field("food"), "entry has neither a reference food nor custom nutrients")
	}
}

// Aggregate sums a day's food entries. Contributions are added in a canonical
// order, so any permutation of the same entries yields identical totals.
// Calories round to the nearest integer, macros to one decimal place.
// ProfileID and Date are taken from the first entry; UpdatedAt is left zero.
func Aggregate(entries []models.FoodEntry) (models.DailyNutritionTotals, error) {
	contribs := make([]contribution, len(entries))
	for i, e := range entries {
		c, err := entryContribution(i, e)
		if err != nil {
			return models.DailyNutritionTotals{}, err
		}
		contribs[i] = c
	}
	slices.SortFunc(contribs, compareContribution)

	var calories, protein, carbs, fat float64
	for _, c := range contribs {
		calories += c.calories
		protein += c.protein
		carbs += c.carbs
		fat += c.fat
	}

	totals := models.DailyNutritionTotals{
		TotalCalories: round(calories),
		TotalProtein:  roundTenth(protein),
		TotalCarbs:    roundTenth(carbs),
		TotalFat:      roundTenth(fat),
		EntryCount:    len(entries),
	}
	if len(entries) > 0 {
		totals.ProfileID = entries[0].ProfileID
		totals.Date = entries[0].Date
	}
	return totals, nil
}

// Compare reports how a day's totals stand against a goal. activity may be nil;
// when present its active calories are subtracted to give net calories.
func Compare(totals models.DailyNutritionTotals, goal models.NutritionGoal, activity *models.ActivityRecord) models.NutritionProgress {
	np := models.NutritionProgress{
		Goal:              goal,
		Totals:            totals,
		RemainingCalories: goal.Calories - totals.TotalCalories,
		RemainingProtein:  roundTenth(float64(goal.ProteinG) - totals.TotalProtein),
		RemainingCarbs:    roundTenth(float64(goal.CarbsG) - totals.TotalCarbs),
		RemainingFat:      roundTenth(float64(goal.FatG) - totals.TotalFat),
		CaloriesPercent:   percent(float64(totals.TotalCalories), float64(goal.Calories)),
		ProteinPercent:    percent(totals.TotalProtein, float64(goal.ProteinG)),
		CarbsPercent:      percent(totals.TotalCarbs, float64(goal.CarbsG)),
		FatPercent:        percent(totals.TotalFat, float64(goal.FatG)),
		NetCalories:       totals.TotalCalories,
	}
	if activity != nil && activity.ActiveCalories > 0 {
		np.ActiveCalories = activity.ActiveCalories
		np.NetCalories = totals.TotalCalories - activity.ActiveCalories
		np.RemainingCalories += activity.ActiveCalories
	}
	return np
}

func percent(v, of float64) float64 {
	if of <= 0 {
		return 0
	}
	return roundTenth(v / of * 100)
}
