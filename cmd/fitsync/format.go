// ABOUTME: Shared parsing and formatting helpers for CLI output.
// ABOUTME: Time and date parsing, padding, truncation and prescription labels.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		models.DateLayout,
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseDate validates a YYYY-MM-DD date. Empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", s)
	}
	return t, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}

// rxLabel renders a prescription as "3 x 10" or "3 x 30s".
func rxLabel(rx models.ExercisePrescription) string {
	switch {
	case rx.Reps != nil:
		return fmt.Sprintf("%d x %d", rx.Sets, *rx.Reps)
	case rx.DurationSeconds != nil:
		return fmt.Sprintf("%d x %ds", rx.Sets, *rx.DurationSeconds)
	}
	return fmt.Sprintf("%d sets", rx.Sets)
}

func printPlan(plan *models.Plan) {
	color.New(color.Bold).Printf("%s\n", plan.Name)
	fmt.Printf("  %s %s\n", faint.Sprint(shortID(plan.ID)), plan.Description)
	s := plan.Structure
	fmt.Printf("  %d weeks, %d workouts/week, %d rest days, score %.1f\n",
		s.DurationWeeks, s.WorkoutsPerWeek, s.RestDays, plan.FitnessScore)
	fmt.Println()
	for _, rx := range plan.Exercises {
		fmt.Printf("  %2d. %s %s %s\n",
			rx.OrderIndex,
			padRight(rx.ExerciseName, 20),
			padRight(rxLabel(rx), 10),
			faint.Sprintf("rest %ds", rx.RestSeconds))
	}
}

func printGoal(g models.NutritionGoal) {
	fmt.Printf("  Calories  %d kcal\n", g.Calories)
	fmt.Printf("  Protein   %d g\n", g.ProteinG)
	fmt.Printf("  Carbs     %d g\n", g.CarbsG)
	fmt.Printf("  Fat       %d g\n", g.FatG)
	fmt.Printf("  Fiber     %d g\n", g.FiberG)
	fmt.Printf("  Water     %d ml\n", g.WaterMl)
}

func printTotals(t *models.DailyNutritionTotals) {
	fmt.Printf("  %s %d kcal, %.1f g protein, %.1f g carbs, %.1f g fat (%d entries)\n",
		faint.Sprint(t.Date), t.TotalCalories, t.TotalProtein, t.TotalCarbs, t.TotalFat, t.EntryCount)
}
