// ABOUTME: CLI commands for nutrition goals, the food catalog and the food log.
// ABOUTME: Every log change recomputes the day's stored totals.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

var (
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodFiber    float64
	foodBarcode  string
	foodBrand    string
	foodSearch   string
	foodLimit    int

	logMeal   string
	logDate   string
	logCustom string
)

var nutritionCmd = &cobra.Command{
	Use:     "nutrition",
	Aliases: []string{"nut"},
	Short:   "Nutrition goals",
}

var nutritionGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show daily calorie and macro targets",
	Long: `Show the selected profile's daily targets.

Calories start from the Mifflin-St Jeor BMR scaled by activity level, then
weight_loss takes 15% off and muscle_gain adds 10%. Macros follow the
active goal's split of those calories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, goal, err := svc.NutritionGoals(profileRef())
		if err != nil {
			return err
		}

		split := engine.MacroSplitFor(*p)
		color.New(color.Bold).Printf("%s\n", p.Name)
		fmt.Printf("  BMR %.0f kcal, TDEE %.0f kcal, goal %s\n", engine.BMR(*p), engine.TDEE(*p), engine.ActiveGoal(*p))
		fmt.Printf("  Split %.0f%% protein / %.0f%% carbs / %.0f%% fat\n", split.Protein*100, split.Carbs*100, split.Fat*100)
		fmt.Println()
		printGoal(goal)
		return nil
	},
}

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog",
	Long: `Manage foods whose nutrients are given per 100 g.

COMMANDS:

  add    Add a food
  list   List or search foods
  show   Show one food`,
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a food",
	Long: `Add a food with nutrients per 100 g.

Examples:
  fitsync food add Banana --calories 89 --protein 1.1 --carbs 22.8 --fat 0.3
  fitsync food add "Greek Yogurt" --brand Fage --barcode 5201054017 --calories 97 --protein 9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := models.NewFood(args[0], foodCalories, foodProtein, foodCarbs, foodFat)
		f.FiberPer100g = foodFiber
		if foodBarcode != "" {
			f.WithBarcode(foodBarcode)
		}
		if foodBrand != "" {
			f.WithBrand(foodBrand)
		}

		for _, v := range []float64{foodCalories, foodProtein, foodCarbs, foodFat, foodFiber} {
			if v < 0 {
				return fmt.Errorf("nutrient values must not be negative")
			}
		}

		if err := repo.CreateFood(f); err != nil {
			return fmt.Errorf("failed to create food: %w", err)
		}

		color.Green("✓ Added %s", f.Name)
		fmt.Printf("  %s %.0f kcal per 100 g\n", faint.Sprint(shortID(f.ID)), f.CaloriesPer100g)
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		foods, err := repo.ListFoods(foodSearch, foodLimit)
		if err != nil {
			return fmt.Errorf("failed to list foods: %w", err)
		}

		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}

		for _, f := range foods {
			fmt.Printf("%s %s %6.0f kcal  P %.1f  C %.1f  F %.1f\n",
				faint.Sprint(shortID(f.ID)),
				padRight(truncate(f.Name, 24), 24),
				f.CaloriesPer100g, f.ProteinPer100g, f.CarbsPer100g, f.FatPer100g)
		}
		return nil
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <food>",
	Short: "Show a food",
	Long:  `Show a food by ID prefix, barcode, or unique name.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := findFood(args[0])
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s\n", f.Name)
		fmt.Printf("  %s\n", faint.Sprint(f.ID.String()))
		if f.Brand != "" {
			fmt.Printf("  Brand:    %s\n", f.Brand)
		}
		if f.Barcode != "" {
			fmt.Printf("  Barcode:  %s\n", f.Barcode)
		}
		fmt.Println("  Per 100 g:")
		fmt.Printf("    Calories  %.0f kcal\n", f.CaloriesPer100g)
		fmt.Printf("    Protein   %.1f g\n", f.ProteinPer100g)
		fmt.Printf("    Carbs     %.1f g\n", f.CarbsPer100g)
		fmt.Printf("    Fat       %.1f g\n", f.FatPer100g)
		if f.FiberPer100g > 0 {
			fmt.Printf("    Fiber     %.1f g\n", f.FiberPer100g)
		}
		return nil
	},
}

// findFood resolves a food by ID prefix, then barcode, then a unique name match.
func findFood(ref string) (*models.Food, error) {
	if f, err := repo.GetFood(ref); err == nil {
		return f, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if f, err := repo.GetFoodByBarcode(ref); err == nil {
		return f, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	matches, err := repo.ListFoods(ref, 0)
	if err != nil {
		return nil, err
	}
	for _, f := range matches {
		if strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("food not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%q matches %d foods, use an ID", ref, len(matches))
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the food log",
	Long: `Log what you eat and track the day against your targets.

COMMANDS:

  add      Log grams of a catalog food, or a custom entry
  update   Change the grams of an entry
  delete   Delete an entry
  list     List a day's entries
  totals   Show a day's totals, activity and remaining targets`,
}

var logAddCmd = &cobra.Command{
	Use:   "add [food] [grams]",
	Short: "Log food",
	Long: `Log grams of a catalog food, or a custom entry with absolute values.

Examples:
  fitsync log add Banana 150 --meal breakfast
  fitsync log add 4011 120 --date 2026-03-14
  fitsync log add --custom "Burrito" --calories 650 --protein 32 --carbs 70 --fat 24 --meal lunch`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.Profile(profileRef())
		if err != nil {
			return err
		}
		meal, err := models.ParseMealType(logMeal)
		if err != nil {
			return err
		}
		date, err := parseDate(logDate)
		if err != nil {
			return err
		}

		var entry *models.FoodEntry
		switch {
		case logCustom != "":
			entry = models.NewCustomFoodEntry(p.ID, date, meal, models.CustomNutrients{
				Name:     logCustom,
				Calories: foodCalories,
				Protein:  foodProtein,
				Carbs:    foodCarbs,
				Fat:      foodFat,
			})
		case len(args) == 2:
			f, err := findFood(args[0])
			if err != nil {
				return err
			}
			grams, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid grams: %s", args[1])
			}
			entry = models.NewFoodEntry(p.ID, date, meal, f, grams)
		default:
			return fmt.Errorf("give a food and grams, or --custom with its values")
		}

		totals, err := svc.LogFood(entry)
		if err != nil {
			return fmt.Errorf("failed to log food: %w", err)
		}

		color.Green("✓ Logged %s", entry.DisplayName())
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(entry.ID)), meal)
		printTotals(totals)
		return nil
	},
}

var logUpdateCmd = &cobra.Command{
	Use:   "update <id> <grams>",
	Short: "Change an entry's grams",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grams, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid grams: %s", args[1])
		}

		totals, err := svc.UpdateEntry(args[0], grams)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		color.Green("✓ Updated entry %s", args[0])
		printTotals(totals)
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := svc.DeleteEntry(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		color.Yellow("✗ Deleted entry %s", args[0])
		printTotals(totals)
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := svc.Day(profileRef(), logDate)
		if err != nil {
			return err
		}

		if len(day.Entries) == 0 {
			fmt.Printf("No entries for %s.\n", day.Date)
			return nil
		}

		for _, e := range day.Entries {
			cal, protein, carbs, fat, err := engine.EntryContribution(*e)
			if err != nil {
				return err
			}
			amount := "custom"
			if e.Custom == nil {
				amount = fmt.Sprintf("%.0f g", e.QuantityGrams)
			}
			fmt.Printf("%s %s %s %s %5.0f kcal  P %.1f  C %.1f  F %.1f\n",
				faint.Sprint(shortID(e.ID)),
				padRight(string(e.Meal), 10),
				padRight(truncate(e.DisplayName(), 22), 22),
				padRight(amount, 7),
				cal, protein, carbs, fat)
		}
		return nil
	},
}

var logTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show a day's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := svc.Day(profileRef(), logDate)
		if err != nil {
			return err
		}

		np := day.Progress
		color.New(color.Bold).Printf("%s %s\n", day.Profile.Name, day.Date)
		fmt.Printf("  Calories  %d / %d kcal (%.0f%%)\n", np.Totals.TotalCalories, np.Goal.Calories, np.CaloriesPercent)
		fmt.Printf("  Protein   %.1f / %d g (%.0f%%)\n", np.Totals.TotalProtein, np.Goal.ProteinG, np.ProteinPercent)
		fmt.Printf("  Carbs     %.1f / %d g (%.0f%%)\n", np.Totals.TotalCarbs, np.Goal.CarbsG, np.CarbsPercent)
		fmt.Printf("  Fat       %.1f / %d g (%.0f%%)\n", np.Totals.TotalFat, np.Goal.FatG, np.FatPercent)
		if np.ActiveCalories > 0 {
			fmt.Printf("  Active    %d kcal, net %d kcal\n", np.ActiveCalories, np.NetCalories)
		}

		remaining := fmt.Sprintf("%d kcal remaining", np.RemainingCalories)
		if np.RemainingCalories < 0 {
			color.Yellow("  %d kcal over target", -np.RemainingCalories)
		} else {
			color.Green("  %s", remaining)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{foodAddCmd, logAddCmd} {
		c.Flags().Float64Var(&foodCalories, "calories", 0, "calories (per 100 g for foods)")
		c.Flags().Float64Var(&foodProtein, "protein", 0, "protein grams")
		c.Flags().Float64Var(&foodCarbs, "carbs", 0, "carb grams")
		c.Flags().Float64Var(&foodFat, "fat", 0, "fat grams")
	}
	foodAddCmd.Flags().Float64Var(&foodFiber, "fiber", 0, "fiber grams per 100 g")
	foodAddCmd.Flags().StringVar(&foodBarcode, "barcode", "", "barcode")
	foodAddCmd.Flags().StringVar(&foodBrand, "brand", "", "brand")
	foodListCmd.Flags().StringVarP(&foodSearch, "search", "s", "", "filter by name or brand")
	foodListCmd.Flags().IntVarP(&foodLimit, "limit", "n", 50, "max number of results")

	logAddCmd.Flags().StringVarP(&logMeal, "meal", "m", "snack", "breakfast, lunch, dinner, or snack")
	logAddCmd.Flags().StringVar(&logCustom, "custom", "", "custom entry name (uses --calories etc. as absolute values)")
	for _, c := range []*cobra.Command{logAddCmd, logListCmd, logTotalsCmd} {
		c.Flags().StringVarP(&logDate, "date", "d", "", "date (YYYY-MM-DD, default today)")
	}

	nutritionCmd.AddCommand(nutritionGoalsCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd)
	logCmd.AddCommand(logAddCmd, logUpdateCmd, logDeleteCmd, logListCmd, logTotalsCmd)
	rootCmd.AddCommand(nutritionCmd, foodCmd, logCmd)
}
