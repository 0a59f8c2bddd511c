// ABOUTME: CLI commands for the exercise catalog.
// ABOUTME: Supports add and list subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

var (
	exerciseMuscles     []string
	exerciseEquipment   []string
	exerciseDescription string
	exerciseTimed       bool
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
	Long: `Manage the exercises plans are built from.

The catalog is seeded with common bodyweight and dumbbell exercises. Plans
take exercises in name order. Exercises working chest, back, legs or
shoulders are prescribed as compound lifts; timed exercises get a hold
duration instead of reps.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the catalog.

Examples:
  fitsync exercise add "Goblet Squats" --muscles legs,glutes --equipment dumbbells
  fitsync exercise add "Wall Sit" --muscles legs --timed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(exerciseMuscles) == 0 {
			return fmt.Errorf("--muscles is required")
		}

		e := models.NewExercise(args[0], exerciseMuscles...)
		if len(exerciseEquipment) > 0 {
			e.WithEquipment(exerciseEquipment...)
		}
		if exerciseDescription != "" {
			e.WithDescription(exerciseDescription)
		}
		if exerciseTimed {
			e.Timed()
		}

		if err := repo.CreateExercise(e); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(e.ID)), strings.Join(e.MuscleGroups, ", "))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises()
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		for _, e := range exercises {
			kind := "reps"
			if e.TimeBased {
				kind = "timed"
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(e.ID)),
				padRight(e.Name, 20),
				padRight(kind, 6),
				strings.Join(e.MuscleGroups, ", "))
		}
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringSliceVar(&exerciseMuscles, "muscles", nil, "comma-separated muscle groups")
	exerciseAddCmd.Flags().StringSliceVar(&exerciseEquipment, "equipment", nil, "comma-separated equipment")
	exerciseAddCmd.Flags().StringVar(&exerciseDescription, "description", "", "short description")
	exerciseAddCmd.Flags().BoolVar(&exerciseTimed, "timed", false, "held for a duration instead of counted reps")

	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd)
	rootCmd.AddCommand(exerciseCmd)
}
