// ABOUTME: CLI commands for managing profiles.
// ABOUTME: Supports set, show, and list subcommands.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
)

var (
	profileName     string
	profileWeight   float64
	profileHeight   float64
	profileAge      int
	profileSex      string
	profileLevel    string
	profileGoals    []string
	profileActivity string
	profileNew      bool
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"pr"},
	Short:   "Manage fitness profiles",
	Long: `Manage the profiles that plans and nutrition goals are calculated from.

Missing biometrics fall back to 70 kg, 170 cm, 30 years, female and moderate
activity, so a profile only needs a name to get started.

COMMANDS:

  set    Create a profile or update the selected one
  show   Show a profile with its fitness score and nutrition goal
  list   List all profiles`,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update a profile",
	Long: `Create a profile, or update the selected profile with the flags given.

Goals: weight_loss, muscle_gain, endurance, general
Levels: beginner, intermediate, advanced
Activity: sedentary, light, moderate, active, very_active

Examples:
  fitsync profile set --name Alex --weight 70 --height 170 --age 30 --sex female
  fitsync profile set --level intermediate --goals weight_loss,endurance
  fitsync profile set --new --name Sam`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p *models.Profile
		if !profileNew {
			existing, err := svc.Profile(profileRef())
			switch {
			case err == nil:
				p = existing
			case errors.Is(err, service.ErrNoProfile) && profileRef() == "":
				profiles, lerr := repo.ListProfiles()
				if lerr != nil {
					return lerr
				}
				if len(profiles) > 0 {
					return fmt.Errorf("%w (or pass --new to create another)", err)
				}
			default:
				return err
			}
		}
		if p == nil {
			if profileName == "" {
				return fmt.Errorf("--name is required when creating a profile")
			}
			p = models.NewProfile(profileName)
		}

		if err := applyProfileFlags(cmd, p); err != nil {
			return err
		}

		goal, err := svc.SaveProfile(p)
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		color.Green("✓ Saved profile %s", p.Name)
		fmt.Printf("  %s %s, %s\n", faint.Sprint(shortID(p.ID)), p.LevelLabel(), strings.Join(p.GoalLabels(), ", "))
		printGoal(goal)
		return nil
	},
}

// applyProfileFlags copies only the flags the user actually set onto p.
func applyProfileFlags(cmd *cobra.Command, p *models.Profile) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = profileName
	}
	// A zero measurement clears the stored value back to the default.
	if flags.Changed("weight") {
		p.WeightKg = nil
		p.WithBiometrics(profileWeight, 0, 0)
	}
	if flags.Changed("height") {
		p.HeightCm = nil
		p.WithBiometrics(0, profileHeight, 0)
	}
	if flags.Changed("age") {
		p.Age = nil
		p.WithBiometrics(0, 0, profileAge)
	}
	if flags.Changed("sex") {
		sex, err := models.ParseSex(profileSex)
		if err != nil {
			return err
		}
		p.WithSex(sex)
	}
	if flags.Changed("level") {
		level, err := models.ParseFitnessLevel(profileLevel)
		if err != nil {
			return err
		}
		p.WithLevel(level)
	}
	if flags.Changed("activity") {
		activity, err := models.ParseActivityLevel(profileActivity)
		if err != nil {
			return err
		}
		p.WithActivity(activity)
	}
	if flags.Changed("goals") {
		goals := make([]models.Goal, 0, len(profileGoals))
		for _, g := range profileGoals {
			goal, err := models.ParseGoal(g)
			if err != nil {
				return err
			}
			goals = append(goals, goal)
		}
		p.WithGoals(goals...)
	}
	return nil
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, goal, err := svc.NutritionGoals(profileRef())
		if err != nil {
			return err
		}

		color.New(color.Bold).Printf("%s\n", p.Name)
		fmt.Printf("  %s\n", faint.Sprint(p.ID.String()))
		fmt.Printf("  Level:     %s\n", p.LevelLabel())
		fmt.Printf("  Goals:     %s\n", strings.Join(p.GoalLabels(), ", "))
		fmt.Printf("  Body:      %.1f kg, %.0f cm, %d years, %s\n", p.Weight(), p.Height(), p.AgeYears(), p.Gender())
		fmt.Printf("  Activity:  %s\n", p.Activity())
		fmt.Printf("  Workouts:  %d (streak %d days)\n", p.Workouts(), p.Streak())
		fmt.Printf("  Score:     %.1f / 5\n", engine.Score(*p))
		fmt.Println()
		fmt.Println("Daily targets:")
		printGoal(goal)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := repo.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		for _, p := range profiles {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(p.ID)),
				padRight(p.Name, 16),
				padRight(string(p.LevelLabel()), 13),
				strings.Join(p.GoalLabels(), ", "))
		}
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "height in cm")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "age in years")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "male, female, or other")
	profileSetCmd.Flags().StringVar(&profileLevel, "level", "", "beginner, intermediate, or advanced")
	profileSetCmd.Flags().StringSliceVar(&profileGoals, "goals", nil, "comma-separated goals")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "", "activity level")
	profileSetCmd.Flags().BoolVar(&profileNew, "new", false, "always create a new profile")

	profileCmd.AddCommand(profileSetCmd, profileShowCmd, profileListCmd)
	rootCmd.AddCommand(profileCmd)
}
