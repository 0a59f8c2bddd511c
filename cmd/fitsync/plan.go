// ABOUTME: CLI commands for workout plans.
// ABOUTME: Supports generate, show, list, adjust, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
)

var (
	planAll        bool
	planLimit      int
	planConcurrent int
	adjustAll      bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage workout plans",
	Long: `Generate and review personalized workout plans.

A plan's structure comes from the profile's active goal (weight_loss first,
then muscle_gain, then endurance) and fitness score. Exercises are taken from
the catalog and prescribed sets, reps and rest for the profile's level.

COMMANDS:

  generate   Generate a new plan for a profile (or --all profiles)
  show       Show a plan with its prescriptions and adjustment history
  list       List plans, newest first
  adjust     Review last week's sessions and adjust a plan's difficulty
  delete     Delete a plan`,
}

var planGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a plan",
	Long: `Generate and store a new plan for the selected profile.

Examples:
  fitsync plan generate
  fitsync plan generate --profile abc123
  fitsync plan generate --all --concurrency 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planAll {
			plans, err := svc.RegenerateAll(cmd.Context(), planConcurrent)
			if err != nil {
				return fmt.Errorf("failed to generate plans: %w", err)
			}
			color.Green("✓ Generated %d plans", len(plans))
			for _, plan := range plans {
				fmt.Printf("  %s %s\n", faint.Sprint(shortID(plan.ID)), plan.Name)
			}
			return nil
		}

		plan, err := svc.GeneratePlan(profileRef())
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}

		color.Green("✓ Generated plan")
		printPlan(plan)
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a plan",
	Long:  `Show a plan by ID or prefix, or the newest plan of the selected profile.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plan *models.Plan
		var err error
		if len(args) == 1 {
			plan, err = repo.GetPlan(args[0])
		} else {
			plan, err = svc.LatestPlan(profileRef())
		}
		if err != nil {
			return err
		}

		printPlan(plan)

		adjustments, err := repo.ListAdjustments(plan.ID)
		if err != nil {
			return fmt.Errorf("failed to list adjustments: %w", err)
		}
		if len(adjustments) > 0 {
			fmt.Println()
			fmt.Println("Adjustments:")
			for _, a := range adjustments {
				fmt.Printf("  %s %s %d/%d workouts, rating %.1f\n",
					faint.Sprintf("%s..%s", a.WindowStart, a.WindowEnd),
					padRight(string(a.Decision), 9),
					a.Signal.WorkoutsCompleted, a.Signal.WorkoutsPlanned, a.Signal.Rating())
			}
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		var plans []*models.Plan
		var err error
		if ref := profileRef(); ref != "" {
			p, perr := svc.Profile(ref)
			if perr != nil {
				return perr
			}
			plans, err = repo.ListPlans(&p.ID, planLimit)
		} else {
			plans, err = repo.ListPlans(nil, planLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		if len(plans) == 0 {
			fmt.Println("No plans found.")
			return nil
		}

		for _, plan := range plans {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(plan.ID)),
				faint.Sprint(plan.CreatedAt.Format("2006-01-02 15:04")),
				padRight(plan.Name, 28),
				fmt.Sprintf("%dw x %d/week", plan.Structure.DurationWeeks, plan.Structure.WorkoutsPerWeek))
		}
		return nil
	},
}

var planAdjustCmd = &cobra.Command{
	Use:   "adjust [id]",
	Short: "Adjust a plan's difficulty",
	Long: `Review the last completed Monday-to-Monday week and adjust a plan.

Completing at least 90% of planned workouts at an average rating under 3
increases sets, reps and shortens rest. Completing 60% or less, or rating
above 4, decreases them. Each plan is reviewed at most once per week.

Examples:
  fitsync plan adjust abc123
  fitsync plan adjust          # newest plan of the selected profile
  fitsync plan adjust --all    # newest plan of every profile`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if adjustAll {
			results, err := svc.RunWeeklyAdjustments(cmd.Context())
			if err != nil {
				return err
			}
			color.Green("✓ Reviewed %d plans", len(results))
			for _, res := range results {
				printAdjustment(res)
			}
			return nil
		}

		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else {
			plan, err := svc.LatestPlan(profileRef())
			if err != nil {
				return err
			}
			ref = plan.ID.String()
		}

		res, err := svc.AdjustPlan(ref)
		if err != nil {
			return err
		}
		printAdjustment(res)
		return nil
	},
}

func printAdjustment(res *service.AdjustResult) {
	switch res.Decision.Kind {
	case models.DecisionIncrease:
		color.Green("↑ %s: increase", res.Plan.Name)
	case models.DecisionDecrease:
		color.Yellow("↓ %s: decrease", res.Plan.Name)
	default:
		color.Cyan("= %s: maintain", res.Plan.Name)
	}
	fmt.Printf("  %s %s\n", faint.Sprint(shortID(res.Plan.ID)), res.Decision.Rationale)
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a plan",
	Long: `Delete a plan, its prescriptions and its adjustment history.

Sessions linked to the plan are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("plan not found: %s", args[0])
		}

		if err := repo.DeletePlan(plan.ID.String()); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}

		color.Yellow("✗ Deleted %s", plan.Name)
		fmt.Printf("  %s\n", faint.Sprint(shortID(plan.ID)))
		return nil
	},
}

func init() {
	planGenerateCmd.Flags().BoolVar(&planAll, "all", false, "generate a plan for every profile")
	planGenerateCmd.Flags().IntVar(&planConcurrent, "concurrency", service.DefaultRegenerateLimit, "plans generated at once with --all")
	planListCmd.Flags().IntVarP(&planLimit, "limit", "n", 20, "max number of results")
	planAdjustCmd.Flags().BoolVar(&adjustAll, "all", false, "review the newest plan of every profile")

	planCmd.AddCommand(planGenerateCmd, planShowCmd, planListCmd, planAdjustCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
