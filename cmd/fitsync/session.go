// ABOUTME: CLI commands for workout sessions and wearable activity records.
// ABOUTME: Completing a session updates the profile's workout count and streak.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
)

var (
	sessionPlan     string
	sessionRating   int
	sessionCalories int
	sessionNotes    string
	sessionDays     int

	activitySource   string
	activityDate     string
	activitySteps    int
	activityDistance float64
	activityCalories int
	activityMinutes  int
	activityHeart    int
	activitySleep    float64
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Track workout sessions",
	Long: `Track workout sessions.

COMMANDS:

  start      Start a session, optionally linked to a plan
  complete   Finish a session with a difficulty rating
  list       List recent sessions

Sessions linked to a plan feed its weekly difficulty review.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a workout session",
	Long: `Start a workout session for the selected profile.

Examples:
  fitsync session start
  fitsync session start --plan abc123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := svc.StartSession(profileRef(), sessionPlan)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started session %s", shortID(ws.ID))
		fmt.Printf("  %s\n", faint.Sprint(ws.StartedAt.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:     "complete <id>",
	Aliases: []string{"done"},
	Short:   "Complete a workout session",
	Long: `Complete a workout session.

--rating is how hard the session felt, 1 (easy) to 5 (brutal).

Examples:
  fitsync session complete abc123 --rating 3
  fitsync session complete abc123 --rating 4 --calories 320 --notes "legs day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, p, err := svc.CompleteSession(args[0], service.CompleteOptions{
			Rating:         sessionRating,
			CaloriesBurned: sessionCalories,
			Notes:          sessionNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}

		color.Green("✓ Completed session %s", shortID(ws.ID))
		if ws.DurationMinutes != nil {
			fmt.Printf("  Duration: %d min\n", *ws.DurationMinutes)
		}
		fmt.Printf("  %s: %d workouts, %d day streak\n", p.Name, p.TotalWorkouts, p.StreakDays)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := svc.Sessions(profileRef(), sessionDays)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, ws := range sessions {
			status := color.YellowString("open")
			if ws.IsCompleted() {
				status = color.GreenString("done")
			}
			rating := ""
			if ws.DifficultyRating != nil {
				rating = fmt.Sprintf("rating %d", *ws.DifficultyRating)
			}
			plan := ""
			if ws.PlanID != nil {
				plan = faint.Sprintf("plan %s", shortID(*ws.PlanID))
			}
			fmt.Printf("%s %s %s %s %s\n",
				faint.Sprint(shortID(ws.ID)),
				ws.StartedAt.Local().Format("2006-01-02 15:04"),
				status,
				padRight(rating, 8),
				plan)
		}
		return nil
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record wearable activity",
	Long: `Record daily activity from a wearable or by hand.

One record is kept per profile, date and source; recording again replaces it.
Active calories are added to the day's remaining calorie budget.

SOURCES:

  apple_health, google_fit, fitbit, garmin, whoop, manual`,
}

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a day's activity",
	Long: `Record a day's activity.

Examples:
  fitsync activity add --steps 9500 --calories 300 --minutes 45
  fitsync activity add --source garmin --date 2026-03-14 --distance 7.2 --heart-rate 128`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.Profile(profileRef())
		if err != nil {
			return err
		}
		date, err := parseDate(activityDate)
		if err != nil {
			return err
		}

		a := &models.ActivityRecord{
			Date:           date.Format(models.DateLayout),
			Source:         models.ActivitySource(activitySource),
			Steps:          activitySteps,
			DistanceKm:     activityDistance,
			ActiveCalories: activityCalories,
			ActiveMinutes:  activityMinutes,
		}
		if cmd.Flags().Changed("heart-rate") {
			hr := activityHeart
			a.HeartRateAvg = &hr
		}
		if cmd.Flags().Changed("sleep") {
			sleep := activitySleep
			a.SleepHours = &sleep
		}
		if src, err := models.ParseActivitySource(activitySource); err == nil {
			a.Source = src
		}

		if err := svc.RecordActivity(p.ID, a); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		color.Green("✓ Recorded %s activity for %s", a.Source, a.Date)
		fmt.Printf("  %d steps, %.1f km, %d kcal active, %d min\n",
			a.Steps, a.DistanceKm, a.ActiveCalories, a.ActiveMinutes)
		return nil
	},
}

var activityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a day's activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.Profile(profileRef())
		if err != nil {
			return err
		}
		date, err := parseDate(activityDate)
		if err != nil {
			return err
		}

		records, err := repo.ListActivity(p.ID, date.Format(models.DateLayout))
		if err != nil {
			return fmt.Errorf("failed to list activity: %w", err)
		}

		if len(records) == 0 {
			fmt.Printf("No activity for %s.\n", date.Format(models.DateLayout))
			return nil
		}

		for _, a := range records {
			fmt.Printf("%s %6d steps %5.1f km %5d kcal %4d min",
				padRight(string(a.Source), 13), a.Steps, a.DistanceKm, a.ActiveCalories, a.ActiveMinutes)
			if a.HeartRateAvg != nil {
				fmt.Printf("  hr %d", *a.HeartRateAvg)
			}
			if a.SleepHours != nil {
				fmt.Printf("  sleep %.1fh", *a.SleepHours)
			}
			fmt.Printf("  %s\n", faint.Sprint(a.UpdatedAt.Local().Format(time.DateTime)))
		}
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().StringVar(&sessionPlan, "plan", "", "plan ID or prefix to link")
	sessionCompleteCmd.Flags().IntVarP(&sessionRating, "rating", "r", 0, "difficulty rating 1-5")
	sessionCompleteCmd.Flags().IntVar(&sessionCalories, "calories", 0, "calories burned")
	sessionCompleteCmd.Flags().StringVar(&sessionNotes, "notes", "", "session notes")
	sessionListCmd.Flags().IntVar(&sessionDays, "days", 30, "only sessions from the last N days (0 for all)")

	activityAddCmd.Flags().StringVar(&activitySource, "source", string(models.SourceManual), "activity source")
	activityAddCmd.Flags().IntVar(&activitySteps, "steps", 0, "step count")
	activityAddCmd.Flags().Float64Var(&activityDistance, "distance", 0, "distance in km")
	activityAddCmd.Flags().IntVar(&activityCalories, "calories", 0, "active calories")
	activityAddCmd.Flags().IntVar(&activityMinutes, "minutes", 0, "active minutes")
	activityAddCmd.Flags().IntVar(&activityHeart, "heart-rate", 0, "average heart rate")
	activityAddCmd.Flags().Float64Var(&activitySleep, "sleep", 0, "hours slept")
	for _, c := range []*cobra.Command{activityAddCmd, activityShowCmd} {
		c.Flags().StringVarP(&activityDate, "date", "d", "", "date (YYYY-MM-DD, default today)")
	}

	sessionCmd.AddCommand(sessionStartCmd, sessionCompleteCmd, sessionListCmd)
	activityCmd.AddCommand(activityAddCmd, activityShowCmd)
	rootCmd.AddCommand(sessionCmd, activityCmd)
}
