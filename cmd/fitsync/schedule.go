// ABOUTME: CLI command that runs the weekly difficulty review on a cron schedule.
// ABOUTME: Uses adjust_schedule from config; --once runs a single review and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var (
	scheduleSpec string
	scheduleOnce bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the weekly difficulty review on a schedule",
	Long: `Run the difficulty review for every plan on a cron schedule.

Each run reviews the previous Monday-to-Monday week. A plan is adjusted at
most once per week, so extra runs are harmless.

The schedule comes from "adjust_schedule" in the config (default @weekly).
Specs use six fields with seconds, or descriptors like @daily and @every 1h.

EXAMPLES:

  fitsync schedule                          # Run until interrupted
  fitsync schedule --spec "0 0 6 * * MON"   # Mondays at 06:00
  fitsync schedule --once                   # Review now and exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if scheduleOnce {
			return runAdjustments(ctx)
		}

		spec := scheduleSpec
		if spec == "" {
			spec = cfg.GetAdjustSchedule()
		}
		sched, err := cron.Parse(spec)
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}

		c := cron.New()
		if err := c.AddFunc(spec, func() {
			if err := runAdjustments(ctx); err != nil {
				logger.Error("weekly review failed", "err", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
		c.Start()
		defer c.Stop()

		color.Green("✓ Scheduled weekly review (%s)", spec)
		fmt.Printf("  Next run: %s\n", sched.Next(time.Now()).Format("2006-01-02 15:04"))

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
		case <-ctx.Done():
		}
		fmt.Println("Stopped.")
		return nil
	},
}

func runAdjustments(ctx context.Context) error {
	results, err := svc.RunWeeklyAdjustments(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No plans due for review.")
		return nil
	}
	for _, r := range results {
		printAdjustment(r)
	}
	return nil
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "spec", "", "cron spec (default: config adjust_schedule)")
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "once", false, "run one review now and exit")
	rootCmd.AddCommand(scheduleCmd)
}
