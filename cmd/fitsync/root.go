// ABOUTME: Root Cobra command for the fitsync CLI.
// ABOUTME: Loads config, builds the logger and opens storage via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/config"
	"github.com/stevenrego/FitSync-Pro/internal/service"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

var (
	cfg    *config.Config
	repo   storage.Repository
	svc    *service.Service
	logger *log.Logger

	profileFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "fitsync",
	Short: "Personalized training plans and nutrition tracking",
	Long: `FitSync builds workout plans from your profile, adapts their difficulty
from how your training weeks actually went, and tracks daily nutrition
against calorie and macro targets.

QUICK START:

  $ fitsync profile set --name Alex --weight 70 --height 170 --age 30 \
      --sex female --level beginner --goals weight_loss
  $ fitsync plan generate               # Build a plan for the profile
  $ fitsync session start               # Start a workout
  $ fitsync session complete abc123 --rating 3
  $ fitsync food add Banana --calories 89 --protein 1.1 --carbs 22.8 --fat 0.3
  $ fitsync log add Banana 150 --meal breakfast
  $ fitsync log totals                  # Today's progress against your goal

ADAPTIVE DIFFICULTY:

  Each week the previous Monday-to-Monday window is reviewed. Consistent,
  easy weeks increase sets and reps; missed or very hard weeks decrease them.

  $ fitsync plan adjust abc123          # Review one plan now
  $ fitsync schedule                    # Run the weekly review on a cron schedule

MCP INTEGRATION:

  Run 'fitsync mcp' to start the Model Context Protocol server for use with
  MCP-compatible assistants:

  {
    "mcpServers": {
      "fitsync": { "command": "fitsync", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Settings live in ~/.config/fitsync/config.json. FITSYNC_BACKEND,
  FITSYNC_DATA_DIR, FITSYNC_LOG_LEVEL and FITSYNC_PROFILE override them,
  and a .env file in the working directory is read first.

DATA STORAGE:

  SQLite (default) at ~/.local/share/fitsync/fitsync.db, or Charm KV with
  encrypted cloud sync when backend is "charm".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := config.LoadEnv(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		logger = config.NewLogger(level)

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logger.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())

		svc = service.New(repo, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		err := repo.Close()
		repo = nil
		return err
	},
}

// profileRef returns the --profile flag, falling back to the configured default.
func profileRef() string {
	if profileFlag != "" {
		return profileFlag
	}
	if cfg != nil {
		return cfg.DefaultProfile
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile ID or prefix (default: config default_profile or the only profile)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}
