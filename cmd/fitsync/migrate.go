// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies every record from the configured backend into the other one.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between SQLite and Charm",
	Long: `Copy all FitSync data from the configured backend into another one.

IMPORTANT:

  - The destination should be empty apart from its exercise catalog
  - Existing destination data is only written over with --force
  - Run with --dry-run first to see what would be migrated
  - Your config is not changed; set "backend" afterwards to switch

USAGE:

  fitsync migrate --to charm --dry-run   # Preview what would be migrated
  fitsync migrate --to charm             # Copy SQLite data into Charm
  fitsync migrate --to sqlite --force    # Copy Charm data into an existing database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := cfg.GetBackend()
		if migrateTo == "" {
			migrateTo = "sqlite"
			if from == "sqlite" {
				migrateTo = "charm"
			}
		}
		if migrateTo == from {
			return fmt.Errorf("source and destination are both %s", from)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()

			data, err := repo.GetAllData()
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			fmt.Printf("Would migrate from %s to %s:\n", from, migrateTo)
			fmt.Printf("  Profiles:     %d\n", len(data.Profiles))
			fmt.Printf("  Plans:        %d\n", len(data.Plans))
			fmt.Printf("  Foods:        %d\n", len(data.Foods))
			fmt.Printf("  Food entries: %d\n", len(data.FoodEntries))
			fmt.Printf("  Sessions:     %d\n", len(data.Sessions))
			fmt.Printf("  Activity:     %d\n", len(data.Activity))
			fmt.Printf("  Adjustments:  %d\n", len(data.Adjustments))
			return nil
		}

		if !migrateForce {
			nonEmpty, err := destinationHasData(migrateTo)
			if err != nil {
				return err
			}
			if nonEmpty {
				return fmt.Errorf("%s destination already has data (use --force to merge into it)", migrateTo)
			}
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return err
		}

		color.Green("✓ Migrated %s to %s", from, migrateTo)
		fmt.Printf("  Profiles:     %d\n", summary.Profiles)
		fmt.Printf("  Plans:        %d\n", summary.Plans)
		fmt.Printf("  Foods:        %d\n", summary.Foods)
		fmt.Printf("  Food entries: %d\n", summary.FoodEntries)
		fmt.Printf("  Sessions:     %d\n", summary.Sessions)
		fmt.Printf("  Activity:     %d\n", summary.Activity)
		fmt.Printf("  Adjustments:  %d\n", summary.Adjustments)
		fmt.Println()
		fmt.Printf("Set \"backend\": %q in %s to use it.\n", migrateTo, "~/.config/fitsync/config.json")
		return nil
	},
}

// destinationHasData reports whether the target backend already holds local data.
func destinationHasData(backend string) (bool, error) {
	switch backend {
	case "sqlite":
		_, err := os.Stat(filepath.Join(cfg.GetDataDir(), "fitsync.db"))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	case "charm":
		return storage.IsDirNonEmpty(charmDataDir())
	}
	return false, fmt.Errorf("unknown backend: %q", backend)
}

// charmDataDir is where the Charm KV store keeps the local fitsync database.
func charmDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "charm", "kv", "fitsync")
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or charm (default: the other one)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "migrate even if the destination has data")
	rootCmd.AddCommand(migrateCmd)
}
