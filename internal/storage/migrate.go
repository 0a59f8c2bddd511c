// ABOUTME: Data migration between FitSync storage backends.
// ABOUTME: Copies every record from a source Repository into a destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Profiles    int
	Plans       int
	Foods       int
	FoodEntries int
	Sessions    int
	Activity    int
	Adjustments int
}

// MigrateData copies all data from src to dst storage. The destination
// should be empty apart from its seeded exercise catalog.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := Load(dst, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Profiles:    len(data.Profiles),
		Plans:       len(data.Plans),
		Foods:       len(data.Foods),
		FoodEntries: len(data.FoodEntries),
		Sessions:    len(data.Sessions),
		Activity:    len(data.Activity),
		Adjustments: len(data.Adjustments),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
