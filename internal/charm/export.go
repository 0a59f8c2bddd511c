// ABOUTME: Full-store export and import for the Charm backend.
// ABOUTME: Shares the storage export format so data moves freely between backends.
package charm

import (
	"fmt"
	"time"

	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	data := &storage.ExportData{
		Version:    storage.ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "fitsync",
	}
	var err error

	if data.Profiles, err = c.ListProfiles(); err != nil {
		return nil, err
	}
	if data.Exercises, err = c.ListExercises(); err != nil {
		return nil, err
	}
	if data.Plans, err = c.ListPlans(nil, 0); err != nil {
		return nil, err
	}
	if data.Foods, err = c.ListFoods("", 0); err != nil {
		return nil, err
	}
	if data.FoodEntries, err = c.allFoodEntries(); err != nil {
		return nil, err
	}
	if data.Sessions, err = c.allSessions(); err != nil {
		return nil, err
	}

	totals, err := c.listByPrefix(TotalsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list daily totals: %w", err)
	}
	data.DailyTotals = decodeAll[models.DailyNutritionTotals](totals)

	activity, err := c.listByPrefix(ActivityPrefix)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	data.Activity = decodeAll[models.ActivityRecord](activity)
	sortActivity(data.Activity)

	adjustments, err := c.listByPrefix(AdjustmentPrefix)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	data.Adjustments = decodeAll[models.Adjustment](adjustments)
	sortAdjustments(data.Adjustments)

	return data, nil
}

// ImportData imports data from an export file. Sync runs once at the end.
func (c *Client) ImportData(data *storage.ExportData) error {
	c.SetAutoSync(false)
	defer c.SetAutoSync(true)

	if err := storage.Load(c, data); err != nil {
		return err
	}
	return c.Sync()
}
