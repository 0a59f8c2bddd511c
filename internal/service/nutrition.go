// ABOUTME: Profile, nutrition goal and food log flows.
// ABOUTME: Every food log mutation recomputes and replaces the day's totals.
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// SaveProfile stores a profile and returns its recalculated nutrition goal.
func (s *Service) SaveProfile(p *models.Profile) (models.NutritionGoal, error) {
	p.UpdatedAt = s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	if err := s.repo.SaveProfile(p); err != nil {
		return models.NutritionGoal{}, err
	}

	goal := engine.Goals(*p)
	s.log.Info("profile saved", "profile", p.Name, "calories", goal.Calories)
	return goal, nil
}

// NutritionGoals returns a profile and its current nutrition goal.
func (s *Service) NutritionGoals(profileRef string) (*models.Profile, models.NutritionGoal, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, models.NutritionGoal{}, err
	}
	return p, engine.Goals(*p), nil
}

// LogFood validates and stores a food entry, then recomputes that day's totals.
func (s *Service) LogFood(e *models.FoodEntry) (*models.DailyNutritionTotals, error) {
	if _, _, _, _, err := engine.EntryContribution(*e); err != nil {
		return nil, err
	}
	if err := s.repo.AddFoodEntry(e); err != nil {
		return nil, err
	}
	return s.recomputeTotals(e.ProfileID, e.Date)
}

// UpdateEntry changes an entry's quantity, then recomputes that day's totals.
func (s *Service) UpdateEntry(entryRef string, quantityGrams float64) (*models.DailyNutritionTotals, error) {
	e, err := s.repo.GetFoodEntry(entryRef)
	if err != nil {
		return nil, err
	}
	if e.Custom != nil {
		return nil, &engine.ValidationError{Field: "quantity_grams", Reason: "custom entries have no quantity"}
	}

	e.QuantityGrams = quantityGrams
	if _, _, _, _, err := engine.EntryContribution(*e); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFoodEntryQuantity(e.ID, quantityGrams); err != nil {
		return nil, err
	}
	return s.recomputeTotals(e.ProfileID, e.Date)
}

// DeleteEntry removes an entry, then recomputes that day's totals.
func (s *Service) DeleteEntry(entryRef string) (*models.DailyNutritionTotals, error) {
	e, err := s.repo.GetFoodEntry(entryRef)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteFoodEntry(e.ID); err != nil {
		return nil, err
	}
	return s.recomputeTotals(e.ProfileID, e.Date)
}

// recomputeTotals aggregates every entry of a day and replaces the stored totals.
func (s *Service) recomputeTotals(profileID uuid.UUID, date string) (*models.DailyNutritionTotals, error) {
	stored, err := s.repo.ListFoodEntries(profileID, date)
	if err != nil {
		return nil, err
	}
	entries := make([]models.FoodEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}

	totals, err := engine.Aggregate(entries)
	if err != nil {
		return nil, err
	}
	totals.ProfileID = profileID
	totals.Date = date
	totals.UpdatedAt = s.now()
	if err := s.repo.SaveDailyTotals(&totals); err != nil {
		return nil, err
	}

	s.log.Info("daily totals recomputed", "date", date, "entries", totals.EntryCount, "calories", totals.TotalCalories)
	return &totals, nil
}

// DaySummary is one profile's nutrition day: entries, totals, activity and goal progress.
type DaySummary struct {
	Profile  *models.Profile          `json:"profile"`
	Date     string                   `json:"date"`
	Entries  []*models.FoodEntry      `json:"entries"`
	Activity []*models.ActivityRecord `json:"activity,omitempty"`
	Progress models.NutritionProgress `json:"progress"`
}

// Day builds the nutrition summary for a profile and date (today when empty).
// Active calories from every activity source are summed into net calories.
func (s *Service) Day(profileRef, date string) (*DaySummary, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = s.today()
	}

	entries, err := s.repo.ListFoodEntries(p.ID, date)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.GetDailyTotals(p.ID, date)
	if errors.Is(err, storage.ErrNotFound) {
		totals = &models.DailyNutritionTotals{ProfileID: p.ID, Date: date}
	} else if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	activity, err := s.repo.ListActivity(p.ID, date)
	if err != nil {
		return nil, err
	}

	return &DaySummary{
		Profile:  p,
		Date:     date,
		Entries:  entries,
		Activity: activity,
		Progress: engine.Compare(*totals, engine.Goals(*p), combineActivity(activity)),
	}, nil
}

// combineActivity sums a day's records across sources. Nil when there are none.
func combineActivity(records []*models.ActivityRecord) *models.ActivityRecord {
	if len(records) == 0 {
		return nil
	}
	sum := &models.ActivityRecord{ProfileID: records[0].ProfileID, Date: records[0].Date}
	for _, r := range records {
		sum.Steps += r.Steps
		sum.DistanceKm += r.DistanceKm
		sum.ActiveCalories += r.ActiveCalories
		sum.ActiveMinutes += r.ActiveMinutes
	}
	return sum
}
