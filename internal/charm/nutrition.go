// ABOUTME: Food catalog, food log and daily totals operations for Charm KV storage.
// ABOUTME: Entries are stored without their food and re-attached on read.
package charm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// CreateFood adds a food to the catalog.
func (c *Client) CreateFood(f *models.Food) error {
	return c.put(FoodPrefix+f.ID.String(), f)
}

// GetFood retrieves a food by ID or ID prefix.
func (c *Client) GetFood(idOrPrefix string) (*models.Food, error) {
	data, err := c.getByIDPrefix(FoodPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}

	f, err := unmarshalJSON[models.Food](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal food: %w", err)
	}
	return f, nil
}

// GetFoodByBarcode retrieves the most recently added food with a barcode.
func (c *Client) GetFoodByBarcode(barcode string) (*models.Food, error) {
	foods, err := c.allFoods()
	if err != nil {
		return nil, err
	}

	var found *models.Food
	for _, f := range foods {
		if f.Barcode == barcode && (found == nil || f.CreatedAt.After(found.CreatedAt)) {
			found = f
		}
	}
	if found == nil {
		return nil, fmt.Errorf("barcode %s: %w", barcode, storage.ErrNotFound)
	}
	return found, nil
}

// ListFoods returns foods ordered by name, optionally filtered by a
// case-insensitive substring of the name or brand.
func (c *Client) ListFoods(search string, limit int) ([]*models.Food, error) {
	foods, err := c.allFoods()
	if err != nil {
		return nil, err
	}

	var out []*models.Food
	for _, f := range foods {
		if matchesFood(f, search) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Client) allFoods() ([]*models.Food, error) {
	values, err := c.listByPrefix(FoodPrefix)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return decodeAll[models.Food](values), nil
}

func matchesFood(f *models.Food, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(f.Name), s) || strings.Contains(strings.ToLower(f.Brand), s)
}

// AddFoodEntry logs a food entry.
func (c *Client) AddFoodEntry(e *models.FoodEntry) error {
	stored := *e
	if stored.Food != nil && stored.FoodID == nil {
		id := stored.Food.ID
		stored.FoodID = &id
	}
	stored.Food = nil
	return c.put(EntryPrefix+e.ID.String(), &stored)
}

// GetFoodEntry retrieves a food entry by ID or ID prefix.
func (c *Client) GetFoodEntry(idOrPrefix string) (*models.FoodEntry, error) {
	data, err := c.getByIDPrefix(EntryPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get food entry: %w", err)
	}

	e, err := unmarshalJSON[models.FoodEntry](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal food entry: %w", err)
	}
	if err := c.attachFoods([]*models.FoodEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateFoodEntryQuantity changes the logged quantity of an entry.
func (c *Client) UpdateFoodEntryQuantity(id uuid.UUID, quantityGrams float64) error {
	data, err := c.get(EntryPrefix + id.String())
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	e, err := unmarshalJSON[models.FoodEntry](data)
	if err != nil {
		return fmt.Errorf("unmarshal food entry: %w", err)
	}
	e.QuantityGrams = quantityGrams
	return c.put(EntryPrefix+id.String(), e)
}

// DeleteFoodEntry removes a food entry.
func (c *Client) DeleteFoodEntry(id uuid.UUID) error {
	key := EntryPrefix + id.String()
	ok, err := c.exists(key)
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("delete food entry: %w: %s", storage.ErrNotFound, id)
	}
	return c.deleteKeys(key)
}

// ListFoodEntries returns a profile's entries for one date in logging order.
func (c *Client) ListFoodEntries(profileID uuid.UUID, date string) ([]*models.FoodEntry, error) {
	all, err := c.allFoodEntries()
	if err != nil {
		return nil, err
	}

	var entries []*models.FoodEntry
	for _, e := range all {
		if e.ProfileID == profileID && e.Date == date {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// allFoodEntries returns every entry with its food attached, by date then logging order.
func (c *Client) allFoodEntries() ([]*models.FoodEntry, error) {
	values, err := c.listByPrefix(EntryPrefix)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}

	entries := decodeAll[models.FoodEntry](values)
	sortEntries(entries)
	if err := c.attachFoods(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func sortEntries(entries []*models.FoodEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// attachFoods sets Food on every entry that references one.
func (c *Client) attachFoods(entries []*models.FoodEntry) error {
	foods := make(map[uuid.UUID]*models.Food)
	for _, e := range entries {
		if e.FoodID == nil {
			continue
		}
		f, ok := foods[*e.FoodID]
		if !ok {
			data, err := c.get(FoodPrefix + e.FoodID.String())
			switch {
			case errors.Is(err, storage.ErrNotFound):
			case err != nil:
				return fmt.Errorf("load food: %w", err)
			default:
				if f, err = unmarshalJSON[models.Food](data); err != nil {
					return fmt.Errorf("unmarshal food: %w", err)
				}
			}
			foods[*e.FoodID] = f
		}
		e.Food = f
	}
	return nil
}

// SaveDailyTotals replaces the totals for (profile, date).
func (c *Client) SaveDailyTotals(t *models.DailyNutritionTotals) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	return c.put(totalsKey(t.ProfileID, t.Date), t)
}

// GetDailyTotals returns the stored totals for (profile, date).
func (c *Client) GetDailyTotals(profileID uuid.UUID, date string) (*models.DailyNutritionTotals, error) {
	data, err := c.get(totalsKey(profileID, date))
	if err != nil {
		return nil, fmt.Errorf("daily totals %s: %w", date, err)
	}

	t, err := unmarshalJSON[models.DailyNutritionTotals](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal daily totals: %w", err)
	}
	return t, nil
}

func totalsKey(profileID uuid.UUID, date string) string {
	return compositeKey(TotalsPrefix, profileID.String(), date)
}
