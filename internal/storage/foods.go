// ABOUTME: Food catalog, food log and daily totals operations for SQLite storage.
// ABOUTME: Entries join their reference food so the aggregator sees complete records.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

const foodColumns = `id, name, brand, barcode, calories_per_100g, protein_per_100g, carbs_per_100g,
	fat_per_100g, fiber_per_100g, sugar_per_100g, sodium_per_100g, created_at`

// CreateFood adds a food to the catalog.
func (d *DB) CreateFood(f *models.Food) error {
	query := `INSERT INTO foods (` + foodColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		f.ID.String(),
		f.Name,
		f.Brand,
		f.Barcode,
		f.CaloriesPer100g,
		f.ProteinPer100g,
		f.CarbsPer100g,
		f.FatPer100g,
		f.FiberPer100g,
		f.SugarPer100g,
		f.SodiumPer100g,
		formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create food: %w", err)
	}
	return nil
}

// GetFood retrieves a food by ID or ID prefix.
func (d *DB) GetFood(idOrPrefix string) (*models.Food, error) {
	id, err := d.resolveID("foods", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanFood(d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
}

// GetFoodByBarcode retrieves the most recently added food with a barcode.
func (d *DB) GetFoodByBarcode(barcode string) (*models.Food, error) {
	row := d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE barcode = ? ORDER BY created_at DESC LIMIT 1`, barcode)
	f, err := scanFood(row)
	if err != nil {
		return nil, fmt.Errorf("barcode %s: %w", barcode, err)
	}
	return f, nil
}

// ListFoods returns foods ordered by name, optionally filtered by a
// case-insensitive substring of the name or brand.
func (d *DB) ListFoods(search string, limit int) ([]*models.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods`
	var args []any
	if search != "" {
		query += ` WHERE LOWER(name) LIKE '%' || LOWER(?) || '%' OR LOWER(brand) LIKE '%' || LOWER(?) || '%'`
		args = append(args, search, search)
	}
	query += ` ORDER BY name ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	var foods []*models.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func scanFood(row rowScanner) (*models.Food, error) {
	var f models.Food
	var idStr, createdAt string
	var brand, barcode sql.NullString

	err := row.Scan(&idStr, &f.Name, &brand, &barcode, &f.CaloriesPer100g, &f.ProteinPer100g,
		&f.CarbsPer100g, &f.FatPer100g, &f.FiberPer100g, &f.SugarPer100g, &f.SodiumPer100g, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("food: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan food: %w", err)
	}
	f.ID, _ = uuid.Parse(idStr)
	f.Brand = brand.String
	f.Barcode = barcode.String
	f.CreatedAt = parseTime(createdAt)
	return &f, nil
}

// AddFoodEntry logs a food entry.
func (d *DB) AddFoodEntry(e *models.FoodEntry) error {
	var foodID any
	if e.FoodID != nil {
		foodID = e.FoodID.String()
	} else if e.Food != nil {
		foodID = e.Food.ID.String()
	}

	var customName, customCalories, customProtein, customCarbs, customFat any
	if e.Custom != nil {
		customName = e.Custom.Name
		customCalories = e.Custom.Calories
		customProtein = e.Custom.Protein
		customCarbs = e.Custom.Carbs
		customFat = e.Custom.Fat
	}

	query := `
		INSERT INTO food_entries (id, profile_id, entry_date, meal_type, food_id, quantity_grams,
			custom_name, custom_calories, custom_protein, custom_carbs, custom_fat, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		e.ProfileID.String(),
		e.Date,
		string(e.Meal),
		foodID,
		e.QuantityGrams,
		customName,
		customCalories,
		customProtein,
		customCarbs,
		customFat,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("add food entry: %w", err)
	}
	return nil
}

const entrySelect = `
	SELECT e.id, e.profile_id, e.entry_date, e.meal_type, e.food_id, e.quantity_grams,
		e.custom_name, e.custom_calories, e.custom_protein, e.custom_carbs, e.custom_fat, e.created_at,
		f.id, f.name, f.brand, f.barcode, f.calories_per_100g, f.protein_per_100g, f.carbs_per_100g,
		f.fat_per_100g, f.fiber_per_100g, f.sugar_per_100g, f.sodium_per_100g, f.created_at
	FROM food_entries e
	LEFT JOIN foods f ON f.id = e.food_id
`

// GetFoodEntry retrieves a food entry by ID or ID prefix.
func (d *DB) GetFoodEntry(idOrPrefix string) (*models.FoodEntry, error) {
	id, err := d.resolveID("food_entries", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanFoodEntry(d.db.QueryRow(entrySelect+` WHERE e.id = ?`, id))
}

// UpdateFoodEntryQuantity changes the logged quantity of a reference-food entry.
func (d *DB) UpdateFoodEntryQuantity(id uuid.UUID, quantityGrams float64) error {
	result, err := d.db.Exec(`UPDATE food_entries SET quantity_grams = ? WHERE id = ?`, quantityGrams, id.String())
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	return checkAffected(result, "update food entry", id.String())
}

// DeleteFoodEntry removes a food entry.
func (d *DB) DeleteFoodEntry(id uuid.UUID) error {
	result, err := d.db.Exec(`DELETE FROM food_entries WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	return checkAffected(result, "delete food entry", id.String())
}

// ListFoodEntries returns a profile's entries for one date in logging order.
func (d *DB) ListFoodEntries(profileID uuid.UUID, date string) ([]*models.FoodEntry, error) {
	rows, err := d.db.Query(entrySelect+` WHERE e.profile_id = ? AND e.entry_date = ? ORDER BY e.created_at ASC, e.id ASC`,
		profileID.String(), date)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) listAllFoodEntries() ([]*models.FoodEntry, error) {
	rows, err := d.db.Query(entrySelect + ` ORDER BY e.entry_date ASC, e.created_at ASC, e.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanFoodEntry(row rowScanner) (*models.FoodEntry, error) {
	var e models.FoodEntry
	var idStr, profileIDStr, meal, createdAt string
	var foodIDStr, customName sql.NullString
	var customCalories, customProtein, customCarbs, customFat sql.NullFloat64

	var fID, fName, fBrand, fBarcode, fCreatedAt sql.NullString
	var fCal, fProtein, fCarbs, fFat, fFiber, fSugar, fSodium sql.NullFloat64

	err := row.Scan(&idStr, &profileIDStr, &e.Date, &meal, &foodIDStr, &e.QuantityGrams,
		&customName, &customCalories, &customProtein, &customCarbs, &customFat, &createdAt,
		&fID, &fName, &fBrand, &fBarcode, &fCal, &fProtein, &fCarbs, &fFat, &fFiber, &fSugar, &fSodium, &fCreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("food entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan food entry: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.ProfileID, _ = uuid.Parse(profileIDStr)
	e.Meal = models.MealType(meal)
	e.CreatedAt = parseTime(createdAt)

	if foodIDStr.Valid {
		fid, _ := uuid.Parse(foodIDStr.String)
		e.FoodID = &fid
	}
	if fID.Valid {
		f := &models.Food{
			Name:            fName.String,
			Brand:           fBrand.String,
			Barcode:         fBarcode.String,
			CaloriesPer100g: fCal.Float64,
			ProteinPer100g:  fProtein.Float64,
			CarbsPer100g:    fCarbs.Float64,
			FatPer100g:      fFat.Float64,
			FiberPer100g:    fFiber.Float64,
			SugarPer100g:    fSugar.Float64,
			SodiumPer100g:   fSodium.Float64,
			CreatedAt:       parseTime(fCreatedAt.String),
		}
		f.ID, _ = uuid.Parse(fID.String)
		e.Food = f
	}
	if customCalories.Valid {
		e.Custom = &models.CustomNutrients{
			Name:     customName.String,
			Calories: customCalories.Float64,
			Protein:  customProtein.Float64,
			Carbs:    customCarbs.Float64,
			Fat:      customFat.Float64,
		}
	}
	return &e, nil
}

// SaveDailyTotals replaces the totals row for (profile, date).
func (d *DB) SaveDailyTotals(t *models.DailyNutritionTotals) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	query := `
		INSERT OR REPLACE INTO daily_nutrition (profile_id, entry_date, total_calories, total_protein,
			total_carbs, total_fat, entry_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		t.ProfileID.String(),
		t.Date,
		t.TotalCalories,
		t.TotalProtein,
		t.TotalCarbs,
		t.TotalFat,
		t.EntryCount,
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save daily totals: %w", err)
	}
	return nil
}

// GetDailyTotals returns the stored totals for (profile, date).
func (d *DB) GetDailyTotals(profileID uuid.UUID, date string) (*models.DailyNutritionTotals, error) {
	row := d.db.QueryRow(`
		SELECT profile_id, entry_date, total_calories, total_protein, total_carbs, total_fat, entry_count, updated_at
		FROM daily_nutrition
		WHERE profile_id = ? AND entry_date = ?
	`, profileID.String(), date)

	var t models.DailyNutritionTotals
	var profileIDStr, updatedAt string
	err := row.Scan(&profileIDStr, &t.Date, &t.TotalCalories, &t.TotalProtein, &t.TotalCarbs,
		&t.TotalFat, &t.EntryCount, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("daily totals %s: %w", date, ErrNotFound)
		}
		return nil, fmt.Errorf("scan daily totals: %w", err)
	}
	t.ProfileID, _ = uuid.Parse(profileIDStr)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}
