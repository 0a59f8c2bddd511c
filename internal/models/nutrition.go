// ABOUTME: Food, food entry, nutrition goal and daily totals models.
// ABOUTME: Food entries either scale a per-100g food or carry custom absolute macros.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for food logs and activity days.
const DateLayout = "2006-01-02"

// MealType groups food entries within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// AllMealTypes lists meal types in the order they are eaten.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType parses a case-insensitive meal type.
func ParseMealType(s string) (MealType, error) {
	m := MealType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMealTypes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown meal type: %s (use breakfast, lunch, dinner, or snack)", s)
}

// Food is a normalized nutrient record given per 100 g.
type Food struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Brand           string    `json:"brand,omitempty" yaml:"brand,omitempty"`
	Barcode         string    `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	CaloriesPer100g float64   `json:"calories_per_100g" yaml:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g" yaml:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g" yaml:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g" yaml:"fat_per_100g"`
	FiberPer100g    float64   `json:"fiber_per_100g,omitempty" yaml:"fiber_per_100g,omitempty"`
	SugarPer100g    float64   `json:"sugar_per_100g,omitempty" yaml:"sugar_per_100g,omitempty"`
	SodiumPer100g   float64   `json:"sodium_per_100g,omitempty" yaml:"sodium_per_100g,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// NewFood creates a Food with the four macro values per 100 g.
func NewFood(name string, calories, protein, carbs, fat float64) *Food {
	return &Food{
		ID:              uuid.New(),
		Name:            name,
		CaloriesPer100g: calories,
		ProteinPer100g:  protein,
		CarbsPer100g:    carbs,
		FatPer100g:      fat,
		CreatedAt:       time.Now(),
	}
}

// WithBarcode sets the barcode.
func (f *Food) WithBarcode(code string) *Food {
	f.Barcode = code
	return f
}

// WithBrand sets the brand.
func (f *Food) WithBrand(brand string) *Food {
	f.Brand = brand
	return f
}

// CustomNutrients are absolute values for an entry with no reference food.
type CustomNutrients struct {
	Name     string  `json:"name" yaml:"name"`
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// FoodEntry is one logged food on a calendar day.
type FoodEntry struct {
	ID            uuid.UUID        `json:"id" yaml:"id"`
	ProfileID     uuid.UUID        `json:"profile_id" yaml:"profile_id"`
	Date          string           `json:"date" yaml:"date"`
	Meal          MealType         `json:"meal" yaml:"meal"`
	FoodID        *uuid.UUID       `json:"food_id,omitempty" yaml:"food_id,omitempty"`
	Food          *Food            `json:"food,omitempty" yaml:"food,omitempty"`
	QuantityGrams float64          `json:"quantity_grams" yaml:"quantity_grams"`
	Custom        *CustomNutrients `json:"custom,omitempty" yaml:"custom,omitempty"`
	CreatedAt     time.Time        `json:"created_at" yaml:"created_at"`
}

// NewFoodEntry logs quantityGrams of a reference food.
func NewFoodEntry(profileID uuid.UUID, date time.Time, meal MealType, food *Food, quantityGrams float64) *FoodEntry {
	id := food.ID
	return &FoodEntry{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Date:          date.Format(DateLayout),
		Meal:          meal,
		FoodID:        &id,
		Food:          food,
		QuantityGrams: quantityGrams,
		CreatedAt:     time.Now(),
	}
}

// NewCustomFoodEntry logs absolute macro values with no reference food.
func NewCustomFoodEntry(profileID uuid.UUID, date time.Time, meal MealType, custom CustomNutrients) *FoodEntry {
	return &FoodEntry{
		ID:        uuid.New(),
		ProfileID: profileID,
		Date:      date.Format(DateLayout),
		Meal:      meal,
		Custom:    &custom,
		CreatedAt: time.Now(),
	}
}

// DisplayName returns the food or custom entry name.
func (e FoodEntry) DisplayName() string {
	switch {
	case e.Food != nil:
		return e.Food.Name
	case e.Custom != nil:
		return e.Custom.Name
	}
	return "unknown"
}

// NutritionGoal is a daily calorie and macro target.
type NutritionGoal struct {
	Calories int `json:"calories" yaml:"calories"`
	ProteinG int `json:"protein_g" yaml:"protein_g"`
	CarbsG   int `json:"carbs_g" yaml:"carbs_g"`
	FatG     int `json:"fat_g" yaml:"fat_g"`
	FiberG   int `json:"fiber_g" yaml:"fiber_g"`
	WaterMl  int `json:"water_ml" yaml:"water_ml"`
}

// DailyNutritionTotals is the reduction of one day's food entries.
type DailyNutritionTotals struct {
	ProfileID     uuid.UUID `json:"profile_id" yaml:"profile_id"`
	Date          string    `json:"date" yaml:"date"`
	TotalCalories int       `json:"total_calories" yaml:"total_calories"`
	TotalProtein  float64   `json:"total_protein" yaml:"total_protein"`
	TotalCarbs    float64   `json:"total_carbs" yaml:"total_carbs"`
	TotalFat      float64   `json:"total_fat" yaml:"total_fat"`
	EntryCount    int       `json:"entry_count" yaml:"entry_count"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// NutritionProgress compares a day's totals against a goal.
type NutritionProgress struct {
	Goal              NutritionGoal        `json:"goal"`
	Totals            DailyNutritionTotals `json:"totals"`
	RemainingCalories int                  `json:"remaining_calories"`
	RemainingProtein  float64              `json:"remaining_protein"`
	RemainingCarbs    float64              `json:"remaining_carbs"`
	RemainingFat      float64              `json:"remaining_fat"`
	CaloriesPercent   float64              `json:"calories_percent"`
	ProteinPercent    float64              `json:"protein_percent"`
	CarbsPercent      float64              `json:"carbs_percent"`
	FatPercent        float64              `json:"fat_percent"`
	ActiveCalories    int                  `json:"active_calories,omitempty"`
	NetCalories       int                  `json:"net_calories"`
}
