// ABOUTME: Repository interface for FitSync data storage.
// ABOUTME: Defines the contract for profiles, plans, food logs, sessions, activity and adjustments.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAdjustmentExists is returned when a plan window already has an applied adjustment.
	ErrAdjustmentExists = errors.New("adjustment already recorded for window")
)

// Repository defines the storage interface for FitSync data.
// Both the SQLite and Charm backends implement it.
type Repository interface {
	// Profile operations
	SaveProfile(p *models.Profile) error
	GetProfile(idOrPrefix string) (*models.Profile, error)
	ListProfiles() ([]*models.Profile, error)

	// Exercise catalog, ordered by name
	CreateExercise(e *models.Exercise) error
	ListExercises() ([]*models.Exercise, error)

	// Plan operations. Plans are returned with their prescriptions.
	CreatePlan(p *models.Plan) error
	GetPlan(idOrPrefix string) (*models.Plan, error)
	ListPlans(profileID *uuid.UUID, limit int) ([]*models.Plan, error)
	UpdatePrescriptions(planID uuid.UUID, rx []models.ExercisePrescription) error
	DeletePlan(idOrPrefix string) error

	// Food catalog
	CreateFood(f *models.Food) error
	GetFood(idOrPrefix string) (*models.Food, error)
	GetFoodByBarcode(barcode string) (*models.Food, error)
	ListFoods(search string, limit int) ([]*models.Food, error)

	// Food log. Entries are returned with their reference food attached.
	AddFoodEntry(e *models.FoodEntry) error
	GetFoodEntry(idOrPrefix string) (*models.FoodEntry, error)
	UpdateFoodEntryQuantity(id uuid.UUID, quantityGrams float64) error
	DeleteFoodEntry(id uuid.UUID) error
	ListFoodEntries(profileID uuid.UUID, date string) ([]*models.FoodEntry, error)

	// Daily totals are replaced wholesale, never patched.
	SaveDailyTotals(t *models.DailyNutritionTotals) error
	GetDailyTotals(profileID uuid.UUID, date string) (*models.DailyNutritionTotals, error)

	// Workout sessions
	CreateSession(s *models.WorkoutSession) error
	GetSession(idOrPrefix string) (*models.WorkoutSession, error)
	UpdateSession(s *models.WorkoutSession) error
	ListSessions(profileID uuid.UUID, from, to time.Time) ([]*models.WorkoutSession, error)

	// Activity records, one per (profile, date, source)
	SaveActivity(a *models.ActivityRecord) error
	ListActivity(profileID uuid.UUID, date string) ([]*models.ActivityRecord, error)

	// Adjustment audit, at most one per (plan, window start)
	RecordAdjustment(a *models.Adjustment) error
	HasAdjustment(planID uuid.UUID, windowStart string) (bool, error)
	ListAdjustments(planID uuid.UUID) ([]*models.Adjustment, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
