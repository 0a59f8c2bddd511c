// ABOUTME: Export and import functionality for FitSync data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for FitSync data.
type ExportData struct {
	Version     string                         `json:"version" yaml:"version"`
	ExportedAt  time.Time                      `json:"exported_at" yaml:"exported_at"`
	Tool        string                         `json:"tool" yaml:"tool"`
	Profiles    []*models.Profile              `json:"profiles" yaml:"profiles"`
	Exercises   []*models.Exercise             `json:"exercises" yaml:"exercises"`
	Plans       []*models.Plan                 `json:"plans" yaml:"plans"`
	Foods       []*models.Food                 `json:"foods" yaml:"foods"`
	FoodEntries []*models.FoodEntry            `json:"food_entries" yaml:"food_entries"`
	DailyTotals []*models.DailyNutritionTotals `json:"daily_totals" yaml:"daily_totals"`
	Sessions    []*models.WorkoutSession       `json:"sessions" yaml:"sessions"`
	Activity    []*models.ActivityRecord       `json:"activity" yaml:"activity"`
	Adjustments []*models.Adjustment           `json:"adjustments" yaml:"adjustments"`
}

func newExportData() *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "fitsync",
	}
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data := newExportData()
	var err error

	if data.Profiles, err = d.ListProfiles(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if data.Exercises, err = d.ListExercises(); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if data.Plans, err = d.ListPlans(nil, 0); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if data.Foods, err = d.ListFoods("", 0); err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	if data.FoodEntries, err = d.listAllFoodEntries(); err != nil {
		return nil, err
	}
	if data.DailyTotals, err = d.listAllDailyTotals(); err != nil {
		return nil, err
	}
	if data.Sessions, err = d.querySessions(`SELECT ` + sessionColumns + ` FROM workout_sessions ORDER BY started_at ASC, id ASC`); err != nil {
		return nil, err
	}
	if data.Activity, err = d.queryActivity(activitySelect + ` ORDER BY entry_date ASC, source ASC`); err != nil {
		return nil, err
	}
	if data.Adjustments, err = d.queryAdjustments(`
		SELECT id, plan_id, window_start, window_end, decision, rationale, workouts_completed,
			workouts_planned, average_rating, applied_at
		FROM plan_adjustments
		ORDER BY window_start ASC, plan_id ASC
	`); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *DB) listAllDailyTotals() ([]*models.DailyNutritionTotals, error) {
	rows, err := d.db.Query(`
		SELECT profile_id, entry_date FROM daily_nutrition ORDER BY entry_date ASC, profile_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list daily totals: %w", err)
	}
	type key struct {
		profileID uuid.UUID
		date      string
	}
	var keys []key
	for rows.Next() {
		var idStr string
		var k key
		if err := rows.Scan(&idStr, &k.date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan daily totals: %w", err)
		}
		k.profileID, _ = uuid.Parse(idStr)
		keys = append(keys, k)
	}
	rows.Close()

	totals := make([]*models.DailyNutritionTotals, 0, len(keys))
	for _, k := range keys {
		t, err := d.GetDailyTotals(k.profileID, k.date)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) error {
	return Load(d, data)
}

// Load writes every record of data into r. Exercises whose name already
// exists in r are skipped so a seeded catalog does not collide.
// Order follows foreign keys: profiles and foods before what references them.
func Load(r Repository, data *ExportData) error {
	for _, p := range data.Profiles {
		if err := r.SaveProfile(p); err != nil {
			return fmt.Errorf("import profile: %w", err)
		}
	}

	existing, err := r.ListExercises()
	if err != nil {
		return fmt.Errorf("import exercises: %w", err)
	}
	names := make(map[string]bool, len(existing))
	for _, e := range existing {
		names[e.Name] = true
	}
	for _, e := range data.Exercises {
		if names[e.Name] {
			continue
		}
		if err := r.CreateExercise(e); err != nil {
			return fmt.Errorf("import exercise: %w", err)
		}
		names[e.Name] = true
	}

	for _, f := range data.Foods {
		if err := r.CreateFood(f); err != nil {
			return fmt.Errorf("import food: %w", err)
		}
	}
	for _, p := range data.Plans {
		if err := r.CreatePlan(p); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}
	for _, e := range data.FoodEntries {
		if err := r.AddFoodEntry(e); err != nil {
			return fmt.Errorf("import food entry: %w", err)
		}
	}
	for _, t := range data.DailyTotals {
		if err := r.SaveDailyTotals(t); err != nil {
			return fmt.Errorf("import daily totals: %w", err)
		}
	}
	for _, s := range data.Sessions {
		if err := r.CreateSession(s); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
	}
	for _, a := range data.Activity {
		if err := r.SaveActivity(a); err != nil {
			return fmt.Errorf("import activity: %w", err)
		}
	}
	for _, a := range data.Adjustments {
		if err := r.RecordAdjustment(a); err != nil {
			return fmt.Errorf("import adjustment: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&data)
}

// ImportYAML imports data from YAML bytes.
func ImportYAML(r Repository, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return r.ImportData(&data)
}

// ExportMarkdown renders a readable report. since, when set, drops food
// days, sessions and activity before that date.
//
//nolint:gocognit,gocyclo // Linear report assembly.
func ExportMarkdown(r Repository, since *time.Time) (string, error) {
	data, err := r.GetAllData()
	if err != nil {
		return "", err
	}

	sinceDate := ""
	if since != nil {
		sinceDate = since.Format(models.DateLayout)
	}

	var sb strings.Builder
	now := time.Now()

	fmt.Fprintf(&sb, "# FitSync Export - %s\n\n", now.Format(models.DateLayout))
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC3339))

	for _, p := range data.Profiles {
		fmt.Fprintf(&sb, "## %s\n\n", p.Name)
		fmt.Fprintf(&sb, "- Level: %s\n", p.LevelLabel())
		fmt.Fprintf(&sb, "- Goals: %s\n", strings.Join(p.GoalLabels(), ", "))
		fmt.Fprintf(&sb, "- Activity: %s\n", p.Activity())
		fmt.Fprintf(&sb, "- Workouts: %d (streak %d days)\n\n", p.Workouts(), p.Streak())

		for _, pl := range data.Plans {
			if pl.ProfileID != p.ID {
				continue
			}
			fmt.Fprintf(&sb, "### %s\n\n", pl.Name)
			fmt.Fprintf(&sb, "%s. %d weeks, %d workouts/week, %d exercises/workout.\n\n",
				pl.Description, pl.Structure.DurationWeeks, pl.Structure.WorkoutsPerWeek, pl.Structure.ExercisesPerWorkout)
			sb.WriteString("| # | Exercise | Sets | Reps | Rest |\n")
			sb.WriteString("|---|----------|------|------|------|\n")
			for _, rx := range pl.Exercises {
				fmt.Fprintf(&sb, "| %d | %s | %d | %s | %ds |\n",
					rx.OrderIndex, rx.ExerciseName, rx.Sets, repsLabel(rx), rx.RestSeconds)
			}
			sb.WriteString("\n")
		}

		var days []*models.DailyNutritionTotals
		for _, t := range data.DailyTotals {
			if t.ProfileID == p.ID && t.Date >= sinceDate {
				days = append(days, t)
			}
		}
		if len(days) > 0 {
			sb.WriteString("### Nutrition\n\n")
			sb.WriteString("| Date | Calories | Protein | Carbs | Fat | Entries |\n")
			sb.WriteString("|------|----------|---------|-------|-----|---------|\n")
			for _, t := range days {
				fmt.Fprintf(&sb, "| %s | %d | %.1f g | %.1f g | %.1f g | %d |\n",
					t.Date, t.TotalCalories, t.TotalProtein, t.TotalCarbs, t.TotalFat, t.EntryCount)
			}
			sb.WriteString("\n")
		}

		var sessions []*models.WorkoutSession
		for _, s := range data.Sessions {
			if s.ProfileID == p.ID && (since == nil || !s.StartedAt.Before(*since)) {
				sessions = append(sessions, s)
			}
		}
		if len(sessions) > 0 {
			sb.WriteString("### Sessions\n\n")
			sb.WriteString("| Date | Duration | Difficulty | Notes |\n")
			sb.WriteString("|------|----------|------------|-------|\n")
			for _, s := range sessions {
				duration, difficulty, notes := "", "", ""
				if s.DurationMinutes != nil {
					duration = fmt.Sprintf("%d min", *s.DurationMinutes)
				}
				if s.DifficultyRating != nil {
					difficulty = fmt.Sprintf("%d/5", *s.DifficultyRating)
				}
				if s.Notes != nil {
					notes = *s.Notes
				}
				fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
					s.StartedAt.Local().Format("2006-01-02 15:04"), duration, difficulty, notes)
			}
			sb.WriteString("\n")
		}

		var activity []*models.ActivityRecord
		for _, a := range data.Activity {
			if a.ProfileID == p.ID && a.Date >= sinceDate {
				activity = append(activity, a)
			}
		}
		slices.SortStableFunc(activity, func(a, b *models.ActivityRecord) int { return strings.Compare(a.Date, b.Date) })
		if len(activity) > 0 {
			sb.WriteString("### Activity\n\n")
			sb.WriteString("| Date | Source | Steps | Active kcal | Active min |\n")
			sb.WriteString("|------|--------|-------|-------------|------------|\n")
			for _, a := range activity {
				fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d |\n",
					a.Date, a.Source, a.Steps, a.ActiveCalories, a.ActiveMinutes)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func repsLabel(rx models.ExercisePrescription) string {
	switch {
	case rx.Reps != nil:
		return fmt.Sprintf("%d", *rx.Reps)
	case rx.DurationSeconds != nil:
		return fmt.Sprintf("%ds", *rx.DurationSeconds)
	}
	return "-"
}
