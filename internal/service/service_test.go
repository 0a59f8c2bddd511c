// ABOUTME: Tests for the service orchestration flows over a SQLite store.
// ABOUTME: Uses a fixed clock so review windows and streaks are deterministic.
package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// now is a Wednesday; the previous review week is 2026-03-09 to 2026-03-16.
var now = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*Service, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "fitsync.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := New(db, nil)
	svc.now = func() time.Time { return now }
	return svc, db
}

func saveProfile(t *testing.T, svc *Service, p *models.Profile) *models.Profile {
	t.Helper()
	if _, err := svc.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	return p
}

func TestSaveProfileReturnsGoals(t *testing.T) {
	svc, _ := setupService(t)

	goal, err := svc.SaveProfile(models.NewProfile("Alex").WithLevel(models.LevelBeginner))
	if err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	want := models.NutritionGoal{Calories: 2237, ProteinG: 140, CarbsG: 252, FatG: 75, FiberG: 31, WaterMl: 2450}
	if diff := cmp.Diff(want, goal); diff != "" {
		t.Errorf("goal mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileResolution(t *testing.T) {
	svc, _ := setupService(t)

	if _, err := svc.Profile(""); !errors.Is(err, ErrNoProfile) {
		t.Errorf("empty store: expected ErrNoProfile, got %v", err)
	}

	alex := saveProfile(t, svc, models.NewProfile("Alex"))
	got, err := svc.Profile("")
	if err != nil || got.ID != alex.ID {
		t.Errorf("single profile not chosen: %v, %v", got, err)
	}

	saveProfile(t, svc, models.NewProfile("Sam"))
	if _, err := svc.Profile(""); !errors.Is(err, ErrNoProfile) {
		t.Errorf("two profiles: expected ErrNoProfile, got %v", err)
	}
	got, err = svc.Profile(alex.ID.String()[:8])
	if err != nil || got.Name != "Alex" {
		t.Errorf("prefix lookup failed: %v, %v", got, err)
	}
}

func TestGeneratePlan(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").
		WithLevel(models.LevelIntermediate).
		WithGoals(models.GoalWeightLoss))

	plan, err := svc.GeneratePlan(p.ID.String())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	wantStructure := models.PlanStructure{DurationWeeks: 12, WorkoutsPerWeek: 4, ExercisesPerWorkout: 6, RestDays: 3}
	if plan.Structure != wantStructure {
		t.Errorf("Structure = %+v, want %+v", plan.Structure, wantStructure)
	}
	if plan.FitnessScore != 2 {
		t.Errorf("FitnessScore = %v, want 2", plan.FitnessScore)
	}

	stored, err := db.GetPlan(plan.ID.String())
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}

	type row struct {
		Name  string
		Index int
		Reps  int
	}
	var got []row
	for _, rx := range stored.Exercises {
		if rx.Sets != 3 || rx.RestSeconds != 75 {
			t.Errorf("%s: sets/rest = %d/%d, want 3/75", rx.ExerciseName, rx.Sets, rx.RestSeconds)
		}
		got = append(got, row{rx.ExerciseName, rx.OrderIndex, *rx.Reps})
	}
	want := []row{
		{"Bent-over Rows", 1, 8},
		{"Bicep Curls", 2, 12},
		{"Calf Raises", 3, 12},
		{"Deadlifts", 4, 8},
		{"Glute Bridges", 5, 12},
		{"Lunges", 6, 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prescriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestRegenerateAll(t *testing.T) {
	svc, db := setupService(t)
	var profiles []*models.Profile
	for _, name := range []string{"Alex", "Sam", "Kim"} {
		p := models.NewProfile(name)
		p.CreatedAt = now.Add(time.Duration(len(profiles)) * time.Minute)
		profiles = append(profiles, saveProfile(t, svc, p))
	}

	plans, err := svc.RegenerateAll(context.Background(), 2)
	if err != nil {
		t.Fatalf("RegenerateAll failed: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	for i, plan := range plans {
		if plan.ProfileID != profiles[i].ID {
			t.Errorf("plan %d belongs to %s, want %s", i, plan.ProfileID, profiles[i].ID)
		}
	}

	all, _ := db.ListPlans(nil, 0)
	if len(all) != 3 {
		t.Errorf("stored %d plans, want 3", len(all))
	}
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantStart string
		wantEnd   string
	}{
		{"wednesday", now, "2026-03-09", "2026-03-16"},
		{"monday", time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC), "2026-03-09", "2026-03-16"},
		{"sunday", time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC), "2026-03-02", "2026-03-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekWindow(tt.at)
			if got := start.Format(models.DateLayout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format(models.DateLayout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

// completeSessions stores n completed sessions for a plan, one per day from start.
func completeSessions(t *testing.T, db *storage.DB, plan *models.Plan, start time.Time, n, rating int) {
	t.Helper()
	for i := 0; i < n; i++ {
		began := start.AddDate(0, 0, i).Add(7 * time.Hour)
		ws := models.NewWorkoutSession(plan.ProfileID).ForPlan(plan.ID).WithStartedAt(began)
		ws.Complete(began.Add(45*time.Minute), rating)
		if err := db.CreateSession(ws); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}
}

func TestSignal(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").WithLevel(models.LevelIntermediate).WithGoals(models.GoalWeightLoss))
	plan, _ := svc.GeneratePlan(p.ID.String())
	other, _ := svc.GeneratePlan(p.ID.String())

	start, end := WeekWindow(now)
	completeSessions(t, db, plan, start, 3, 2)
	completeSessions(t, db, other, start, 2, 5)
	open := models.NewWorkoutSession(p.ID).ForPlan(plan.ID).WithStartedAt(start.Add(time.Hour))
	if err := db.CreateSession(open); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	completeSessions(t, db, plan, end, 1, 1)

	sig, err := svc.Signal(plan, start, end)
	if err != nil {
		t.Fatalf("Signal failed: %v", err)
	}
	if sig.WorkoutsCompleted != 3 || sig.WorkoutsPlanned != 4 || sig.Rating() != 2 {
		t.Errorf("signal = %+v (rating %v)", sig, sig.Rating())
	}
}

func TestAdjustPlanIncrease(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").WithLevel(models.LevelIntermediate).WithGoals(models.GoalWeightLoss))
	plan, err := svc.GeneratePlan(p.ID.String())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	start, _ := WeekWindow(now)
	completeSessions(t, db, plan, start, 4, 2)

	res, err := svc.AdjustPlan(plan.ID.String()[:8])
	if err != nil {
		t.Fatalf("AdjustPlan failed: %v", err)
	}
	if res.Decision.Kind != models.DecisionIncrease {
		t.Fatalf("Decision = %s, want increase", res.Decision.Kind)
	}

	stored, _ := db.GetPlan(plan.ID.String())
	first := stored.Exercises[0]
	if first.Sets != 4 || *first.Reps != 10 || first.RestSeconds != 60 {
		t.Errorf("first prescription = %d sets, %d reps, %ds rest; want 4/10/60", first.Sets, *first.Reps, first.RestSeconds)
	}

	adjs, _ := db.ListAdjustments(plan.ID)
	if len(adjs) != 1 || adjs[0].WindowStart != "2026-03-09" || adjs[0].WindowEnd != "2026-03-16" {
		t.Errorf("adjustment audit = %+v", adjs)
	}

	_, err = svc.AdjustPlan(plan.ID.String())
	if !errors.Is(err, storage.ErrAdjustmentExists) {
		t.Errorf("second review of the same window: expected ErrAdjustmentExists, got %v", err)
	}
	again, _ := db.GetPlan(plan.ID.String())
	if again.Exercises[0].Sets != 4 {
		t.Errorf("prescriptions changed by a rejected review: sets = %d", again.Exercises[0].Sets)
	}
}

func TestAdjustPlanWithSignal(t *testing.T) {
	tests := []struct {
		name     string
		sig      models.ProgressSignal
		want     models.DecisionKind
		wantSets int
	}{
		{"no sessions decreases", models.ProgressSignal{WorkoutsCompleted: 0, WorkoutsPlanned: 4}, models.DecisionDecrease, 2},
		{"steady maintains", models.ProgressSignal{WorkoutsCompleted: 3, WorkoutsPlanned: 4}, models.DecisionMaintain, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupService(t)
			p := saveProfile(t, svc, models.NewProfile("Alex").WithLevel(models.LevelIntermediate))
			plan, err := svc.GeneratePlan(p.ID.String())
			if err != nil {
				t.Fatalf("GeneratePlan failed: %v", err)
			}

			res, err := svc.AdjustPlanWithSignal(plan.ID.String(), tt.sig)
			if err != nil {
				t.Fatalf("AdjustPlanWithSignal failed: %v", err)
			}
			if res.Decision.Kind != tt.want {
				t.Errorf("Decision = %s, want %s", res.Decision.Kind, tt.want)
			}
			stored, _ := db.GetPlan(plan.ID.String())
			for _, rx := range stored.Exercises {
				if rx.Sets != tt.wantSets {
					t.Errorf("%s sets = %d, want %d", rx.ExerciseName, rx.Sets, tt.wantSets)
				}
			}
		})
	}
}

func TestAdjustPlanWithSignalRejectsRating(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").WithLevel(models.LevelIntermediate))
	plan, err := svc.GeneratePlan(p.ID.String())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	for _, r := range []float64{0.5, 7, -1} {
		rating := r
		sig := models.ProgressSignal{WorkoutsCompleted: 9, WorkoutsPlanned: 10, AverageDifficultyRating: &rating}
		var ve *engine.ValidationError
		if _, err := svc.AdjustPlanWithSignal(plan.ID.String(), sig); !errors.As(err, &ve) || ve.Field != "average_difficulty_rating" {
			t.Errorf("rating %v: expected average_difficulty_rating ValidationError, got %v", r, err)
		}
	}

	adjustments, err := db.ListAdjustments(plan.ID)
	if err != nil {
		t.Fatalf("ListAdjustments failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("rejected signals recorded %d adjustments, want 0", len(adjustments))
	}
}

func TestRunWeeklyAdjustments(t *testing.T) {
	svc, _ := setupService(t)
	for _, name := range []string{"Alex", "Sam"} {
		p := saveProfile(t, svc, models.NewProfile(name))
		if _, err := svc.GeneratePlan(p.ID.String()); err != nil {
			t.Fatalf("GeneratePlan failed: %v", err)
		}
	}
	saveProfile(t, svc, models.NewProfile("Kim"))

	results, err := svc.RunWeeklyAdjustments(context.Background())
	if err != nil {
		t.Fatalf("RunWeeklyAdjustments failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d adjustments, want 2", len(results))
	}

	results, err = svc.RunWeeklyAdjustments(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("second run in the same week applied %d adjustments, want 0", len(results))
	}
}

func TestFoodLogRecomputesTotals(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex"))

	banana := models.NewFood("Banana", 89, 1.2, 22.8, 0.3)
	apple := models.NewFood("Apple", 52, 0.3, 13.8, 0.25)
	for _, f := range []*models.Food{banana, apple} {
		if err := db.CreateFood(f); err != nil {
			t.Fatalf("CreateFood failed: %v", err)
		}
	}

	bananaEntry := models.NewFoodEntry(p.ID, now, models.MealBreakfast, banana, 150)
	if _, err := svc.LogFood(bananaEntry); err != nil {
		t.Fatalf("LogFood failed: %v", err)
	}
	appleEntry := models.NewFoodEntry(p.ID, now, models.MealSnack, apple, 100)
	totals, err := svc.LogFood(appleEntry)
	if err != nil {
		t.Fatalf("LogFood failed: %v", err)
	}

	if totals.TotalCalories != 186 || totals.TotalProtein != 2.1 || totals.TotalCarbs != 48 || totals.TotalFat != 0.7 || totals.EntryCount != 2 {
		t.Errorf("totals after two entries = %+v", totals)
	}
	stored, err := db.GetDailyTotals(p.ID, "2026-03-18")
	if err != nil || stored.TotalCalories != 186 {
		t.Errorf("stored totals = %+v, %v", stored, err)
	}

	totals, err = svc.UpdateEntry(bananaEntry.ID.String()[:8], 100)
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if totals.TotalCalories != 141 || totals.EntryCount != 2 {
		t.Errorf("totals after update = %+v", totals)
	}

	totals, err = svc.DeleteEntry(appleEntry.ID.String())
	if err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if totals.TotalCalories != 89 || totals.EntryCount != 1 {
		t.Errorf("totals after delete = %+v", totals)
	}

	totals, err = svc.DeleteEntry(bananaEntry.ID.String())
	if err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if totals.TotalCalories != 0 || totals.EntryCount != 0 {
		t.Errorf("totals after deleting every entry = %+v", totals)
	}
}

func TestLogFoodRejectsInvalidEntry(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex"))

	bad := models.NewCustomFoodEntry(p.ID, now, models.MealLunch, models.CustomNutrients{Name: "Mystery", Calories: -10})
	_, err := svc.LogFood(bad)

	var ve *engine.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	entries, _ := db.ListFoodEntries(p.ID, "2026-03-18")
	if len(entries) != 0 {
		t.Errorf("invalid entry was stored")
	}
}

func TestUpdateEntryRejectsCustom(t *testing.T) {
	svc, _ := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex"))

	e := models.NewCustomFoodEntry(p.ID, now, models.MealLunch, models.CustomNutrients{Name: "Burrito", Calories: 650})
	if _, err := svc.LogFood(e); err != nil {
		t.Fatalf("LogFood failed: %v", err)
	}

	var ve *engine.ValidationError
	if _, err := svc.UpdateEntry(e.ID.String(), 200); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestDaySummary(t *testing.T) {
	svc, _ := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").WithLevel(models.LevelBeginner))

	e := models.NewCustomFoodEntry(p.ID, now, models.MealLunch, models.CustomNutrients{Name: "Burrito", Calories: 650, Protein: 32, Carbs: 70, Fat: 24})
	if _, err := svc.LogFood(e); err != nil {
		t.Fatalf("LogFood failed: %v", err)
	}
	for _, a := range []*models.ActivityRecord{
		{Date: "2026-03-18", Source: models.SourceGarmin, ActiveCalories: 200, Steps: 5000},
		{Date: "2026-03-18", Source: models.SourceManual, ActiveCalories: 100},
	} {
		if err := svc.RecordActivity(p.ID, a); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
	}

	day, err := svc.Day("", "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Date != "2026-03-18" || len(day.Entries) != 1 || len(day.Activity) != 2 {
		t.Errorf("day = %s, %d entries, %d activity", day.Date, len(day.Entries), len(day.Activity))
	}
	prog := day.Progress
	if prog.Goal.Calories != 2237 || prog.ActiveCalories != 300 || prog.NetCalories != 350 {
		t.Errorf("progress = goal %d, active %d, net %d", prog.Goal.Calories, prog.ActiveCalories, prog.NetCalories)
	}
	if prog.RemainingCalories != 2237-650+300 {
		t.Errorf("RemainingCalories = %d", prog.RemainingCalories)
	}

	empty, err := svc.Day(p.ID.String(), "2026-03-01")
	if err != nil {
		t.Fatalf("Day for an empty date failed: %v", err)
	}
	if empty.Progress.Totals.TotalCalories != 0 || empty.Progress.RemainingCalories != 2237 {
		t.Errorf("empty day progress = %+v", empty.Progress)
	}
}

func TestCompleteSessionUpdatesHistory(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex").WithHistory(10, 0))
	plan, _ := svc.GeneratePlan(p.ID.String())

	completeSessions(t, db, plan, now.AddDate(0, 0, -2).Truncate(24*time.Hour), 2, 3)

	ws, err := svc.StartSession("", plan.ID.String()[:8])
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if ws.PlanID == nil || *ws.PlanID != plan.ID {
		t.Errorf("session not linked to plan")
	}

	done, profile, err := svc.CompleteSession(ws.ID.String()[:8], CompleteOptions{Rating: 4, CaloriesBurned: 320, Notes: "legs"})
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if !done.IsCompleted() || *done.DifficultyRating != 4 || *done.CaloriesBurned != 320 || *done.Notes != "legs" {
		t.Errorf("completed session = %+v", done)
	}
	if profile.TotalWorkouts != 11 || profile.StreakDays != 3 {
		t.Errorf("history = %d workouts, %d streak; want 11, 3", profile.TotalWorkouts, profile.StreakDays)
	}

	stored, _ := db.GetProfile(p.ID.String())
	if stored.TotalWorkouts != 11 || stored.StreakDays != 3 {
		t.Errorf("stored history = %d/%d", stored.TotalWorkouts, stored.StreakDays)
	}

	if _, _, err := svc.CompleteSession(ws.ID.String(), CompleteOptions{}); err == nil {
		t.Error("expected error completing a session twice")
	}
}

func TestCompleteSessionRejectsRating(t *testing.T) {
	svc, _ := setupService(t)
	saveProfile(t, svc, models.NewProfile("Alex"))
	ws, err := svc.StartSession("", "")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	var ve *engine.ValidationError
	if _, _, err := svc.CompleteSession(ws.ID.String(), CompleteOptions{Rating: 7}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestStreak(t *testing.T) {
	completedOn := func(days ...int) []*models.WorkoutSession {
		var out []*models.WorkoutSession
		for _, d := range days {
			at := now.AddDate(0, 0, -d)
			ws := models.NewWorkoutSession(models.NewProfile("x").ID).WithStartedAt(at.Add(-time.Hour))
			out = append(out, ws.Complete(at, 0))
		}
		return out
	}

	tests := []struct {
		name     string
		sessions []*models.WorkoutSession
		want     int
	}{
		{"none", nil, 0},
		{"today only", completedOn(0), 1},
		{"ends yesterday", completedOn(1, 2, 3), 3},
		{"gap breaks streak", completedOn(0, 1, 3, 4), 2},
		{"two sessions same day", completedOn(0, 0, 1), 2},
		{"last session two days ago", completedOn(2, 3), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.sessions, now); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}

	open := models.NewWorkoutSession(models.NewProfile("x").ID)
	if got := Streak([]*models.WorkoutSession{open}, now); got != 0 {
		t.Errorf("open session counted: %d", got)
	}
}

func TestRecordActivityValidation(t *testing.T) {
	svc, db := setupService(t)
	p := saveProfile(t, svc, models.NewProfile("Alex"))

	tests := []struct {
		name  string
		rec   models.ActivityRecord
		field string
	}{
		{"unknown source", models.ActivityRecord{Date: "2026-03-18", Source: "pedometer"}, "source"},
		{"bad date", models.ActivityRecord{Date: "18/03/2026", Source: models.SourceManual}, "date"},
		{"negative steps", models.ActivityRecord{Date: "2026-03-18", Source: models.SourceManual, Steps: -1}, "activity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			var ve *engine.ValidationError
			if err := svc.RecordActivity(p.ID, &rec); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("expected ValidationError on %s, got %v", tt.field, err)
			}
		})
	}

	records, _ := db.ListActivity(p.ID, "2026-03-18")
	if len(records) != 0 {
		t.Errorf("invalid records stored: %d", len(records))
	}
}
