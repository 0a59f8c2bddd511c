// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a SQLite-backed service.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// setupTestServer creates a server over a fresh SQLite store in a temp directory.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "fitsync.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	server, err := NewServer(service.New(db, nil), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

// createProfile stores the baseline profile: beginner, 70 kg, 170 cm, 30, female, moderate.
func createProfile(t *testing.T, server *Server) profileOutput {
	t.Helper()
	_, out, err := server.handleSetProfile(context.Background(), &mcp.CallToolRequest{}, setProfileInput{
		Name:          "Alex",
		WeightKg:      70,
		HeightCm:      170,
		Age:           30,
		Sex:           "female",
		FitnessLevel:  "beginner",
		ActivityLevel: "moderate",
	})
	if err != nil {
		t.Fatalf("set_profile failed: %v", err)
	}
	return out
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.svc == nil {
		t.Error("Expected non-nil service")
	}
	if server.log == nil {
		t.Error("Expected non-nil logger")
	}
}

func TestHandleSetProfile(t *testing.T) {
	tests := []struct {
		name      string
		input     setProfileInput
		wantErr   bool
		errSubstr string
		wantCal   int
	}{
		{
			name:    "baseline profile",
			input:   setProfileInput{Name: "Alex", WeightKg: 70, HeightCm: 170, Age: 30, Sex: "female", FitnessLevel: "beginner", ActivityLevel: "moderate"},
			wantCal: 2237,
		},
		{
			name:    "weight loss goal",
			input:   setProfileInput{Name: "Alex", WeightKg: 70, HeightCm: 170, Age: 30, Sex: "female", FitnessLevel: "beginner", Goals: []string{"weight_loss"}},
			wantCal: 1902,
		},
		{
			name:      "missing name",
			input:     setProfileInput{WeightKg: 70},
			wantErr:   true,
			errSubstr: "name is required",
		},
		{
			name:      "unknown level",
			input:     setProfileInput{Name: "Alex", FitnessLevel: "elite"},
			wantErr:   true,
			errSubstr: "elite",
		},
		{
			name:      "unknown goal",
			input:     setProfileInput{Name: "Alex", Goals: []string{"flexibility"}},
			wantErr:   true,
			errSubstr: "flexibility",
		},
		{
			name:      "update missing profile",
			input:     setProfileInput{ID: "ffffffff"},
			wantErr:   true,
			errSubstr: "profile not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := setupTestServer(t)

			_, out, err := server.handleSetProfile(context.Background(), &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Goal.Calories != tt.wantCal {
				t.Errorf("Calories = %d, want %d", out.Goal.Calories, tt.wantCal)
			}
			if len(out.ID) != 8 || out.Message == "" {
				t.Errorf("unexpected output: %+v", out)
			}
		})
	}
}

func TestHandleSetProfileUpdates(t *testing.T) {
	server, db := setupTestServer(t)
	created := createProfile(t, server)

	_, out, err := server.handleSetProfile(context.Background(), &mcp.CallToolRequest{}, setProfileInput{
		ID:    created.ID,
		Goals: []string{"muscle_gain"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if out.ID != created.ID {
		t.Errorf("update created a new profile: %s != %s", out.ID, created.ID)
	}

	profiles, _ := db.ListProfiles()
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	p := profiles[0]
	if !p.HasGoal(models.GoalMuscleGain) || p.Weight() != 70 || p.LevelLabel() != models.LevelBeginner {
		t.Errorf("update lost fields: %+v", p)
	}
	if out.Goal.Calories != engine.Goals(*p).Calories {
		t.Errorf("returned goal %d does not match recalculated %d", out.Goal.Calories, engine.Goals(*p).Calories)
	}
}

func TestHandleGetProfile(t *testing.T) {
	server, _ := setupTestServer(t)
	created := createProfile(t, server)

	_, out, err := server.handleGetProfile(context.Background(), &mcp.CallToolRequest{}, profileRefInput{Profile: created.ID})
	if err != nil {
		t.Fatalf("get_profile failed: %v", err)
	}

	want := goalOutput{Calories: 2237, ProteinG: 140, CarbsG: 252, FatG: 75, FiberG: 31, WaterMl: 2450}
	if diff := cmp.Diff(want, out.Goal); diff != "" {
		t.Errorf("goal mismatch (-want +got):\n%s", diff)
	}
	if out.Name != "Alex" || out.FitnessLevel != "beginner" || out.ActivityLevel != "moderate" {
		t.Errorf("unexpected profile view: %+v", out)
	}
}

func TestHandleGetProfileNeedsRef(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	createProfile(t, server)

	_, _, err := server.handleGetProfile(context.Background(), &mcp.CallToolRequest{}, profileRefInput{})
	if !errors.Is(err, service.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
}

func TestHandleNutritionGoals(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)

	_, out, err := server.handleNutritionGoals(context.Background(), &mcp.CallToolRequest{}, profileRefInput{})
	if err != nil {
		t.Fatalf("nutrition_goals failed: %v", err)
	}
	if out.BMR != 1443.5 || out.ActiveGoal != "general" {
		t.Errorf("BMR = %v, goal = %s", out.BMR, out.ActiveGoal)
	}
	if out.ProteinShare != engine.DefaultSplit.Protein || out.Goal.Calories != 2237 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestHandleGeneratePlanAndGetPlan(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	_, generated, err := server.handleGeneratePlan(ctx, &mcp.CallToolRequest{}, profileRefInput{})
	if err != nil {
		t.Fatalf("generate_plan failed: %v", err)
	}
	plan := generated.(map[string]any)["plan"].(*models.Plan)
	if len(plan.Exercises) != plan.Structure.ExercisesPerWorkout {
		t.Errorf("got %d exercises, structure wants %d", len(plan.Exercises), plan.Structure.ExercisesPerWorkout)
	}

	tests := []struct {
		name  string
		input getPlanInput
	}{
		{"by plan prefix", getPlanInput{Plan: plan.ID.String()[:8]}},
		{"latest for profile", getPlanInput{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleGetPlan(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("get_plan failed: %v", err)
			}
			got := out.(map[string]any)["plan"].(*models.Plan)
			if got.ID != plan.ID {
				t.Errorf("got plan %s, want %s", got.ID, plan.ID)
			}
		})
	}
}

func TestHandleGetPlanNotFound(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)

	_, _, err := server.handleGetPlan(context.Background(), &mcp.CallToolRequest{}, getPlanInput{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleAdjustPlan(t *testing.T) {
	server, db := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	_, generated, err := server.handleGeneratePlan(ctx, &mcp.CallToolRequest{}, profileRefInput{})
	if err != nil {
		t.Fatalf("generate_plan failed: %v", err)
	}
	plan := generated.(map[string]any)["plan"].(*models.Plan)

	input := adjustPlanInput{Plan: plan.ID.String()[:8], WorkoutsCompleted: 9, WorkoutsPlanned: 10, AverageRating: 2}
	_, out, err := server.handleAdjustPlan(ctx, &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("adjust_plan failed: %v", err)
	}
	if out.Decision != "increase" || out.Consistency != 0.9 || out.Message == "" {
		t.Errorf("unexpected output: %+v", out)
	}

	stored, _ := db.GetPlan(plan.ID.String())
	for i, rx := range stored.Exercises {
		if rx.Sets != plan.Exercises[i].Sets+1 {
			t.Errorf("%s sets = %d, want %d", rx.ExerciseName, rx.Sets, plan.Exercises[i].Sets+1)
		}
	}

	_, _, err = server.handleAdjustPlan(ctx, &mcp.CallToolRequest{}, input)
	if !errors.Is(err, storage.ErrAdjustmentExists) {
		t.Errorf("expected ErrAdjustmentExists, got %v", err)
	}
}

func TestHandleAdjustPlanFromSessions(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	_, generated, _ := server.handleGeneratePlan(ctx, &mcp.CallToolRequest{}, profileRefInput{})
	plan := generated.(map[string]any)["plan"].(*models.Plan)

	_, out, err := server.handleAdjustPlan(ctx, &mcp.CallToolRequest{}, adjustPlanInput{Plan: plan.ID.String()})
	if err != nil {
		t.Fatalf("adjust_plan failed: %v", err)
	}
	if out.Decision != "decrease" {
		t.Errorf("no sessions last week: Decision = %s, want decrease", out.Decision)
	}
}

func TestHandleAdjustPlanRejectsRating(t *testing.T) {
	server, db := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	_, generated, _ := server.handleGeneratePlan(ctx, &mcp.CallToolRequest{}, profileRefInput{})
	plan := generated.(map[string]any)["plan"].(*models.Plan)

	for _, r := range []float64{-3, 11} {
		input := adjustPlanInput{Plan: plan.ID.String(), WorkoutsCompleted: 9, WorkoutsPlanned: 10, AverageRating: r}
		var ve *engine.ValidationError
		if _, _, err := server.handleAdjustPlan(ctx, &mcp.CallToolRequest{}, input); !errors.As(err, &ve) {
			t.Errorf("rating %v: expected ValidationError, got %v", r, err)
		}
	}

	if adjs, _ := db.ListAdjustments(plan.ID); len(adjs) != 0 {
		t.Errorf("out-of-range ratings were audited: %d adjustments", len(adjs))
	}
}

func TestHandleAdjustPlanRequiresPlan(t *testing.T) {
	server, _ := setupTestServer(t)

	_, _, err := server.handleAdjustPlan(context.Background(), &mcp.CallToolRequest{}, adjustPlanInput{})
	if err == nil || !strings.Contains(err.Error(), "plan is required") {
		t.Errorf("expected plan is required error, got %v", err)
	}
}

func TestHandleLogFood(t *testing.T) {
	server, db := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	banana := models.NewFood("Banana", 89, 1.2, 22.8, 0.3).WithBarcode("4011")
	apple := models.NewFood("Apple", 52, 0.3, 13.8, 0.25)
	for _, f := range []*models.Food{banana, apple} {
		if err := db.CreateFood(f); err != nil {
			t.Fatalf("CreateFood failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		input     logFoodInput
		wantCal   int
		wantCount int
		wantErr   string
	}{
		{"by barcode", logFoodInput{Barcode: "4011", QuantityGrams: 150, Meal: "breakfast", Date: "2026-03-14"}, 134, 1, ""},
		{"by food prefix", logFoodInput{Food: apple.ID.String()[:8], QuantityGrams: 100, Date: "2026-03-14"}, 186, 2, ""},
		{"custom entry", logFoodInput{Name: "Protein shake", Calories: 120, Protein: 24, Date: "2026-03-14"}, 306, 3, ""},
		{"unknown barcode", logFoodInput{Barcode: "0000", QuantityGrams: 100}, 0, 0, "no food with barcode"},
		{"nothing to log", logFoodInput{QuantityGrams: 100}, 0, 0, "custom entry name"},
		{"bad meal", logFoodInput{Name: "Toast", Calories: 80, Meal: "brunch"}, 0, 0, "unknown meal type"},
		{"bad date", logFoodInput{Name: "Toast", Calories: 80, Date: "14/03/2026"}, 0, 0, "invalid date"},
		{"negative quantity", logFoodInput{Food: apple.ID.String(), QuantityGrams: -5}, 0, 0, "quantity_grams"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("log_food failed: %v", err)
			}
			if out.Calories != tt.wantCal || out.EntryCount != tt.wantCount {
				t.Errorf("totals = %d kcal over %d entries, want %d over %d", out.Calories, out.EntryCount, tt.wantCal, tt.wantCount)
			}
			if out.EntryID == "" || out.Date != "2026-03-14" {
				t.Errorf("unexpected output: %+v", out)
			}
		})
	}
}

func TestHandleDeleteFoodEntry(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	_, first, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Name: "Burrito", Calories: 650, Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("log_food failed: %v", err)
	}
	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Name: "Soda", Calories: 140, Date: "2026-03-14"}); err != nil {
		t.Fatalf("log_food failed: %v", err)
	}

	_, out, err := server.handleDeleteFoodEntry(ctx, &mcp.CallToolRequest{}, deleteEntryInput{ID: first.EntryID})
	if err != nil {
		t.Fatalf("delete_food_entry failed: %v", err)
	}
	if out.Calories != 140 || out.EntryCount != 1 {
		t.Errorf("totals after delete = %+v", out)
	}

	_, _, err = server.handleDeleteFoodEntry(ctx, &mcp.CallToolRequest{}, deleteEntryInput{ID: first.EntryID})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestHandleDailyTotals(t *testing.T) {
	server, db := setupTestServer(t)
	created := createProfile(t, server)
	ctx := context.Background()

	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Name: "Burrito", Calories: 650, Date: "2026-03-14"}); err != nil {
		t.Fatalf("log_food failed: %v", err)
	}
	p, _ := db.GetProfile(created.ID)
	if err := db.SaveActivity(&models.ActivityRecord{ProfileID: p.ID, Date: "2026-03-14", Source: models.SourceFitbit, ActiveCalories: 250}); err != nil {
		t.Fatalf("SaveActivity failed: %v", err)
	}

	_, out, err := server.handleDailyTotals(ctx, &mcp.CallToolRequest{}, dailyTotalsInput{Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("daily_totals failed: %v", err)
	}
	day := out.(*service.DaySummary)
	if day.Progress.Totals.TotalCalories != 650 || day.Progress.NetCalories != 400 {
		t.Errorf("progress = %+v", day.Progress)
	}
	if day.Progress.RemainingCalories != 2237-650+250 {
		t.Errorf("RemainingCalories = %d", day.Progress.RemainingCalories)
	}
}

func TestHandleCompleteSession(t *testing.T) {
	server, db := setupTestServer(t)
	created := createProfile(t, server)
	ctx := context.Background()

	_, out, err := server.handleCompleteSession(ctx, &mcp.CallToolRequest{}, completeSessionInput{Rating: 3, Notes: "easy run"})
	if err != nil {
		t.Fatalf("complete_session failed: %v", err)
	}
	if out.TotalWorkouts != 1 || out.StreakDays != 1 || out.Profile != "Alex" {
		t.Errorf("unexpected output: %+v", out)
	}

	ws, err := db.GetSession(out.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !ws.IsCompleted() || *ws.DifficultyRating != 3 || *ws.Notes != "easy run" {
		t.Errorf("stored session = %+v", ws)
	}

	p, _ := db.GetProfile(created.ID)
	if p.TotalWorkouts != 1 {
		t.Errorf("stored TotalWorkouts = %d, want 1", p.TotalWorkouts)
	}
}

func TestHandleCompleteSessionErrors(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	var ve *engine.ValidationError
	if _, _, err := server.handleCompleteSession(ctx, &mcp.CallToolRequest{}, completeSessionInput{Rating: 9}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for rating 9, got %v", err)
	}
	if _, _, err := server.handleCompleteSession(ctx, &mcp.CallToolRequest{}, completeSessionInput{Session: "ffffffff"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleProfilesResource(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)

	result, err := server.handleProfilesResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "fitsync://profiles" {
		t.Errorf("URI = %s, want fitsync://profiles", result.Contents[0].URI)
	}

	var body struct {
		Profiles []profileSummary `json:"profiles"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Count != 1 || body.Profiles[0].Profile.Name != "Alex" || body.Profiles[0].Goal.Calories != 2237 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandleRecentPlansResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleRecentPlansResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"plans": []`) {
		t.Errorf("empty store should list no plans: %s", result.Contents[0].Text)
	}

	createProfile(t, server)
	if _, _, err := server.handleGeneratePlan(ctx, &mcp.CallToolRequest{}, profileRefInput{}); err != nil {
		t.Fatalf("generate_plan failed: %v", err)
	}

	result, err = server.handleRecentPlansResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "fitsync://plans/recent" {
		t.Errorf("URI = %s", result.Contents[0].URI)
	}
	if !strings.Contains(result.Contents[0].Text, "Custom Plan for Alex") {
		t.Error("Expected generated plan in result")
	}
}

func TestHandleNutritionTodayResource(t *testing.T) {
	server, _ := setupTestServer(t)
	createProfile(t, server)
	ctx := context.Background()

	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Name: "Burrito", Calories: 650}); err != nil {
		t.Fatalf("log_food failed: %v", err)
	}
	if _, _, err := server.handleLogFood(ctx, &mcp.CallToolRequest{}, logFoodInput{Name: "Old pizza", Calories: 900, Date: "2020-01-01"}); err != nil {
		t.Fatalf("log_food failed: %v", err)
	}

	result, err := server.handleNutritionTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, "Burrito") {
		t.Error("Expected today's entry in result")
	}
	if strings.Contains(text, "Old pizza") {
		t.Error("Entries from other days should be filtered out")
	}
}

func TestHandleNutritionTodayResourceEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	result, err := server.handleNutritionTodayResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"days": []`) {
		t.Errorf("unexpected body: %s", result.Contents[0].Text)
	}
}
