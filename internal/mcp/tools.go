// ABOUTME: MCP tool implementations for FitSync.
// ABOUTME: Profiles, plans, adaptive adjustments, food logging and session completion.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_profile",
		Description: "Create or update a fitness profile and return its nutrition goal",
	}, s.handleSetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get a profile with its fitness score and nutrition goal",
	}, s.handleGetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "nutrition_goals",
		Description: "Calculate daily calorie and macro targets for a profile",
	}, s.handleNutritionGoals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_plan",
		Description: "Generate and store a personalized workout plan",
	}, s.handleGeneratePlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get a plan by ID, or the newest plan of a profile",
	}, s.handleGetPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "adjust_plan",
		Description: "Review last week's progress and adjust a plan's difficulty",
	}, s.handleAdjustPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log a food entry and return the day's recomputed totals",
	}, s.handleLogFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_food_entry",
		Description: "Delete a food entry and return the day's recomputed totals",
	}, s.handleDeleteFoodEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_totals",
		Description: "Get a day's food entries, totals, activity and goal progress",
	}, s.handleDailyTotals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_session",
		Description: "Complete a workout session, starting one first when no session is given",
	}, s.handleCompleteSession)
}

// Tool input/output types

type setProfileInput struct {
	ID            string   `json:"id,omitempty" jsonschema:"Profile ID or prefix to update; omit to create"`
	Name          string   `json:"name,omitempty" jsonschema:"Display name, required when creating"`
	WeightKg      float64  `json:"weight_kg,omitempty" jsonschema:"Body weight in kilograms"`
	HeightCm      float64  `json:"height_cm,omitempty" jsonschema:"Height in centimeters"`
	Age           int      `json:"age,omitempty" jsonschema:"Age in years"`
	Sex           string   `json:"sex,omitempty" jsonschema:"male, female or other"`
	FitnessLevel  string   `json:"fitness_level,omitempty" jsonschema:"beginner, intermediate or advanced"`
	Goals         []string `json:"goals,omitempty" jsonschema:"Goals: weight_loss, muscle_gain, endurance, general"`
	ActivityLevel string   `json:"activity_level,omitempty" jsonschema:"sedentary, light, moderate, active or very_active"`
}

type goalOutput struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
	FiberG   int `json:"fiber_g"`
	WaterMl  int `json:"water_ml"`
}

func toGoalOutput(g models.NutritionGoal) goalOutput {
	return goalOutput(g)
}

type profileOutput struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Goal    goalOutput `json:"goal"`
	Message string     `json:"message"`
}

type profileRefInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Profile ID or prefix; omit when only one profile exists"`
}

type profileViewOutput struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	FitnessLevel  string     `json:"fitness_level"`
	Goals         []string   `json:"goals"`
	ActivityLevel string     `json:"activity_level"`
	TotalWorkouts int        `json:"total_workouts"`
	StreakDays    int        `json:"streak_days"`
	FitnessScore  float64    `json:"fitness_score"`
	Goal          goalOutput `json:"goal"`
}

type nutritionGoalsOutput struct {
	Profile      string     `json:"profile"`
	ActiveGoal   string     `json:"active_goal"`
	BMR          float64    `json:"bmr"`
	TDEE         float64    `json:"tdee"`
	ProteinShare float64    `json:"protein_share"`
	CarbsShare   float64    `json:"carbs_share"`
	FatShare     float64    `json:"fat_share"`
	Goal         goalOutput `json:"goal"`
}

type getPlanInput struct {
	Plan    string `json:"plan,omitempty" jsonschema:"Plan ID or prefix"`
	Profile string `json:"profile,omitempty" jsonschema:"Profile ID or prefix, used when plan is omitted"`
}

type adjustPlanInput struct {
	Plan              string  `json:"plan" jsonschema:"Plan ID or prefix"`
	WorkoutsCompleted int     `json:"workouts_completed,omitempty" jsonschema:"Override: workouts completed in the window"`
	WorkoutsPlanned   int     `json:"workouts_planned,omitempty" jsonschema:"Override: workouts planned in the window; set to supply the signal directly"`
	AverageRating     float64 `json:"average_rating,omitempty" jsonschema:"Override: average difficulty rating 1-5"`
}

type adjustOutput struct {
	Plan        string  `json:"plan"`
	Decision    string  `json:"decision"`
	Consistency float64 `json:"consistency"`
	Rating      float64 `json:"rating"`
	WindowStart string  `json:"window_start"`
	WindowEnd   string  `json:"window_end"`
	Message     string  `json:"message"`
}

type logFoodInput struct {
	Profile       string  `json:"profile,omitempty" jsonschema:"Profile ID or prefix"`
	Food          string  `json:"food,omitempty" jsonschema:"Food ID or prefix from the food catalog"`
	Barcode       string  `json:"barcode,omitempty" jsonschema:"Food barcode, used when food is omitted"`
	QuantityGrams float64 `json:"quantity_grams,omitempty" jsonschema:"Grams eaten of the catalog food"`
	Name          string  `json:"name,omitempty" jsonschema:"Custom entry name when no catalog food is given"`
	Calories      float64 `json:"calories,omitempty" jsonschema:"Custom entry calories"`
	Protein       float64 `json:"protein,omitempty" jsonschema:"Custom entry protein grams"`
	Carbs         float64 `json:"carbs,omitempty" jsonschema:"Custom entry carb grams"`
	Fat           float64 `json:"fat,omitempty" jsonschema:"Custom entry fat grams"`
	Meal          string  `json:"meal,omitempty" jsonschema:"breakfast, lunch, dinner or snack (default snack)"`
	Date          string  `json:"date,omitempty" jsonschema:"Date YYYY-MM-DD, defaults to today"`
}

type totalsOutput struct {
	EntryID    string  `json:"entry_id,omitempty"`
	Date       string  `json:"date"`
	Calories   int     `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	EntryCount int     `json:"entry_count"`
	Message    string  `json:"message"`
}

type deleteEntryInput struct {
	ID string `json:"id" jsonschema:"Food entry ID or prefix"`
}

type dailyTotalsInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Profile ID or prefix"`
	Date    string `json:"date,omitempty" jsonschema:"Date YYYY-MM-DD, defaults to today"`
}

type completeSessionInput struct {
	Session        string `json:"session,omitempty" jsonschema:"Session ID or prefix; omit to start and complete one now"`
	Profile        string `json:"profile,omitempty" jsonschema:"Profile ID or prefix, used when starting a session"`
	Plan           string `json:"plan,omitempty" jsonschema:"Plan ID or prefix, used when starting a session"`
	Rating         int    `json:"rating,omitempty" jsonschema:"Difficulty rating 1-5"`
	CaloriesBurned int    `json:"calories_burned,omitempty" jsonschema:"Calories burned"`
	Notes          string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type sessionOutput struct {
	ID            string `json:"id"`
	Profile       string `json:"profile"`
	TotalWorkouts int    `json:"total_workouts"`
	StreakDays    int    `json:"streak_days"`
	Message       string `json:"message"`
}

// Tool handlers

func (s *Server) handleSetProfile(ctx context.Context, req *mcp.CallToolRequest, input setProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	s.log.Debug("tool call", "tool", "set_profile", "id", input.ID, "name", input.Name)

	var p *models.Profile
	if input.ID != "" {
		existing, err := s.svc.Repository().GetProfile(input.ID)
		if err != nil {
			return nil, profileOutput{}, fmt.Errorf("profile not found: %s", input.ID)
		}
		p = existing
	} else {
		if input.Name == "" {
			return nil, profileOutput{}, errors.New("name is required when creating a profile")
		}
		p = models.NewProfile(input.Name)
	}

	if err := applyProfileInput(p, input); err != nil {
		return nil, profileOutput{}, err
	}

	goal, err := s.svc.SaveProfile(p)
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to save profile: %w", err)
	}

	return nil, profileOutput{
		ID:      p.ID.String()[:8],
		Name:    p.Name,
		Goal:    toGoalOutput(goal),
		Message: fmt.Sprintf("Saved profile %s (ID: %s), daily target %d kcal", p.Name, p.ID.String()[:8], goal.Calories),
	}, nil
}

// applyProfileInput copies the fields present in the input onto p.
func applyProfileInput(p *models.Profile, input setProfileInput) error {
	if input.Name != "" {
		p.Name = input.Name
	}
	p.WithBiometrics(input.WeightKg, input.HeightCm, input.Age)
	if input.Sex != "" {
		sex, err := models.ParseSex(input.Sex)
		if err != nil {
			return err
		}
		p.WithSex(sex)
	}
	if input.FitnessLevel != "" {
		level, err := models.ParseFitnessLevel(input.FitnessLevel)
		if err != nil {
			return err
		}
		p.WithLevel(level)
	}
	if input.ActivityLevel != "" {
		activity, err := models.ParseActivityLevel(input.ActivityLevel)
		if err != nil {
			return err
		}
		p.WithActivity(activity)
	}
	if input.Goals != nil {
		goals := make([]models.Goal, 0, len(input.Goals))
		for _, g := range input.Goals {
			goal, err := models.ParseGoal(g)
			if err != nil {
				return err
			}
			goals = append(goals, goal)
		}
		p.WithGoals(goals...)
	}
	return nil
}

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input profileRefInput) (*mcp.CallToolResult, profileViewOutput, error) {
	s.log.Debug("tool call", "tool", "get_profile", "profile", input.Profile)

	p, goal, err := s.svc.NutritionGoals(input.Profile)
	if err != nil {
		return nil, profileViewOutput{}, err
	}

	return nil, profileViewOutput{
		ID:            p.ID.String()[:8],
		Name:          p.Name,
		FitnessLevel:  string(p.LevelLabel()),
		Goals:         p.GoalLabels(),
		ActivityLevel: string(p.Activity()),
		TotalWorkouts: p.TotalWorkouts,
		StreakDays:    p.StreakDays,
		FitnessScore:  engine.Score(*p),
		Goal:          toGoalOutput(goal),
	}, nil
}

func (s *Server) handleNutritionGoals(ctx context.Context, req *mcp.CallToolRequest, input profileRefInput) (*mcp.CallToolResult, nutritionGoalsOutput, error) {
	s.log.Debug("tool call", "tool", "nutrition_goals", "profile", input.Profile)

	p, goal, err := s.svc.NutritionGoals(input.Profile)
	if err != nil {
		return nil, nutritionGoalsOutput{}, err
	}

	split := engine.MacroSplitFor(*p)
	return nil, nutritionGoalsOutput{
		Profile:      p.Name,
		ActiveGoal:   string(engine.ActiveGoal(*p)),
		BMR:          engine.BMR(*p),
		TDEE:         engine.TDEE(*p),
		ProteinShare: split.Protein,
		CarbsShare:   split.Carbs,
		FatShare:     split.Fat,
		Goal:         toGoalOutput(goal),
	}, nil
}

func (s *Server) handleGeneratePlan(ctx context.Context, req *mcp.CallToolRequest, input profileRefInput) (*mcp.CallToolResult, any, error) {
	s.log.Debug("tool call", "tool", "generate_plan", "profile", input.Profile)

	plan, err := s.svc.GeneratePlan(input.Profile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	return nil, map[string]any{
		"plan":    plan,
		"message": fmt.Sprintf("Generated %s (ID: %s) with %d exercises", plan.Name, plan.ID.String()[:8], len(plan.Exercises)),
	}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getPlanInput) (*mcp.CallToolResult, any, error) {
	s.log.Debug("tool call", "tool", "get_plan", "plan", input.Plan, "profile", input.Profile)

	var plan *models.Plan
	var err error
	if input.Plan != "" {
		plan, err = s.svc.Repository().GetPlan(input.Plan)
	} else {
		plan, err = s.svc.LatestPlan(input.Profile)
	}
	if err != nil {
		return nil, nil, err
	}

	adjustments, err := s.svc.Repository().ListAdjustments(plan.ID)
	if err != nil {
		return nil, nil, err
	}

	return nil, map[string]any{
		"plan":        plan,
		"adjustments": adjustments,
	}, nil
}

func (s *Server) handleAdjustPlan(ctx context.Context, req *mcp.CallToolRequest, input adjustPlanInput) (*mcp.CallToolResult, adjustOutput, error) {
	s.log.Debug("tool call", "tool", "adjust_plan", "plan", input.Plan, "planned", input.WorkoutsPlanned)

	if input.Plan == "" {
		return nil, adjustOutput{}, errors.New("plan is required")
	}

	var res *service.AdjustResult
	var err error
	if input.WorkoutsPlanned > 0 {
		sig := models.ProgressSignal{
			WorkoutsCompleted: input.WorkoutsCompleted,
			WorkoutsPlanned:   input.WorkoutsPlanned,
		}
		if input.AverageRating != 0 {
			rating := input.AverageRating
			sig.AverageDifficultyRating = &rating
		}
		res, err = s.svc.AdjustPlanWithSignal(input.Plan, sig)
	} else {
		res, err = s.svc.AdjustPlan(input.Plan)
	}
	if err != nil {
		return nil, adjustOutput{}, err
	}

	return nil, adjustOutput{
		Plan:        res.Plan.ID.String()[:8],
		Decision:    string(res.Decision.Kind),
		Consistency: res.Decision.Consistency,
		Rating:      res.Decision.Rating,
		WindowStart: res.Adjustment.WindowStart,
		WindowEnd:   res.Adjustment.WindowEnd,
		Message:     res.Decision.Rationale,
	}, nil
}

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, totalsOutput, error) {
	s.log.Debug("tool call", "tool", "log_food", "food", input.Food, "barcode", input.Barcode, "name", input.Name)

	p, err := s.svc.Profile(input.Profile)
	if err != nil {
		return nil, totalsOutput{}, err
	}

	meal := models.MealSnack
	if input.Meal != "" {
		meal, err = models.ParseMealType(input.Meal)
		if err != nil {
			return nil, totalsOutput{}, err
		}
	}

	date := time.Now()
	if input.Date != "" {
		date, err = time.Parse(models.DateLayout, input.Date)
		if err != nil {
			return nil, totalsOutput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", input.Date)
		}
	}

	var entry *models.FoodEntry
	switch {
	case input.Food != "" || input.Barcode != "":
		food, err := s.lookupFood(input.Food, input.Barcode)
		if err != nil {
			return nil, totalsOutput{}, err
		}
		entry = models.NewFoodEntry(p.ID, date, meal, food, input.QuantityGrams)
	case input.Name != "":
		entry = models.NewCustomFoodEntry(p.ID, date, meal, models.CustomNutrients{
			Name:     input.Name,
			Calories: input.Calories,
			Protein:  input.Protein,
			Carbs:    input.Carbs,
			Fat:      input.Fat,
		})
	default:
		return nil, totalsOutput{}, errors.New("give a food, a barcode, or a custom entry name")
	}

	totals, err := s.svc.LogFood(entry)
	if err != nil {
		return nil, totalsOutput{}, fmt.Errorf("failed to log food: %w", err)
	}

	out := toTotalsOutput(totals)
	out.EntryID = entry.ID.String()[:8]
	out.Message = fmt.Sprintf("Logged %s for %s (ID: %s), day total %d kcal", entry.DisplayName(), meal, out.EntryID, totals.TotalCalories)
	return nil, out, nil
}

func (s *Server) lookupFood(ref, barcode string) (*models.Food, error) {
	if ref != "" {
		food, err := s.svc.Repository().GetFood(ref)
		if err != nil {
			return nil, fmt.Errorf("food not found: %s", ref)
		}
		return food, nil
	}
	food, err := s.svc.Repository().GetFoodByBarcode(barcode)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no food with barcode %s", barcode)
	}
	return food, err
}

func toTotalsOutput(t *models.DailyNutritionTotals) totalsOutput {
	return totalsOutput{
		Date:       t.Date,
		Calories:   t.TotalCalories,
		Protein:    t.TotalProtein,
		Carbs:      t.TotalCarbs,
		Fat:        t.TotalFat,
		EntryCount: t.EntryCount,
	}
}

func (s *Server) handleDeleteFoodEntry(ctx context.Context, req *mcp.CallToolRequest, input deleteEntryInput) (*mcp.CallToolResult, totalsOutput, error) {
	s.log.Debug("tool call", "tool", "delete_food_entry", "id", input.ID)

	totals, err := s.svc.DeleteEntry(input.ID)
	if err != nil {
		return nil, totalsOutput{}, fmt.Errorf("failed to delete food entry: %w", err)
	}

	out := toTotalsOutput(totals)
	out.Message = fmt.Sprintf("Deleted food entry: %s", input.ID)
	return nil, out, nil
}

func (s *Server) handleDailyTotals(ctx context.Context, req *mcp.CallToolRequest, input dailyTotalsInput) (*mcp.CallToolResult, any, error) {
	s.log.Debug("tool call", "tool", "daily_totals", "profile", input.Profile, "date", input.Date)

	day, err := s.svc.Day(input.Profile, input.Date)
	if err != nil {
		return nil, nil, err
	}
	return nil, day, nil
}

func (s *Server) handleCompleteSession(ctx context.Context, req *mcp.CallToolRequest, input completeSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.log.Debug("tool call", "tool", "complete_session", "session", input.Session, "rating", input.Rating)

	ref := input.Session
	if ref == "" {
		ws, err := s.svc.StartSession(input.Profile, input.Plan)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("failed to start session: %w", err)
		}
		ref = ws.ID.String()
	}

	ws, p, err := s.svc.CompleteSession(ref, service.CompleteOptions{
		Rating:         input.Rating,
		CaloriesBurned: input.CaloriesBurned,
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, sessionOutput{}, err
	}

	return nil, sessionOutput{
		ID:            ws.ID.String()[:8],
		Profile:       p.Name,
		TotalWorkouts: p.TotalWorkouts,
		StreakDays:    p.StreakDays,
		Message:       fmt.Sprintf("Completed session %s: %d workouts, %d day streak", ws.ID.String()[:8], p.TotalWorkouts, p.StreakDays),
	}, nil
}
