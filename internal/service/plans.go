// ABOUTME: Plan generation and adaptive difficulty flows.
// ABOUTME: Adjustments are audited once per plan and review window.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ReviewWindow is the length of one difficulty review.
const ReviewWindow = 7 * 24 * time.Hour

// DefaultRegenerateLimit bounds concurrent plan generation in RegenerateAll.
const DefaultRegenerateLimit = 4

// GeneratePlan scores a profile, shapes the plan, prescribes the catalog
// candidates and stores the result.
func (s *Service) GeneratePlan(profileRef string) (*models.Plan, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, err
	}
	return s.generateFor(p)
}

func (s *Service) generateFor(p *models.Profile) (*models.Plan, error) {
	catalog, err := s.repo.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	exercises := make([]models.Exercise, len(catalog))
	for i, e := range catalog {
		exercises[i] = *e
	}

	score := engine.Score(*p)
	structure := engine.Structure(*p, score)
	s.log.Debug("plan inputs", "profile", p.Name, "score", score, "goal", engine.ActiveGoal(*p), "catalog", len(exercises))

	rx, err := engine.Prescribe(engine.SelectCandidates(exercises, structure), *p)
	if err != nil {
		return nil, fmt.Errorf("prescribe: %w", err)
	}

	plan := models.NewPlan(*p, structure, score).WithExercises(rx)
	plan.CreatedAt, plan.UpdatedAt = s.now(), s.now()
	if err := s.repo.CreatePlan(plan); err != nil {
		return nil, err
	}

	s.log.Info("plan generated",
		"profile", p.Name,
		"plan", plan.ID.String()[:8],
		"weeks", structure.DurationWeeks,
		"workouts_per_week", structure.WorkoutsPerWeek,
		"exercises", len(rx))
	return plan, nil
}

// RegenerateAll generates a fresh plan for every profile, at most limit at a time.
// Plans are returned in profile order.
func (s *Service) RegenerateAll(ctx context.Context, limit int) ([]*models.Plan, error) {
	profiles, err := s.repo.ListProfiles()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRegenerateLimit
	}

	plans := make([]*models.Plan, len(profiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range profiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := s.generateFor(p)
			if err != nil {
				return fmt.Errorf("profile %s: %w", p.Name, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// LatestPlan returns the newest plan of a profile.
func (s *Service) LatestPlan(profileRef string) (*models.Plan, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, err
	}
	plans, err := s.repo.ListPlans(&p.ID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("profile %s has no plan: %w", p.Name, storage.ErrNotFound)
	}
	return plans[0], nil
}

// AdjustResult is the outcome of one difficulty review.
type AdjustResult struct {
	Plan       *models.Plan       `json:"plan"`
	Decision   engine.Decision    `json:"decision"`
	Adjustment *models.Adjustment `json:"adjustment"`
}

// WeekWindow returns the completed Monday-to-Monday week before t, in UTC.
func WeekWindow(t time.Time) (start, end time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	end = day.AddDate(0, 0, -offset)
	return end.Add(-ReviewWindow), end
}

// Signal builds the progress signal for a plan from the sessions started in [start, end).
// Sessions linked to another plan are ignored.
func (s *Service) Signal(plan *models.Plan, start, end time.Time) (models.ProgressSignal, error) {
	sessions, err := s.repo.ListSessions(plan.ProfileID, start, end)
	if err != nil {
		return models.ProgressSignal{}, err
	}

	weeks := int(end.Sub(start) / ReviewWindow)
	sig := models.ProgressSignal{WorkoutsPlanned: plan.Structure.WorkoutsPerWeek * max(1, weeks)}
	var ratingSum, rated int
	for _, ws := range sessions {
		if !ws.IsCompleted() || (ws.PlanID != nil && *ws.PlanID != plan.ID) {
			continue
		}
		sig.WorkoutsCompleted++
		if ws.DifficultyRating != nil {
			ratingSum += *ws.DifficultyRating
			rated++
		}
	}
	if rated > 0 {
		avg := float64(ratingSum) / float64(rated)
		sig.AverageDifficultyRating = &avg
	}
	return sig, nil
}

// AdjustPlan reviews the week before now for a plan, building the signal from its sessions.
func (s *Service) AdjustPlan(planRef string) (*AdjustResult, error) {
	plan, err := s.repo.GetPlan(planRef)
	if err != nil {
		return nil, err
	}
	start, end := WeekWindow(s.now())
	sig, err := s.Signal(plan, start, end)
	if err != nil {
		return nil, err
	}
	return s.applyAdjustment(plan, sig, start, end)
}

// AdjustPlanWithSignal reviews a plan against a caller-supplied signal for the week before now.
// Ratings outside 1-5 and negative counts are rejected.
func (s *Service) AdjustPlanWithSignal(planRef string, sig models.ProgressSignal) (*AdjustResult, error) {
	if !sig.RatingInRange() {
		return nil, &engine.ValidationError{Field: "average_difficulty_rating", Reason: "must be between 1 and 5"}
	}
	if sig.WorkoutsCompleted < 0 || sig.WorkoutsPlanned < 0 {
		return nil, &engine.ValidationError{Field: "workouts", Reason: "counts must not be negative"}
	}
	plan, err := s.repo.GetPlan(planRef)
	if err != nil {
		return nil, err
	}
	start, end := WeekWindow(s.now())
	return s.applyAdjustment(plan, sig, start, end)
}

func (s *Service) applyAdjustment(plan *models.Plan, sig models.ProgressSignal, start, end time.Time) (*AdjustResult, error) {
	windowStart := start.Format(models.DateLayout)
	exists, err := s.repo.HasAdjustment(plan.ID, windowStart)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("plan %s window %s: %w", plan.ID.String()[:8], windowStart, storage.ErrAdjustmentExists)
	}

	d := engine.Decide(sig)
	s.log.Debug("adjustment inputs", "plan", plan.ID.String()[:8], "completed", sig.WorkoutsCompleted,
		"planned", sig.WorkoutsPlanned, "rating", sig.Rating())

	if d.ShouldAdjust() {
		plan.Exercises = engine.Apply(d, plan.Exercises)
		if err := s.repo.UpdatePrescriptions(plan.ID, plan.Exercises); err != nil {
			return nil, err
		}
	}

	adj := &models.Adjustment{
		ID:          uuid.New(),
		PlanID:      plan.ID,
		WindowStart: windowStart,
		WindowEnd:   end.Format(models.DateLayout),
		Decision:    d.Kind,
		Rationale:   d.Rationale,
		Signal:      sig,
		AppliedAt:   s.now(),
	}
	if err := s.repo.RecordAdjustment(adj); err != nil {
		return nil, err
	}

	s.log.Info("adjustment applied", "plan", plan.ID.String()[:8], "decision", d.Kind,
		"consistency", d.Consistency, "window", windowStart)
	return &AdjustResult{Plan: plan, Decision: d, Adjustment: adj}, nil
}

// RunWeeklyAdjustments reviews the newest plan of every profile for the week
// before now. Plans already reviewed for that week are skipped.
func (s *Service) RunWeeklyAdjustments(ctx context.Context) ([]*AdjustResult, error) {
	profiles, err := s.repo.ListProfiles()
	if err != nil {
		return nil, err
	}

	var results []*AdjustResult
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		plans, err := s.repo.ListPlans(&p.ID, 1)
		if err != nil {
			return results, err
		}
		if len(plans) == 0 {
			continue
		}

		res, err := s.AdjustPlan(plans[0].ID.String())
		if errors.Is(err, storage.ErrAdjustmentExists) {
			s.log.Warn("adjustment already applied", "profile", p.Name, "plan", plans[0].ID.String()[:8])
			continue
		}
		if err != nil {
			return results, fmt.Errorf("adjust plan for %s: %w", p.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
