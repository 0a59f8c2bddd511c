// ABOUTME: Workout session and activity record flows.
// ABOUTME: Completing a session updates the profile's workout count and streak.
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// StartSession opens a workout session for a profile, linked to a plan when planRef is set.
func (s *Service) StartSession(profileRef, planRef string) (*models.WorkoutSession, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, err
	}

	ws := models.NewWorkoutSession(p.ID).WithStartedAt(s.now())
	if planRef != "" {
		plan, err := s.repo.GetPlan(planRef)
		if err != nil {
			return nil, err
		}
		ws.ForPlan(plan.ID)
	}
	if err := s.repo.CreateSession(ws); err != nil {
		return nil, err
	}

	s.log.Info("session started", "profile", p.Name, "session", ws.ID.String()[:8])
	return ws, nil
}

// CompleteOptions are the optional details recorded when a session ends.
type CompleteOptions struct {
	Rating         int
	CaloriesBurned int
	Notes          string
}

// CompleteSession finishes a session now and updates the owner's workout
// count and streak. Ratings outside 1-5 are rejected.
func (s *Service) CompleteSession(sessionRef string, opts CompleteOptions) (*models.WorkoutSession, *models.Profile, error) {
	if opts.Rating != 0 && (opts.Rating < 1 || opts.Rating > 5) {
		return nil, nil, &engine.ValidationError{Field: "difficulty_rating", Reason: "must be between 1 and 5"}
	}

	ws, err := s.repo.GetSession(sessionRef)
	if err != nil {
		return nil, nil, err
	}
	if ws.IsCompleted() {
		return nil, nil, fmt.Errorf("session %s already completed", ws.ID.String()[:8])
	}

	ws.Complete(s.now(), opts.Rating)
	if opts.CaloriesBurned > 0 {
		calories := opts.CaloriesBurned
		ws.CaloriesBurned = &calories
	}
	if opts.Notes != "" {
		ws.WithNotes(opts.Notes)
	}
	if err := s.repo.UpdateSession(ws); err != nil {
		return nil, nil, err
	}

	p, err := s.repo.GetProfile(ws.ProfileID.String())
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.repo.ListSessions(p.ID, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	p.WithHistory(p.Workouts()+1, Streak(sessions, s.now()))
	p.UpdatedAt = s.now()
	if err := s.repo.SaveProfile(p); err != nil {
		return nil, nil, err
	}

	s.log.Info("session completed", "profile", p.Name, "workouts", p.TotalWorkouts, "streak", p.StreakDays)
	return ws, p, nil
}

// Streak counts consecutive calendar days with a completed session, ending
// on today's date or, when today has none yet, yesterday's.
func Streak(sessions []*models.WorkoutSession, today time.Time) int {
	days := make(map[string]bool)
	for _, ws := range sessions {
		if ws.IsCompleted() {
			days[ws.CompletedAt.In(today.Location()).Format(models.DateLayout)] = true
		}
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, today.Location())
	if !days[day.Format(models.DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format(models.DateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Sessions lists a profile's sessions started in the last days days.
func (s *Service) Sessions(profileRef string, days int) ([]*models.WorkoutSession, error) {
	p, err := s.Profile(profileRef)
	if err != nil {
		return nil, err
	}
	var from time.Time
	if days > 0 {
		from = s.now().AddDate(0, 0, -days)
	}
	return s.repo.ListSessions(p.ID, from, time.Time{})
}

// RecordActivity upserts a wearable or manual activity day for a profile.
func (s *Service) RecordActivity(profileID uuid.UUID, a *models.ActivityRecord) error {
	if _, err := models.ParseActivitySource(string(a.Source)); err != nil {
		return &engine.ValidationError{Field: "source", Reason: err.Error()}
	}
	if _, err := time.Parse(models.DateLayout, a.Date); err != nil {
		return &engine.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if a.Steps < 0 || a.ActiveCalories < 0 || a.ActiveMinutes < 0 || a.DistanceKm < 0 {
		return &engine.ValidationError{Field: "activity", Reason: "values must not be negative"}
	}

	a.ProfileID = profileID
	a.UpdatedAt = s.now()
	if err := s.repo.SaveActivity(a); err != nil {
		return err
	}
	s.log.Info("activity recorded", "date", a.Date, "source", a.Source, "active_calories", a.ActiveCalories)
	return nil
}
