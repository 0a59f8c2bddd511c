// ABOUTME: Workout session, activity record and adjustment operations for Charm KV storage.
// ABOUTME: Activity and adjustments use composite keys so upserts and uniqueness need no index.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// CreateSession stores a new workout session.
func (c *Client) CreateSession(s *models.WorkoutSession) error {
	return c.put(SessionPrefix+s.ID.String(), s)
}

// GetSession retrieves a session by ID or ID prefix.
func (c *Client) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	data, err := c.getByIDPrefix(SessionPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s, err := unmarshalJSON[models.WorkoutSession](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

// UpdateSession overwrites a stored session.
func (c *Client) UpdateSession(s *models.WorkoutSession) error {
	key := SessionPrefix + s.ID.String()
	ok, err := c.exists(key)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !ok {
		return fmt.Errorf("update session: %w: %s", storage.ErrNotFound, s.ID)
	}
	return c.put(key, s)
}

// ListSessions returns a profile's sessions started in [from, to), oldest first.
// A zero bound is open.
func (c *Client) ListSessions(profileID uuid.UUID, from, to time.Time) ([]*models.WorkoutSession, error) {
	all, err := c.allSessions()
	if err != nil {
		return nil, err
	}

	var sessions []*models.WorkoutSession
	for _, s := range all {
		if s.ProfileID == profileID && inWindow(s.StartedAt, from, to) {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (c *Client) allSessions() ([]*models.WorkoutSession, error) {
	values, err := c.listByPrefix(SessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := decodeAll[models.WorkoutSession](values)
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].ID.String() < sessions[j].ID.String()
	})
	return sessions, nil
}

// inWindow reports whether t lies in [from, to), treating zero bounds as open.
func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// SaveActivity upserts the activity record for (profile, date, source).
func (c *Client) SaveActivity(a *models.ActivityRecord) error {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now()
	}
	return c.put(activityKey(a), a)
}

// ListActivity returns a profile's activity records for one date, by source.
func (c *Client) ListActivity(profileID uuid.UUID, date string) ([]*models.ActivityRecord, error) {
	values, err := c.listByPrefix(compositeKey(ActivityPrefix, profileID.String(), date, ""))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	records := decodeAll[models.ActivityRecord](values)
	sortActivity(records)
	return records, nil
}

func sortActivity(records []*models.ActivityRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Source < records[j].Source
	})
}

func activityKey(a *models.ActivityRecord) string {
	return compositeKey(ActivityPrefix, a.ProfileID.String(), a.Date, string(a.Source))
}

// RecordAdjustment stores an adjustment. A second adjustment for the same
// plan and window start returns ErrAdjustmentExists.
func (c *Client) RecordAdjustment(a *models.Adjustment) error {
	exists, err := c.HasAdjustment(a.PlanID, a.WindowStart)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("plan %s window %s: %w", a.PlanID, a.WindowStart, storage.ErrAdjustmentExists)
	}
	return c.put(adjustmentKey(a.PlanID, a.WindowStart), a)
}

// HasAdjustment reports whether a plan already has an adjustment for a window.
func (c *Client) HasAdjustment(planID uuid.UUID, windowStart string) (bool, error) {
	ok, err := c.exists(adjustmentKey(planID, windowStart))
	if err != nil {
		return false, fmt.Errorf("check adjustment: %w", err)
	}
	return ok, nil
}

// ListAdjustments returns a plan's adjustment history, oldest window first.
func (c *Client) ListAdjustments(planID uuid.UUID) ([]*models.Adjustment, error) {
	values, err := c.listByPrefix(compositeKey(AdjustmentPrefix, planID.String(), ""))
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	adjustments := decodeAll[models.Adjustment](values)
	sortAdjustments(adjustments)
	return adjustments, nil
}

func sortAdjustments(adjustments []*models.Adjustment) {
	sort.Slice(adjustments, func(i, j int) bool {
		if adjustments[i].WindowStart != adjustments[j].WindowStart {
			return adjustments[i].WindowStart < adjustments[j].WindowStart
		}
		return adjustments[i].PlanID.String() < adjustments[j].PlanID.String()
	})
}

func adjustmentKey(planID uuid.UUID, windowStart string) string {
	return compositeKey(AdjustmentPrefix, planID.String(), windowStart)
}
