// ABOUTME: Plan CRUD operations for Charm KV storage.
// ABOUTME: Plans are stored whole with their prescriptions embedded.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// CreatePlan stores a plan with its prescriptions.
func (c *Client) CreatePlan(p *models.Plan) error {
	p.WithExercises(p.Exercises)
	sortPrescriptions(p.Exercises)
	return c.put(PlanPrefix+p.ID.String(), p)
}

// GetPlan retrieves a plan by ID or ID prefix.
func (c *Client) GetPlan(idOrPrefix string) (*models.Plan, error) {
	data, err := c.getByIDPrefix(PlanPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	p, err := unmarshalJSON[models.Plan](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return p, nil
}

// ListPlans returns plans newest first, optionally for one profile.
func (c *Client) ListPlans(profileID *uuid.UUID, limit int) ([]*models.Plan, error) {
	values, err := c.listByPrefix(PlanPrefix)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	var plans []*models.Plan
	for _, p := range decodeAll[models.Plan](values) {
		if profileID != nil && p.ProfileID != *profileID {
			continue
		}
		plans = append(plans, p)
	}
	sortPlans(plans)

	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}

// UpdatePrescriptions replaces a plan's prescriptions and bumps its UpdatedAt.
func (c *Client) UpdatePrescriptions(planID uuid.UUID, rx []models.ExercisePrescription) error {
	p, err := c.GetPlan(planID.String())
	if err != nil {
		return fmt.Errorf("update prescriptions: %w", err)
	}
	p.WithExercises(rx)
	sortPrescriptions(p.Exercises)
	p.UpdatedAt = time.Now()
	return c.put(PlanPrefix+p.ID.String(), p)
}

// DeletePlan removes a plan and its adjustment history.
func (c *Client) DeletePlan(idOrPrefix string) error {
	p, err := c.GetPlan(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	adjustments, err := c.keysByPrefix(compositeKey(AdjustmentPrefix, p.ID.String(), ""))
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if err := c.deleteKeys(append(adjustments, PlanPrefix+p.ID.String())...); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// sortPlans orders plans newest first, ties broken by ID.
func sortPlans(plans []*models.Plan) {
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID.String() < plans[j].ID.String()
	})
}

func sortPrescriptions(rx []models.ExercisePrescription) {
	sort.SliceStable(rx, func(i, j int) bool {
		return rx[i].OrderIndex < rx[j].OrderIndex
	})
}
