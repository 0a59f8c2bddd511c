// ABOUTME: Profile and exercise catalog operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys and client-side sorting.
package charm

import (
	"fmt"
	"sort"

	"github.com/stevenrego/FitSync-Pro/internal/models"
)

// SaveProfile inserts or replaces a profile.
func (c *Client) SaveProfile(p *models.Profile) error {
	return c.put(ProfilePrefix+p.ID.String(), p)
}

// GetProfile retrieves a profile by ID or ID prefix.
func (c *Client) GetProfile(idOrPrefix string) (*models.Profile, error) {
	data, err := c.getByIDPrefix(ProfilePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p, err := unmarshalJSON[models.Profile](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns all profiles, oldest first.
func (c *Client) ListProfiles() ([]*models.Profile, error) {
	values, err := c.listByPrefix(ProfilePrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := decodeAll[models.Profile](values)
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// CreateExercise adds an exercise to the catalog. Names are unique.
func (c *Client) CreateExercise(e *models.Exercise) error {
	existing, err := c.ListExercises()
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	for _, have := range existing {
		if have.Name == e.Name {
			return fmt.Errorf("create exercise: %q already exists", e.Name)
		}
	}
	return c.put(ExercisePrefix+e.ID.String(), e)
}

// ListExercises returns the catalog ordered by name.
func (c *Client) ListExercises() ([]*models.Exercise, error) {
	values, err := c.listByPrefix(ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	exercises := decodeAll[models.Exercise](values)
	sort.Slice(exercises, func(i, j int) bool {
		return exercises[i].Name < exercises[j].Name
	})
	return exercises, nil
}
