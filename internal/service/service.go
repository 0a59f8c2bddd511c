// ABOUTME: Service orchestrates the engine over a storage Repository.
// ABOUTME: Every mutation that feeds a calculator re-runs it and persists the result.
package service

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// ErrNoProfile is returned when a command needs a profile and none can be chosen.
var ErrNoProfile = errors.New("no profile specified")

// Service runs the personalization flows for a single store.
type Service struct {
	repo storage.Repository
	log  *log.Logger
	now  func() time.Time
}

// New creates a Service. A nil logger discards output.
func New(repo storage.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{repo: repo, log: logger, now: time.Now}
}

// Repository returns the underlying store.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// Profile resolves a profile by ID or prefix. An empty ref picks the only
// profile when exactly one exists.
func (s *Service) Profile(ref string) (*models.Profile, error) {
	if ref != "" {
		return s.repo.GetProfile(ref)
	}

	profiles, err := s.repo.ListProfiles()
	if err != nil {
		return nil, err
	}
	if len(profiles) == 1 {
		return profiles[0], nil
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: create one with 'fitsync profile set'", ErrNoProfile)
	}
	return nil, fmt.Errorf("%w: %d profiles exist, pass --profile", ErrNoProfile, len(profiles))
}

// today returns the current calendar date string.
func (s *Service) today() string {
	return s.now().Format(models.DateLayout)
}
