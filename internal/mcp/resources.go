// ABOUTME: MCP resource implementations for FitSync.
// ABOUTME: Provides fitsync://profiles, fitsync://plans/recent and fitsync://nutrition/today.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stevenrego/FitSync-Pro/internal/engine"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/service"
)

const (
	profilesURI       = "fitsync://profiles"
	recentPlansURI    = "fitsync://plans/recent"
	nutritionTodayURI = "fitsync://nutrition/today"

	recentPlanLimit = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         profilesURI,
		Name:        "Profiles",
		Description: "Every profile with its fitness score and nutrition goal",
		MIMEType:    "application/json",
	}, s.handleProfilesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentPlansURI,
		Name:        "Recent Plans",
		Description: "The 10 most recently generated plans",
		MIMEType:    "application/json",
	}, s.handleRecentPlansResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         nutritionTodayURI,
		Name:        "Today's Nutrition",
		Description: "Today's totals, activity and goal progress for every profile",
		MIMEType:    "application/json",
	}, s.handleNutritionTodayResource)
}

type profileSummary struct {
	Profile      *models.Profile      `json:"profile"`
	FitnessScore float64              `json:"fitness_score"`
	Goal         models.NutritionGoal `json:"goal"`
}

func (s *Server) handleProfilesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.log.Debug("resource read", "uri", profilesURI)

	profiles, err := s.svc.Repository().ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	summaries := make([]profileSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, profileSummary{
			Profile:      p,
			FitnessScore: engine.Score(*p),
			Goal:         engine.Goals(*p),
		})
	}

	return jsonResource(profilesURI, map[string]any{
		"profiles": summaries,
		"count":    len(summaries),
	})
}

func (s *Server) handleRecentPlansResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.log.Debug("resource read", "uri", recentPlansURI)

	plans, err := s.svc.Repository().ListPlans(nil, recentPlanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	if plans == nil {
		plans = []*models.Plan{}
	}

	return jsonResource(recentPlansURI, map[string]any{
		"plans": plans,
		"count": len(plans),
	})
}

func (s *Server) handleNutritionTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.log.Debug("resource read", "uri", nutritionTodayURI)

	profiles, err := s.svc.Repository().ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	days := make([]*service.DaySummary, 0, len(profiles))
	for _, p := range profiles {
		day, err := s.svc.Day(p.ID.String(), "")
		if err != nil {
			return nil, fmt.Errorf("nutrition for %s: %w", p.Name, err)
		}
		days = append(days, day)
	}

	return jsonResource(nutritionTodayURI, map[string]any{
		"date": time.Now().Format(models.DateLayout),
		"days": days,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
