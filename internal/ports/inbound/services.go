// Package inbound defines the service interfaces exposed to the HTTP layer
package inbound

import (
	"context"

	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/domain/user"
)

// UserService manages user profiles
type UserService interface {
	Register(ctx context.Context, userID string) (*user.Profile, error)
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*user.Profile, error)
	UpdateMedicalConditions(ctx context.Context, userID, conditions string) (*user.Profile, error)
}

// ProfileUpdate carries the mutable profile attributes
type ProfileUpdate struct {
	Weight             int
	Height             int
	Age                int
	Sex                string
	FitnessGoal        string
	DietaryPreferences string
	ActivityLevel      string
}

// HealthReportService runs the document-to-summary pipeline
type HealthReportService interface {
	ProcessDocument(ctx context.Context, userID, fileName, mimeType string, data []byte) (*health.Report, error)
	LatestReport(ctx context.Context, userID string) (*health.Report, error)
}

// MealPlanService runs the retrieval-augmented plan generation pipeline
type MealPlanService interface {
	GeneratePlan(ctx context.Context, userID string) (*mealplan.Draft, error)
	CurrentPlan(ctx context.Context, userID string) (*mealplan.Plan, error)
}
