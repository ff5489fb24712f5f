// Package outbound defines the interfaces for external collaborators
// consumed by the application core (persistence, caching, AI services).
package outbound

import (
	"context"
	"time"

	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/domain/user"
)

// UserRepository handles user profile persistence
type UserRepository interface {
	Create(ctx context.Context, profile *user.Profile) error
	Update(ctx context.Context, profile *user.Profile) error
	FindByID(ctx context.Context, id string) (*user.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// HealthReportRepository handles health report persistence
type HealthReportRepository interface {
	Save(ctx context.Context, report *health.Report) error
	// FindLatestByUser returns the most recently created report for the
	// user, or health.ErrReportNotFound when none exists.
	FindLatestByUser(ctx context.Context, userID string) (*health.Report, error)
}

// MealPlanRepository handles meal plan persistence
type MealPlanRepository interface {
	// Replace atomically supersedes the user's existing plan: the old
	// plan and its items are deleted and the new plan inserted within a
	// single transaction, so a crash can never leave the user planless.
	Replace(ctx context.Context, plan *mealplan.Plan) error
	// FindByUser returns the user's plan with its items loaded, or
	// mealplan.ErrPlanNotFound when none exists.
	FindByUser(ctx context.Context, userID string) (*mealplan.Plan, error)
	Exists(ctx context.Context, planID uint) (bool, error)
}

// CacheRepository handles caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
