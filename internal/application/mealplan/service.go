// Package mealplan implements the retrieval-augmented meal plan
// generation pipeline: retrieve grounding recipes, render the prompt,
// complete, sanitize, parse and atomically replace the stored plan.
package mealplan

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/nutricoach/v1/internal/application/prompts"
	"github.com/nutricoach/v1/internal/application/rag"
	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/domain/user"
	"github.com/nutricoach/v1/internal/infrastructure/monitoring"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// Service orchestrates plan generation. Concurrent generations for
// different users run freely; a second generation for the same user
// waits for the first, so the last writer wins instead of the two
// interleaving replace transactions.
type Service struct {
	users       outbound.UserRepository
	reports     outbound.HealthReportRepository
	plans       outbound.MealPlanRepository
	retriever   *rag.Retriever
	completions outbound.CompletionService
	prompts     *prompts.Builder
	parser      *Parser
	temperature float64
	metrics     *monitoring.Metrics
	logger      *zap.Logger

	userLocks sync.Map
}

// NewService creates the meal plan orchestrator
func NewService(
	users outbound.UserRepository,
	reports outbound.HealthReportRepository,
	plans outbound.MealPlanRepository,
	retriever *rag.Retriever,
	completions outbound.CompletionService,
	promptBuilder *prompts.Builder,
	temperature float64,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:       users,
		reports:     reports,
		plans:       plans,
		retriever:   retriever,
		completions: completions,
		prompts:     promptBuilder,
		parser:      NewParser(),
		temperature: temperature,
		metrics:     metrics,
		logger:      logger.Named("mealplan-service"),
	}
}

// GeneratePlan runs the full pipeline for one user and returns the
// draft that was persisted. The user's previous plan, if any, is
// superseded atomically.
func (s *Service) GeneratePlan(ctx context.Context, userID string) (*mealplan.Draft, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	reportText := "None"
	report, err := s.reports.FindLatestByUser(ctx, userID)
	switch {
	case err == nil:
		reportText = report.ReportText
	case stderrors.Is(err, health.ErrReportNotFound):
		// absence is valid; the prompt renders the placeholder
	default:
		return nil, fmt.Errorf("failed to load health report: %w", err)
	}

	docs, err := s.retriever.Retrieve(ctx, retrievalQuery(profile))
	if err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StageRetrieval).Inc()
		return nil, err
	}

	prompt, err := s.prompts.MealPlanPrompt(profile, reportText, rag.BuildContext(docs))
	if err != nil {
		return nil, err
	}

	raw, err := s.completions.Complete(ctx, prompt, s.temperature)
	if err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StageCompletion).Inc()
		return nil, err
	}

	draft, err := s.parser.ParsePlan(Sanitize(raw))
	if err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StageParsing).Inc()
		s.logger.Warn("Discarding uninterpretable completion",
			zap.String("user_id", userID),
			zap.Int("raw_length", len(raw)),
			zap.Error(err))
		return nil, err
	}

	if err := s.plans.Replace(ctx, draft.ToPlan(userID)); err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StagePersist).Inc()
		return nil, fmt.Errorf("failed to store meal plan: %w", err)
	}

	s.metrics.PlansGenerated.Inc()
	s.metrics.PlanDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Generated meal plan",
		zap.String("user_id", userID),
		zap.String("plan_name", draft.Name),
		zap.Duration("elapsed", time.Since(start)))

	return draft, nil
}

// CurrentPlan returns the user's stored plan with its items
func (s *Service) CurrentPlan(ctx context.Context, userID string) (*mealplan.Plan, error) {
	plan, err := s.plans.FindByUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, errors.NewPlanNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	return plan, nil
}

func (s *Service) lockFor(userID string) *sync.Mutex {
	lock, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// retrievalQuery builds the similarity-search query from the parts of
// the profile that discriminate between recipes.
func retrievalQuery(profile *user.Profile) string {
	query := "Recipes for a weekly meal plan with breakfast, lunch, dinner and a snack each day."
	if profile.DietaryPreferences != "" {
		query += " Dietary preferences: " + profile.DietaryPreferences + "."
	}
	if profile.FitnessGoal != "" {
		query += " Fitness goal: " + profile.FitnessGoal + "."
	}
	if profile.MedicalConditions != "" {
		query += " Medical conditions to account for: " + profile.MedicalConditions + "."
	}
	return query
}
