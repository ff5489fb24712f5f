// Package report implements the document-to-summary pipeline: extract
// text from an uploaded file, summarize it with the model and persist
// the result as the user's latest health report.
package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nutricoach/v1/internal/application/prompts"
	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/infrastructure/monitoring"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// summaryTemperature keeps report summarization near-deterministic,
// which is also what makes caching by document hash worthwhile.
const defaultSummaryTemperature = 0.1

// Service runs the health report pipeline
type Service struct {
	users       outbound.UserRepository
	reports     outbound.HealthReportRepository
	extractor   outbound.TextExtractor
	completions outbound.CompletionService
	cache       outbound.CacheRepository
	prompts     *prompts.Builder
	temperature float64
	cacheTTL    time.Duration
	metrics     *monitoring.Metrics
	logger      *zap.Logger
}

// NewService creates the health report service
func NewService(
	users outbound.UserRepository,
	reports outbound.HealthReportRepository,
	extractor outbound.TextExtractor,
	completions outbound.CompletionService,
	cache outbound.CacheRepository,
	promptBuilder *prompts.Builder,
	temperature float64,
	cacheTTL time.Duration,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Service {
	if temperature == 0 {
		temperature = defaultSummaryTemperature
	}
	return &Service{
		users:       users,
		reports:     reports,
		extractor:   extractor,
		completions: completions,
		cache:       cache,
		prompts:     promptBuilder,
		temperature: temperature,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger.Named("report-service"),
	}
}

// ProcessDocument extracts text from the uploaded document,
// summarizes it and stores the summary as a new report. Re-uploading
// an identical document reuses the cached summary instead of calling
// the model again.
func (s *Service) ProcessDocument(ctx context.Context, userID, fileName, mimeType string, data []byte) (*health.Report, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, errors.NewUserNotFoundError(userID)
	}

	text, err := s.extractor.Extract(ctx, data, fileName, mimeType)
	if err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StageExtraction).Inc()
		return nil, err
	}

	summary, err := s.summarize(ctx, text)
	if err != nil {
		return nil, err
	}

	report := health.NewReport(userID, summary, fileName)
	if err := s.reports.Save(ctx, report); err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StagePersist).Inc()
		return nil, fmt.Errorf("failed to store health report: %w", err)
	}

	s.metrics.ReportsGenerated.Inc()
	s.logger.Info("Generated health report",
		zap.String("user_id", userID),
		zap.String("file_name", fileName),
		zap.Int("summary_length", len(summary)))

	return report, nil
}

// LatestReport returns the user's most recent report
func (s *Service) LatestReport(ctx context.Context, userID string) (*health.Report, error) {
	report, err := s.reports.FindLatestByUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, health.ErrReportNotFound) {
			return nil, errors.NewReportNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to load health report: %w", err)
	}
	return report, nil
}

func (s *Service) summarize(ctx context.Context, text string) (string, error) {
	key := summaryCacheKey(text)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		s.metrics.SummaryCacheHits.Inc()
		return string(cached), nil
	}

	prompt, err := s.prompts.ReportSummaryPrompt(text)
	if err != nil {
		return "", err
	}

	summary, err := s.completions.Complete(ctx, prompt, s.temperature)
	if err != nil {
		s.metrics.PipelineFailures.WithLabelValues(monitoring.StageCompletion).Inc()
		return "", err
	}

	if err := s.cache.Set(ctx, key, []byte(summary), s.cacheTTL); err != nil {
		// A cold cache only costs an extra model call.
		s.logger.Warn("Failed to cache report summary", zap.Error(err))
	}

	return summary, nil
}

func summaryCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "report-summary:" + hex.EncodeToString(sum[:])
}
