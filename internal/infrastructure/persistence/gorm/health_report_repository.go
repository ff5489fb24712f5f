package gorm

import (
	"context"
	"errors"

	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// HealthReportRepository implements the health report repository using GORM
type HealthReportRepository struct {
	db *gorm.DB
}

// NewHealthReportRepository creates a new health report repository
func NewHealthReportRepository(db *gorm.DB) outbound.HealthReportRepository {
	return &HealthReportRepository{db: db}
}

// Save persists a new health report. Reports are immutable, so this is
// insert-only.
func (r *HealthReportRepository) Save(ctx context.Context, report *health.Report) error {
	model := ReportToModel(report)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindLatestByUser returns the most recently created report for a user
func (r *HealthReportRepository) FindLatestByUser(ctx context.Context, userID string) (*health.Report, error) {
	var model HealthReportModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, health.ErrReportNotFound
		}
		return nil, result.Error
	}

	return ModelToReport(&model), nil
}
