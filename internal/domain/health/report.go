// Package health contains the health report domain model
package health

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Report is an AI-generated summary of an uploaded health document.
// Reports are immutable once created; downstream flows consume only
// the most recent one per user.
type Report struct {
	ID         uuid.UUID
	UserID     string
	ReportText string
	FileName   string
	CreatedAt  time.Time
}

var ErrReportNotFound = errors.New("health report not found")

// NewReport creates a report for the given user
func NewReport(userID, reportText, fileName string) *Report {
	return &Report{
		ID:         uuid.New(),
		UserID:     userID,
		ReportText: reportText,
		FileName:   fileName,
		CreatedAt:  time.Now(),
	}
}
