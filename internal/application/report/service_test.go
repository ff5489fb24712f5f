package report

import (
	"context"
	"testing"
	"time"

	"github.com/nutricoach/v1/internal/application/prompts"
	"github.com/nutricoach/v1/internal/domain/user"
	"github.com/nutricoach/v1/internal/infrastructure/monitoring"
	gormrepo "github.com/nutricoach/v1/internal/infrastructure/persistence/gorm"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/memory"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/sqlite"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"github.com/nutricoach/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	args := m.Called(ctx, data, fileName, mimeType)
	return args.String(0), args.Error(1)
}

type mockCompletion struct {
	mock.Mock
}

func (m *mockCompletion) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

type fixture struct {
	service    *Service
	users      outbound.UserRepository
	reports    outbound.HealthReportRepository
	extractor  *mockExtractor
	completion *mockCompletion
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.SetupDatabase("", gormlogger.Silent)
	require.NoError(t, err)

	f := &fixture{
		users:      gormrepo.NewUserRepository(db),
		reports:    gormrepo.NewHealthReportRepository(db),
		extractor:  new(mockExtractor),
		completion: new(mockCompletion),
	}
	f.service = NewService(
		f.users, f.reports, f.extractor, f.completion,
		memory.NewCacheRepository(), prompts.NewBuilder(),
		0.1, time.Hour, monitoring.NewMetrics(), zaptest.NewLogger(t),
	)
	return f
}

func (f *fixture) seedUser(t *testing.T, id string) {
	t.Helper()
	profile, err := user.NewProfile(id)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), profile))
}

func TestProcessDocumentStoresSummary(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1")

	data := []byte("raw pdf bytes")
	f.extractor.On("Extract", mock.Anything, data, "labs.pdf", "application/pdf").
		Return("hemoglobin 10.2 g/dL", nil)
	f.completion.On("Complete", mock.Anything, mock.Anything, 0.1).
		Return("Low hemoglobin consistent with mild anemia.", nil)

	report, err := f.service.ProcessDocument(context.Background(), "user-1", "labs.pdf", "application/pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "Low hemoglobin consistent with mild anemia.", report.ReportText)
	assert.Equal(t, "labs.pdf", report.FileName)

	latest, err := f.service.LatestReport(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, report.ID, latest.ID)
}

func TestProcessDocumentUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ProcessDocument(context.Background(), "ghost", "labs.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUserNotFound))
	f.extractor.AssertNotCalled(t, "Extract")
}

func TestProcessDocumentReusesCachedSummary(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1")

	data := []byte("same document")
	f.extractor.On("Extract", mock.Anything, data, "labs.pdf", "application/pdf").
		Return("identical extracted text", nil).Twice()
	f.completion.On("Complete", mock.Anything, mock.Anything, 0.1).
		Return("Summary of the findings.", nil).Once()

	_, err := f.service.ProcessDocument(context.Background(), "user-1", "labs.pdf", "application/pdf", data)
	require.NoError(t, err)
	second, err := f.service.ProcessDocument(context.Background(), "user-1", "labs.pdf", "application/pdf", data)
	require.NoError(t, err)

	assert.Equal(t, "Summary of the findings.", second.ReportText)
	f.completion.AssertNumberOfCalls(t, "Complete", 1)
}

func TestProcessDocumentUnsupportedTypePropagates(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1")

	f.extractor.On("Extract", mock.Anything, mock.Anything, "notes.docx", "application/msword").
		Return("", errors.NewUnsupportedMediaTypeError("application/msword"))

	_, err := f.service.ProcessDocument(context.Background(), "user-1", "notes.docx", "application/msword", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedMediaType))
	f.completion.AssertNotCalled(t, "Complete")
}

func TestLatestReportNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1")

	_, err := f.service.LatestReport(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReportNotFound))
}

func TestNewestReportWins(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1")

	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("first text", nil).Once()
	f.completion.On("Complete", mock.Anything, mock.Anything, 0.1).
		Return("first summary", nil).Once()
	_, err := f.service.ProcessDocument(context.Background(), "user-1", "a.txt", "text/plain", []byte("a"))
	require.NoError(t, err)

	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("second text", nil).Once()
	f.completion.On("Complete", mock.Anything, mock.Anything, 0.1).
		Return("second summary", nil).Once()
	_, err = f.service.ProcessDocument(context.Background(), "user-1", "b.txt", "text/plain", []byte("b"))
	require.NoError(t, err)

	latest, err := f.service.LatestReport(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "second summary", latest.ReportText)
}
