package outbound

import (
	"context"

	"github.com/nutricoach/v1/internal/domain/mealplan"
)

// EmbeddingService converts text into fixed-length vectors for
// similarity search. Implementations must return exactly one vector
// per input, preserving order; degraded results (zero vectors for
// individually failing items) are preferred over batch-wide failure.
type EmbeddingService interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// CompletionService sends a rendered prompt to a text-generation
// model and returns the raw completion text.
type CompletionService interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// RecipeIndex is a read-only nearest-neighbor store of recipe
// documents. The on-disk layout is owned entirely by the index
// technology; the request path never mutates it.
type RecipeIndex interface {
	Query(ctx context.Context, embedding []float32, k int) ([]mealplan.RecipeDocument, error)
}

// TextExtractor extracts plain text from an uploaded document.
// Supported types are PDF, plain text and PNG/JPEG images (via OCR);
// any other MIME type yields an explicit unsupported-type error.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error)
}
