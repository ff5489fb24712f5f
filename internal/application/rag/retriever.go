// Package rag implements the retrieval side of the plan generation
// pipeline: embedding a natural-language query and fetching the most
// similar recipe documents to ground the model prompt.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// Retriever fetches the top-k recipe documents for a query. k is
// fixed at construction; callers cannot tune it per request.
type Retriever struct {
	embedder outbound.EmbeddingService
	index    outbound.RecipeIndex
	topK     int
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given embedder and index
func NewRetriever(embedder outbound.EmbeddingService, index outbound.RecipeIndex, topK int, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger.Named("retriever"),
	}
}

// Retrieve embeds the query and returns up to topK nearest documents.
// The index is read-only; nothing on this path mutates it.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]mealplan.RecipeDocument, error) {
	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed retrieval query: %w", err)
	}

	docs, err := r.index.Query(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe index: %w", err)
	}

	r.logger.Debug("Retrieved recipe documents",
		zap.Int("requested", r.topK),
		zap.Int("returned", len(docs)))

	return docs, nil
}

// BuildContext assembles retrieved documents into a grounding context
// block for the prompt. Documents keep their index order.
func BuildContext(docs []mealplan.RecipeDocument) string {
	if len(docs) == 0 {
		return "None"
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if doc.Title != "" {
			b.WriteString(doc.Title)
			b.WriteString(":\n")
		}
		b.WriteString(doc.Content)
	}
	return b.String()
}
