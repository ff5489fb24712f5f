// Package chroma provides a read-only adapter over a Chroma vector
// store server. The recipe index is built offline as a data-preparation
// step; the request path only runs similarity queries against it.
package chroma

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// Config holds the Chroma server settings
type Config struct {
	BaseURL    string
	Collection string
	Timeout    time.Duration
}

// Index implements the RecipeIndex interface against the Chroma REST API
type Index struct {
	client     *resty.Client
	collection string
	logger     *zap.Logger

	mu           sync.Mutex
	collectionID string
}

// NewIndex creates a new index adapter. The collection ID is resolved
// lazily on first query so construction never needs the network.
func NewIndex(cfg Config, logger *zap.Logger) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Collection == "" {
		cfg.Collection = "recipes"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Index{
		client:     client,
		collection: cfg.Collection,
		logger:     logger.Named("chroma-index"),
	}
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

// Query returns up to k nearest recipe documents for the embedding.
// Result ordering beyond similarity rank is owned by the index.
func (x *Index) Query(ctx context.Context, embedding []float32, k int) ([]mealplan.RecipeDocument, error) {
	collectionID, err := x.resolveCollection(ctx)
	if err != nil {
		return nil, err
	}

	var result queryResponse
	resp, err := x.client.R().
		SetContext(ctx).
		SetBody(queryRequest{
			QueryEmbeddings: [][]float32{embedding},
			NResults:        k,
			Include:         []string{"documents", "metadatas", "distances"},
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/collections/%s/query", collectionID))
	if err != nil {
		return nil, errors.NewUpstreamUnavailableError("recipe index", err)
	}
	if resp.IsError() {
		return nil, errors.NewUpstreamUnavailableError("recipe index",
			fmt.Errorf("query returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	if len(result.Documents) == 0 {
		return nil, nil
	}

	docs := make([]mealplan.RecipeDocument, 0, len(result.Documents[0]))
	for i, content := range result.Documents[0] {
		doc := mealplan.RecipeDocument{Content: content}
		if len(result.Metadatas) > 0 && i < len(result.Metadatas[0]) {
			if title, ok := result.Metadatas[0][i]["title"].(string); ok {
				doc.Title = title
			}
		}
		if len(result.Distances) > 0 && i < len(result.Distances[0]) {
			doc.Score = result.Distances[0][i]
		}
		docs = append(docs, doc)
	}

	x.logger.Debug("Recipe index queried",
		zap.Int("requested", k),
		zap.Int("returned", len(docs)))

	return docs, nil
}

// resolveCollection looks up the collection ID by name once and caches it
func (x *Index) resolveCollection(ctx context.Context) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.collectionID != "" {
		return x.collectionID, nil
	}

	var collection collectionResponse
	resp, err := x.client.R().
		SetContext(ctx).
		SetResult(&collection).
		Get("/api/v1/collections/" + x.collection)
	if err != nil {
		return "", errors.NewUpstreamUnavailableError("recipe index", err)
	}
	if resp.IsError() {
		return "", errors.NewUpstreamUnavailableError("recipe index",
			fmt.Errorf("collection %q not found: status %d", x.collection, resp.StatusCode()))
	}
	if collection.ID == "" {
		return "", errors.NewUpstreamUnavailableError("recipe index",
			fmt.Errorf("collection %q resolved to empty id", x.collection))
	}

	x.collectionID = collection.ID
	x.logger.Info("Resolved recipe collection",
		zap.String("name", x.collection),
		zap.String("id", x.collectionID))

	return x.collectionID, nil
}
