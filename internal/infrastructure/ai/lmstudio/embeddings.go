package lmstudio

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// EmbeddingClient implements the EmbeddingService interface against the
// server's OpenAI-compatible /embeddings endpoint.
//
// Inputs are embedded in batches to bound request size. A failed batch
// falls back to per-item requests, and an item that still fails is
// substituted with a zero vector of the model's dimensionality so one
// bad document never fails the whole request. The dimensionality is
// inferred lazily with a one-time probe call.
type EmbeddingClient struct {
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	client    *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger

	probeMu sync.Mutex
	dim     atomic.Int32
}

// NewEmbeddingClient creates a new embedding client
func NewEmbeddingClient(cfg Config, logger *zap.Logger) *EmbeddingClient {
	cfg = cfg.withDefaults()

	logger = logger.Named("embedding-client")
	logger.Info("Embedding client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.EmbeddingModel),
		zap.Int("batch_size", cfg.BatchSize))

	return &EmbeddingClient{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.EmbeddingModel,
		batchSize: cfg.BatchSize,
		client:    &http.Client{Timeout: cfg.Timeout},
		// Spaces out batch requests to avoid overwhelming the local
		// inference server. Pacing only, not a correctness mechanism.
		limiter: rate.NewLimiter(rate.Every(cfg.BatchInterval), 1),
		logger:  logger,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedDocuments embeds a list of texts, returning exactly one vector
// per input in the same order.
func (c *EmbeddingClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += c.batchSize {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vectors, err := c.embed(ctx, batch)
		if err != nil {
			c.logger.Warn("Batch embedding failed, falling back to per-item requests",
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))

			vectors, err = c.embedIndividually(ctx, batch)
			if err != nil {
				return nil, err
			}
		}

		embeddings = append(embeddings, vectors...)
	}

	return embeddings, nil
}

// EmbedQuery embeds a single text. A transport or endpoint failure is
// classified as an upstream outage so the HTTP boundary answers 502,
// not 500.
func (c *EmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, errors.NewUpstreamUnavailableError("embedding endpoint", err)
	}
	if len(vectors) == 0 {
		return nil, errors.NewUpstreamUnavailableError("embedding endpoint",
			fmt.Errorf("endpoint returned no data"))
	}
	return vectors[0], nil
}

// embedIndividually embeds each item on its own, masking individual
// failures with zero vectors.
func (c *EmbeddingClient) embedIndividually(ctx context.Context, batch []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(batch))

	for i, text := range batch {
		vector, err := c.EmbedQuery(ctx, text)
		if err != nil {
			c.logger.Warn("Embedding failed for item, substituting zero vector",
				zap.Int("item", i),
				zap.Error(err))

			dim, dimErr := c.dimensionality(ctx)
			if dimErr != nil {
				// Unreachable once any call has succeeded; failing here
				// means the endpoint never answered at all.
				return nil, errors.NewUpstreamUnavailableError("embedding endpoint",
					fmt.Errorf("cannot infer embedding dimensionality: %w", dimErr))
			}
			vector = make([]float32, dim)
		}
		vectors = append(vectors, vector)
	}

	return vectors, nil
}

// dimensionality returns the embedding dimensionality, probing the
// endpoint with an empty string on first use.
func (c *EmbeddingClient) dimensionality(ctx context.Context) (int, error) {
	if dim := c.dim.Load(); dim > 0 {
		return int(dim), nil
	}

	c.probeMu.Lock()
	defer c.probeMu.Unlock()

	if dim := c.dim.Load(); dim > 0 {
		return int(dim), nil
	}

	vectors, err := c.embed(ctx, []string{""})
	if err != nil {
		return 0, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("probe call returned empty embedding")
	}
	return len(vectors[0]), nil
}

// embed performs one /embeddings round-trip
func (c *EmbeddingClient) embed(ctx context.Context, input []string) ([][]float32, error) {
	var resp embeddingResponse
	err := postJSON(ctx, c.client, c.baseURL+"/embeddings", c.apiKey,
		embeddingRequest{Model: c.model, Input: input}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d inputs", len(resp.Data), len(input))
	}

	vectors := make([][]float32, len(input))
	for i, item := range resp.Data {
		idx := item.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = item.Embedding
	}

	// Remember the dimensionality so later zero-vector substitutions
	// never need a probe call.
	if len(vectors[0]) > 0 {
		c.dim.CompareAndSwap(0, int32(len(vectors[0])))
	}

	return vectors, nil
}
