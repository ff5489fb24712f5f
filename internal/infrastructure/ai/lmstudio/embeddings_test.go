package lmstudio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nutricoach/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testDim = 8

func embeddingFor(text string) []float32 {
	vec := make([]float32, testDim)
	for i := range vec {
		vec[i] = float32(len(text) + i)
	}
	return vec
}

// newEmbeddingServer serves the OpenAI-compatible /embeddings endpoint,
// failing any request that contains a text for which fail returns true.
func newEmbeddingServer(t *testing.T, fail func(text string) bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var resp embeddingResponse
		for i, text := range req.Input {
			if fail != nil && fail(text) {
				http.Error(w, "embedding failed", http.StatusInternalServerError)
				return
			}
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: embeddingFor(text)})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEmbeddingClient(t *testing.T, url string, batchSize int) *EmbeddingClient {
	t.Helper()
	return NewEmbeddingClient(Config{
		BaseURL:       url,
		BatchSize:     batchSize,
		BatchInterval: time.Millisecond,
	}, zaptest.NewLogger(t))
}

func TestEmbedDocumentsPreservesLengthAndOrder(t *testing.T) {
	server := newEmbeddingServer(t, nil)
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 3)

	// Exercise exact multiples and remainders of the batch size.
	for _, n := range []int{1, 3, 6, 7} {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = fmt.Sprintf("recipe %d", i)
		}

		vectors, err := client.EmbedDocuments(context.Background(), texts)
		require.NoError(t, err)
		require.Len(t, vectors, n)

		for i, vec := range vectors {
			assert.Equal(t, embeddingFor(texts[i]), vec, "vector %d out of order", i)
		}
	}
}

func TestEmbedDocumentsMasksIndividualFailures(t *testing.T) {
	server := newEmbeddingServer(t, func(text string) bool {
		return text == "poison"
	})
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 10)

	texts := []string{"pasta", "poison", "salad"}
	vectors, err := client.EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	// Healthy items still receive real vectors.
	assert.Equal(t, embeddingFor("pasta"), vectors[0])
	assert.Equal(t, embeddingFor("salad"), vectors[2])

	// The failing item gets a zero vector of the inferred dimensionality.
	assert.Len(t, vectors[1], testDim)
	for _, v := range vectors[1] {
		assert.Zero(t, v)
	}
}

func TestEmbedDocumentsInfersDimensionalityViaProbe(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Only the empty-string probe succeeds.
		if len(req.Input) != 1 || req.Input[0] != "" {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		var resp embeddingResponse
		resp.Data = append(resp.Data, struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{Index: 0, Embedding: make([]float32, testDim)})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 10)

	vectors, err := client.EmbedDocuments(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, vec := range vectors {
		assert.Len(t, vec, testDim)
	}

	// One batch, two per-item fallbacks, one probe. The second item
	// must reuse the cached dimensionality instead of probing again.
	assert.Equal(t, int32(4), calls.Load())
}

func TestEmbedDocumentsFailsWhenDimensionalityUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 10)

	_, err := client.EmbedDocuments(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}

func TestEmbedQueryClassifiesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 10)

	_, err := client.EmbedQuery(context.Background(), "high protein dinner")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}

func TestEmbedQuery(t *testing.T) {
	server := newEmbeddingServer(t, nil)
	defer server.Close()

	client := newTestEmbeddingClient(t, server.URL, 10)

	vec, err := client.EmbedQuery(context.Background(), "high protein dinner")
	require.NoError(t, err)
	assert.Equal(t, embeddingFor("high protein dinner"), vec)
}
