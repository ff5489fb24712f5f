package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nutricoach/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newChromaServer(t *testing.T, lookups *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/collections/recipes", func(w http.ResponseWriter, r *http.Request) {
		if lookups != nil {
			lookups.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(collectionResponse{ID: "col-123", Name: "recipes"})
	})

	mux.HandleFunc("POST /api/v1/collections/col-123/query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.QueryEmbeddings, 1)
		assert.Equal(t, 2, req.NResults)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(queryResponse{
			Documents: [][]string{{"Name: Lentil soup", "Name: Greek salad"}},
			Metadatas: [][]map[string]interface{}{{
				{"title": "Lentil soup"},
				{"title": "Greek salad"},
			}},
			Distances: [][]float64{{0.11, 0.37}},
		})
	})

	return httptest.NewServer(mux)
}

func TestQueryReturnsRankedDocuments(t *testing.T) {
	server := newChromaServer(t, nil)
	defer server.Close()

	index := NewIndex(Config{BaseURL: server.URL, Collection: "recipes"}, zaptest.NewLogger(t))

	docs, err := index.Query(context.Background(), []float32{0.1, 0.2}, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Lentil soup", docs[0].Title)
	assert.Equal(t, "Name: Lentil soup", docs[0].Content)
	assert.Equal(t, 0.11, docs[0].Score)
	assert.Equal(t, "Greek salad", docs[1].Title)
}

func TestQueryResolvesCollectionOnce(t *testing.T) {
	var lookups atomic.Int32
	server := newChromaServer(t, &lookups)
	defer server.Close()

	index := NewIndex(Config{BaseURL: server.URL, Collection: "recipes"}, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		_, err := index.Query(context.Background(), []float32{0.1}, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), lookups.Load())
}

func TestQueryUnknownCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	index := NewIndex(Config{BaseURL: server.URL, Collection: "missing"}, zaptest.NewLogger(t))

	_, err := index.Query(context.Background(), []float32{0.1}, 2)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}

func TestQueryClassifiesUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/collections/recipes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(collectionResponse{ID: "col-123", Name: "recipes"})
	})
	mux.HandleFunc("POST /api/v1/collections/col-123/query", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index down", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	index := NewIndex(Config{BaseURL: server.URL, Collection: "recipes"}, zaptest.NewLogger(t))

	_, err := index.Query(context.Background(), []float32{0.1, 0.2}, 2)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}
