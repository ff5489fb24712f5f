package lmstudio

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

func TestCompleteSendsPromptAndTemperature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.25, req.Temperature)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "make me a plan", req.Messages[0].Content)

		var resp chatCompletionResponse
		resp.Choices = append(resp.Choices, struct {
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{Message: chatMessage{Role: "assistant", Content: `{"ok":true}`}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewCompletionClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	out, err := client.Complete(context.Background(), "make me a plan", 0.25)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestCompleteClassifiesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCompletionClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	_, err := client.Complete(context.Background(), "prompt", 0.1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}

func TestCompleteRetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "transient", http.StatusServiceUnavailable)
			return
		}
		var resp chatCompletionResponse
		resp.Choices = append(resp.Choices, struct {
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{Message: chatMessage{Role: "assistant", Content: "recovered"}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewCompletionClient(Config{BaseURL: server.URL, MaxRetries: 1}, zaptest.NewLogger(t))

	out, err := client.Complete(context.Background(), "prompt", 0.1)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, int32(2), calls.Load())
}
