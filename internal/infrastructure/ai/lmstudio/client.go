// Package lmstudio provides clients for an OpenAI-compatible local
// inference server (LM Studio) covering embeddings and chat completions.
package lmstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the connection settings shared by both clients
type Config struct {
	BaseURL         string
	APIKey          string
	EmbeddingModel  string
	CompletionModel string
	Timeout         time.Duration
	BatchSize       int
	BatchInterval   time.Duration
	MaxRetries      int
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:1234/v1"
	}
	if c.APIKey == "" {
		c.APIKey = "lm-studio"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-nomic-embed-text-v1.5"
	}
	if c.CompletionModel == "" {
		c.CompletionModel = "phi-4"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchInterval == 0 {
		c.BatchInterval = 100 * time.Millisecond
	}
	return c
}

// postJSON performs a JSON round-trip against the inference server
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, reqBody, respBody interface{}) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
