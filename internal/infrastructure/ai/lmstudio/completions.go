package lmstudio

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// CompletionClient implements the CompletionService interface against
// the server's OpenAI-compatible /chat/completions endpoint.
//
// There is no automatic retry by default: a transport failure aborts
// the whole generation request. Bounded retry with backoff can be
// enabled through Config.MaxRetries.
type CompletionClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
	logger     *zap.Logger
}

// NewCompletionClient creates a new completion client
func NewCompletionClient(cfg Config, logger *zap.Logger) *CompletionClient {
	cfg = cfg.withDefaults()

	logger = logger.Named("completion-client")
	logger.Info("Completion client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.CompletionModel),
		zap.Int("max_retries", cfg.MaxRetries))

	return &CompletionClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.CompletionModel,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the prompt to the model and returns the raw text
func (c *CompletionClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Warn("Retrying completion request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		var resp chatCompletionResponse
		err := postJSON(ctx, c.client, c.baseURL+"/chat/completions", c.apiKey, reqBody, &resp)
		if err != nil {
			lastErr = err
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("completion endpoint returned no choices")
			continue
		}

		c.logger.Debug("Completion successful",
			zap.Float64("temperature", temperature),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens))

		return resp.Choices[0].Message.Content, nil
	}

	return "", errors.NewUpstreamUnavailableError("completion endpoint", lastErr)
}
