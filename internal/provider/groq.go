package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"net/http"

	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/config"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewGroqClient builds a client for the Groq API.
func NewGroqClient(cfg config.ProviderConfig, logger *zap.Logger) *GroqClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroqClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  newHTTPClient(cfg.Timeout),
		logger:  logger,
	}
}

func (c *GroqClient) Name() string { return "groq" }

// IsAvailable checks credential presence only. An API round trip per
// dispatch would cost more than the request it is trying to save.
func (c *GroqClient) IsAvailable(ctx context.Context) bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message.
func (c *GroqClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: no API key configured", apperrors.ErrAuthFailed)}
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/openai/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: %v", classifyTransportError(err), err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: status %d", classifyStatus(resp.StatusCode), resp.StatusCode)}
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: no choices in response", apperrors.ErrMalformedResponse)}
	}

	c.logger.Debug("groq generation complete",
		zap.String("model", model),
		zap.Duration("duration", time.Since(start)))
	return decoded.Choices[0].Message.Content, nil
}
