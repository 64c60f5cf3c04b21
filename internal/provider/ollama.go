package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/config"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

// OllamaClient talks to a local Ollama inference server.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOllamaClient builds a client for the configured Ollama endpoint.
func NewOllamaClient(cfg config.ProviderConfig, logger *zap.Logger) *OllamaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  newHTTPClient(cfg.Timeout),
		logger:  logger,
	}
}

func (c *OllamaClient) Name() string { return "ollama" }

// IsAvailable pings the version endpoint with a short deadline. A local
// server either answers immediately or is not running.
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("ollama unreachable", zap.String("base_url", c.baseURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate runs a non-streaming completion against /api/generate.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"num_predict": opts.MaxTokens,
			"temperature": opts.Temperature,
		},
	})
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: %v", classifyTransportError(err), err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: status %d", classifyStatus(resp.StatusCode), resp.StatusCode)}
	}

	var decoded ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)}
	}
	if decoded.Response == "" {
		return "", &apperrors.ProviderError{Provider: c.Name(), Err: fmt.Errorf("%w: empty response body", apperrors.ErrMalformedResponse)}
	}

	c.logger.Debug("ollama generation complete",
		zap.String("model", model),
		zap.Duration("duration", time.Since(start)))
	return decoded.Response, nil
}

// ListModels returns the names of models the server has pulled. Used by the
// status command; failures are returned, not fatal.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", classifyStatus(resp.StatusCode), resp.StatusCode)
	}

	var decoded struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	names := make([]string, 0, len(decoded.Models))
	for _, m := range decoded.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
