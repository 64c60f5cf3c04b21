// Package provider adapts LLM backends - a cloud API and a local inference
// server - behind one contract: send a prompt, get raw text or a typed
// failure. Every failure here is recoverable at the dispatcher level.
package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

// Options tune a single generation request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Provider is the shared shape for LLM backends.
type Provider interface {
	// Name identifies the backend in logs and audit records.
	Name() string
	// IsAvailable is a cheap reachability check. The dispatcher uses it to
	// skip an unavailable provider without paying a full request timeout.
	IsAvailable(ctx context.Context) bool
	// Generate blocks until the model responds, the context is cancelled,
	// or the client's timeout expires. Failures wrap the provider error
	// sentinels in the errors package.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// classifyTransportError maps an http.Client failure onto the taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrProviderTimeout
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.ErrProviderTimeout
	}
	return apperrors.ErrProviderUnreachable
}

// classifyStatus maps a non-2xx HTTP status onto the taxonomy.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.ErrAuthFailed
	case status == http.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	default:
		return apperrors.ErrProviderUnreachable
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
