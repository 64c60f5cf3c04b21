package errors

import "fmt"

// Sentinel errors for the dispatch and execution pipeline. Callers match
// them with errors.Is after any amount of fmt.Errorf("%w") wrapping.
var (
	// Provider failures. All recoverable: the dispatcher falls back to a
	// secondary provider or surfaces an "AI unavailable" message.
	ErrProviderUnreachable = fmt.Errorf("PROVIDER_UNREACHABLE")
	ErrAuthFailed          = fmt.Errorf("AUTHENTICATION_FAILED")
	ErrRateLimited         = fmt.Errorf("RATE_LIMITED")
	ErrProviderTimeout     = fmt.Errorf("PROVIDER_TIMEOUT")
	ErrMalformedResponse   = fmt.Errorf("MALFORMED_RESPONSE")
	ErrNoProviderAvailable = fmt.Errorf("NO_PROVIDER_AVAILABLE")

	// Parse failures. Treated identically to provider failures upstream.
	ErrEmptyCommand = fmt.Errorf("EMPTY_COMMAND")

	// Security failures. Fatal to the request, never to the process.
	ErrCommandBlocked = fmt.Errorf("COMMAND_BLOCKED")
	ErrCommandTooLong = fmt.Errorf("COMMAND_TOO_LONG")

	// Execution failures.
	ErrConfirmationRequired = fmt.Errorf("CONFIRMATION_REQUIRED")
	ErrExecutionTimeout     = fmt.Errorf("EXECUTION_TIMEOUT")
	ErrSpawnFailed          = fmt.Errorf("SPAWN_FAILED")

	// Registry failures.
	ErrDuplicatePlugin = fmt.Errorf("DUPLICATE_PLUGIN")
)

// ProviderError wraps a failure from an LLM provider with its identity.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SecurityError wraps a safety-policy rejection with the offending detail.
type SecurityError struct {
	Command string
	Reason  string
	Err     error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("command rejected (%s): %s", e.Reason, e.Command)
}

func (e *SecurityError) Unwrap() error {
	return e.Err
}

// DiscoveryError records a plugin that failed to load. Discovery failures
// are logged and absorbed; the type exists for the registry's load report.
type DiscoveryError struct {
	Plugin string
	Err    error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("plugin %s failed to load: %v", e.Plugin, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
