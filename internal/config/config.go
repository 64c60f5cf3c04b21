// Package config loads the immutable per-process configuration snapshot.
// The snapshot is built once at startup and passed explicitly into the
// dispatcher, registry, and executor constructors; no component mutates it.
package config

import "time"

// Config is the process-wide configuration snapshot.
type Config struct {
	Providers ProvidersConfig
	Security  SecurityConfig
	Execution ExecutionConfig
	Plugins   PluginsConfig
	Audit     AuditConfig
}

// ProvidersConfig selects the default and fallback LLM backends.
type ProvidersConfig struct {
	Default  string
	Fallback string
	Groq     ProviderConfig
	Ollama   ProviderConfig
}

// ProviderConfig holds per-provider connection settings.
type ProviderConfig struct {
	Enabled     bool
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// SecurityConfig feeds the executor's safety policy.
type SecurityConfig struct {
	BlockedPatterns            []string
	MaxCommandLength           int
	RequireConfirmationDefault bool
}

// ExecutionConfig bounds subprocess execution.
type ExecutionConfig struct {
	Timeout        time.Duration
	MaxConcurrent  int64
	OutputCapBytes int
}

// PluginsConfig controls the built-in plugin manifest.
type PluginsConfig struct {
	Disabled []string
}

// AuditConfig locates the execution audit store.
type AuditConfig struct {
	Enabled bool
	DBPath  string
}
