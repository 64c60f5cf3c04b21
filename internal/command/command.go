// Package command defines the resolved representation of a user request as
// it moves from resolution (plugin or LLM) to execution.
package command

import (
	"fmt"
	"time"
)

// Source identifies which resolution path produced a descriptor.
type Source string

const (
	SourcePlugin Source = "plugin"
	SourceLLM    Source = "llm"
)

// Descriptor is the unit passed from resolution to execution. It is
// constructed once per request and never mutated afterwards.
type Descriptor struct {
	Text                 string
	Source               Source
	PluginName           string // set iff Source == SourcePlugin
	ProviderName         string // set iff Source == SourceLLM
	RequiresConfirmation bool
	Explanation          string
}

// NewPluginDescriptor builds a descriptor resolved by a built-in plugin.
func NewPluginDescriptor(text, plugin, explanation string, confirm bool) (Descriptor, error) {
	if text == "" {
		return Descriptor{}, fmt.Errorf("descriptor text cannot be empty")
	}
	return Descriptor{
		Text:                 text,
		Source:               SourcePlugin,
		PluginName:           plugin,
		RequiresConfirmation: confirm,
		Explanation:          explanation,
	}, nil
}

// NewLLMDescriptor builds a descriptor resolved through an LLM provider.
func NewLLMDescriptor(text, provider, explanation string, confirm bool) (Descriptor, error) {
	if text == "" {
		return Descriptor{}, fmt.Errorf("descriptor text cannot be empty")
	}
	return Descriptor{
		Text:                 text,
		Source:               SourceLLM,
		ProviderName:         provider,
		RequiresConfirmation: confirm,
		Explanation:          explanation,
	}, nil
}

// ExecutionResult is produced by the executor, once per invocation.
// Stdout and Stderr are capped by the executor's configured byte limit.
type ExecutionResult struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	Duration  time.Duration
	WasDryRun bool
}
