// Package plugin holds the registry of built-in deterministic command
// handlers. A plugin maps specific phrasings directly to a ready-to-run
// descriptor, letting common operations resolve in-process with no
// provider round trip.
package plugin

import (
	"context"
	"strings"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/osdetect"
)

// Plugin is the structural contract the registry requires. How a plugin
// builds its command text is entirely its own concern.
type Plugin interface {
	// Name is the unique registry key.
	Name() string
	// Platforms lists the operating systems this plugin's commands are
	// valid for.
	Platforms() []osdetect.Platform
	// Initialize is called once before first use. An error here means the
	// plugin is skipped at discovery.
	Initialize(ctx context.Context) error
	// Cleanup is called once at shutdown. Failures are logged, never
	// propagated.
	Cleanup() error
	// Resolve attempts to claim the input. A miss returns (zero, false),
	// not an error.
	Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool)
}

// Constructor builds a plugin instance at discovery time.
type Constructor func() (Plugin, error)

// BuildFunc produces a descriptor for a matched rule.
type BuildFunc func(input string, platform osdetect.Platform) (command.Descriptor, bool)

// Rule ties a set of trigger phrases to a descriptor builder.
type Rule struct {
	Keywords []string
	Build    BuildFunc
}

// Table is the keyword-to-handler command table shared by the built-in
// plugins. Matching is case-insensitive substring against each keyword;
// rules are tried in declaration order.
type Table []Rule

// Resolve finds the first rule whose keywords match the input.
func (t Table) Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool) {
	lower := strings.ToLower(input)
	for _, rule := range t {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				if desc, ok := rule.Build(input, platform); ok {
					return desc, true
				}
				break
			}
		}
	}
	return command.Descriptor{}, false
}
