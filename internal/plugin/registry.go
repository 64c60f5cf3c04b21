package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/command"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
	"github.com/chatops-cli/chatops/internal/osdetect"
)

// Registry owns every registered plugin for the process lifetime.
// Resolve is safe for concurrent use from in-flight requests; Register,
// Discover, and Shutdown take the write lock.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string // plugin names, kept sorted for deterministic resolution
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		plugins: make(map[string]Plugin),
		logger:  logger,
	}
}

// Discover constructs and initializes every plugin in the manifest.
// A constructor or Initialize failure skips that plugin with a warning and
// continues - one bad plugin never prevents the rest from loading.
// Re-running with the same manifest is an idempotent refresh: names already
// registered are left untouched. Returns the number of plugins loaded this
// call.
func (r *Registry) Discover(ctx context.Context, manifest []Constructor) int {
	loaded := 0
	for _, construct := range manifest {
		p, err := construct()
		if err != nil {
			r.logger.Warn("plugin construction failed, skipping",
				zap.Error(&apperrors.DiscoveryError{Plugin: "unknown", Err: err}))
			continue
		}

		r.mu.RLock()
		_, exists := r.plugins[p.Name()]
		r.mu.RUnlock()
		if exists {
			r.logger.Debug("plugin already registered, skipping", zap.String("plugin", p.Name()))
			continue
		}

		if err := p.Initialize(ctx); err != nil {
			r.logger.Warn("plugin initialization failed, skipping",
				zap.String("plugin", p.Name()),
				zap.Error(&apperrors.DiscoveryError{Plugin: p.Name(), Err: err}))
			continue
		}

		if err := r.Register(p); err != nil {
			r.logger.Warn("plugin registration failed, skipping",
				zap.String("plugin", p.Name()), zap.Error(err))
			continue
		}
		loaded++
	}

	r.logger.Info("plugin discovery complete",
		zap.Int("loaded", loaded), zap.Int("total", r.Len()))
	return loaded
}

// Register adds a plugin under its name. Duplicate names fail; there is no
// silent overwrite.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicatePlugin, name)
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	// Alphabetical resolution order keeps plugin matching independent of
	// manifest ordering.
	sort.Strings(r.order)
	return nil
}

// Resolve matches the input against every registered plugin's command
// table, in alphabetical plugin-name order, first match wins. Plugins that
// do not support the request platform are skipped. A miss returns
// (zero, false), signaling the caller to fall back to the LLM path.
func (r *Registry) Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		p := r.plugins[name]
		if !supportsPlatform(p, platform) {
			continue
		}
		if desc, ok := p.Resolve(input, platform); ok {
			return desc, true
		}
	}
	return command.Descriptor{}, false
}

// Names returns the registered plugin names in resolution order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Shutdown runs Cleanup on every plugin. Cleanup failures are logged and
// absorbed - teardown must not crash the host process.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, p := range r.plugins {
		if err := p.Cleanup(); err != nil {
			r.logger.Warn("plugin cleanup failed", zap.String("plugin", name), zap.Error(err))
		}
	}
	r.plugins = make(map[string]Plugin)
	r.order = nil
}

func supportsPlatform(p Plugin, platform osdetect.Platform) bool {
	for _, supported := range p.Platforms() {
		if supported == platform {
			return true
		}
	}
	return false
}
