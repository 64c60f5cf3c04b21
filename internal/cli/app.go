package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/audit"
	"github.com/chatops-cli/chatops/internal/config"
	"github.com/chatops-cli/chatops/internal/dispatch"
	"github.com/chatops-cli/chatops/internal/executor"
	"github.com/chatops-cli/chatops/internal/logging"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/plugin"
	"github.com/chatops-cli/chatops/internal/plugin/builtin"
	"github.com/chatops-cli/chatops/internal/provider"
	"github.com/chatops-cli/chatops/internal/security"
)

// app holds the wired components for one process. Built once per command
// invocation, torn down by Close.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	osInfo     osdetect.Info
	registry   *plugin.Registry
	providers  []provider.Provider
	ollama     *provider.OllamaClient
	sink       audit.Sink
	dispatcher *dispatch.Dispatcher
}

// newApp loads configuration and wires the full component graph.
func newApp(ctx context.Context, debug bool) (*app, error) {
	logger, err := logging.New(debug)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	osInfo := osdetect.Detect()

	registry := plugin.NewRegistry(logger)
	registry.Discover(ctx, builtin.Manifest(cfg.Plugins.Disabled, logger))

	policy := security.Policy{
		BlockedPatterns:            cfg.Security.BlockedPatterns,
		MaxCommandLength:           cfg.Security.MaxCommandLength,
		RequireConfirmationDefault: cfg.Security.RequireConfirmationDefault,
	}
	exec := executor.New(policy, cfg.Execution, osInfo.Platform, logger)

	ollama := provider.NewOllamaClient(cfg.Providers.Ollama, logger)
	groq := provider.NewGroqClient(cfg.Providers.Groq, logger)
	providers := orderProviders(cfg.Providers, groq, ollama)

	var sink audit.Sink = audit.Nop{}
	if cfg.Audit.Enabled {
		store, err := audit.OpenSQLite(cfg.Audit.DBPath)
		if err != nil {
			// Auditing failure should not keep the operator locked out.
			logger.Warn("audit store unavailable, continuing without", zap.Error(err))
		} else {
			sink = store
		}
	}

	dispatcher := dispatch.New(registry, providers, exec, sink, osInfo, cfg.Providers, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		osInfo:     osInfo,
		registry:   registry,
		providers:  providers,
		ollama:     ollama,
		sink:       sink,
		dispatcher: dispatcher,
	}, nil
}

// orderProviders returns the chain in configured preference order, with the
// fallback appended when it differs from the default.
func orderProviders(cfg config.ProvidersConfig, groq *provider.GroqClient, ollama *provider.OllamaClient) []provider.Provider {
	byName := map[string]provider.Provider{
		"groq":   groq,
		"ollama": ollama,
	}

	var chain []provider.Provider
	if p, ok := byName[cfg.Default]; ok {
		chain = append(chain, p)
	}
	if cfg.Fallback != cfg.Default {
		if p, ok := byName[cfg.Fallback]; ok {
			chain = append(chain, p)
		}
	}
	return chain
}

// requestContext bounds one dispatch turn. The budget covers the provider
// chain plus the subprocess, so a stuck request can never hang the CLI.
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := a.cfg.Execution.Timeout +
		a.cfg.Providers.Groq.Timeout +
		a.cfg.Providers.Ollama.Timeout
	return context.WithTimeout(ctx, budget)
}

func (a *app) Close() {
	a.registry.Shutdown()
	if err := a.sink.Close(); err != nil {
		a.logger.Warn("audit sink close failed", zap.Error(err))
	}
	a.logger.Sync()
}
