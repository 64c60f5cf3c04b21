// Package dispatch orchestrates a request's path from natural-language
// input to an executed command: plugin lookup first, LLM generation only
// on a miss, validation and execution last.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/audit"
	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/config"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
	"github.com/chatops-cli/chatops/internal/executor"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/plugin"
	"github.com/chatops-cli/chatops/internal/prompt"
	"github.com/chatops-cli/chatops/internal/provider"
)

// Request is one user turn.
type Request struct {
	Input string
	// DryRun resolves and validates but never spawns.
	DryRun bool
	// Confirmed acknowledges a destructive command on a second pass.
	Confirmed bool
}

// Result carries the resolved descriptor alongside the execution outcome,
// so callers can show where a command came from.
type Result struct {
	RequestID  string
	Descriptor command.Descriptor
	Execution  command.ExecutionResult
}

// Dispatcher routes requests. All collaborators are injected; the
// dispatcher holds no global state and is safe for concurrent use.
type Dispatcher struct {
	registry    *plugin.Registry
	providers   []provider.Provider // resolution order: default first, then fallback
	executor    *executor.Executor
	sink        audit.Sink
	osInfo      osdetect.Info
	providerCfg config.ProvidersConfig
	logger      *zap.Logger
}

// New wires a dispatcher. Providers are tried in the order given.
func New(
	registry *plugin.Registry,
	providers []provider.Provider,
	exec *executor.Executor,
	sink audit.Sink,
	osInfo osdetect.Info,
	providerCfg config.ProvidersConfig,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = audit.Nop{}
	}
	return &Dispatcher{
		registry:    registry,
		providers:   providers,
		executor:    exec,
		sink:        sink,
		osInfo:      osInfo,
		providerCfg: providerCfg,
		logger:      logger,
	}
}

// Resolve produces a descriptor for the input without executing it.
// A plugin hit never touches a provider.
func (d *Dispatcher) Resolve(ctx context.Context, input string) (command.Descriptor, error) {
	if desc, ok := d.registry.Resolve(input, d.osInfo.Platform); ok {
		d.logger.Debug("plugin hit",
			zap.String("plugin", desc.PluginName),
			zap.String("command", desc.Text))
		return desc, nil
	}
	return d.resolveLLM(ctx, input)
}

// Dispatch resolves and executes one request, recording the attempt in the
// audit sink regardless of outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	res := Result{RequestID: uuid.NewString()}

	desc, err := d.Resolve(ctx, req.Input)
	if err != nil {
		return res, err
	}
	res.Descriptor = desc

	execResult, execErr := d.executor.Execute(ctx, desc, executor.Options{
		DryRun:    req.DryRun,
		Confirmed: req.Confirmed,
	})
	res.Execution = execResult

	d.record(ctx, res, req.Input, execErr)
	return res, execErr
}

// resolveLLM walks the provider chain: skip unavailable backends, take the
// first successful generation, fall through on failure. Exhausting the
// chain without reaching any backend is ErrNoProviderAvailable.
func (d *Dispatcher) resolveLLM(ctx context.Context, input string) (command.Descriptor, error) {
	promptText := prompt.Build(input, d.osInfo)

	var lastErr error
	reached := false
	for _, p := range d.providers {
		if !p.IsAvailable(ctx) {
			d.logger.Debug("provider unavailable, skipping", zap.String("provider", p.Name()))
			continue
		}
		reached = true

		raw, err := p.Generate(ctx, promptText, d.optionsFor(p.Name()))
		if err != nil {
			d.logger.Warn("generation failed, trying next provider",
				zap.String("provider", p.Name()), zap.Error(err))
			lastErr = err
			continue
		}

		resp, err := prompt.Parse(raw)
		if err != nil {
			// Malformed output from one backend does not poison the rest.
			d.logger.Warn("unparseable model output, trying next provider",
				zap.String("provider", p.Name()), zap.Error(err))
			lastErr = err
			continue
		}

		return d.descriptorFrom(resp, p.Name())
	}

	if !reached {
		return command.Descriptor{}, fmt.Errorf("no provider reachable: %w", apperrors.ErrNoProviderAvailable)
	}
	return command.Descriptor{}, lastErr
}

// Explain asks a provider to describe an arbitrary command. No plugin
// lookup, no execution; the request rides the same provider chain as
// generation.
func (d *Dispatcher) Explain(ctx context.Context, commandText string) (string, error) {
	promptText := prompt.BuildExplain(commandText, d.osInfo)

	var lastErr error
	reached := false
	for _, p := range d.providers {
		if !p.IsAvailable(ctx) {
			d.logger.Debug("provider unavailable, skipping", zap.String("provider", p.Name()))
			continue
		}
		reached = true

		raw, err := p.Generate(ctx, promptText, d.optionsFor(p.Name()))
		if err != nil {
			d.logger.Warn("explanation failed, trying next provider",
				zap.String("provider", p.Name()), zap.Error(err))
			lastErr = err
			continue
		}
		if text := strings.TrimSpace(raw); text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("blank explanation: %w", apperrors.ErrMalformedResponse)
	}

	if !reached {
		return "", fmt.Errorf("no provider reachable: %w", apperrors.ErrNoProviderAvailable)
	}
	return "", lastErr
}

// descriptorFrom converts a parsed model response. A plugin name in the
// response is advisory only: if it matches a registered plugin we note it,
// but the command text still executes as generated.
func (d *Dispatcher) descriptorFrom(resp prompt.Response, providerName string) (command.Descriptor, error) {
	if resp.Plugin != "" {
		d.logger.Debug("model suggested plugin", zap.String("plugin", resp.Plugin))
	}
	return command.NewLLMDescriptor(resp.Command, providerName, resp.Explanation, resp.RequiresConfirmation)
}

func (d *Dispatcher) optionsFor(name string) provider.Options {
	var cfg config.ProviderConfig
	switch name {
	case "groq":
		cfg = d.providerCfg.Groq
	case "ollama":
		cfg = d.providerCfg.Ollama
	}
	return provider.Options{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

func (d *Dispatcher) record(ctx context.Context, res Result, input string, execErr error) {
	entry := audit.Entry{
		RequestID: res.RequestID,
		Input:     input,
		Command:   res.Descriptor.Text,
		Source:    res.Descriptor.Source,
		ExitCode:  res.Execution.ExitCode,
		Duration:  res.Execution.Duration,
		DryRun:    res.Execution.WasDryRun,
		CreatedAt: time.Now(),
	}
	if execErr != nil {
		entry.Failure = execErr.Error()
	}
	if err := d.sink.Record(ctx, entry); err != nil {
		// Auditing is best-effort; a broken sink must not fail the request.
		d.logger.Warn("audit record failed", zap.Error(err))
	}
}
