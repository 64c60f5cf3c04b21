package dispatch

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatops-cli/chatops/internal/audit"
	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/config"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
	"github.com/chatops-cli/chatops/internal/executor"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/plugin"
	"github.com/chatops-cli/chatops/internal/plugin/builtin"
	"github.com/chatops-cli/chatops/internal/provider"
	"github.com/chatops-cli/chatops/internal/security"
)

// fakeProvider counts calls so tests can prove the plugin path never
// reaches a backend.
type fakeProvider struct {
	name      string
	available bool
	response  string
	genErr    error

	mu            sync.Mutex
	generateCalls int
}

func (f *fakeProvider) Name() string                            { return f.name }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool    { return f.available }
func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts provider.Options) (string, error) {
	f.mu.Lock()
	f.generateCalls++
	f.mu.Unlock()
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.response, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls
}

// captureSink records audit entries in memory.
type captureSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *captureSink) Record(ctx context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *captureSink) Close() error { return nil }

func (s *captureSink) recorded() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry(nil), s.entries...)
}

func newTestDispatcher(t *testing.T, providers []provider.Provider, sink audit.Sink) *Dispatcher {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("subprocess tests assume a POSIX shell")
	}

	registry := plugin.NewRegistry(nil)
	require.NoError(t, registry.Register(builtin.NewSystemPlugin(nil)))

	policy := security.Policy{
		BlockedPatterns:  []string{"rm -rf /"},
		MaxCommandLength: 1000,
	}
	exec := executor.New(policy, config.ExecutionConfig{
		Timeout:        10 * time.Second,
		MaxConcurrent:  4,
		OutputCapBytes: 1 << 20,
	}, osdetect.Linux, nil)

	osInfo := osdetect.Info{Platform: osdetect.Linux, Shell: "bash"}
	return New(registry, providers, exec, sink, osInfo, config.ProvidersConfig{}, nil)
}

func TestPluginHitNeverCallsProvider(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true, response: `{"command": "echo nope"}`}
	d := newTestDispatcher(t, []provider.Provider{fake}, nil)

	res, err := d.Dispatch(context.Background(), Request{Input: "check disk usage", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, command.SourcePlugin, res.Descriptor.Source)
	assert.Equal(t, "system", res.Descriptor.PluginName)
	assert.Equal(t, "df -h", res.Descriptor.Text)
	assert.True(t, res.Execution.WasDryRun)
	assert.Equal(t, 0, fake.calls(), "a plugin hit must not reach any provider")
}

func TestPluginMissFallsBackToLLM(t *testing.T) {
	fake := &fakeProvider{
		name:      "fake",
		available: true,
		response:  `{"command": "echo hi", "explanation": "Print hi", "requires_confirmation": false}`,
	}
	sink := &captureSink{}
	d := newTestDispatcher(t, []provider.Provider{fake}, sink)

	res, err := d.Dispatch(context.Background(), Request{Input: "say hi to me"})
	require.NoError(t, err)

	assert.Equal(t, command.SourceLLM, res.Descriptor.Source)
	assert.Equal(t, "fake", res.Descriptor.ProviderName)
	assert.Equal(t, "hi\n", res.Execution.Stdout)
	assert.Equal(t, 1, fake.calls())
	assert.NotEmpty(t, res.RequestID)

	entries := sink.recorded()
	require.Len(t, entries, 1)
	assert.Equal(t, "say hi to me", entries[0].Input)
	assert.Equal(t, "echo hi", entries[0].Command)
	assert.Equal(t, command.SourceLLM, entries[0].Source)
	assert.Empty(t, entries[0].Failure)
}

func TestUnavailablePrimarySkippedForFallback(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: false}
	fallback := &fakeProvider{name: "fallback", available: true, response: `{"command": "echo fb"}`}
	d := newTestDispatcher(t, []provider.Provider{primary, fallback}, nil)

	res, err := d.Dispatch(context.Background(), Request{Input: "do something unusual", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "fallback", res.Descriptor.ProviderName)
	assert.Equal(t, 0, primary.calls())
	assert.Equal(t, 1, fallback.calls())
}

func TestGenerationFailureFallsThrough(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: true, genErr: apperrors.ErrProviderUnreachable}
	fallback := &fakeProvider{name: "fallback", available: true, response: `{"command": "echo fb"}`}
	d := newTestDispatcher(t, []provider.Provider{primary, fallback}, nil)

	res, err := d.Dispatch(context.Background(), Request{Input: "do something unusual", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "fallback", res.Descriptor.ProviderName)
	assert.Equal(t, 1, primary.calls())
}

func TestNoProviderAvailable(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: false}
	fallback := &fakeProvider{name: "fallback", available: false}
	d := newTestDispatcher(t, []provider.Provider{primary, fallback}, nil)

	_, err := d.Dispatch(context.Background(), Request{Input: "do something unusual"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoProviderAvailable))
	assert.Equal(t, 0, primary.calls())
	assert.Equal(t, 0, fallback.calls())
}

func TestEmptyModelOutputSurfaces(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true, response: "   "}
	d := newTestDispatcher(t, []provider.Provider{fake}, nil)

	_, err := d.Dispatch(context.Background(), Request{Input: "do something unusual"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCommand))
}

func TestHeuristicOutputForcesConfirmation(t *testing.T) {
	// Non-JSON output takes the loose parse path, which marks the command
	// as unverified.
	fake := &fakeProvider{name: "fake", available: true, response: "You should run `echo careful` here."}
	sink := &captureSink{}
	d := newTestDispatcher(t, []provider.Provider{fake}, sink)

	req := Request{Input: "do something unusual"}
	res, err := d.Dispatch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfirmationRequired))
	assert.True(t, res.Descriptor.RequiresConfirmation)

	req.Confirmed = true
	res, err = d.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "careful\n", res.Execution.Stdout)

	// Both attempts are audited; the first records the refusal.
	entries := sink.recorded()
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].Failure)
	assert.Empty(t, entries[1].Failure)
}

func TestExplainUsesProviderChain(t *testing.T) {
	primary := &fakeProvider{name: "primary", available: false}
	fallback := &fakeProvider{name: "fallback", available: true, response: "Shows disk usage for every mounted filesystem."}
	d := newTestDispatcher(t, []provider.Provider{primary, fallback}, nil)

	text, err := d.Explain(context.Background(), "df -h")
	require.NoError(t, err)
	assert.Equal(t, "Shows disk usage for every mounted filesystem.", text)
	assert.Equal(t, 0, primary.calls())
	assert.Equal(t, 1, fallback.calls())
}

func TestExplainNoProviderAvailable(t *testing.T) {
	down := &fakeProvider{name: "down", available: false}
	d := newTestDispatcher(t, []provider.Provider{down}, nil)

	_, err := d.Explain(context.Background(), "df -h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoProviderAvailable))
}

func TestExplainBlankOutput(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true, response: "  \n "}
	d := newTestDispatcher(t, []provider.Provider{fake}, nil)

	_, err := d.Explain(context.Background(), "df -h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
}

func TestBlockedGeneratedCommandAudited(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true, response: `{"command": "rm -rf /"}`}
	sink := &captureSink{}
	d := newTestDispatcher(t, []provider.Provider{fake}, sink)

	_, err := d.Dispatch(context.Background(), Request{Input: "wipe everything"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCommandBlocked))

	entries := sink.recorded()
	require.Len(t, entries, 1)
	assert.Equal(t, "rm -rf /", entries[0].Command)
	assert.NotEmpty(t, entries[0].Failure)
}
