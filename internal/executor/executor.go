// Package executor is the only component permitted to spawn subprocesses.
// It validates a resolved command against the safety policy, optionally
// previews it, then runs it under the platform shell with a timeout,
// bounded concurrency, and capped output capture.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/config"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/security"
)

// Options control one execution.
type Options struct {
	// DryRun returns the would-be result without spawning anything.
	DryRun bool
	// Confirmed acknowledges a destructive command. The executor never
	// prompts; the orchestrating layer owns the prompt and re-invokes
	// with Confirmed set.
	Confirmed bool
}

// Executor runs resolved commands as subprocesses.
type Executor struct {
	policy    security.Policy
	sem       *semaphore.Weighted
	timeout   time.Duration
	outputCap int
	platform  osdetect.Platform
	logger    *zap.Logger
}

// New builds an executor bound to the detected platform's shell.
func New(policy security.Policy, cfg config.ExecutionConfig, platform osdetect.Platform, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		policy:    policy,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		timeout:   cfg.Timeout,
		outputCap: cfg.OutputCapBytes,
		platform:  platform,
		logger:    logger,
	}
}

// Validate applies the safety policy. It runs before any confirmation
// prompt or dry-run preview; a blocked command never reaches either.
func (e *Executor) Validate(desc command.Descriptor) error {
	return e.policy.Validate(desc.Text)
}

// Preview returns the command text and explanation. No I/O.
func (e *Executor) Preview(desc command.Descriptor) string {
	if desc.Explanation == "" {
		return desc.Text
	}
	return fmt.Sprintf("%s\n# %s", desc.Text, desc.Explanation)
}

// Execute validates and runs the descriptor. A failing shell command is a
// successful execution with a non-zero exit code, not an error; errors mean
// the executor itself could not or would not run the command.
func (e *Executor) Execute(ctx context.Context, desc command.Descriptor, opts Options) (command.ExecutionResult, error) {
	if err := e.Validate(desc); err != nil {
		return command.ExecutionResult{}, err
	}

	if opts.DryRun {
		return command.ExecutionResult{WasDryRun: true}, nil
	}

	if desc.RequiresConfirmation && !opts.Confirmed {
		return command.ExecutionResult{}, fmt.Errorf("%q requires confirmation: %w", desc.Text, apperrors.ErrConfirmationRequired)
	}

	// Backpressure: beyond the concurrency limit, requests queue here
	// until a slot frees or the request deadline expires.
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return command.ExecutionResult{}, fmt.Errorf("waiting for execution slot: %w", apperrors.ErrExecutionTimeout)
	}
	defer e.sem.Release(1)

	return e.run(ctx, desc)
}

func (e *Executor) run(ctx context.Context, desc command.Descriptor) (command.ExecutionResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	shell, args := osdetect.ShellCommand(e.platform)
	cmd := exec.Command(shell, append(args, desc.Text)...)
	cmd.SysProcAttr = sysProcAttr()

	stdout := newCappedBuffer(e.outputCap)
	stderr := newCappedBuffer(e.outputCap)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return command.ExecutionResult{}, fmt.Errorf("starting %q: %v: %w", desc.Text, err, apperrors.ErrSpawnFailed)
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	select {
	case <-runCtx.Done():
		// Kill the whole process group so no orphaned children survive
		// the timeout, then reap the direct child.
		killTree(cmd)
		<-waitDone
		e.logger.Warn("command timed out",
			zap.String("command", desc.Text),
			zap.Duration("timeout", e.timeout))
		return command.ExecutionResult{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(start),
		}, fmt.Errorf("%q exceeded %v: %w", desc.Text, e.timeout, apperrors.ErrExecutionTimeout)

	case err := <-waitDone:
		result := command.ExecutionResult{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(start),
		}
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				result.ExitCode = exitErr.ExitCode()
			} else {
				return result, fmt.Errorf("waiting on %q: %v: %w", desc.Text, err, apperrors.ErrSpawnFailed)
			}
		}
		e.logger.Debug("command complete",
			zap.String("command", desc.Text),
			zap.Int("exit_code", result.ExitCode),
			zap.Duration("duration", result.Duration))
		return result, nil
	}
}
