// Package audit records every execution attempt. The core only depends on
// the append contract; the SQLite store is the shipped implementation.
package audit

import (
	"context"
	"time"

	"github.com/chatops-cli/chatops/internal/command"
)

// Entry is one structured execution record.
type Entry struct {
	RequestID string
	Input     string
	Command   string
	Source    command.Source
	ExitCode  int
	Duration  time.Duration
	DryRun    bool
	Failure   string // empty on success; error text otherwise
	CreatedAt time.Time
}

// Sink receives execution records. Implementations must tolerate being
// called from concurrent requests.
type Sink interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// Nop discards every record. Used in tests and when auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) Close() error                        { return nil }
