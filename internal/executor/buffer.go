package executor

import (
	"bytes"
	"sync"
)

// truncationMarker is appended to a stream that exceeded its byte cap.
const truncationMarker = "\n... [output truncated]"

// cappedBuffer accepts writes forever but retains at most cap bytes.
// Reporting full write lengths keeps a runaway producer from blocking on a
// pipe that nobody will ever drain.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	cap       int
	truncated bool
}

func newCappedBuffer(capBytes int) *cappedBuffer {
	return &cappedBuffer{cap: capBytes}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.cap - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated {
		return b.buf.String() + truncationMarker
	}
	return b.buf.String()
}
