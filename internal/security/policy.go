// Package security validates resolved commands against the safety policy
// before they reach confirmation, preview, or execution.
package security

import (
	"fmt"
	"strings"

	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

// Policy is the safety policy consumed read-only by the executor.
// Loaded once per process, never mutated during a run.
type Policy struct {
	BlockedPatterns            []string
	MaxCommandLength           int
	RequireConfirmationDefault bool
}

// Validate rejects a command line that exceeds the length limit or contains
// any blocked pattern. Pattern matching is case-insensitive substring, so
// "sudo RM -RF / " is caught as readily as the canonical form.
func (p Policy) Validate(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty command")
	}

	if len(text) > p.MaxCommandLength {
		return &apperrors.SecurityError{
			Command: text,
			Reason:  fmt.Sprintf("exceeds maximum length %d (got %d)", p.MaxCommandLength, len(text)),
			Err:     apperrors.ErrCommandTooLong,
		}
	}

	// Control characters have no place in a shell command line.
	if strings.ContainsAny(text, "\x00\x01\x02\x03\x04\x05\x06\x07\x08") {
		return &apperrors.SecurityError{
			Command: text,
			Reason:  "contains control characters",
			Err:     apperrors.ErrCommandBlocked,
		}
	}

	lower := strings.ToLower(text)
	for _, pattern := range p.BlockedPatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return &apperrors.SecurityError{
				Command: text,
				Reason:  fmt.Sprintf("matches blocked pattern %q", pattern),
				Err:     apperrors.ErrCommandBlocked,
			}
		}
	}

	return nil
}
