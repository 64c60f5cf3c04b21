package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

func testPolicy() Policy {
	return Policy{
		BlockedPatterns: []string{
			"rm -rf /",
			"mkfs",
			"dd if=/dev/zero of=/dev/",
			"format c:",
		},
		MaxCommandLength: 100,
	}
}

func TestValidateAllowsOrdinaryCommands(t *testing.T) {
	p := testPolicy()

	for _, cmd := range []string{
		"df -h",
		"docker ps -a",
		"rm -rf ./build", // relative path, not the filesystem root
		"echo 'informal'",
	} {
		assert.NoError(t, p.Validate(cmd), cmd)
	}
}

func TestValidateBlockedPatterns(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name string
		cmd  string
	}{
		{name: "canonical form", cmd: "rm -rf /"},
		{name: "embedded in longer command", cmd: "sudo rm -rf / --no-preserve-root"},
		{name: "case insensitive", cmd: "RM -RF /"},
		{name: "filesystem format", cmd: "mkfs.ext4 /dev/sda1"},
		{name: "windows format", cmd: "FORMAT C: /q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrCommandBlocked))

			var secErr *apperrors.SecurityError
			require.True(t, errors.As(err, &secErr))
			assert.NotEmpty(t, secErr.Reason)
		})
	}
}

func TestValidateLengthLimit(t *testing.T) {
	p := testPolicy()

	boundary := strings.Repeat("a", 100)
	assert.NoError(t, p.Validate(boundary))

	over := strings.Repeat("a", 101)
	err := p.Validate(over)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCommandTooLong))
}

func TestValidateControlCharacters(t *testing.T) {
	p := testPolicy()

	err := p.Validate("echo hi\x00; rm -rf /tmp/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCommandBlocked))
}

func TestValidateEmptyCommand(t *testing.T) {
	p := testPolicy()
	assert.Error(t, p.Validate(""))
	assert.Error(t, p.Validate("   "))
}
