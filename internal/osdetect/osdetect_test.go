package osdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectReturnsKnownPlatform(t *testing.T) {
	info := Detect()
	assert.Contains(t, []Platform{Windows, Linux, MacOS}, info.Platform)
	assert.NotEmpty(t, info.Shell)
}

func TestShellCommand(t *testing.T) {
	shell, args := ShellCommand(Linux)
	assert.Equal(t, "/bin/sh", shell)
	assert.Equal(t, []string{"-c"}, args)

	shell, args = ShellCommand(Windows)
	assert.Equal(t, "powershell", shell)
	assert.Equal(t, []string{"-NoProfile", "-Command"}, args)
}

func TestMapCommandPerPlatform(t *testing.T) {
	tests := []struct {
		intent   string
		platform Platform
		want     string
	}{
		{intent: "disk_usage", platform: Linux, want: "df -h"},
		{intent: "disk_usage", platform: MacOS, want: "df -h"},
		{intent: "memory_usage", platform: Linux, want: "free -h"},
		{intent: "memory_usage", platform: MacOS, want: "vm_stat"},
	}

	for _, tt := range tests {
		got, ok := MapCommand(tt.intent, tt.platform)
		require.True(t, ok, tt.intent)
		assert.Equal(t, tt.want, got)
	}
}

func TestMapCommandWindowsForms(t *testing.T) {
	got, ok := MapCommand("disk_usage", Windows)
	require.True(t, ok)
	assert.Contains(t, got, "Get-WmiObject")
}

func TestMapCommandUnknownIntent(t *testing.T) {
	_, ok := MapCommand("make_coffee", Linux)
	assert.False(t, ok)
}

func TestEveryIntentCoversEveryPlatform(t *testing.T) {
	for intent := range commandMappings {
		for _, p := range []Platform{Windows, Linux, MacOS} {
			got, ok := MapCommand(intent, p)
			assert.True(t, ok, intent)
			assert.NotEmpty(t, got, "%s on %s", intent, p)
		}
	}
}
