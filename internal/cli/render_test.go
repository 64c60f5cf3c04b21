package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/dispatch"
)

func testDescriptor(t *testing.T) command.Descriptor {
	t.Helper()
	desc, err := command.NewLLMDescriptor("docker system prune -f", "ollama", "Remove unused data", true)
	require.NoError(t, err)
	return desc
}

func TestPromptConfirmationAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes short", input: "y\n", want: true},
		{name: "yes long", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "anything else declines", input: "sure why not\n", want: false},
		{name: "eof declines", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			in := bufio.NewScanner(strings.NewReader(tt.input))

			got := promptConfirmation(&out, in, testDescriptor(t))
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "docker system prune -f")
			assert.Contains(t, out.String(), "Proceed? [y/N]")
		})
	}
}

func TestPromptConfirmationSharesCallerScanner(t *testing.T) {
	// The chat loop and the prompt read the same stream. The prompt must
	// consume exactly one line from the caller's scanner, leaving the next
	// request intact for the loop.
	in := bufio.NewScanner(strings.NewReader("clean up docker\ny\ncheck disk usage\n"))
	require.True(t, in.Scan())
	assert.Equal(t, "clean up docker", in.Text())

	var out bytes.Buffer
	assert.True(t, promptConfirmation(&out, in, testDescriptor(t)))

	require.True(t, in.Scan())
	assert.Equal(t, "check disk usage", in.Text())
}

func TestRenderResult(t *testing.T) {
	desc, err := command.NewPluginDescriptor("df -h", "system", "Show disk usage", false)
	require.NoError(t, err)

	t.Run("dry run", func(t *testing.T) {
		var out bytes.Buffer
		renderResult(&out, dispatch.Result{
			Descriptor: desc,
			Execution:  command.ExecutionResult{WasDryRun: true},
		})
		assert.Contains(t, out.String(), "[plugin:system] df -h")
		assert.Contains(t, out.String(), "(dry run, not executed)")
	})

	t.Run("non-zero exit", func(t *testing.T) {
		var out bytes.Buffer
		renderResult(&out, dispatch.Result{
			Descriptor: desc,
			Execution: command.ExecutionResult{
				ExitCode: 2,
				Stderr:   "df: /mnt: no such device\n",
				Duration: 12 * time.Millisecond,
			},
		})
		assert.Contains(t, out.String(), "no such device")
		assert.Contains(t, out.String(), "(exit code 2")
	})
}
