package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/dispatch"
)

// renderResult writes one dispatch outcome to the terminal: where the
// command came from, what ran, and what it produced.
func renderResult(w io.Writer, res dispatch.Result) {
	desc := res.Descriptor

	fmt.Fprintf(w, "[%s] %s\n", sourceLabel(desc), desc.Text)
	if desc.Explanation != "" {
		fmt.Fprintf(w, "  %s\n", desc.Explanation)
	}

	if res.Execution.WasDryRun {
		fmt.Fprintln(w, "(dry run, not executed)")
		return
	}

	if out := strings.TrimRight(res.Execution.Stdout, "\n"); out != "" {
		fmt.Fprintln(w, out)
	}
	if errOut := strings.TrimRight(res.Execution.Stderr, "\n"); errOut != "" {
		fmt.Fprintln(w, errOut)
	}
	if res.Execution.ExitCode != 0 {
		fmt.Fprintf(w, "(exit code %d, %v)\n", res.Execution.ExitCode, res.Execution.Duration.Round(time.Millisecond))
	}
}

func sourceLabel(desc command.Descriptor) string {
	if desc.Source == command.SourcePlugin {
		return "plugin:" + desc.PluginName
	}
	return "llm:" + desc.ProviderName
}

// promptConfirmation shows the command and asks for an explicit yes.
// Anything other than y/yes declines. The caller passes its own input
// scanner; layering a second buffered reader over the same stream would
// let one side read ahead and swallow the other's line.
func promptConfirmation(out io.Writer, in *bufio.Scanner, desc command.Descriptor) bool {
	fmt.Fprintf(out, "About to run: %s\n", desc.Text)
	if desc.Explanation != "" {
		fmt.Fprintf(out, "  %s\n", desc.Explanation)
	}
	fmt.Fprint(out, "Proceed? [y/N] ")

	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}
