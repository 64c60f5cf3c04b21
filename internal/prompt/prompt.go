// Package prompt encodes the natural-language-to-command contract: the
// builder embeds the platform and the structured-output instruction into
// the prompt, and the parser defensively extracts a command descriptor
// from whatever the model actually returned.
package prompt

import (
	"fmt"
	"strings"

	"github.com/chatops-cli/chatops/internal/osdetect"
)

const template = `You are a DevOps assistant that converts natural language requests into shell commands.

Operating system: %s
Shell: %s
User request: %s

Respond with a JSON object of exactly this shape:
{
    "command": "the exact shell command to execute",
    "explanation": "brief description of what this command does",
    "requires_confirmation": true/false,
    "plugin": "name of a built-in handler if one obviously applies, else empty"
}

Rules:
1. Provide only standard commands that exist on the stated operating system.
2. Mark destructive operations with "requires_confirmation": true.
3. Be conservative - err on the side of caution.
4. Output the JSON object only, no surrounding prose or code fences.

Examples:
- "check disk space" on linux -> {"command": "df -h", "explanation": "Show disk usage for mounted filesystems", "requires_confirmation": false, "plugin": "system"}
- "delete all files here" on linux -> {"command": "rm -rf *", "explanation": "Recursively delete everything in the current directory", "requires_confirmation": true, "plugin": ""}`

// Build assembles the provider prompt for a user request on a platform.
func Build(input string, info osdetect.Info) string {
	return fmt.Sprintf(template, info.Platform, info.Shell, strings.TrimSpace(input))
}

const explainTemplate = `You are a DevOps assistant. Explain what the following %s shell command does.

Command: %s

Describe its effect in two or three plain sentences, note any destructive
behavior, and mention nothing else. Respond with plain text only, no JSON,
no code fences.`

// BuildExplain assembles a prompt asking the model to describe a command
// rather than produce one.
func BuildExplain(commandText string, info osdetect.Info) string {
	return fmt.Sprintf(explainTemplate, info.Platform, strings.TrimSpace(commandText))
}
