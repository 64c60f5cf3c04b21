package prompt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

// Response is the structured shape the model is instructed to return.
// It mirrors the descriptor fields minus the resolution source.
type Response struct {
	Command              string `json:"command"`
	Explanation          string `json:"explanation"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	Plugin               string `json:"plugin"`
}

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	// Fallback extraction patterns, tried in order: fenced code block,
	// inline backticks, double quotes, first non-empty line.
	fallbackPatterns = []*regexp.Regexp{
		regexp.MustCompile("(?s)```(?:\\w+)?\\s*\\n?(.+?)```"),
		regexp.MustCompile("`([^`]+)`"),
		regexp.MustCompile(`"([^"]+)"`),
	}
)

// Parse extracts a Response from raw model output. Strict JSON decoding is
// attempted first; on failure a heuristic pass treats the output as loose
// command text and marks it as requiring confirmation, since nothing about
// it has been verified. Output that yields no command either way is
// ErrEmptyCommand - surfaced upstream like any provider failure, never
// silently executed.
func Parse(raw string) (Response, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Response{}, fmt.Errorf("blank model output: %w", apperrors.ErrEmptyCommand)
	}

	if resp, ok := parseStructured(text); ok {
		if resp.Command == "" {
			return Response{}, fmt.Errorf("structured response with empty command: %w", apperrors.ErrEmptyCommand)
		}
		return resp, nil
	}

	return parseLoose(text)
}

func parseStructured(text string) (Response, bool) {
	if resp, ok := decodeObject(text); ok {
		return resp, true
	}

	// Models wrap the object in prose on either side; retry on the first
	// {...} extraction before giving up on structured decoding.
	match := jsonObjectPattern.FindString(text)
	if match == "" || match == text {
		return Response{}, false
	}
	return decodeObject(match)
}

func decodeObject(candidate string) (Response, bool) {
	var resp Response
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return Response{}, false
	}
	resp.Command = strings.TrimSpace(resp.Command)
	return resp, true
}

func parseLoose(text string) (Response, error) {
	cmd := ""
	for _, pattern := range fallbackPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			cmd = strings.TrimSpace(m[1])
			break
		}
	}

	if cmd == "" {
		// First non-empty line, minus a leading shell prompt marker.
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				cmd = strings.TrimPrefix(line, "$ ")
				break
			}
		}
	}

	// Multi-line extractions collapse to their first line; a shell command
	// line is one line.
	if idx := strings.IndexByte(cmd, '\n'); idx >= 0 {
		cmd = strings.TrimSpace(cmd[:idx])
	}

	if cmd == "" {
		return Response{}, fmt.Errorf("no command found in model output: %w", apperrors.ErrEmptyCommand)
	}

	return Response{
		Command:              cmd,
		Explanation:          fmt.Sprintf("Execute: %s", cmd),
		RequiresConfirmation: true, // unverified extraction, be defensive
	}, nil
}
