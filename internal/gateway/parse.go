package gateway

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedResponse means the model replied with something that is not
// the requested JSON shape. Surfaced to the user like any generation failure.
var ErrMalformedResponse = errors.New("response could not be parsed as JSON")

var (
	fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	braceBlock  = regexp.MustCompile(`(?s)\{.*\}`)
)

// decodeJSON parses a model response into v. Models occasionally wrap JSON
// in a markdown code fence or surround it with prose, so the raw text is
// tried first, then the fenced block, then the outermost brace span.
func decodeJSON(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrMalformedResponse
	}

	if m := fencedBlock.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if m := braceBlock.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), v); err == nil {
			return nil
		}
	}

	return ErrMalformedResponse
}
