package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// taskEnvelope is the expected top-level response shape
type taskEnvelope struct {
	Tasks []TaskPayload `json:"tasks"`
}

// ParseTaskResponse parses the model's JSON response into task payloads.
// The model sometimes wraps JSON in markdown code fences; those are stripped
// first. A response that parses but contains no tasks is an error, so callers
// never mistake a malformed reply for an intentionally empty list.
func ParseTaskResponse(content string) ([]TaskPayload, error) {
	jsonStr := extractJSON(content)

	var envelope taskEnvelope
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		// Some models return a bare array instead of the documented envelope
		var bare []TaskPayload
		if err2 := json.Unmarshal([]byte(jsonStr), &bare); err2 == nil {
			envelope.Tasks = bare
		} else {
			return nil, fmt.Errorf("failed to parse model response: %w", err)
		}
	}

	if len(envelope.Tasks) == 0 {
		return nil, fmt.Errorf("model response contained no tasks")
	}

	return envelope.Tasks, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
