package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseJSON coerces an LLM response into a value of type T.
// It handles common quirks: a JSON object wrapped in a markdown code fence,
// or surrounded by extra prose. The fenced block wins when present;
// otherwise the substring between the first '{' and the last '}' is used.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr := response
	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		jsonStr = m[1]
	}

	start := strings.Index(jsonStr, "{")
	end := strings.LastIndex(jsonStr, "}")
	if start == -1 || end == -1 || start >= end {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	jsonStr = jsonStr[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}

// Truncate cuts s to at most n runes, appending an ellipsis marker when
// anything was dropped.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
