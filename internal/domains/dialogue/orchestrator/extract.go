package orchestrator

import (
	"encoding/json"
	"errors"
	"fmt"
	"kiosk/internal/domains/dialogue/model"
	"kiosk/shared/validator"
	"strings"
)

var errNoJSON = errors.New("no JSON object in model output")

// ExtractJSON returns the first balanced JSON object in raw. Braces inside strings are ignored,
// so surrounding prose and markdown fences do not matter.
func ExtractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}

			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}

// Parse turns raw model output into a validated suggestion.
func Parse(raw string) (model.Suggestion, error) {
	var suggestion model.Suggestion

	object, ok := ExtractJSON(raw)
	if !ok {
		return suggestion, errNoJSON
	}

	if err := json.Unmarshal([]byte(object), &suggestion); err != nil {
		return suggestion, fmt.Errorf("failed to decode model output: %w", err)
	}

	if err := validator.ValidateStruct(&suggestion); err != nil {
		return suggestion, fmt.Errorf("model output failed validation: %w", err)
	}

	if !suggestion.Intent.Valid() {
		return suggestion, fmt.Errorf("model output has unknown intent %q", suggestion.Intent)
	}

	if suggestion.NextSlotToAsk != "" {
		if _, ok := model.ParseSlot(suggestion.NextSlotToAsk); !ok {
			return suggestion, fmt.Errorf("model output asks for unknown slot %q", suggestion.NextSlotToAsk)
		}
	}

	return suggestion, nil
}
