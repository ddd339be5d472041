package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/thinkfast/internal/llm"
)

var errNoJSONObject = errors.New("no JSON object in response")

// ExtractJSON returns the substring from the first '{' to the last '}'
// inclusive. Models often wrap the object in prose or code fences.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

// ParseResult extracts, validates and decodes a score report from raw
// model output. Failures are *Error with KindMalformedResponse.
func ParseResult(text string) (*Result, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: err}
	}

	if err := llm.ValidateContent(ResultSchema, json.RawMessage(raw)); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: err}
	}

	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("decode score report: %w", err)}
	}
	return &res, nil
}
