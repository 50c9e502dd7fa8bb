// Package extract pulls structured JSON out of free-form model completions.
//
// Two shapes are supported: a single JSON array somewhere in the text, and
// any number of JSON objects wrapped in sentinel markers. Array extraction
// takes the span from the first '[' to the last ']', so a reply containing
// two separate arrays yields one invalid span and fails.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Markers used by the chat protocol to embed recipes in assistant replies
const (
	RecipeStart = "RECIPE_START"
	RecipeEnd   = "RECIPE_END"
)

// Kind classifies extraction failures
type Kind string

const (
	MalformedPayload Kind = "malformed_payload"
)

// Error is returned when the expected JSON cannot be recovered. Raw holds
// the full completion text so callers can surface it.
type Error struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	arrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)
	errNoArray   = errors.New("no JSON array found in response")
)

// JSONArray returns the elements of the JSON array embedded in text
func JSONArray(text string) ([]json.RawMessage, error) {
	span, err := arraySpan(text)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, &Error{Kind: MalformedPayload, Raw: text, Err: fmt.Errorf("failed to parse JSON array: %w", err)}
	}
	if items == nil {
		// "null" is not an array
		return nil, &Error{Kind: MalformedPayload, Raw: text, Err: errNoArray}
	}
	return items, nil
}

// DecodeArray extracts the embedded array and decodes it into []T
func DecodeArray[T any](text string) ([]T, error) {
	span, err := arraySpan(text)
	if err != nil {
		return nil, err
	}

	var out []T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, &Error{Kind: MalformedPayload, Raw: text, Err: fmt.Errorf("failed to decode JSON array: %w", err)}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func arraySpan(text string) (string, error) {
	span := arrayPattern.FindString(text)
	if span == "" {
		return "", &Error{Kind: MalformedPayload, Raw: text, Err: errNoArray}
	}
	return span, nil
}

func markerPattern(start, end string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(start) + `\s*([\s\S]*?)\s*` + regexp.QuoteMeta(end))
}

// EmbeddedObjects returns every JSON object found between start and end
// markers, in order of appearance. Spans that are not a single JSON object
// are skipped. It never fails.
func EmbeddedObjects(text, start, end string) []json.RawMessage {
	objs, _ := embedded(text, start, end)
	return objs
}

func embedded(text, start, end string) ([]json.RawMessage, int) {
	matches := markerPattern(start, end).FindAllStringSubmatch(text, -1)
	objs := make([]json.RawMessage, 0, len(matches))
	dropped := 0
	for _, m := range matches {
		body := strings.TrimSpace(m[1])
		if !isObject(body) {
			dropped++
			continue
		}
		objs = append(objs, json.RawMessage(body))
	}
	return objs, dropped
}

func isObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &obj) == nil
}

// DecodeEmbedded decodes each embedded object into T. The second return
// value counts spans that were dropped because they did not parse.
func DecodeEmbedded[T any](text, start, end string) ([]T, int) {
	objs, dropped := embedded(text, start, end)
	out := make([]T, 0, len(objs))
	for _, raw := range objs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}

// StripEmbedded removes marker spans from text, leaving the prose around them
func StripEmbedded(text, start, end string) string {
	stripped := markerPattern(start, end).ReplaceAllString(text, "")
	return strings.TrimSpace(stripped)
}
