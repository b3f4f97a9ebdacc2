// Package extract locates embedded JSON values in LLM free-text output.
// Model responses routinely wrap JSON in markdown fences or surround it with
// prose, so callers must never assume the whole response parses.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotFound is returned when the input contains no syntactically valid
// JSON object or array anywhere. It is a normal outcome, not a failure of
// the extractor itself.
var ErrNotFound = errors.New("no JSON value found in text")

// Value returns the first well-formed JSON object or array embedded in text.
// It scans for each opening bracket in order of position and attempts a
// decode starting there; the earliest position that yields a complete value
// wins. Anything after the matched value's closing bracket is ignored.
func Value(text string) (json.RawMessage, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}
	}
	return nil, ErrNotFound
}

// Object returns the first embedded JSON object, skipping arrays.
func Object(text string) (json.RawMessage, error) {
	return valueOfKind(text, '{')
}

// Array returns the first embedded JSON array, skipping objects.
func Array(text string) (json.RawMessage, error) {
	return valueOfKind(text, '[')
}

func valueOfKind(text string, open byte) (json.RawMessage, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}
	}
	return nil, ErrNotFound
}

// Into extracts the first embedded JSON value and unmarshals it into v.
func Into(text string, v any) error {
	raw, err := Value(text)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// IsArray reports whether a raw extracted value is a JSON array.
func IsArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
