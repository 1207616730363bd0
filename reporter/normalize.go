package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nanzhong/neotest"
)

const (
	detailsErrorKey = "error"
	detailsNameKey  = "name"
)

// NormalizeError lifts `details.error` out of a result event's details into a
// flat neotest.Error. It returns the remaining details, nil when nothing is
// left. Details without an error, or with a null error, are returned as is.
//
// The error message is required: an error without a string message yields
// ErrMissingErrorMessage.
func NormalizeError(details map[string]json.RawMessage) (*neotest.Error, map[string]json.RawMessage, error) {
	raw, ok := details[detailsErrorKey]
	if !ok || isNull(raw) {
		return nil, details, nil
	}

	fields, err := decodeObject(raw)
	if err != nil {
		return nil, nil, ErrMissingErrorMessage
	}
	if _, ok := fields["message"]; !ok {
		return nil, nil, ErrMissingErrorMessage
	}
	e, err := normalizeFields(fields)
	if err != nil {
		return nil, nil, err
	}

	remaining := make(map[string]json.RawMessage, len(details))
	for key, value := range details {
		if key == detailsErrorKey {
			continue
		}
		remaining[key] = value
	}

	if name, ok := remaining[detailsNameKey]; ok && truthy(name) {
		e.ErrorName = append(json.RawMessage(nil), bytes.TrimSpace(name)...)
		delete(remaining, detailsNameKey)
	}

	if len(remaining) == 0 {
		remaining = nil
	}
	return e, remaining, nil
}

// normalizeFields builds an Error from a decoded error object. Object causes
// are normalized the same way, anything else is kept verbatim.
func normalizeFields(fields map[string]json.RawMessage) (*neotest.Error, error) {
	e := &neotest.Error{}
	for key, raw := range fields {
		switch key {
		case "message":
			var message string
			if err := json.Unmarshal(raw, &message); err != nil || isNull(raw) {
				return nil, ErrMissingErrorMessage
			}
			e.Message = collapseMessage(message)
		case "stack":
			e.Stack = decodeString(raw)
		case "name":
			e.Name = decodeString(raw)
		case "cause":
			cause, err := normalizeCause(raw)
			if err != nil {
				return nil, fmt.Errorf("normalizing cause: %w", err)
			}
			e.Cause = cause
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[key] = raw
		}
	}
	return e, nil
}

func normalizeCause(raw json.RawMessage) (*neotest.Cause, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return &neotest.Cause{Value: append(json.RawMessage(nil), bytes.TrimSpace(raw)...)}, nil
	}

	// Unlike the top level error, a cause may lack a message.
	message, ok := fields["message"]
	omit := !ok || isNull(message)
	if omit {
		delete(fields, "message")
	}
	e, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}
	e.OmitMessage = omit
	return &neotest.Cause{Error: e}, nil
}

// collapseMessage replaces every newline with a space and trims the result.
func collapseMessage(message string) string {
	return strings.TrimSpace(strings.ReplaceAll(message, "\n", " "))
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("not an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// truthy reports whether a JSON value would count as true in a condition:
// anything but null, false, zero and the empty string.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", `""`:
		return false
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n != 0
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
