package neotest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Error is a normalized test failure. Message and Stack are always encoded;
// any other fields reported by the runner (eg. `code`, `failureType`,
// `expected`, `actual`) are carried verbatim in Extra.
//
// ErrorName holds the result's `details.name` as reported, which need not be
// a string. OmitMessage marks a cause that carried no message at all.
type Error struct {
	Message     string
	OmitMessage bool
	Stack       string
	Name        string
	ErrorName   json.RawMessage
	Cause       *Cause
	Extra       map[string]json.RawMessage
}

// Error returns the error name and message.
func (e *Error) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// MarshalJSON encodes the error as a flat object.
func (e *Error) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(e.Extra)+5)
	for key, value := range e.Extra {
		fields[key] = value
	}
	if !e.OmitMessage {
		fields["message"] = e.Message
	}
	fields["stack"] = e.Stack
	if e.Name != "" {
		fields["name"] = e.Name
	}
	if len(e.ErrorName) > 0 {
		fields["errorName"] = e.ErrorName
	}
	if e.Cause != nil {
		fields["cause"] = e.Cause
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a flat error object.
func (e *Error) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}

	_, hasMessage := fields["message"]
	*e = Error{OmitMessage: !hasMessage}
	for key, raw := range fields {
		var err error
		switch key {
		case "message":
			err = json.Unmarshal(raw, &e.Message)
		case "stack":
			err = json.Unmarshal(raw, &e.Stack)
		case "name":
			err = json.Unmarshal(raw, &e.Name)
		case "errorName":
			e.ErrorName = raw
		case "cause":
			e.Cause = &Cause{}
			err = json.Unmarshal(raw, e.Cause)
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[key] = raw
		}
		if err != nil {
			return fmt.Errorf("decoding error field %s: %w", key, err)
		}
	}
	return nil
}

// Cause is what caused an Error. When the runner reported an object it is a
// nested Error, otherwise Value holds the value exactly as received.
type Cause struct {
	Error *Error
	Value json.RawMessage
}

// MarshalJSON encodes either the nested error or the raw value.
func (c Cause) MarshalJSON() ([]byte, error) {
	if c.Error != nil {
		return json.Marshal(c.Error)
	}
	if len(c.Value) == 0 {
		return []byte("null"), nil
	}
	return c.Value, nil
}

// UnmarshalJSON decodes objects into a nested Error and keeps anything else
// raw.
func (c *Cause) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		c.Error = &Error{}
		return json.Unmarshal(trimmed, c.Error)
	}
	c.Value = append(json.RawMessage(nil), trimmed...)
	return nil
}
