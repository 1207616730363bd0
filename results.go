package neotest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// Results maps test identifiers to their Result while remembering insertion
// order. Setting an identifier that already exists replaces its value but
// keeps its original position. The zero value is ready to use.
type Results struct {
	keys   []string
	values map[string]*Result
}

// NewResults constructs an empty Results.
func NewResults() *Results {
	return &Results{values: make(map[string]*Result)}
}

// Set adds or replaces the result for id.
func (r *Results) Set(id string, result *Result) {
	if r.values == nil {
		r.values = make(map[string]*Result)
	}
	if _, exists := r.values[id]; !exists {
		r.keys = append(r.keys, id)
	}
	r.values[id] = result
}

// Get returns the result for id.
func (r *Results) Get(id string) (*Result, bool) {
	if r == nil {
		return nil, false
	}
	result, ok := r.values[id]
	return result, ok
}

// Len returns the number of results.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the identifiers in insertion order.
func (r *Results) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// All iterates over the results in insertion order.
func (r *Results) All() iter.Seq2[string, *Result] {
	return func(yield func(string, *Result) bool) {
		if r == nil {
			return
		}
		for _, id := range r.keys {
			if !yield(id, r.values[id]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the results as a JSON object in insertion order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(id)
		if err != nil {
			return nil, err
		}
		value, err := marshalUnescaped(r.values[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
func (r *Results) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding results: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding results: expected object, got %v", tok)
	}

	*r = Results{values: make(map[string]*Result)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding results: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding results: expected key, got %v", tok)
		}

		var result Result
		if err := dec.Decode(&result); err != nil {
			return fmt.Errorf("decoding result %s: %w", id, err)
		}
		r.Set(id, &result)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding results: %w", err)
	}
	return nil
}

// MarshalYAML encodes the results as a YAML mapping in insertion order.
func (r *Results) MarshalYAML() (interface{}, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for id, result := range r.All() {
		var value yaml.Node
		if err := value.Encode(result); err != nil {
			return nil, fmt.Errorf("encoding result %s: %w", id, err)
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&value,
		)
	}
	return mapping, nil
}

// marshalUnescaped is json.Marshal without HTML escaping of `<`, `>` and `&`.
func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
