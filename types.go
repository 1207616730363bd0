package neotest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a test or suite node.
type Status string

const (
	// StatusStarted represents a node that has started but not yet reported a
	// result.
	StatusStarted Status = "started"
	// StatusPassed represents a passed test or suite.
	StatusPassed Status = "passed"
	// StatusFailed represents a failed test or suite.
	StatusFailed Status = "failed"
	// StatusSkipped represents a skipped test.
	StatusSkipped Status = "skipped"
	// StatusTodo represents a test marked as todo.
	StatusTodo Status = "todo"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether a result event can settle a node with this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusTodo:
		return true
	default:
		return false
	}
}

// Event is a single test lifecycle event as emitted by the upstream test
// runner, eg. `{"type":"test:start","data":{...}}`.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData is the payload of an Event as received.
//
// Skip and Todo are kept raw since only the presence of the key matters; a
// JSON null still counts as present.
type EventData struct {
	Nesting    int                        `json:"nesting"`
	Name       string                     `json:"name"`
	File       string                     `json:"file,omitempty"`
	Line       *int                       `json:"line,omitempty"`
	Column     *int                       `json:"column,omitempty"`
	TestNumber json.RawMessage            `json:"testNumber,omitempty"`
	Skip       json.RawMessage            `json:"skip,omitempty"`
	Todo       json.RawMessage            `json:"todo,omitempty"`
	Details    map[string]json.RawMessage `json:"details,omitempty"`
}

// Node is an element of the reconstructed test tree. Suites and tests are
// both nodes; suites have children.
type Node struct {
	Name       string                     `json:"name"`
	File       string                     `json:"file,omitempty"`
	Line       *int                       `json:"line,omitempty"`
	Column     *int                       `json:"column,omitempty"`
	Status     Status                     `json:"status"`
	TestNumber *int                       `json:"testNumber,omitempty"`
	Error      *Error                     `json:"error,omitempty"`
	Details    map[string]json.RawMessage `json:"details,omitempty"`
	Depth      int                        `json:"depth"`
	Children   []*Node                    `json:"children"`
}

// Location is the position of a test in its file.
type Location struct {
	Line   *int `json:"line,omitempty" yaml:"line,omitempty"`
	Column *int `json:"column,omitempty" yaml:"column,omitempty"`
}

// Result is the flattened, UI facing record for a single node.
type Result struct {
	Status   Status   `json:"status" yaml:"status"`
	Short    string   `json:"short" yaml:"short"`
	Location Location `json:"location" yaml:"location"`
}

// Report is the outcome of processing one event stream.
type Report struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Results   *Results  `json:"results"`
	Tree      []*Node   `json:"tree"`
}

// Counts returns the number of results per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	if r.Results == nil {
		return counts
	}
	for _, result := range r.Results.All() {
		counts[result.Status]++
	}
	return counts
}

// Failed returns the identifiers of failed results in report order.
func (r *Report) Failed() []string {
	var failed []string
	if r.Results == nil {
		return failed
	}
	for id, result := range r.Results.All() {
		if result.Status == StatusFailed {
			failed = append(failed, id)
		}
	}
	return failed
}
