package reporter

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nanzhong/neotest"
)

// Kind groups event types by how the tree consumes them.
type Kind int

const (
	// KindOther is any event the tree ignores (enqueue, dequeue, diagnostic,
	// stdout, plan, coverage, ...).
	KindOther Kind = iota
	// KindStart opens a new node.
	KindStart
	// KindResult settles the open node at the event's depth.
	KindResult
)

func kindOf(eventType string) Kind {
	switch eventType {
	case "test:start", "suite:start":
		return KindStart
	case "test:pass", "test:fail", "suite:pass", "suite:fail":
		return KindResult
	default:
		return KindOther
	}
}

// Classified is an event with its semantic status derived and its fields
// normalized.
type Classified struct {
	Type       string
	Kind       Kind
	Depth      int
	Name       string
	File       string
	Line       *int
	Column     *int
	TestNumber *int
	Status     neotest.Status
	Details    map[string]json.RawMessage
}

// Classify derives the status of an event and normalizes its fields. The
// event itself is left untouched.
func Classify(event *neotest.Event) *Classified {
	data := event.Data
	c := &Classified{
		Type:       event.Type,
		Kind:       kindOf(event.Type),
		Depth:      data.Nesting,
		Name:       data.Name,
		File:       data.File,
		Line:       data.Line,
		Column:     data.Column,
		TestNumber: parseTestNumber(data.TestNumber),
		Status:     deriveStatus(event),
	}

	if len(data.Details) > 0 {
		c.Details = make(map[string]json.RawMessage, len(data.Details))
		for key, value := range data.Details {
			c.Details[key] = value
		}
	}
	return c
}

func deriveStatus(event *neotest.Event) neotest.Status {
	switch {
	case len(event.Data.Skip) > 0:
		return neotest.StatusSkipped
	case len(event.Data.Todo) > 0:
		return neotest.StatusTodo
	}

	phase := strings.TrimPrefix(event.Type, "test:")
	phase = strings.TrimPrefix(phase, "suite:")
	return neotest.Status(phase + "ed")
}

// parseTestNumber accepts the test number as a JSON string or number and
// parses its leading integer. Absent, empty and unparseable values yield nil.
func parseTestNumber(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	text = strings.TrimSpace(text)

	end := 0
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}
	digits := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}

	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return nil
	}
	return &n
}
