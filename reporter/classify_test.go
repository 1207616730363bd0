package reporter

import (
	"encoding/json"
	"testing"

	"github.com/nanzhong/neotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEvent(t *testing.T, s string) *neotest.Event {
	t.Helper()
	var event neotest.Event
	require.NoError(t, json.Unmarshal([]byte(s), &event))
	return &event
}

func TestClassify_Status(t *testing.T) {
	tests := []struct {
		event  string
		kind   Kind
		status neotest.Status
	}{
		{event: `{"type":"test:start","data":{}}`, kind: KindStart, status: neotest.StatusStarted},
		{event: `{"type":"suite:start","data":{}}`, kind: KindStart, status: neotest.StatusStarted},
		{event: `{"type":"test:pass","data":{}}`, kind: KindResult, status: neotest.StatusPassed},
		{event: `{"type":"test:fail","data":{}}`, kind: KindResult, status: neotest.StatusFailed},
		{event: `{"type":"suite:pass","data":{}}`, kind: KindResult, status: neotest.StatusPassed},
		{event: `{"type":"suite:fail","data":{}}`, kind: KindResult, status: neotest.StatusFailed},
		{event: `{"type":"test:pass","data":{"skip":true}}`, kind: KindResult, status: neotest.StatusSkipped},
		{event: `{"type":"test:pass","data":{"skip":null}}`, kind: KindResult, status: neotest.StatusSkipped},
		{event: `{"type":"test:fail","data":{"todo":"later"}}`, kind: KindResult, status: neotest.StatusTodo},
		{event: `{"type":"test:pass","data":{"skip":false,"todo":true}}`, kind: KindResult, status: neotest.StatusSkipped},
		{event: `{"type":"test:enqueue","data":{}}`, kind: KindOther},
		{event: `{"type":"test:diagnostic","data":{}}`, kind: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			c := Classify(decodeEvent(t, tt.event))
			assert.Equal(t, tt.kind, c.Kind)
			if tt.status != "" {
				assert.Equal(t, tt.status, c.Status)
			}
		})
	}
}

func TestClassify_Fields(t *testing.T) {
	event := decodeEvent(t, `{"type":"test:pass","data":{"nesting":2,"name":"n","file":"f.js","line":4,"column":7,"testNumber":"3","details":{"duration_ms":1}}}`)
	c := Classify(event)

	assert.Equal(t, "test:pass", c.Type)
	assert.Equal(t, 2, c.Depth)
	assert.Equal(t, "n", c.Name)
	assert.Equal(t, "f.js", c.File)
	assert.Equal(t, intPtr(4), c.Line)
	assert.Equal(t, intPtr(7), c.Column)
	assert.Equal(t, intPtr(3), c.TestNumber)
	assert.Equal(t, map[string]json.RawMessage{"duration_ms": json.RawMessage(`1`)}, c.Details)

	c.Details["extra"] = json.RawMessage(`true`)
	assert.NotContains(t, event.Data.Details, "extra")
}

func TestClassify_EmptyDetails(t *testing.T) {
	c := Classify(decodeEvent(t, `{"type":"test:pass","data":{"details":{}}}`))
	assert.Nil(t, c.Details)

	c = Classify(decodeEvent(t, `{"type":"test:pass","data":{}}`))
	assert.Nil(t, c.Details)
}

func TestParseTestNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{raw: ``},
		{raw: `7`, want: intPtr(7)},
		{raw: `"12"`, want: intPtr(12)},
		{raw: `"4abc"`, want: intPtr(4)},
		{raw: `" 5 "`, want: intPtr(5)},
		{raw: `"-3"`, want: intPtr(-3)},
		{raw: `2.9`, want: intPtr(2)},
		{raw: `"abc"`},
		{raw: `""`},
		{raw: `null`},
		{raw: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTestNumber(json.RawMessage(tt.raw)))
		})
	}
}
