package neotest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(i int) *int {
	return &i
}

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{status: StatusStarted, terminal: false},
		{status: StatusPassed, terminal: true},
		{status: StatusFailed, terminal: true},
		{status: StatusSkipped, terminal: true},
		{status: StatusTodo, terminal: true},
		{status: Status("dequeueed"), terminal: false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}

func TestResults_Set(t *testing.T) {
	var results Results
	results.Set("f.js::b", &Result{Status: StatusPassed, Short: "b: passed"})
	results.Set("f.js::a", &Result{Status: StatusPassed, Short: "a: passed"})
	results.Set("f.js::b", &Result{Status: StatusFailed, Short: "b: failed"})

	require.Equal(t, 2, results.Len())
	assert.Equal(t, []string{"f.js::b", "f.js::a"}, results.Keys())

	result, ok := results.Get("f.js::b")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, result.Status)

	_, ok = results.Get("missing")
	assert.False(t, ok)
}

func TestResults_MarshalJSON(t *testing.T) {
	results := NewResults()
	results.Set("f.js::z", &Result{
		Status:   StatusPassed,
		Short:    "z: passed",
		Location: Location{Line: intPtr(3), Column: intPtr(1)},
	})
	results.Set("f.js::a <div> & b", &Result{Status: StatusSkipped, Short: "a <div> & b: skipped"})

	b, err := json.Marshal(results)
	require.NoError(t, err)

	// json.Marshal escapes HTML in Marshaler output, so compare decoded keys.
	var decoded Results
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []string{"f.js::z", "f.js::a <div> & b"}, decoded.Keys())

	raw, err := results.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"f.js::z":{"status":"passed","short":"z: passed","location":{"line":3,"column":1}},"f.js::a <div> & b":{"status":"skipped","short":"a <div> & b: skipped","location":{}}}`,
		string(raw),
	)
}

func TestResults_UnmarshalJSON(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		var results Results
		err := json.Unmarshal([]byte(`{"c":{"status":"passed"},"a":{"status":"failed"},"b":{"status":"todo"}}`), &results)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, results.Keys())

		result, ok := results.Get("a")
		require.True(t, ok)
		assert.Equal(t, StatusFailed, result.Status)
	})

	t.Run("not an object", func(t *testing.T) {
		var results Results
		err := json.Unmarshal([]byte(`["a"]`), &results)
		require.Error(t, err)
	})
}

func TestResults_MarshalYAML(t *testing.T) {
	results := NewResults()
	results.Set("f.js::suite", &Result{Status: StatusPassed, Short: "suite: passed"})
	results.Set("f.js::suite::case", &Result{Status: StatusFailed, Short: "case: failed", Location: Location{Line: intPtr(7)}})

	b, err := yaml.Marshal(results)
	require.NoError(t, err)

	out := string(b)
	suite := strings.Index(out, "f.js::suite:")
	testCase := strings.Index(out, "f.js::suite::case:")
	require.NotEqual(t, -1, suite)
	require.NotEqual(t, -1, testCase)
	assert.Less(t, suite, testCase)
	assert.Contains(t, out, "line: 7")
}

func TestError_MarshalJSON(t *testing.T) {
	e := &Error{
		Message:   "boom more",
		Name:      "AssertionError",
		ErrorName: json.RawMessage(`"TestFailure"`),
		Cause:     &Cause{Value: json.RawMessage(`"plain cause"`)},
		Extra: map[string]json.RawMessage{
			"code":     json.RawMessage(`"ERR_ASSERTION"`),
			"expected": json.RawMessage(`2`),
		},
	}

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, "boom more", fields["message"])
	assert.Equal(t, "", fields["stack"])
	assert.Equal(t, "AssertionError", fields["name"])
	assert.Equal(t, "TestFailure", fields["errorName"])
	assert.Equal(t, "plain cause", fields["cause"])
	assert.Equal(t, "ERR_ASSERTION", fields["code"])
	assert.Equal(t, float64(2), fields["expected"])

	var decoded Error
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, e.Message, decoded.Message)
	assert.JSONEq(t, string(e.ErrorName), string(decoded.ErrorName))
	assert.False(t, decoded.OmitMessage)
	require.NotNil(t, decoded.Cause)
	assert.Nil(t, decoded.Cause.Error)
	assert.JSONEq(t, `"plain cause"`, string(decoded.Cause.Value))
	assert.JSONEq(t, `"ERR_ASSERTION"`, string(decoded.Extra["code"]))
}

func TestCause_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		wantValue string
	}{
		{name: "object", input: `{"message":"inner","stack":"at x"}`, wantError: true},
		{name: "string", input: `"text"`, wantValue: `"text"`},
		{name: "number", input: `42`, wantValue: `42`},
		{name: "null", input: `null`, wantValue: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cause Cause
			require.NoError(t, json.Unmarshal([]byte(tt.input), &cause))
			if tt.wantError {
				require.NotNil(t, cause.Error)
				assert.Equal(t, "inner", cause.Error.Message)
				assert.Equal(t, "at x", cause.Error.Stack)
				return
			}
			assert.Nil(t, cause.Error)
			assert.Equal(t, tt.wantValue, string(cause.Value))
		})
	}
}

func TestReport_Counts(t *testing.T) {
	results := NewResults()
	results.Set("f.js::a", &Result{Status: StatusPassed})
	results.Set("f.js::b", &Result{Status: StatusFailed})
	results.Set("f.js::c", &Result{Status: StatusFailed})
	results.Set("f.js::d", &Result{Status: StatusSkipped})

	report := &Report{Results: results}
	assert.Equal(t, map[Status]int{
		StatusPassed:  1,
		StatusFailed:  2,
		StatusSkipped: 1,
	}, report.Counts())
	assert.Equal(t, []string{"f.js::b", "f.js::c"}, report.Failed())

	empty := &Report{}
	assert.Empty(t, empty.Counts())
	assert.Empty(t, empty.Failed())
}
