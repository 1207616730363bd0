package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	redis "github.com/go-redis/redis/v7"
	"github.com/nanzhong/neotest"
	"github.com/nanzhong/neotest/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = `{"type":"test:start","data":{"nesting":0,"name":"adds","file":"math.test.js","line":2,"column":3}}
{"type":"test:pass","data":{"nesting":0,"name":"adds"}}
`

func TestRunReport(t *testing.T) {
	t.Run("stdin to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.json")

		err := runReport(context.Background(), &config{Input: "-", Output: path}, strings.NewReader(stream))
		require.NoError(t, err)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{
  "math.test.js::adds": {
    "status": "passed",
    "short": "adds: passed",
    "location": {
      "line": 2,
      "column": 3
    }
  }
}
`, string(b))
	})

	t.Run("input file", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "events.ndjson")
		require.NoError(t, os.WriteFile(input, []byte(stream), 0o644))
		path := filepath.Join(dir, "results.yaml")

		err := runReport(context.Background(), &config{Input: input, Output: path, Format: "yaml"}, nil)
		require.NoError(t, err)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "math.test.js::adds:\n"), string(b))
	})

	t.Run("fault leaves no output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.json")

		err := runReport(context.Background(), &config{Output: path}, strings.NewReader(`{"type":"test:pass","data":{"nesting":0,"name":"ghost"}}`))
		require.Error(t, err)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("invalid format", func(t *testing.T) {
		err := runReport(context.Background(), &config{Format: "xml"}, strings.NewReader(stream))
		assert.EqualError(t, err, "unsupported format: xml")
	})

	t.Run("missing input", func(t *testing.T) {
		err := runReport(context.Background(), &config{Input: filepath.Join(t.TempDir(), "missing")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening input")
	})

	t.Run("redis without key", func(t *testing.T) {
		err := runReport(context.Background(), &config{RedisAddr: "localhost:6379"}, nil)
		require.Error(t, err)
	})
}

func TestRunReport_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	err = source.Publish(context.Background(), client, "build-7",
		&neotest.Event{Type: "test:start", Data: neotest.EventData{Name: "adds", File: "math.test.js"}},
		&neotest.Event{Type: "test:fail", Data: neotest.EventData{Name: "adds", Skip: []byte(`true`)}},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.json")
	cfg := &config{
		RedisAddr:        mr.Addr(),
		RedisKey:         "build-7",
		RedisIdleTimeout: time.Second,
		Output:           path,
	}
	require.NoError(t, runReport(context.Background(), cfg, nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"short": "adds: skipped"`)
}
