package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected []string
	}{
		{
			name: "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(reportIDHeader, "abc")
				w.Write([]byte("ok"))
			},
			expected: []string{"level=INFO", "status=200", "bytes=2", "report_id=abc"},
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
			},
			expected: []string{"level=WARN", "status=422", "bytes=0"},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "broken", http.StatusInternalServerError)
			},
			expected: []string{"level=ERROR", "status=500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := RequestLogger(logger)(tt.handler)
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/reports?format=yaml", nil))

			assert.Contains(t, buf.String(), `msg="handled request"`)
			assert.Contains(t, buf.String(), `url="/api/reports?format=yaml"`)
			for _, s := range tt.expected {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
