package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// responseRecorder captures what a handler wrote to the response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

var _ http.ResponseWriter = (*responseRecorder)(nil)

func (w *responseRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write records an implicit 200 when the handler never called WriteHeader.
func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

// RequestLogger returns middleware that logs every handled request, at warn
// for client errors and at error for server errors.
func RequestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rec.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.size),
				slog.Duration("duration", time.Since(start)),
			}
			if id := rec.Header().Get(reportIDHeader); id != "" {
				attrs = append(attrs, slog.String("report_id", id))
			}
			logger.LogAttrs(context.Background(), level, "handled request", attrs...)
		})
	}
}
