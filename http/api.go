package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nanzhong/neotest"
	"github.com/nanzhong/neotest/alerting"
	"github.com/nanzhong/neotest/output"
	"github.com/nanzhong/neotest/reporter"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultMaxBodyBytes = 64 << 20

	reportIDHeader = "X-Report-Id"
)

var contentTypes = map[output.Format]string{
	output.FormatJSON:  "application/json",
	output.FormatYAML:  "application/yaml",
	output.FormatTable: "text/plain; charset=utf-8",
}

// APIHandler is the http handler for presenting the API.
type APIHandler struct {
	http.Handler

	alertManager *alerting.AlertManager
	apiKey       string
	logger       *slog.Logger
	maxBodyBytes int64
	metricNames  map[string]struct{}
}

// NewAPIHandler constructs a new `APIHandler`.
func NewAPIHandler(opts ...Option) *APIHandler {
	defOpts := &options{
		alertManager: &alerting.AlertManager{},
		logger:       slog.Default(),
		maxBodyBytes: defaultMaxBodyBytes,
	}

	for _, opt := range opts {
		opt(defOpts)
	}

	handler := &APIHandler{
		alertManager: defOpts.alertManager,
		apiKey:       defOpts.apiKey,
		logger:       defOpts.logger,
		maxBodyBytes: defOpts.maxBodyBytes,
		metricNames:  make(map[string]struct{}, len(defOpts.metricNames)),
	}
	for _, name := range defOpts.metricNames {
		handler.metricNames[name] = struct{}{}
	}

	r := mux.NewRouter()
	r.Use(RequestLogger(handler.logger))

	if handler.apiKey != "" {
		r.Use(handler.ensureAuth)
	}

	r.HandleFunc("/api/reports", handler.submitReport).Methods(http.MethodPost)

	handler.Handler = r

	return handler
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handler.ServeHTTP(w, r)
}

// submitReport builds a report from the event stream in the request body and
// renders it. The report is not kept once the response is written.
func (h *APIHandler) submitReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := output.ParseFormat(query.Get("format"))
	if err != nil {
		renderAPIError(w, http.StatusBadRequest, err)
		return
	}

	var fullReport bool
	switch view := query.Get("view"); view {
	case "", "results":
	case "report":
		if format != output.FormatJSON {
			renderAPIError(w, http.StatusBadRequest, fmt.Errorf("report view is only available as %s", output.FormatJSON))
			return
		}
		fullReport = true
	default:
		renderAPIError(w, http.StatusBadRequest, fmt.Errorf("unsupported view: %s", view))
		return
	}

	rep := reporter.New(
		reporter.WithLogger(h.logger),
		reporter.WithName(query.Get("name")),
	)
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	report, err := rep.Run(r.Context(), reporter.NewDecoder(body))
	if err != nil {
		var eventErr *reporter.EventError
		if errors.As(err, &eventErr) {
			renderAPIError(w, http.StatusUnprocessableEntity, err)
			return
		}
		h.logger.Warn("failed to read event stream", "error", err)
		renderAPIError(w, http.StatusBadRequest, err)
		return
	}

	h.recordMetrics(report)
	if failed := report.Failed(); len(failed) > 0 && h.alertManager.Enabled() {
		alert := &alerting.Alert{Report: report, URL: query.Get("url")}
		go func() {
			err := h.alertManager.Fire(context.Background(), alert)
			if err != nil {
				h.logger.Error("failed to fire alert", "report_id", report.ID, "error", err)
			}
		}()
	}

	var value interface{} = report.Results
	if fullReport {
		value = report
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(reportIDHeader, report.ID.String())
	w.WriteHeader(http.StatusOK)
	if err := output.NewWriter(format, w).Serialize(value); err != nil {
		h.logger.Error("failed to render report", "report_id", report.ID, "error", err)
	}
}

func (h *APIHandler) recordMetrics(report *neotest.Report) {
	name := metricName(h.metricNames, report.Name)
	for status, count := range report.Counts() {
		ResultsMetric.With(prometheus.Labels{
			"name":   name,
			"status": status.String(),
		}).Add(float64(count))
	}

	outcome := neotest.StatusPassed
	if len(report.Failed()) > 0 {
		outcome = neotest.StatusFailed
	}
	ReportLastMetric.With(prometheus.Labels{
		"name":    name,
		"outcome": outcome.String(),
	}).Set(float64(report.CreatedAt.Unix()))
	ReportSizeMetric.With(prometheus.Labels{"name": name}).Observe(float64(report.Results.Len()))
}

func (h *APIHandler) ensureAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || password != h.apiKey {
			renderAPIError(w, http.StatusUnauthorized, fmt.Errorf("user %s is unauthorized", username))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func renderAPIError(w http.ResponseWriter, status int, err error) {
	aerr := apiError{
		Status: status,
		Error:  err.Error(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&aerr)
}

type apiError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}
