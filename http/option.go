package http

import (
	"log/slog"

	"github.com/nanzhong/neotest/alerting"
)

// Option is used to inject dependencies into a Server on creation.
type Option func(*options)

type options struct {
	alertManager *alerting.AlertManager
	apiKey       string
	logger       *slog.Logger
	maxBodyBytes int64
	metricNames  []string
}

// WithAlertManager allows configuring a custom alert manager.
func WithAlertManager(am *alerting.AlertManager) Option {
	return func(opts *options) {
		opts.alertManager = am
	}
}

// WithAPIKey allows configuring a symmetric key for api auth.
func WithAPIKey(key string) Option {
	return func(opts *options) {
		opts.apiKey = key
	}
}

// WithLogger allows configuring the logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithMaxBodyBytes limits the size of submitted event streams.
func WithMaxBodyBytes(n int64) Option {
	return func(opts *options) {
		opts.maxBodyBytes = n
	}
}

// WithMetricNames sets the report names kept as metric labels. Reports with
// any other name are counted under OtherMetricName.
func WithMetricNames(names ...string) Option {
	return func(opts *options) {
		opts.metricNames = append(opts.metricNames, names...)
	}
}
