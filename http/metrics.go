package http

import "github.com/prometheus/client_golang/prometheus"

const (
	// ResultsMetricName is the name of the metric counting reported results.
	ResultsMetricName = "results_total"

	// ReportLastMetricName is the name of the metric for the last report
	// timestamp.
	ReportLastMetricName = "report_last_timestamp"

	// ReportSizeMetricName is the name of the metric for the number of
	// results in a report.
	ReportSizeMetricName = "report_results"

	// OtherMetricName is the name label of reports whose name is not in the
	// configured metric names.
	OtherMetricName = "other"
)

// metricName bounds the name label to the known report names.
func metricName(known map[string]struct{}, name string) string {
	if _, ok := known[name]; ok {
		return name
	}
	return OtherMetricName
}

// ResultsMetric counts reported results by report name and status.
var ResultsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "neotest",
		Subsystem: "report",
		Name:      ResultsMetricName,
		Help:      "Number of reported results.",
	},
	[]string{"name", "status"},
)

// ReportLastMetric is the metric for the timestamp of the last report by name
// and outcome.
var ReportLastMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "neotest",
		Subsystem: "report",
		Name:      ReportLastMetricName,
		Help:      "Timestamp of the last report.",
	},
	[]string{"name", "outcome"},
)

// ReportSizeMetric is the metric for the number of results in a report.
var ReportSizeMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "neotest",
		Subsystem: "report",
		Name:      ReportSizeMetricName,
		Help:      "Number of results in a report.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(ResultsMetric)
	prometheus.MustRegister(ReportLastMetric)
	prometheus.MustRegister(ReportSizeMetric)
}
