package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the SPM
// analysis service.
type Metrics struct {
	SamplesAnalyzed  prometheus.Counter
	ReportsGenerated prometheus.Counter
	AnalysisFailures *prometheus.CounterVec // labels: reason={empty_input,no_departure,invalid_station_range,no_data_after_departure,other}
	AnalysisRunning  prometheus.Gauge

	AnalysisDuration prometheus.Histogram
	SeriesLength     prometheus.Histogram

	// Report publishing metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	PublishEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SamplesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spm",
			Name:      "samples_analyzed_total",
			Help:      "Total telemetry samples fed through the engine.",
		}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spm",
			Name:      "reports_generated_total",
			Help:      "Total analysis reports produced.",
		}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spm",
			Name:      "analysis_failures_total",
			Help:      "Analysis runs rejected, by failure reason.",
		}, []string{"reason"}),
		AnalysisRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spm",
			Name:      "analysis_running",
			Help:      "1 while an analysis run is in flight, 0 otherwise.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spm",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete normalize-detect-aggregate run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SeriesLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spm",
			Name:      "series_length_samples",
			Help:      "Number of samples in the normalized series per run.",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 25000, 50000, 100000},
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spm",
			Name:      "reports_published_total",
			Help:      "Reports written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spm",
			Name:      "publish_errors_total",
			Help:      "Failed report publish attempts.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spm",
			Name:      "publish_enabled",
			Help:      "1 when report publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SamplesAnalyzed,
		m.ReportsGenerated,
		m.AnalysisFailures,
		m.AnalysisRunning,
		m.AnalysisDuration,
		m.SeriesLength,
		m.ReportsPublished,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SamplesAnalyzed:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spm", Name: "samples_analyzed_total"}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spm", Name: "reports_generated_total"}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "spm", Name: "analysis_failures_total"}, []string{"reason"}),
		AnalysisRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "spm", Name: "analysis_running"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "spm", Name: "analysis_duration_seconds"}),
		SeriesLength:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "spm", Name: "series_length_samples"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spm", Name: "reports_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spm", Name: "publish_errors_total"}),
		PublishEnabled:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "spm", Name: "publish_enabled"}),
	}
}
