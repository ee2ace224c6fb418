package report

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exports the latest summary of each profiler as gauges labelled
// by profiler name. Gauges hold the last window only; nothing is kept
// across windows.
type Prometheus struct {
	eventRate   *prometheus.GaugeVec
	dataRate    *prometheus.GaugeVec
	utilization *prometheus.GaugeVec
	calls       *prometheus.GaugeVec
	window      *prometheus.GaugeVec
}

// NewPrometheus creates the gauges under namespace and registers them
// with reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		eventRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_rate_per_second",
			Help:      "Events per second over the last report window.",
		}, []string{"profiler"}),
		dataRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "data_rate_per_second",
			Help:      "Data volume per second over the last report window.",
		}, []string{"profiler"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "method_utilization_ratio",
			Help:      "Fraction of the last report window spent busy.",
		}, []string{"profiler"}),
		calls: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "method_calls",
			Help:      "Method calls entered during the last report window.",
		}, []string{"profiler"}),
		window: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_window_seconds",
			Help:      "Length of the last report window.",
		}, []string{"profiler"}),
	}

	for _, c := range []prometheus.Collector{p.eventRate, p.dataRate, p.utilization, p.calls, p.window} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Reporter returns a reporter writing to the series labelled name.
func (p *Prometheus) Reporter(name string) *PrometheusReporter {
	return &PrometheusReporter{
		eventRate:   p.eventRate.WithLabelValues(name),
		dataRate:    p.dataRate.WithLabelValues(name),
		utilization: p.utilization.WithLabelValues(name),
		calls:       p.calls.WithLabelValues(name),
		window:      p.window.WithLabelValues(name),
	}
}

// PrometheusReporter holds the resolved gauges for one profiler, so the
// sink methods do no label lookups.
type PrometheusReporter struct {
	eventRate   prometheus.Gauge
	dataRate    prometheus.Gauge
	utilization prometheus.Gauge
	calls       prometheus.Gauge
	window      prometheus.Gauge
}

// Events records an EventProfiler summary.
func (r *PrometheusReporter) Events(count uint64, elapsed time.Duration) {
	r.eventRate.Set(PerSecond(count, elapsed))
	r.window.Set(elapsed.Seconds())
}

// Data records a DataProfiler summary.
func (r *PrometheusReporter) Data(volume uint64, elapsed time.Duration) {
	r.dataRate.Set(PerSecond(volume, elapsed))
	r.window.Set(elapsed.Seconds())
}

// Usage records a MethodProfiler summary.
func (r *PrometheusReporter) Usage(busy, _ time.Duration, calls uint64, elapsed time.Duration) {
	r.utilization.Set(Utilization(busy, elapsed))
	r.calls.Set(float64(calls))
	r.window.Set(elapsed.Seconds())
}
