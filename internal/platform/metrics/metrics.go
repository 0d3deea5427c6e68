// Package metrics exposes fetch and run counters on a dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	dailyusecase "fox_trade/internal/feature/dailyreport/usecase"
	klineusecase "fox_trade/internal/feature/kline/usecase"
)

const namespace = "fox_trade"

// Metrics は Prometheus のコレクタを保持します。nil の *Metrics は何も記録しません。
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	secidFallbacks   *prometheus.CounterVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
}

var (
	_ klineusecase.Recorder    = (*Metrics)(nil)
	_ dailyusecase.RunRecorder = (*Metrics)(nil)
)

// New creates the collectors and registers them, together with the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eastmoney",
			Name:      "requests_total",
			Help:      "Upstream K-line requests by outcome.",
		}, []string{"outcome"}),
		secidFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eastmoney",
			Name:      "secid_fallbacks_total",
			Help:      "Exchange-flip retries by whether the flipped secid was recognised.",
		}, []string{"recovered"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dailyreport",
			Name:      "runs_total",
			Help:      "Finished report runs by status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dailyreport",
			Name:      "run_duration_seconds",
			Help:      "Wall time of report runs including retry delays.",
			Buckets:   []float64{1, 5, 30, 60, 300, 600, 1200},
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.secidFallbacks,
		m.runs,
		m.runDuration,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) UpstreamRequest(outcome string) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SecIDFallback(recovered bool) {
	if m == nil {
		return
	}
	m.secidFallbacks.WithLabelValues(strconv.FormatBool(recovered)).Inc()
}

func (m *Metrics) RunFinished(status entity.RunStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(status)).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}
