package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joharei/netctl-tray/internal/status"
)

// Metrics bundles the Prometheus metrics of the poll loop. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Ticks        *prometheus.CounterVec
	ProbeErrors  *prometheus.CounterVec
	Quality      prometheus.Gauge
	Status       *prometheus.GaugeVec
	TickDuration prometheus.Histogram
}

// NewMetrics registers the poll loop metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netctl_tray_ticks_total",
		Help: "Poll cycles, labeled by result (ok or failed).",
	}, []string{"result"}), "netctl_tray_ticks_total")
	if err != nil {
		return nil, err
	}

	probeErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netctl_tray_probe_errors_total",
		Help: "Failed probe calls, labeled by error kind and probe operation.",
	}, []string{"kind", "op"}), "netctl_tray_probe_errors_total")
	if err != nil {
		return nil, err
	}

	quality, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netctl_tray_signal_quality_percent",
		Help: "Last observed wireless link quality in percent; 0 when not on wireless.",
	}), "netctl_tray_signal_quality_percent")
	if err != nil {
		return nil, err
	}

	st, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netctl_tray_status",
		Help: "1 for the currently displayed connection status, 0 for the others.",
	}, []string{"status"}), "netctl_tray_status")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netctl_tray_tick_duration_seconds",
		Help:    "Duration of a poll cycle in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "netctl_tray_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:     gatherer,
		Ticks:        ticks,
		ProbeErrors:  probeErrors,
		Quality:      quality,
		Status:       st,
		TickDuration: duration,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) observeSuccess(s Snapshot, d time.Duration) {
	if m == nil {
		return
	}
	m.Ticks.WithLabelValues("ok").Inc()
	m.TickDuration.Observe(d.Seconds())
	m.Quality.Set(s.Quality)
	for _, st := range status.All {
		v := 0.0
		if st == s.Status {
			v = 1
		}
		m.Status.WithLabelValues(st.String()).Set(v)
	}
}

func (m *Metrics) observeFailure(kind, op string, d time.Duration) {
	if m == nil {
		return
	}
	m.Ticks.WithLabelValues("failed").Inc()
	m.TickDuration.Observe(d.Seconds())
	m.ProbeErrors.WithLabelValues(kind, op).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
