package startup

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver exports startup activity as Prometheus metrics.
type MetricsObserver struct {
	actions  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver creates the collectors and registers them with reg.
// Collectors that are already registered are reused.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "startup_actions_total",
			Help: "Startup actions attempted, by capability.",
		}, []string{"capability"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "startup_action_failures_total",
			Help: "Startup extensions that failed to construct or run, by capability.",
		}, []string{"capability"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "startup_phase_duration_seconds",
			Help:    "Time spent running one capability across one module.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"capability", "module"}),
	}

	var err error
	if o.actions, err = register(reg, o.actions); err != nil {
		return nil, err
	}
	if o.failures, err = register(reg, o.failures); err != nil {
		return nil, err
	}
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (o *MetricsObserver) Started(string, string) {}

func (o *MetricsObserver) Running(capability, _ string) {
	o.actions.WithLabelValues(capability).Inc()
}

func (o *MetricsObserver) Failed(_ error, capability, _ string) {
	o.failures.WithLabelValues(capability).Inc()
}

func (o *MetricsObserver) Completed(module, capability string, elapsed time.Duration) {
	o.duration.WithLabelValues(capability, module).Observe(elapsed.Seconds())
}
