package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// StatementsMetric names the counter of log statements.
const StatementsMetric = "log_statements_total"

var (
	statementsOnce sync.Once              //nolint:gochecknoglobals
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct {
	counter *prometheus.CounterVec
	app     string
	service string
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.counter.WithLabelValues(h.app, h.service, level.String()).Inc()
}

// NewPrometheusHook returns the hook counting statements of app/service.
// The counter is registered once per process; later calls only change the labels.
func NewPrometheusHook(app, service string) PrometheusHook {
	statementsOnce.Do(func() {
		statements = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: StatementsMetric,
				Help: "Number of log statements, differentiated by log level.",
			},
			[]string{"app", "service", "level"},
		)
		prometheus.MustRegister(statements)
	})

	return PrometheusHook{counter: statements, app: app, service: service}
}
