package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// logStatements is registered once per process, the first Init decides the service label.
var logStatements *prometheus.CounterVec //nolint:gochecknoglobals

// PrometheusHook counts log statements per level.
type PrometheusHook struct{}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		logStatements.WithLabelValues(level.String()).Inc()
	}
}

// NewPrometheusHook returns a hook counting how often each log level was used.
func NewPrometheusHook(serviceName string) PrometheusHook {
	if logStatements == nil {
		logStatements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": serviceName},
			},
			[]string{"level"},
		)
	}

	return PrometheusHook{}
}
