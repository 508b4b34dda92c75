package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Storage metrics
	StorageWriteFailures prometheus.Counter

	// Chat proxy metrics
	ChatStreamsStarted   prometheus.Counter
	ChatStreamsCompleted prometheus.Counter
	ChatStreamDuration   prometheus.Histogram

	// Weather proxy metrics
	WeatherLookups *prometheus.CounterVec

	// Event feed metrics
	EventClients prometheus.Gauge
}

// InitMetrics registers the application metrics in the default registry
func InitMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics registers the application metrics in the given registry
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StorageWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tabhome_storage_write_failures_total",
			Help: "Total number of failed key-value store writes",
		}),

		ChatStreamsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tabhome_chat_streams_started_total",
			Help: "Total number of AI chat streams opened",
		}),

		ChatStreamsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tabhome_chat_streams_completed_total",
			Help: "Total number of AI chat streams relayed to completion",
		}),

		ChatStreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tabhome_chat_stream_duration_seconds",
			Help:    "AI chat stream relay duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120}, // up to the upstream timeout
		}),

		WeatherLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabhome_weather_lookups_total",
			Help: "Total number of weather lookups by outcome",
		}, []string{"outcome"}), // "ok" or "error"

		EventClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tabhome_event_clients_active",
			Help: "Number of connected settings event feed clients",
		}),
	}
}
