// Package metrics exposes Prometheus metrics for the broker. Scrape them at
// /metrics on the health server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stalkbroker_commands_total",
			Help: "Total number of commands processed",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stalkbroker_command_duration_seconds",
			Help:    "Command handling latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stalkbroker_price_updates_total",
			Help: "Total number of ticker prices recorded",
		},
	)

	BulletinsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stalkbroker_bulletins_sent_total",
			Help: "Total number of bulletins delivered to server channels",
		},
	)

	BulletinFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stalkbroker_bulletin_failures_total",
			Help: "Total number of bulletin deliveries that failed",
		},
	)

	ForecastRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stalkbroker_forecast_requests_total",
			Help: "Total number of forecast backend calls",
		},
		[]string{"endpoint", "status"},
	)
)
