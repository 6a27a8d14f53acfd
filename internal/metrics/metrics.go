package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartlib_notifications_created_total",
			Help: "Total number of notifications persisted, by type",
		},
		[]string{"type"},
	)

	NotificationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartlib_notifications_skipped_total",
			Help: "Total number of notification deliveries skipped after an error",
		},
		[]string{"source"},
	)

	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartlib_sweep_runs_total",
			Help: "Total number of scheduled sweep executions",
		},
		[]string{"job"},
	)

	SweepRowsAffected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartlib_sweep_rows_affected_total",
			Help: "Total number of rows mutated by scheduled sweeps",
		},
		[]string{"job"},
	)
)
