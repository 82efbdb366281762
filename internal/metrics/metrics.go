package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "antsim_runs_enqueued_total",
		Help: "Total number of simulation runs placed on the scheduling queue.",
	})

	RunsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "antsim_runs_completed_total",
		Help: "Total number of finished simulation runs, labelled by outcome.",
	}, []string{"outcome"})

	RunsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "antsim_runs_dropped_total",
		Help: "Total number of runs rejected due to a full queue.",
	})

	TicksSimulated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "antsim_ticks_simulated_total",
		Help: "Total simulation ticks executed across all runs.",
	})

	ColoniesDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "antsim_colonies_destroyed_total",
		Help: "Total number of colonies destroyed by ant fights.",
	})

	AntsKilled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "antsim_ants_killed_total",
		Help: "Total number of ants destroyed in collisions.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "antsim_run_duration_ms",
		Help:    "End-to-end simulation run latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "antsim_queue_utilization_ratio",
		Help: "Current run queue utilization (0–1).",
	})
)
