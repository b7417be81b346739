package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wizard_sessions_created_total",
		Help: "Wizard sessions created.",
	})

	metricSubmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submits_total",
		Help: "Submit requests by outcome (ok, degraded).",
	}, []string{"outcome"})

	metricSubmitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wizard_submit_duration_seconds",
		Help:    "End-to-end submit latency including the prediction call.",
		Buckets: prometheus.DefBuckets,
	})

	metricInitRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_init_refreshes_total",
		Help: "Init-data refreshes by result.",
	}, []string{"result"})
)
