package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store refresh
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ludic_admin_fetches_total",
		Help: "Collection fetches by entity and result",
	}, []string{"entity", "result"})
	FetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ludic_admin_fetch_latency_seconds",
		Help:    "Latency of full collection fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	// Mutations
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ludic_admin_mutations_total",
		Help: "Create/update/delete attempts by entity, operation and result",
	}, []string{"entity", "op", "result"})

	// Auth
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ludic_admin_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ludic_admin_active_sessions",
		Help: "Admin screen sessions currently held in memory",
	})
)
