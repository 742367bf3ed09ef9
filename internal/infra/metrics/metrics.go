package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Inbound Telegram updates by kind (command/message/callback).",
		},
		[]string{"kind"},
	)

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Handled commands by name and outcome (ok/error/denied).",
		},
		[]string{"command", "outcome"},
	)

	uidSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uid_saves_total",
			Help: "UID saves by origin (command/autodetect) and result (created/duplicate).",
		},
		[]string{"origin", "result"},
	)

	graphLookupLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_lookup_latency_ms",
			Help:    "Facebook Graph lookup latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			updatesTotal, commandsTotal, uidSavesTotal, graphLookupLatencyMs,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncUpdate(kind string) { updatesTotal.WithLabelValues(norm(kind)).Inc() }

func IncCommand(command, outcome string) {
	commandsTotal.WithLabelValues(norm(command), norm(outcome)).Inc()
}

func IncUIDSave(origin string, created bool) {
	result := "duplicate"
	if created {
		result = "created"
	}
	uidSavesTotal.WithLabelValues(norm(origin), result).Inc()
}

func ObserveGraphLookup(latencyMs int64, success bool) {
	lbl := "false"
	if success {
		lbl = "true"
	}
	graphLookupLatencyMs.WithLabelValues(lbl).Observe(float64(latencyMs))
}
