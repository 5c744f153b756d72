// Package obslog builds the structured logger and metrics every
// long-lived component shares: one zerolog.Logger per component, and a
// small set of prometheus counters for translation/reassembly activity.
package obslog

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// New builds the base logger from a level string (trace/debug/info/warn/
// error), falling back to info on an unrecognized level.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

var (
	// RecordsTranslated counts normalized events emitted by any translator.
	RecordsTranslated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketreplay",
		Name:      "records_translated_total",
		Help:      "Normalized events emitted by a venue translator.",
	}, []string{"venue"})

	// LossesReported counts sequence gaps the HA reassembler reported.
	LossesReported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketreplay",
		Name:      "losses_reported_total",
		Help:      "Sequence gaps reported by the reassembler, by product.",
	}, []string{"product_id"})

	// QueueCompactions counts OrderQueue tombstone-GC passes.
	QueueCompactions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "marketreplay",
		Name:      "queue_compactions_total",
		Help:      "Order queue tombstone compactions performed.",
	})

	// ReconnectAttempts counts connection-supervisor reconnects.
	ReconnectAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketreplay",
		Name:      "reconnect_attempts_total",
		Help:      "Connection supervisor reconnect attempts, by worker.",
	}, []string{"worker"})
)

func init() {
	prometheus.MustRegister(RecordsTranslated, LossesReported, QueueCompactions, ReconnectAttempts)
}
