// Package metrics provides Prometheus instrumentation for casinod.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TxTotal counts delivered transactions by envelope type and result code.
	TxTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_tx_total",
		Help: "Total transactions delivered",
	}, []string{"type", "codespace", "code"})

	// InstructionsTotal counts casino instructions by opcode and outcome.
	InstructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_instructions_total",
		Help: "Total casino instructions processed",
	}, []string{"op", "result"})

	// ValueEscrowed is the cumulative stake moved into game records.
	ValueEscrowed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_value_escrowed_total",
		Help: "Cumulative stake escrowed by placed bets",
	})

	// ValuePaidOut is the cumulative value paid to winning players.
	ValuePaidOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casino_value_paid_out_total",
		Help: "Cumulative payouts to winning players",
	})

	// BlockHeight tracks the last finalized height.
	BlockHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casino_block_height",
		Help: "Last finalized block height",
	})

	// CommitDuration tracks how long persisting state takes.
	CommitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casino_commit_duration_seconds",
		Help:    "State persistence latency in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})
)

// ObserveTx records one delivered transaction.
func ObserveTx(typ, codespace string, code uint32) {
	TxTotal.WithLabelValues(typ, codespace, strconv.FormatUint(uint64(code), 10)).Inc()
}

// ObserveInstruction records one processed instruction. result is "ok" or the
// rejecting error's codespace and code.
func ObserveInstruction(op, result string, escrowed, paidOut uint64) {
	InstructionsTotal.WithLabelValues(op, result).Inc()
	if escrowed > 0 {
		ValueEscrowed.Add(float64(escrowed))
	}
	if paidOut > 0 {
		ValuePaidOut.Add(float64(paidOut))
	}
}

// ObserveCommit records a completed commit that started at start.
func ObserveCommit(start time.Time) {
	CommitDuration.Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an HTTP server exposing Handler at /metrics.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
