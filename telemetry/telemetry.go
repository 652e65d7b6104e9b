// Package telemetry carries the exchange engine's ambient logging and
// counters. It wraps github.com/joeycumines/logiface (a generic structured
// logging facade) with the github.com/joeycumines/logiface-slog backend by
// default, so the engine's EX001-EX004 records land on the standard
// library's log/slog without this package needing its own wire format.
package telemetry

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	slogx "github.com/joeycumines/logiface-slog"
)

// Logger records the exchange engine's structured events and maintains
// running counters. The zero value is not usable; construct with New or
// Default.
type Logger struct {
	log     *logiface.Logger[*slogx.Event]
	metrics *Metrics
}

// Metrics are plain atomic counters with no external metrics SDK backing
// them, exposed directly for a caller to scrape or log periodically.
type Metrics struct {
	Started    atomic.Int64
	Completed  atomic.Int64
	TimedOut   atomic.Int64
	RepairKeys atomic.Int64
}

// New wraps an existing logiface logger.
func New(log *logiface.Logger[*slogx.Event]) *Logger {
	if log == nil {
		panic("telemetry: nil logger")
	}
	return &Logger{log: log, metrics: &Metrics{}}
}

// Default returns a Logger backed by a JSON log/slog handler writing to
// os.Stderr.
func Default() *Logger {
	handler := slog.NewJSONHandler(os.Stderr, nil)
	return New(logiface.New[*slogx.Event](slogx.NewLogger(handler)))
}

// Metrics returns the running counters. Safe for concurrent use.
func (t *Logger) Metrics() *Metrics { return t.metrics }

// Start records EX001: an exchange has started.
func (t *Logger) Start(exchangeID string, blueTargets, pinkTargets int) {
	t.metrics.Started.Add(1)
	t.log.Info().
		Str("event", "EX001").
		Str("exchange_id", exchangeID).
		Int("blue_targets", blueTargets).
		Int("pink_targets", pinkTargets).
		Log("exchange started")
}

// PhaseTimeout records EX002: a phase deadline elapsed.
func (t *Logger) PhaseTimeout(exchangeID string, pendingPhase string, missing int) {
	t.metrics.TimedOut.Add(1)
	t.log.Err().
		Str("event", "EX002").
		Str("exchange_id", exchangeID).
		Str("phase", pendingPhase).
		Int("missing_count", missing).
		Log("phase deadline elapsed")
}

// Exit records EX003: the exchange terminated normally or by timeout.
func (t *Logger) Exit(exchangeID string, terminalPhase string) {
	t.metrics.Completed.Add(1)
	t.log.Info().
		Str("event", "EX003").
		Str("exchange_id", exchangeID).
		Str("terminal_phase", terminalPhase).
		Log("exchange terminated")
}

// RepairCount records EX004: the computed repair set size, at ClockCompare
// exit.
func (t *Logger) RepairCount(exchangeID string, n int) {
	t.metrics.RepairKeys.Add(int64(n))
	t.log.Info().
		Str("event", "EX004").
		Str("exchange_id", exchangeID).
		Int("repair_count", n).
		Log("repair set computed")
}

// MalformedReply logs a reply that failed to satisfy its phase's shape.
// Not one of the numbered EX0nn events; additional diagnostic context for
// the engine's discard-and-continue policy on bad replies.
func (t *Logger) MalformedReply(exchangeID string, err error) {
	t.log.Warning().
		Str("exchange_id", exchangeID).
		Err(err).
		Log("discarding malformed reply")
}
