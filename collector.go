package tictactree

import (
	"time"

	"github.com/Quviq/kv-index-tictactree/dispatch"
	"github.com/Quviq/kv-index-tictactree/jitter"
	"github.com/Quviq/kv-index-tictactree/telemetry"
)

// mergeFunc folds a single reply into a colour's accumulator, failing loudly
// (returning ErrMalformedReply-wrapping error) if the reply's payload
// doesn't satisfy the phase's shape.
type mergeFunc func(acc any, result any) (any, error)

// collector is the state an exchange occupies while waiting on replies for
// the current phase: its per-colour accumulators and progress, plus the
// timer governing the phase deadline.
type collector struct {
	pending Phase

	blueAcc  any
	pinkAcc  any
	blueRecv int
	blueExp  int
	pinkRecv int
	pinkExp  int

	merge mergeFunc

	budget     time.Duration
	start      time.Time
	deadlineCh <-chan time.Time
}

// begin resets the collector for entry into a new phase: clears both
// accumulators and counters, installs the phase's merge function, and
// starts the phase deadline.
func (c *collector) begin(pending Phase, blueExp, pinkExp int, merge mergeFunc, budget time.Duration, clock jitter.Clock) {
	c.pending = pending
	c.blueAcc, c.pinkAcc = nil, nil
	c.blueRecv, c.pinkRecv = 0, 0
	c.blueExp, c.pinkExp = blueExp, pinkExp
	c.merge = merge
	c.budget = budget
	c.start = clock.Now()
	c.deadlineCh = clock.After(budget)
}

// rearm re-arms the deadline to the remaining budget, so total phase time
// is bounded irrespective of how many replies arrive.
func (c *collector) rearm(clock jitter.Clock) {
	remaining := c.budget - clock.Now().Sub(c.start)
	if remaining < 0 {
		remaining = 0
	}
	c.deadlineCh = clock.After(remaining)
}

// complete reports whether both colours have received == expected.
func (c *collector) complete() bool {
	return c.blueRecv >= c.blueExp && c.pinkRecv >= c.pinkExp
}

// missing computes the deficit logged at EX002.
func (c *collector) missing() int {
	m := (c.blueExp + c.pinkExp) - (c.blueRecv + c.pinkRecv)
	if m < 0 {
		m = 0
	}
	return m
}

// fold merges result into colour's accumulator, enforcing received <=
// expected by silently ignoring replies past a
// colour's expected count, and discarding (logging) malformed replies
// instead of incrementing received for them.
func (c *collector) fold(colour dispatch.Colour, result any, logger *telemetry.Logger, exchangeID string) {
	switch colour {
	case dispatch.Blue:
		if c.blueRecv >= c.blueExp {
			return
		}
		acc, err := c.merge(c.blueAcc, result)
		if err != nil {
			logger.MalformedReply(exchangeID, err)
			return
		}
		c.blueAcc = acc
		c.blueRecv++

	case dispatch.Pink:
		if c.pinkRecv >= c.pinkExp {
			return
		}
		acc, err := c.merge(c.pinkAcc, result)
		if err != nil {
			logger.MalformedReply(exchangeID, err)
			return
		}
		c.pinkAcc = acc
		c.pinkRecv++
	}
}
