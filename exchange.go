package tictactree

import (
	"fmt"
	"sync"
	"time"

	"github.com/Quviq/kv-index-tictactree/dispatch"
	"github.com/Quviq/kv-index-tictactree/jitter"
	"github.com/Quviq/kv-index-tictactree/merge"
	"github.com/Quviq/kv-index-tictactree/selector"
)

type (
	// RepairAction is invoked at most once: exactly once at ClockCompare
	// exit, with the final repair set (which may be empty), and not at all
	// when the exchange terminates before ClockCompare.
	RepairAction func(repairSet []merge.KeyClock)

	// ReplyAction is invoked exactly once, at termination, with the
	// terminal phase name.
	ReplyAction func(terminalPhase Phase)

	// replyEnvelope is what Exchange.Reply hands to the exchange's own
	// goroutine.
	replyEnvelope struct {
		colour dispatch.Colour
		result any
	}

	// Exchange is one run of the six-phase anti-entropy protocol between a
	// blue and a pink target set. Construct with Start; an Exchange must
	// never be copied.
	Exchange struct {
		id           string
		blueTargets  []dispatch.Target
		pinkTargets  []dispatch.Target
		repairAction RepairAction
		replyAction  ReplyAction
		cfg          *resolvedConfig

		replyCh chan replyEnvelope
		done    chan struct{}

		// mu guards phase, which is also read by the Phase accessor from
		// outside the agent goroutine. Every other field below is
		// confined to the single goroutine started by Start.
		mu    sync.Mutex
		phase Phase

		leading dispatch.Colour
		col     collector

		rootCompareDeltas   []merge.BranchID
		rootConfirmDeltas   []merge.BranchID
		branchCompareDeltas []merge.SegmentID
		branchConfirmDeltas []merge.SegmentID
		keyDeltas           []merge.KeyClock
	}
)

// Start validates both target lists are non-empty, allocates an exchange
// identifier, and starts the exchange's agent goroutine, returning
// immediately. repairAction and replyAction must be non-nil. cfg must be
// non-nil and carry TreeCodec and ClockCodec, or Start panics; its other
// zero-valued fields fall back to Config's documented defaults.
func Start(blueTargets, pinkTargets []dispatch.Target, repairAction RepairAction, replyAction ReplyAction, cfg *Config) (*Exchange, error) {
	if repairAction == nil || replyAction == nil {
		panic("tictactree: nil callback")
	}
	if len(blueTargets) == 0 {
		return nil, fmt.Errorf("tictactree: start: %w", ErrNoBlueTargets)
	}
	if len(pinkTargets) == 0 {
		return nil, fmt.Errorf("tictactree: start: %w", ErrNoPinkTargets)
	}

	rc := resolveConfig(cfg)

	x := &Exchange{
		id:           rc.idSource.NewID(),
		blueTargets:  blueTargets,
		pinkTargets:  pinkTargets,
		repairAction: repairAction,
		replyAction:  replyAction,
		cfg:          rc,
		replyCh:      make(chan replyEnvelope),
		done:         make(chan struct{}),
		phase:        PhasePrepare,
	}

	rc.logger.Start(x.id, len(blueTargets), len(pinkTargets))

	go x.run()

	return x, nil
}

// ID returns the exchange's opaque identifier.
func (x *Exchange) ID() string { return x.id }

// Phase returns a snapshot of the exchange's current phase. Safe to call
// from any goroutine.
func (x *Exchange) Phase() Phase {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.phase
}

// Done returns a channel closed once the exchange has terminated.
func (x *Exchange) Done() <-chan struct{} { return x.done }

// Reply delivers a reply event to the exchange: send
// capabilities are expected to eventually call this with the phase's
// result, tagged with the colour they were dispatched to. A reply arriving
// after termination is discarded.
func (x *Exchange) Reply(result any, colour dispatch.Colour) {
	select {
	case x.replyCh <- replyEnvelope{colour: colour, result: result}:
	case <-x.done:
	}
}

func (x *Exchange) setPhase(p Phase) {
	x.mu.Lock()
	x.phase = p
	x.mu.Unlock()
}

// run is the exchange's single agent goroutine: it processes one
// event at a time - phase entry, reply arrival, or phase deadline - with no
// shared mutable state beyond what phase/ID accessors read under mu.
func (x *Exchange) run() {
	defer close(x.done)

	x.sleep(jitter.Pause(x.cfg.rand, x.cfg.transitionPauseMS))

	x.setPhase(PhaseRootCompare)
	x.col.begin(PhaseRootCompare, len(x.blueTargets), len(x.pinkTargets), x.mergeRootFn(), x.cfg.cacheTimeout, x.cfg.clock)
	x.fanOut(dispatch.Message{Kind: dispatch.FetchRoot})

	for {
		terminal, done := x.waitAndAdvance()
		if done {
			x.terminate(terminal)
			return
		}
	}
}

// waitAndAdvance blocks for the next reply or the phase deadline. On
// completion of collecting, it inserts the jittered inter-phase pause -
// applied uniformly to every phase transition - and runs the completed
// phase's compare/narrow/redispatch logic.
func (x *Exchange) waitAndAdvance() (terminal Phase, done bool) {
	select {
	case env := <-x.replyCh:
		x.col.fold(env.colour, env.result, x.cfg.logger, x.id)
		if !x.col.complete() {
			x.col.rearm(x.cfg.clock)
			return 0, false
		}

	case <-x.col.deadlineCh:
		missing := x.col.missing()
		x.cfg.logger.PhaseTimeout(x.id, x.col.pending.String(), missing)
		return PhaseTimedOut, true
	}

	x.sleep(jitter.Pause(x.cfg.rand, x.cfg.transitionPauseMS))
	return x.advance(x.col.pending)
}

// advance runs the just-completed phase's logic: compare, narrow via the ID
// Selector, and either redispatch into the next collecting phase or report
// early termination.
func (x *Exchange) advance(pending Phase) (terminal Phase, done bool) {
	switch pending {
	case PhaseRootCompare:
		return x.advanceRootCompare()
	case PhaseRootConfirm:
		return x.advanceRootConfirm()
	case PhaseBranchCompare:
		return x.advanceBranchCompare()
	case PhaseBranchConfirm:
		return x.advanceBranchConfirm()
	case PhaseClockCompare:
		return x.advanceClockCompare()
	default:
		panic(fmt.Sprintf("tictactree: advance called with non-collecting phase %s", pending))
	}
}

func (x *Exchange) advanceRootCompare() (Phase, bool) {
	blue, pink := x.rootAccs()
	deltas := merge.CompareRoots(x.cfg.treeCodec, blue, pink)
	if len(deltas) == 0 {
		return PhaseRootCompare, true
	}

	selector.Sort(deltas)
	x.rootCompareDeltas = deltas

	x.setPhase(PhaseRootConfirm)
	x.col.begin(PhaseRootConfirm, len(x.blueTargets), len(x.pinkTargets), x.mergeRootFn(), x.cfg.cacheTimeout, x.cfg.clock)
	x.fanOut(dispatch.Message{Kind: dispatch.FetchRoot})
	return 0, false
}

func (x *Exchange) advanceRootConfirm() (Phase, bool) {
	blue, pink := x.rootAccs()
	second := merge.CompareRoots(x.cfg.treeCodec, blue, pink)
	selector.Sort(second)

	narrowed := selector.Select(selector.Intersect(second, x.rootCompareDeltas), x.cfg.maxBranchResults)
	if len(narrowed) == 0 {
		return PhaseRootConfirm, true
	}
	x.rootConfirmDeltas = narrowed

	x.setPhase(PhaseBranchCompare)
	x.col.begin(PhaseBranchCompare, len(x.blueTargets), len(x.pinkTargets), x.mergeBranchFn(), x.cfg.cacheTimeout, x.cfg.clock)
	x.fanOut(dispatch.Message{Kind: dispatch.FetchBranches, BranchIDs: narrowed})
	return 0, false
}

func (x *Exchange) advanceBranchCompare() (Phase, bool) {
	blue, pink := x.branchAccs()
	segs := merge.CompareBranches(x.cfg.treeCodec, blue, pink)
	if len(segs) == 0 {
		return PhaseBranchCompare, true
	}

	selector.Sort(segs)
	x.branchCompareDeltas = segs

	x.setPhase(PhaseBranchConfirm)
	x.col.begin(PhaseBranchConfirm, len(x.blueTargets), len(x.pinkTargets), x.mergeBranchFn(), x.cfg.cacheTimeout, x.cfg.clock)
	x.fanOut(dispatch.Message{Kind: dispatch.FetchBranches, BranchIDs: x.rootConfirmDeltas})
	return 0, false
}

func (x *Exchange) advanceBranchConfirm() (Phase, bool) {
	blue, pink := x.branchAccs()
	second := merge.CompareBranches(x.cfg.treeCodec, blue, pink)
	selector.Sort(second)

	narrowed := selector.Select(selector.Intersect(second, x.branchCompareDeltas), x.cfg.maxClockResults)
	if len(narrowed) == 0 {
		return PhaseBranchConfirm, true
	}
	x.branchConfirmDeltas = narrowed

	x.setPhase(PhaseClockCompare)
	x.col.begin(PhaseClockCompare, len(x.blueTargets), len(x.pinkTargets), x.mergeClockFn(), x.cfg.scanTimeout, x.cfg.clock)
	x.fanOut(dispatch.Message{Kind: dispatch.FetchClocks, SegmentIDs: narrowed})
	return 0, false
}

func (x *Exchange) advanceClockCompare() (Phase, bool) {
	blue, pink := x.clockAccs()
	repair := merge.CompareClocks(x.cfg.clockCodec, blue, pink)
	x.keyDeltas = repair

	x.cfg.logger.RepairCount(x.id, len(repair))
	x.repairAction(repair)

	return PhaseComplete, true
}

// terminate invokes the reply action exactly once, with the final phase
// name, and logs EX003.
func (x *Exchange) terminate(final Phase) {
	x.setPhase(final)
	x.cfg.logger.Exit(x.id, final.String())
	x.replyAction(final)
}

// sleep blocks for d against the exchange's configured clock, so that
// tests supplying a fake jitter.Clock never actually wait in real time.
func (x *Exchange) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-x.cfg.clock.After(d)
}

// fanOut dispatches msg to every blue and pink target, toggling the leading
// colour on each call so repeated dispatches within an exchange don't
// consistently favour one colour.
func (x *Exchange) fanOut(msg dispatch.Message) {
	leading := x.leading
	if leading == dispatch.Blue {
		x.leading = dispatch.Pink
	} else {
		x.leading = dispatch.Blue
	}
	dispatch.Send(msg, x.blueTargets, x.pinkTargets, leading)
}

func (x *Exchange) rootAccs() (blue, pink []byte) {
	if x.col.blueAcc != nil {
		blue = x.col.blueAcc.([]byte)
	}
	if x.col.pinkAcc != nil {
		pink = x.col.pinkAcc.([]byte)
	}
	return blue, pink
}

func (x *Exchange) branchAccs() (blue, pink []merge.BranchEntry) {
	if x.col.blueAcc != nil {
		blue = x.col.blueAcc.([]merge.BranchEntry)
	}
	if x.col.pinkAcc != nil {
		pink = x.col.pinkAcc.([]merge.BranchEntry)
	}
	return blue, pink
}

func (x *Exchange) clockAccs() (blue, pink []merge.KeyClock) {
	if x.col.blueAcc != nil {
		blue = x.col.blueAcc.([]merge.KeyClock)
	}
	if x.col.pinkAcc != nil {
		pink = x.col.pinkAcc.([]merge.KeyClock)
	}
	return blue, pink
}

func (x *Exchange) mergeRootFn() mergeFunc {
	codec := x.cfg.treeCodec
	return func(acc any, result any) (any, error) {
		blob, ok := result.([]byte)
		if !ok {
			return acc, fmt.Errorf("%w: fetch_root reply has type %T", ErrMalformedReply, result)
		}
		var prev []byte
		if acc != nil {
			prev = acc.([]byte)
		}
		return merge.MergeRoot(codec, prev, blob), nil
	}
}

func (x *Exchange) mergeBranchFn() mergeFunc {
	codec := x.cfg.treeCodec
	return func(acc any, result any) (any, error) {
		entries, ok := result.([]merge.BranchEntry)
		if !ok {
			return acc, fmt.Errorf("%w: fetch_branches reply has type %T", ErrMalformedReply, result)
		}
		var prev []merge.BranchEntry
		if acc != nil {
			prev = acc.([]merge.BranchEntry)
		}
		return merge.MergeBranches(codec, prev, entries), nil
	}
}

func (x *Exchange) mergeClockFn() mergeFunc {
	codec := x.cfg.clockCodec
	return func(acc any, result any) (any, error) {
		entries, ok := result.([]merge.KeyClock)
		if !ok {
			return acc, fmt.Errorf("%w: fetch_clocks reply has type %T", ErrMalformedReply, result)
		}
		var prev []merge.KeyClock
		if acc != nil {
			prev = acc.([]merge.KeyClock)
		}
		return merge.MergeClocks(codec, prev, entries), nil
	}
}
