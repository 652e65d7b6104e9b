package tictactree

import "errors"

var (
	// ErrNoBlueTargets is returned by Start when blueTargets is empty.
	ErrNoBlueTargets = errors.New("tictactree: no blue targets")

	// ErrNoPinkTargets is returned by Start when pinkTargets is empty.
	ErrNoPinkTargets = errors.New("tictactree: no pink targets")

	// ErrMalformedReply tags a reply whose payload didn't satisfy its
	// phase's shape. The exchange's chosen policy is to discard
	// such a reply and continue waiting, rather than fail the exchange: a
	// discarded reply behaves exactly like one dropped in transit, and
	// ultimately surfaces as PhaseTimeout if the sender never replies
	// correctly.
	ErrMalformedReply = errors.New("tictactree: malformed reply")
)
