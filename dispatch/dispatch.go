// Package dispatch implements the Request Dispatcher: fanning a
// phase request out to both colours' target sets without letting an
// unequal-length list starve the other.
package dispatch

import "github.com/Quviq/kv-index-tictactree/merge"

// Colour tags which replica group a target, message, or reply belongs to.
type Colour uint8

const (
	Blue Colour = iota
	Pink
)

func (c Colour) String() string {
	switch c {
	case Blue:
		return "blue"
	case Pink:
		return "pink"
	default:
		return "unknown"
	}
}

// Preflist is an opaque vector of target descriptors; a SendFunc knows how
// to interpret it, filtering and routing a message to the targets it names.
type Preflist []any

// MessageKind names the three phase requests an exchange ever dispatches.
type MessageKind uint8

const (
	FetchRoot MessageKind = iota
	FetchBranches
	FetchClocks
)

func (k MessageKind) String() string {
	switch k {
	case FetchRoot:
		return "fetch_root"
	case FetchBranches:
		return "fetch_branches"
	case FetchClocks:
		return "fetch_clocks"
	default:
		return "unknown"
	}
}

// Message is one of fetch_root, fetch_branches, or fetch_clocks.
// BranchIDs is populated for FetchBranches, SegmentIDs for FetchClocks.
type Message struct {
	Kind       MessageKind
	BranchIDs  []merge.BranchID
	SegmentIDs []merge.SegmentID
}

// SendFunc delivers msg to the targets named by preflist, on behalf of
// colour. It is expected to eventually cause a reply to arrive back at the
// exchange (by calling Exchange.Reply); SendFunc itself must not block
// indefinitely, and any internal failure is invisible to the engine,
// manifesting only as a missing reply.
type SendFunc func(msg Message, preflist Preflist, colour Colour)

// Target pairs a SendFunc with the preflist it should be invoked with.
type Target struct {
	Send     SendFunc
	Preflist Preflist
}

// Send fans msg out to every target in blueTargets and pinkTargets,
// alternating which colour is dispatched to next so that an unequal-length
// pair of lists doesn't starve the shorter one. leading names the colour
// dispatched to first. The relative order of dispatch within a single
// colour's targets is unspecified; only the alternation is part of the
// contract. Dispatch is non-blocking with respect to replies:
// it only invokes each target's SendFunc, never waits on its result.
func Send(msg Message, blueTargets, pinkTargets []Target, leading Colour) {
	bi, pi := 0, 0
	colour := leading
	for bi < len(blueTargets) || pi < len(pinkTargets) {
		switch colour {
		case Blue:
			if bi < len(blueTargets) {
				t := blueTargets[bi]
				bi++
				t.Send(msg, t.Preflist, Blue)
			}
			colour = Pink
		default:
			if pi < len(pinkTargets) {
				t := pinkTargets[pi]
				pi++
				t.Send(msg, t.Preflist, Pink)
			}
			colour = Blue
		}
	}
}
