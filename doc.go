// Package tictactree implements the anti-entropy exchange engine: a
// finite-state protocol that reconciles two logical replicas of a
// key-value dataset ("blue" and "pink") by progressively comparing
// hashed summaries of their contents, at ever finer granularity, down
// to the minimal set of keys whose version clocks disagree.
//
// An Exchange is started with Start, given a pair of target lists (one
// per colour) and a pair of callbacks. It drives itself through six
// phases - root compare/confirm, branch compare/confirm, clock compare
// - fanning a request out to both colours via dispatch.Send, folding
// replies as they arrive, and narrowing the working set of candidate
// differences at each step. It terminates in bounded time, invoking
// ReplyAction exactly once with the terminal phase name, and
// RepairAction at most once, with the final repair set.
//
// The hash-tree and version-clock semantics are external: this package
// only ever touches them through the merge.TreeCodec and
// merge.ClockCodec capability interfaces a caller supplies.
package tictactree
