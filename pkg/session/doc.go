// Package session maintains run histories: the append-only,
// loop-permitting log of nodes a participant visited.
//
// The manager guarantees per-run mutual exclusion. Two answers
// submitted concurrently for the same run (double-click, retried
// request) are serialized; the loser observes the already-advanced run
// and fails with an invalid-answer or closed-run error instead of
// forking the history.
package session
