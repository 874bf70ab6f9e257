// Package pipeline walks the grid of every sequence, computes the window
// distance of each pair and streams the records in batches to a Sender.
//
// Parallel and sequential execution share one traversal: rows of the upper
// triangle are handed out by an atomic cursor, each worker owns its
// accumulator and kernel scratch, and a full accumulator is sent as soon as
// it fills. Sends may block; that is the backpressure path.
package pipeline
