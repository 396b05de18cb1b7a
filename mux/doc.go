// Package mux turns a stream of packets, possibly from many interleaved
// heaps, possibly out of order, possibly lossy, into a lazy sequence of
// finalized heaps. It bounds the number of concurrently tracked heaps and
// evicts the oldest on overflow.
package mux
