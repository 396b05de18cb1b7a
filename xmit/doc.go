// Package xmit implements the transmitter: splitting a group.BuiltHeap into
// a finite sequence of wire packets bounded by a maximum packet size, and
// emitting the stream-terminal packet.
package xmit
