// Package group implements ItemGroup: the keyed collection of items that
// builds outgoing heaps from changed values and pending descriptors, and
// applies incoming finalized heaps back onto itself.
package group
