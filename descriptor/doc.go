// Package descriptor implements the self-describing item descriptor:
// encoding a Descriptor into a self-contained single-packet heap (ID,
// SHAPE, FORMAT, NAME, DESCRIPTION, HEAP_CNT=0, optional DTYPE) and
// decoding it back.
package descriptor
