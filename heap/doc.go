// Package heap implements the single-heap assembler: merging the packets
// of one heap_cnt into a byte blob plus an item-id index, validating
// fragment coverage and direct-offset bounds, and finalizing into a Heap
// that is valid or (diagnostically) invalid.
package heap
