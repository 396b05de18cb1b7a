// Package bitcodec implements the bit-level pack/unpack kernel shared by the
// descriptor and item packages: arbitrary-width signed/unsigned integers,
// IEEE-754 32/64-bit floats, and opaque byte runs, packed MSB-first into a
// big-endian byte buffer with a sub-byte start offset.
//
// The kernel operates over a {buffer, bit offset} cursor (package-private
// writer/reader types) rather than a high-level bitstring object, so a single
// pass neither allocates per bit nor copies the backing buffer.
package bitcodec
