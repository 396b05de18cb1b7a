// Package wire implements the SPEAD packet codec: the fixed 8-byte header,
// the 64-bit item table entries (immediate and direct addressing modes),
// and payload placement.
//
// ADDR_BITS (40 or 48) is runtime configuration rather than a build-time
// dial, carried by a Config value threaded through every pack/unpack call
// and validated against the wire header's addr_bits byte on every incoming
// packet.
package wire
