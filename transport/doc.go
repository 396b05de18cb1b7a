// Package transport implements the SPEAD transports: an in-memory byte
// sink/source, a buffered file sink/source, a compressed file sink/source,
// and fire-and-forget UDP sink/source. A transport is either a Sink
// exposing Write, or a Source exposing a mux.PacketSource-compatible Next.
//
// The compressed file transport batches raw packet bytes into
// wire.MaxPacketLen-sized chunks, runs each chunk through a compress.Codec,
// and frames the result behind a 4-byte big-endian length prefix. This
// changes nothing about the bytes on the wire between sender and
// receiver — each packet remains independently wire-valid — it only
// shrinks the container file used to capture and replay a heap stream.
package transport
