package mux

import "context"

// PacketSource yields raw packet bytes in arrival order. Next returns
// io.EOF (wrapped or bare) once the source is exhausted.
type PacketSource interface {
	Next(ctx context.Context) ([]byte, error)
}
