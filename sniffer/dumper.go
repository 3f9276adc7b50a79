package sniffer

import "context"

// DirectionRX is the literal direction tag the sniffer uses for every
// frame it dumps (spec §6).
const DirectionRX = "RX"

// Dumper is the external sink the sniffer hands decoded frames to. It is
// an external collaborator (spec §6): hex-dump formatting, persistence,
// and any application-level protocol parsing happen on the far side of
// this interface.
type Dumper interface {
	// Dump persists one frame and returns once the record is durable.
	// direction is always DirectionRX for the sniffer. seq is a
	// per-sniffer monotonically increasing counter.
	Dump(ctx context.Context, direction string, remote string, seq uint64, frame []byte) error
}
