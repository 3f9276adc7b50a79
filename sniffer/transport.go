package sniffer

import "context"

// Transport is the duplex octet channel the sniffer reads from. It is an
// external collaborator (spec §6): this package never dials, reconnects,
// or owns one beyond the single Receive call per loop iteration.
type Transport interface {
	// Receive reads into buf, returning the number of bytes read. A
	// return of (0, nil) indicates the remote closed the connection
	// cleanly; the sniffer terminates without error in that case. Receive
	// must honour ctx cancellation.
	Receive(ctx context.Context, buf []byte) (n int, err error)

	// Remote identifies the far end, used as the remote-endpoint label in
	// dumped records and trace hooks.
	Remote() string
}
