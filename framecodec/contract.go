// Package framecodec implements a small family of byte-stream frame codecs
// used to turn a continuous octet stream (serial lines, sockets carrying
// industrial protocols, or logs of either) into discrete frames, and back.
//
// Every codec in this package implements Codec. Decode never panics on
// malformed input; it reports failure by returning false, leaving the
// view either untouched (not enough data yet) or advanced by a
// codec-specific resync step (see each codec's doc comment).
package framecodec

import "github.com/pkg/errors"

// Sentinel roots for construction-time and precondition errors. Callers
// that want to distinguish an error kind can errors.Is against these, or
// errors.Cause to unwrap to one of them; every returned error is wrapped
// with pkg/errors so a stack trace is attached.
var (
	// ErrInvalidConfig is the root for codec construction errors: bad
	// frame sizes, unsupported field widths, empty candidate lists.
	ErrInvalidConfig = errors.New("framecodec: invalid configuration")

	// ErrInvalidArgument is the root for precondition failures on an
	// otherwise well-formed codec, e.g. Modbus Encode with too short a
	// payload.
	ErrInvalidArgument = errors.New("framecodec: invalid argument")
)

// Frame is an owned, immutable byte sequence produced by a successful
// decode. Frames are heap copies, independent of whatever buffer a View
// was reslicing over, so callers may hold them across further reads.
type Frame []byte

// View is a read-only, consumable window over a byte buffer. Decoders
// advance a View in place by reslicing it from the front; they never
// retain it, or any slice derived from it, across a suspension point —
// only a Frame (a copy) or a plain length may survive one.
type View []byte

// Codec is the uniform contract implemented by every framing discipline
// in this package.
type Codec interface {
	// Name identifies the codec, e.g. for AutoFrameCodec's mode string
	// and for sniffer trace hooks.
	Name() string

	// Encode wraps payload in this codec's framing discipline, returning
	// newly allocated bytes. It never mutates payload.
	Encode(payload []byte) ([]byte, error)

	// Decode attempts to pull one frame off the front of *view. On
	// success it returns (frame, true) and *view is advanced past the
	// bytes consumed, which may include skipped prefix garbage for
	// codecs that resync. On failure it returns (nil, false); *view is
	// either unchanged (insufficient data) or advanced by this codec's
	// defined resync step.
	Decode(view *View) (Frame, bool)
}

// clone returns an owned copy of b, decoupling it from whatever buffer
// it points into.
func clone(b []byte) Frame {
	f := make(Frame, len(b))
	copy(f, b)
	return f
}
