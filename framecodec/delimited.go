package framecodec

import (
	"bytes"

	"github.com/pkg/errors"
)

// defaultMaxFrameBytes is DelimitedCodec's default overflow bound.
const defaultMaxFrameBytes = 8192

// DelimitedOptions configures a DelimitedCodec.
type DelimitedOptions struct {
	// Start is the optional start byte. A nil Start disables start-byte
	// matching: every decode searches for End from the front of the view.
	Start *byte
	// End is the mandatory end byte.
	End byte
	// MaxFrameBytes bounds how far ahead of Start (or of the front of the
	// view, if Start is unset) the codec will search for End before
	// giving up and clearing the view as overflow protection.
	MaxFrameBytes int
}

// DelimitedCodec frames an optional start byte through a mandatory end
// byte (C2). See spec §4.2.
type DelimitedCodec struct {
	opts DelimitedOptions
}

// NewDelimitedCodec constructs a DelimitedCodec with the given mandatory
// end byte, applying any options on top of the defaults (no start byte,
// MaxFrameBytes 8192).
func NewDelimitedCodec(end byte, opts ...func(*DelimitedOptions)) (*DelimitedCodec, error) {
	cfg := DelimitedOptions{End: end, MaxFrameBytes: defaultMaxFrameBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxFrameBytes <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "delimited: MaxFrameBytes must be > 0, got %d", cfg.MaxFrameBytes)
	}
	return &DelimitedCodec{opts: cfg}, nil
}

// WithStartByte sets the optional start byte.
func WithStartByte(b byte) func(*DelimitedOptions) {
	return func(o *DelimitedOptions) { o.Start = &b }
}

// WithDelimitedMaxFrameBytes overrides the overflow bound.
func WithDelimitedMaxFrameBytes(n int) func(*DelimitedOptions) {
	return func(o *DelimitedOptions) { o.MaxFrameBytes = n }
}

// Name implements Codec.
func (c *DelimitedCodec) Name() string { return "delimited" }

// Encode wraps payload between the configured start (if any) and end
// byte.
func (c *DelimitedCodec) Encode(payload []byte) ([]byte, error) {
	out := make([]byte, 0, len(payload)+2)
	if c.opts.Start != nil {
		out = append(out, *c.opts.Start)
	}
	out = append(out, payload...)
	out = append(out, c.opts.End)
	return out, nil
}

// Decode implements Codec per spec §4.2.
func (c *DelimitedCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)

	startIdx := 0
	searchFrom := 0
	if c.opts.Start != nil {
		idx := bytes.IndexByte(buf, *c.opts.Start)
		if idx < 0 {
			// Nothing decodable with no start byte present; drop garbage.
			*view = (*view)[:0]
			return nil, false
		}
		startIdx = idx
		// Search for End strictly after Start, so a configuration where
		// Start and End are the same byte (e.g. HDLC-style 0x7E...0x7E)
		// doesn't immediately match the start byte itself as the end.
		searchFrom = idx + 1
	}

	trailing := buf[searchFrom:]
	endIdx := bytes.IndexByte(trailing, c.opts.End)
	if endIdx < 0 {
		if len(trailing) > c.opts.MaxFrameBytes {
			*view = (*view)[:0]
		}
		return nil, false
	}

	frameEnd := searchFrom + endIdx + 1 // inclusive of the end byte
	frame := clone(buf[startIdx:frameEnd])
	*view = (*view)[frameEnd:]
	return frame, true
}
