package framecodec

import "github.com/pkg/errors"

// FixedLengthCodec frames constant-size N-byte frames (C5). See spec §4.5.
type FixedLengthCodec struct {
	n int
}

// NewFixedLengthCodec constructs a FixedLengthCodec for frames of n
// bytes. n must be > 0.
func NewFixedLengthCodec(n int) (*FixedLengthCodec, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "fixedlength: n must be > 0, got %d", n)
	}
	return &FixedLengthCodec{n: n}, nil
}

// Name implements Codec.
func (c *FixedLengthCodec) Name() string { return "fixed-length" }

// Encode requires payload to already be exactly n bytes and returns a
// copy of it.
func (c *FixedLengthCodec) Encode(payload []byte) ([]byte, error) {
	if len(payload) != c.n {
		return nil, errors.Wrapf(ErrInvalidArgument, "fixedlength: payload must be %d bytes, got %d", c.n, len(payload))
	}
	out := make([]byte, c.n)
	copy(out, payload)
	return out, nil
}

// Decode implements Codec per spec §4.5.
func (c *FixedLengthCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)
	if len(buf) < c.n {
		return nil, false
	}
	frame := clone(buf[:c.n])
	*view = (*view)[c.n:]
	return frame, true
}
