package framecodec

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// LengthFieldOptions configures a LengthFieldCodec. The length field's
// decoded value is always the TOTAL frame length (header + payload), per
// spec §4.7 — there is no separate length-adjustment knob the way
// Netty-style decoders have one, because the spec fixes this semantic.
type LengthFieldOptions struct {
	// LengthBytes is the width of the length field: 1, 2, or 4.
	LengthBytes int
	// BigEndian selects the byte order of the length field.
	BigEndian bool
	// LengthOffset is the length field's offset within the header.
	LengthOffset int
	// HeaderSize defaults to LengthOffset+LengthBytes if zero.
	HeaderSize int
	// MaxFrameBytes bounds the total frame length accepted.
	MaxFrameBytes int
}

const defaultLengthFieldMaxFrameBytes = 65536

// LengthFieldCodec frames on a configurable length field within a
// configurable header (C7). See spec §4.7.
type LengthFieldCodec struct {
	opts LengthFieldOptions
}

// NewLengthFieldCodec constructs a LengthFieldCodec for a length field of
// the given width at the given offset, applying any options on top of
// the defaults (BigEndian true, HeaderSize LengthOffset+LengthBytes,
// MaxFrameBytes 65536).
func NewLengthFieldCodec(lengthBytes, lengthOffset int, opts ...func(*LengthFieldOptions)) (*LengthFieldCodec, error) {
	defaults := LengthFieldOptions{
		LengthBytes:   lengthBytes,
		BigEndian:     true,
		LengthOffset:  lengthOffset,
		MaxFrameBytes: defaultLengthFieldMaxFrameBytes,
	}
	for _, opt := range opts {
		opt(&defaults)
	}
	cfg := defaults
	if cfg.HeaderSize == 0 {
		cfg.HeaderSize = cfg.LengthOffset + cfg.LengthBytes
	}

	switch cfg.LengthBytes {
	case 1, 2, 4:
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "lengthfield: LengthBytes must be 1, 2, or 4, got %d", cfg.LengthBytes)
	}
	if cfg.HeaderSize < cfg.LengthOffset+cfg.LengthBytes {
		return nil, errors.Wrapf(ErrInvalidConfig, "lengthfield: HeaderSize %d too small for field at offset %d width %d", cfg.HeaderSize, cfg.LengthOffset, cfg.LengthBytes)
	}
	if cfg.MaxFrameBytes <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "lengthfield: MaxFrameBytes must be > 0, got %d", cfg.MaxFrameBytes)
	}

	return &LengthFieldCodec{opts: cfg}, nil
}

// WithLittleEndianLength selects little-endian length-field byte order.
func WithLittleEndianLength() func(*LengthFieldOptions) {
	return func(o *LengthFieldOptions) { o.BigEndian = false }
}

// WithHeaderSize overrides the header size (default LengthOffset+LengthBytes).
func WithHeaderSize(n int) func(*LengthFieldOptions) {
	return func(o *LengthFieldOptions) { o.HeaderSize = n }
}

// WithLengthFieldMaxFrameBytes overrides the total-frame-length bound.
func WithLengthFieldMaxFrameBytes(n int) func(*LengthFieldOptions) {
	return func(o *LengthFieldOptions) { o.MaxFrameBytes = n }
}

// Name implements Codec.
func (c *LengthFieldCodec) Name() string { return "length-field" }

func (c *LengthFieldCodec) order() binary.ByteOrder {
	if c.opts.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Encode writes the header (with the total-frame-length field populated)
// followed by payload. Header bytes outside the length field itself are
// zero.
func (c *LengthFieldCodec) Encode(payload []byte) ([]byte, error) {
	total := c.opts.HeaderSize + len(payload)
	out := make([]byte, total)
	field := out[c.opts.LengthOffset : c.opts.LengthOffset+c.opts.LengthBytes]
	switch c.opts.LengthBytes {
	case 1:
		field[0] = byte(total)
	case 2:
		c.order().PutUint16(field, uint16(total))
	case 4:
		c.order().PutUint32(field, uint32(total))
	}
	copy(out[c.opts.HeaderSize:], payload)
	return out, nil
}

// Decode implements Codec per spec §4.7.
func (c *LengthFieldCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)
	if len(buf) < c.opts.HeaderSize {
		return nil, false
	}

	field := buf[c.opts.LengthOffset : c.opts.LengthOffset+c.opts.LengthBytes]
	var length int64
	switch c.opts.LengthBytes {
	case 1:
		length = int64(field[0])
	case 2:
		length = int64(c.order().Uint16(field))
	case 4:
		length = int64(c.order().Uint32(field))
	}

	if length <= 0 || length > int64(c.opts.MaxFrameBytes) {
		*view = (*view)[1:]
		return nil, false
	}

	total := int(length)
	if len(buf) < total {
		return nil, false
	}

	frame := clone(buf[:total])
	*view = (*view)[total:]
	return frame, true
}
