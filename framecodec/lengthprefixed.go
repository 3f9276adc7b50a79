package framecodec

import "encoding/binary"

// LengthPrefixedCodec frames a 32-bit big-endian payload length followed
// by the payload (C6). See spec §4.6.
type LengthPrefixedCodec struct{}

// NewLengthPrefixedCodec constructs a LengthPrefixedCodec. It has no
// configuration.
func NewLengthPrefixedCodec() *LengthPrefixedCodec { return &LengthPrefixedCodec{} }

// Name implements Codec.
func (c *LengthPrefixedCodec) Name() string { return "length-prefixed" }

// Encode writes a 4-byte big-endian length prefix followed by payload.
func (c *LengthPrefixedCodec) Encode(payload []byte) ([]byte, error) {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[4:], payload)
	return out, nil
}

// Decode implements Codec per spec §4.6.
func (c *LengthPrefixedCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)
	if len(buf) < 4 {
		return nil, false
	}

	l := int32(binary.BigEndian.Uint32(buf))
	if l < 0 {
		return nil, false
	}

	total := 4 + int(l)
	if len(buf) < total {
		return nil, false
	}

	frame := clone(buf[4:total])
	*view = (*view)[total:]
	return frame, true
}
