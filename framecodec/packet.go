package framecodec

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// packetHeaderSize is the fixed 12-byte header: version(1) type(1)
// flags(2) sequence(4) payload-length(4 signed).
const packetHeaderSize = 12

// Packet is the decoded form of a PacketCodec frame.
type Packet struct {
	Version  uint8
	Type     uint8
	Flags    uint16
	Sequence uint32
	Payload  []byte
}

// PacketCodec frames a 12-byte big-endian application header followed by
// payload (C9). Unlike the other codecs in this package, PacketCodec is a
// message-boundary codec, not a streaming one: Decode rejects unless the
// view's length exactly equals header+payload. See spec §4.9.
type PacketCodec struct{}

// NewPacketCodec constructs a PacketCodec. It has no configuration.
func NewPacketCodec() *PacketCodec { return &PacketCodec{} }

// Name implements Codec.
func (c *PacketCodec) Name() string { return "packet" }

// EncodePacket writes p's header and payload into a single buffer.
func (c *PacketCodec) EncodePacket(p Packet) ([]byte, error) {
	if int32(len(p.Payload)) < 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "packet: payload-length overflow")
	}
	out := make([]byte, packetHeaderSize+len(p.Payload))
	out[0] = p.Version
	out[1] = p.Type
	binary.BigEndian.PutUint16(out[2:4], p.Flags)
	binary.BigEndian.PutUint32(out[4:8], p.Sequence)
	binary.BigEndian.PutUint32(out[8:12], uint32(len(p.Payload)))
	copy(out[packetHeaderSize:], p.Payload)
	return out, nil
}

// Encode implements Codec by treating payload as the packet's application
// payload with a zeroed header (version 0, type 0, flags 0, sequence 0).
// Callers that need to set header fields should use EncodePacket and
// DecodePacket directly.
func (c *PacketCodec) Encode(payload []byte) ([]byte, error) {
	return c.EncodePacket(Packet{Payload: payload})
}

// DecodePacket parses buf as a single complete packet message. It returns
// false if buf's length does not exactly equal header+payload-length, or
// if the payload-length field is negative.
func (c *PacketCodec) DecodePacket(buf []byte) (Packet, bool) {
	if len(buf) < packetHeaderSize {
		return Packet{}, false
	}

	payloadLen := int32(binary.BigEndian.Uint32(buf[8:12]))
	if payloadLen < 0 {
		return Packet{}, false
	}
	if len(buf) != packetHeaderSize+int(payloadLen) {
		return Packet{}, false
	}

	p := Packet{
		Version:  buf[0],
		Type:     buf[1],
		Flags:    binary.BigEndian.Uint16(buf[2:4]),
		Sequence: binary.BigEndian.Uint32(buf[4:8]),
	}
	p.Payload = make([]byte, payloadLen)
	copy(p.Payload, buf[packetHeaderSize:])
	return p, true
}

// Decode implements Codec. Because PacketCodec is a message-boundary
// codec, it consumes the *entire* view on success (there is no notion of
// a remainder) and never partially consumes on failure.
func (c *PacketCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)
	p, ok := c.DecodePacket(buf)
	if !ok {
		return nil, false
	}
	*view = (*view)[len(buf):]
	return clone(p.Payload), true
}
