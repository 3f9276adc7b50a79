package framecodec

import "bytes"

const (
	stx byte = 0x02
	etx byte = 0x03
)

// StxEtxCodec frames payloads strictly between an STX and an ETX byte
// (C4). See spec §4.4.
type StxEtxCodec struct{}

// NewStxEtxCodec constructs a StxEtxCodec. It has no configuration.
func NewStxEtxCodec() *StxEtxCodec { return &StxEtxCodec{} }

// Name implements Codec.
func (c *StxEtxCodec) Name() string { return "stx-etx" }

// Encode brackets payload with STX and ETX.
func (c *StxEtxCodec) Encode(payload []byte) ([]byte, error) {
	out := make([]byte, 0, len(payload)+2)
	out = append(out, stx)
	out = append(out, payload...)
	out = append(out, etx)
	return out, nil
}

// Decode implements Codec per spec §4.4.
func (c *StxEtxCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)

	startIdx := bytes.IndexByte(buf, stx)
	if startIdx < 0 {
		return nil, false
	}

	body := buf[startIdx+1:]
	endIdx := bytes.IndexByte(body, etx)
	if endIdx < 0 {
		return nil, false
	}

	frame := clone(body[:endIdx])
	*view = (*view)[startIdx+1+endIdx+1:]
	return frame, true
}
