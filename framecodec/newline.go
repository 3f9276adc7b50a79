package framecodec

import "bytes"

// NewlineCodec frames on LF or CR, accepting CRLF as a single two-byte
// terminator (C3). See spec §4.3.
type NewlineCodec struct{}

// NewNewlineCodec constructs a NewlineCodec. It has no configuration.
func NewNewlineCodec() *NewlineCodec { return &NewlineCodec{} }

// Name implements Codec.
func (c *NewlineCodec) Name() string { return "newline" }

// Encode appends a single LF to payload.
func (c *NewlineCodec) Encode(payload []byte) ([]byte, error) {
	out := make([]byte, len(payload)+1)
	copy(out, payload)
	out[len(payload)] = '\n'
	return out, nil
}

// Decode implements Codec per spec §4.3.
func (c *NewlineCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)

	idx := bytes.IndexAny(buf, "\n\r")
	if idx < 0 {
		return nil, false
	}

	consumed := idx + 1
	if buf[idx] == '\r' && idx+1 < len(buf) && buf[idx+1] == '\n' {
		consumed = idx + 2
	}

	frame := clone(buf[:idx])
	*view = (*view)[consumed:]
	return frame, true
}
