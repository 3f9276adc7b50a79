package framecodec

import "github.com/pkg/errors"

// ModbusOptions configures a ModbusRtuCodec.
type ModbusOptions struct {
	// MaxFrameBytes bounds the total frame length a candidate may have.
	MaxFrameBytes int
	// ScanLimitBytes bounds how many start offsets the resync scan tries.
	ScanLimitBytes int
	// ValidateCrc enables CRC-16/MODBUS verification of each candidate.
	ValidateCrc bool
	// AllowBroadcastAddress0 accepts address byte 0 as a plausible frame
	// start (Modbus broadcast).
	AllowBroadcastAddress0 bool
}

func defaultModbusOptions() ModbusOptions {
	return ModbusOptions{
		MaxFrameBytes:          260,
		ScanLimitBytes:         64,
		ValidateCrc:            true,
		AllowBroadcastAddress0: true,
	}
}

// ModbusRtuCodec frames Modbus RTU PDUs: function-code-driven candidate
// lengths, CRC-16/MODBUS verification, and a resync scan that tolerates
// garbage ahead of a real frame (C8). See spec §4.8.
type ModbusRtuCodec struct {
	opts ModbusOptions
}

// NewModbusRtuCodec constructs a ModbusRtuCodec, applying any options on
// top of the defaults (MaxFrameBytes 260, ScanLimitBytes 64, ValidateCrc
// true, AllowBroadcastAddress0 true).
func NewModbusRtuCodec(opts ...func(*ModbusOptions)) (*ModbusRtuCodec, error) {
	cfg := defaultModbusOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxFrameBytes <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "modbus: MaxFrameBytes must be > 0, got %d", cfg.MaxFrameBytes)
	}
	if cfg.ScanLimitBytes < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "modbus: ScanLimitBytes must be >= 0, got %d", cfg.ScanLimitBytes)
	}
	return &ModbusRtuCodec{opts: cfg}, nil
}

// WithModbusMaxFrameBytes overrides MaxFrameBytes.
func WithModbusMaxFrameBytes(n int) func(*ModbusOptions) {
	return func(o *ModbusOptions) { o.MaxFrameBytes = n }
}

// WithModbusScanLimitBytes overrides ScanLimitBytes.
func WithModbusScanLimitBytes(n int) func(*ModbusOptions) {
	return func(o *ModbusOptions) { o.ScanLimitBytes = n }
}

// WithModbusValidateCrc overrides ValidateCrc.
func WithModbusValidateCrc(enabled bool) func(*ModbusOptions) {
	return func(o *ModbusOptions) { o.ValidateCrc = enabled }
}

// WithModbusAllowBroadcastAddress0 overrides AllowBroadcastAddress0.
func WithModbusAllowBroadcastAddress0(allow bool) func(*ModbusOptions) {
	return func(o *ModbusOptions) { o.AllowBroadcastAddress0 = allow }
}

// Name implements Codec.
func (c *ModbusRtuCodec) Name() string { return "modbus-rtu" }

// Encode appends a little-endian CRC-16/MODBUS (low byte first) to
// payload. payload must be at least 2 bytes (address + function).
func (c *ModbusRtuCodec) Encode(payload []byte) ([]byte, error) {
	if len(payload) < 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "modbus: payload must be at least 2 bytes, got %d", len(payload))
	}
	crc := crc16Modbus(payload)
	out := make([]byte, len(payload)+2)
	copy(out, payload)
	out[len(out)-2] = byte(crc)      // CRC-low
	out[len(out)-1] = byte(crc >> 8) // CRC-high
	return out, nil
}

// candidateLengths fills dst (capacity >= 2) with the candidate TOTAL
// frame lengths implied by span's function code, per spec §4.8 step 3,
// and returns the slice. It never allocates: the spec budgets at most a
// handful of candidates per anchor, so a small caller-owned backing
// array avoids per-call heap churn (spec §9, "Candidate length
// enumeration without allocation").
func candidateLengths(span []byte, dst []int) []int {
	dst = dst[:0]
	fn := span[1]

	switch {
	case fn&0x80 != 0:
		return append(dst, 5)

	case fn == 1 || fn == 2 || fn == 3 || fn == 4:
		dst = append(dst, 8)
		if len(span) >= 3 {
			dst = append(dst, int(span[2])+5)
		}
		return dst

	case fn == 5 || fn == 6:
		return append(dst, 8)

	case fn == 15 || fn == 16:
		dst = append(dst, 8)
		if len(span) >= 7 {
			dst = append(dst, int(span[6])+9)
		}
		return dst

	case fn == 22:
		return append(dst, 10)

	case fn == 23:
		if len(span) >= 3 {
			dst = append(dst, int(span[2])+5)
		}
		if len(span) >= 11 {
			dst = append(dst, int(span[10])+13)
		}
		return dst

	default:
		return dst
	}
}

// Decode implements Codec per spec §4.8: a resync scan over start offsets
// s from 0 to min(ScanLimitBytes, len(view)-3), each trying the function
// code's candidate total lengths in order against span = view[s:].
func (c *ModbusRtuCodec) Decode(view *View) (Frame, bool) {
	buf := []byte(*view)

	maxStart := c.opts.ScanLimitBytes
	if limit := len(buf) - 3; limit < maxStart {
		maxStart = limit
	}

	var lens [8]int
	for s := 0; s <= maxStart; s++ {
		span := buf[s:]
		if len(span) < 4 {
			break
		}

		addr := span[0]
		plausibleAddr := (addr == 0 && c.opts.AllowBroadcastAddress0) || (addr >= 1 && addr <= 247)
		if !plausibleAddr {
			continue
		}

		incompletePossible := false
		for _, length := range candidateLengths(span, lens[:0]) {
			if length <= 0 || length > c.opts.MaxFrameBytes {
				continue
			}
			if len(span) < length {
				incompletePossible = true
				continue
			}
			if c.opts.ValidateCrc {
				data := span[:length-2]
				want := crc16Modbus(data)
				got := uint16(span[length-2]) | uint16(span[length-1])<<8
				if want != got {
					continue
				}
			}

			frame := clone(span[:length])
			*view = (*view)[s+length:]
			return frame, true
		}

		if incompletePossible && s == 0 {
			return nil, false
		}
	}

	return nil, false
}

// crc16Modbus computes CRC-16/MODBUS: init 0xFFFF, polynomial 0xA001
// (reflected), one bit at a time per byte.
func crc16Modbus(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
