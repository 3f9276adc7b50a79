package framecodec

import "testing"

// TestModbusRtuCodecEncodeKnownCrc reproduces spec §8 scenario 3: encoding
// 01 03 00 00 00 0A should append CRC16 0xCDC5 as C5 CD (low byte first).
func TestModbusRtuCodecEncodeKnownCrc(t *testing.T) {
	c, err := NewModbusRtuCodec()
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	encoded, err := c.Encode([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A, 0xC5, 0xCD}
	if string(encoded) != string(want) {
		t.Fatalf("encoded = % X, want % X", encoded, want)
	}
}

func TestModbusRtuCodecDecodesKnownFrame(t *testing.T) {
	c, err := NewModbusRtuCodec()
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	wire := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A, 0xC5, 0xCD}
	view := View(append(append([]byte{}, wire...), 0xDE, 0xAD))
	frame, ok := c.Decode(&view)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if string(frame) != string(wire) {
		t.Fatalf("frame = % X, want % X", frame, wire)
	}
	if string(view) != string([]byte{0xDE, 0xAD}) {
		t.Errorf("remaining view = % X", view)
	}
}

func TestModbusRtuCodecResyncsPastGarbage(t *testing.T) {
	c, err := NewModbusRtuCodec()
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	wire := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A, 0xC5, 0xCD}
	garbage := []byte{0x00, 0x11, 0x22}
	view := View(append(append([]byte{}, garbage...), wire...))

	frame, ok := c.Decode(&view)
	if !ok {
		t.Fatal("expected decode to succeed after resync")
	}
	if string(frame) != string(wire) {
		t.Fatalf("frame = % X, want % X", frame, wire)
	}
	if len(view) != 0 {
		t.Errorf("expected view fully consumed, got % X", view)
	}
}

func TestModbusRtuCodecBadCrcRejected(t *testing.T) {
	c, err := NewModbusRtuCodec()
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	wire := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00}
	view := View(wire)
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail on bad CRC")
	}
}

func TestModbusRtuCodecIncompleteAtStartWaitsWithoutAdvancing(t *testing.T) {
	c, err := NewModbusRtuCodec()
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	// Exception response candidate (fn=0x83) needs 5 bytes; only 4 given.
	view := View([]byte{0x01, 0x83, 0x02, 0x00})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail on incomplete frame")
	}
	if len(view) != 4 {
		t.Errorf("expected view untouched while incomplete at s=0, got %v", view)
	}
}

func TestModbusRtuCodecCrcDisabled(t *testing.T) {
	c, err := NewModbusRtuCodec(WithModbusValidateCrc(false))
	if err != nil {
		t.Fatalf("NewModbusRtuCodec: %v", err)
	}

	wire := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x00}
	view := View(wire)
	frame, ok := c.Decode(&view)
	if !ok {
		t.Fatal("expected decode to succeed with CRC validation disabled")
	}
	if string(frame) != string(wire) {
		t.Fatalf("frame = % X, want % X", frame, wire)
	}
}
