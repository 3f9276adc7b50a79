package framecodec

import "testing"

func TestLengthFieldCodecRoundTripBigEndian(t *testing.T) {
	c, err := NewLengthFieldCodec(2, 0)
	if err != nil {
		t.Fatalf("NewLengthFieldCodec: %v", err)
	}

	encoded, err := c.Encode([]byte("abc"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// HeaderSize defaults to 2, total length = 2+3 = 5.
	want := []byte{0x00, 0x05, 'a', 'b', 'c'}
	if string(encoded) != string(want) {
		t.Fatalf("encoded = %v, want %v", encoded, want)
	}

	view := View(append(encoded, []byte("tail")...))
	frame, ok := c.Decode(&view)
	if !ok || string(frame) != string(encoded) {
		t.Fatalf("frame = %v, ok=%v", frame, ok)
	}
	if string(view) != "tail" {
		t.Errorf("remaining view = %q", view)
	}
}

func TestLengthFieldCodecLittleEndianAndOffset(t *testing.T) {
	c, err := NewLengthFieldCodec(2, 2, WithLittleEndianLength(), WithHeaderSize(4))
	if err != nil {
		t.Fatalf("NewLengthFieldCodec: %v", err)
	}

	encoded, err := c.Encode([]byte("xy"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// total = 4 + 2 = 6, little-endian at offset 2.
	want := []byte{0, 0, 6, 0, 'x', 'y'}
	if string(encoded) != string(want) {
		t.Fatalf("encoded = %v, want %v", encoded, want)
	}

	view := View(encoded)
	frame, ok := c.Decode(&view)
	if !ok || string(frame) != string(encoded) {
		t.Fatalf("frame = %v, ok=%v", frame, ok)
	}
}

func TestLengthFieldCodecIncompleteBodyWaits(t *testing.T) {
	c, err := NewLengthFieldCodec(2, 0)
	if err != nil {
		t.Fatalf("NewLengthFieldCodec: %v", err)
	}
	view := View([]byte{0x00, 0x05, 'a'})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail")
	}
	if len(view) != 3 {
		t.Errorf("expected view untouched while waiting for body, got %v", view)
	}
}

func TestLengthFieldCodecZeroLengthResyncsOneByte(t *testing.T) {
	c, err := NewLengthFieldCodec(2, 0)
	if err != nil {
		t.Fatalf("NewLengthFieldCodec: %v", err)
	}
	view := View([]byte{0x00, 0x00, 0xAA, 0xBB})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail on non-positive length")
	}
	if len(view) != 3 {
		t.Errorf("expected exactly one byte discarded for resync, got len=%d (%v)", len(view), view)
	}
}

func TestLengthFieldCodecOverMaxResyncsOneByte(t *testing.T) {
	c, err := NewLengthFieldCodec(2, 0, WithLengthFieldMaxFrameBytes(4))
	if err != nil {
		t.Fatalf("NewLengthFieldCodec: %v", err)
	}
	view := View([]byte{0x00, 0xFF, 0xAA, 0xBB})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail on over-max length")
	}
	if len(view) != 3 {
		t.Errorf("expected exactly one byte discarded for resync, got len=%d (%v)", len(view), view)
	}
}

func TestNewLengthFieldCodecRejectsInvalidConfig(t *testing.T) {
	if _, err := NewLengthFieldCodec(3, 0); err == nil {
		t.Fatal("expected error for LengthBytes=3")
	}
	if _, err := NewLengthFieldCodec(2, 0, WithHeaderSize(1)); err == nil {
		t.Fatal("expected error for HeaderSize too small")
	}
	if _, err := NewLengthFieldCodec(2, 0, WithLengthFieldMaxFrameBytes(0)); err == nil {
		t.Fatal("expected error for non-positive MaxFrameBytes")
	}
}
