package framecodec

import "testing"

func TestLengthPrefixedCodecRoundTrip(t *testing.T) {
	c := NewLengthPrefixedCodec()
	payload := []byte("hello")

	encoded, err := c.Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	view := View(append(encoded, []byte("trailing")...))
	frame, ok := c.Decode(&view)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if string(frame) != "hello" {
		t.Errorf("frame = %q, want %q", frame, "hello")
	}
	if string(view) != "trailing" {
		t.Errorf("remaining view = %q", view)
	}
}

func TestLengthPrefixedCodecShortHeaderWaits(t *testing.T) {
	c := NewLengthPrefixedCodec()
	view := View([]byte{0, 0, 0})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail")
	}
	if len(view) != 3 {
		t.Errorf("expected view untouched, got %v", view)
	}
}

func TestLengthPrefixedCodecIncompletePayloadWaits(t *testing.T) {
	c := NewLengthPrefixedCodec()
	view := View([]byte{0, 0, 0, 5, 'h', 'i'})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail")
	}
	if len(view) != 6 {
		t.Errorf("expected view untouched, got %v", view)
	}
}

func TestLengthPrefixedCodecNegativeLengthFails(t *testing.T) {
	c := NewLengthPrefixedCodec()
	view := View([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail on negative length")
	}
}
