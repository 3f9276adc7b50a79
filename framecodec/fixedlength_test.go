package framecodec

import "testing"

func TestFixedLengthCodecDecode(t *testing.T) {
	c, err := NewFixedLengthCodec(4)
	if err != nil {
		t.Fatalf("NewFixedLengthCodec: %v", err)
	}

	view := View([]byte{1, 2, 3, 4, 5, 6})
	frame, ok := c.Decode(&view)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	want := []byte{1, 2, 3, 4}
	if string(frame) != string(want) {
		t.Errorf("frame = %v, want %v", frame, want)
	}
	if string(view) != string([]byte{5, 6}) {
		t.Errorf("remaining view = %v", view)
	}
}

func TestFixedLengthCodecShortBufferWaits(t *testing.T) {
	c, err := NewFixedLengthCodec(4)
	if err != nil {
		t.Fatalf("NewFixedLengthCodec: %v", err)
	}
	view := View([]byte{1, 2})
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail")
	}
	if len(view) != 2 {
		t.Errorf("expected view untouched, got %v", view)
	}
}

func TestFixedLengthCodecEncodeRejectsWrongSize(t *testing.T) {
	c, err := NewFixedLengthCodec(4)
	if err != nil {
		t.Fatalf("NewFixedLengthCodec: %v", err)
	}
	if _, err := c.Encode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong-sized payload")
	}
}

func TestNewFixedLengthCodecRejectsNonPositiveN(t *testing.T) {
	if _, err := NewFixedLengthCodec(0); err == nil {
		t.Fatal("expected configuration error for n=0")
	}
	if _, err := NewFixedLengthCodec(-1); err == nil {
		t.Fatal("expected configuration error for n<0")
	}
}
