package autoframe

import (
	"testing"

	"github.com/hexframe/framewire/framecodec"
)

func newCandidates(t *testing.T) []framecodec.Codec {
	t.Helper()
	fixed8, err := framecodec.NewFixedLengthCodec(8)
	if err != nil {
		t.Fatalf("NewFixedLengthCodec: %v", err)
	}
	return []framecodec.Codec{framecodec.NewNewlineCodec(), fixed8}
}

// TestCodecDecodePicksHigherScoringCandidate reproduces spec §8 scenario 6:
// on "hello\nworld\n", NewlineCodec (2 frames, 0 remainder) should win over
// FixedLength-8 (1 frame "hello\nwo", 4-byte remainder).
func TestCodecDecodePicksHigherScoringCandidate(t *testing.T) {
	c, err := New(newCandidates(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	view := framecodec.View("hello\nworld\n")
	f1, ok := c.Decode(&view)
	if !ok || string(f1) != "hello" {
		t.Fatalf("first frame = %q, ok=%v", f1, ok)
	}
	f2, ok := c.Decode(&view)
	if !ok || string(f2) != "world" {
		t.Fatalf("second frame = %q, ok=%v", f2, ok)
	}
	if len(view) != 0 {
		t.Errorf("expected view fully consumed, got %q", view)
	}
	if c.Mode() != "AUTO" {
		t.Errorf("Mode() = %q, want AUTO after a single winning pass", c.Mode())
	}
}

// TestCodecLocksAfterConsecutiveWins feeds three separate two-frame chunks
// (each a fresh runPass once the prior chunk's pending queue has drained)
// and expects NewlineCodec to lock in after its third consecutive win.
func TestCodecLocksAfterConsecutiveWins(t *testing.T) {
	c, err := New(newCandidates(t), WithLockAfterHits(3), WithMinFramesToLock(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := []string{"a\nb\n", "c\nd\n", "e\nf\n"}
	want := [][2]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}

	for i, chunk := range chunks {
		view := framecodec.View(chunk)

		f1, ok := c.Decode(&view)
		if !ok || string(f1) != want[i][0] {
			t.Fatalf("chunk %d first frame = %q, ok=%v", i, f1, ok)
		}
		f2, ok := c.Decode(&view)
		if !ok || string(f2) != want[i][1] {
			t.Fatalf("chunk %d second frame = %q, ok=%v", i, f2, ok)
		}

		wantLocked := i == len(chunks)-1
		gotLocked := c.Mode() == "LOCKED:newline"
		if gotLocked != wantLocked {
			t.Fatalf("after chunk %d, Mode() = %q (locked=%v), want locked=%v", i, c.Mode(), gotLocked, wantLocked)
		}
	}
}

func TestCodecDecodeBelowMinBufferWaits(t *testing.T) {
	c, err := New(newCandidates(t), WithMinBufferToConsider(16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	view := framecodec.View("ab\n")
	_, ok := c.Decode(&view)
	if ok {
		t.Fatal("expected decode to fail below MinBufferToConsider")
	}
	if string(view) != "ab\n" {
		t.Errorf("expected view untouched, got %q", view)
	}
}

func TestCodecEncodeUsesDefaultEncoderBeforeLock(t *testing.T) {
	c, err := New(newCandidates(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := c.Encode([]byte("hi"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != "hi\n" {
		t.Errorf("pre-lock Encode = %q, want %q (DefaultEncoder = first candidate)", out, "hi\n")
	}
}

func TestNewRejectsEmptyCandidates(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}
