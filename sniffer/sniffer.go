// Package sniffer drives a fixed set of frame codecs against a live
// transport's receive loop, compacting unconsumed bytes across reads and
// handing decoded frames to an external dumper (C11). See spec §4.11.
package sniffer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hexframe/framewire/framecodec"
)

// receiveBufferCapacity is the sniffer's fixed receive buffer size.
const receiveBufferCapacity = 8192

// Options configures a Sniffer.
type Options struct {
	// Codecs is the fixed list of candidates tried each iteration. If
	// nil, DefaultCodecs() is used.
	Codecs []framecodec.Codec
}

// DefaultCodecs returns the sniffer's default candidate list: an
// LF-delimited codec, STX/ETX, an HDLC-like 0x7E/0x7E delimited codec, a
// 2-byte big-endian length-field codec with MaxFrameBytes 4096, fixed-8,
// and fixed-16.
func DefaultCodecs() []framecodec.Codec {
	lfDelimited, err := framecodec.NewDelimitedCodec('\n')
	if err != nil {
		panic(err) // unreachable: fixed, valid arguments
	}

	stxEtx := framecodec.NewStxEtxCodec()

	hdlcLike, err := framecodec.NewDelimitedCodec(0x7E, framecodec.WithStartByte(0x7E))
	if err != nil {
		panic(err) // unreachable: fixed, valid arguments
	}

	lengthField, err := framecodec.NewLengthFieldCodec(2, 0, framecodec.WithLengthFieldMaxFrameBytes(4096))
	if err != nil {
		panic(err) // unreachable: fixed, valid arguments
	}

	fixed8, err := framecodec.NewFixedLengthCodec(8)
	if err != nil {
		panic(err) // unreachable: fixed, valid arguments
	}

	fixed16, err := framecodec.NewFixedLengthCodec(16)
	if err != nil {
		panic(err) // unreachable: fixed, valid arguments
	}

	return []framecodec.Codec{lfDelimited, stxEtx, hdlcLike, lengthField, fixed8, fixed16}
}

// Sniffer drives Transport/Dumper per spec §4.11. It owns a single,
// fixed-capacity receive buffer exclusively; no slice into that buffer
// is ever retained across a suspension point (spec §5) — only owned
// frame copies and plain lengths survive a Receive or Dump call.
type Sniffer struct {
	transport Transport
	dumper    Dumper
	codecs    []framecodec.Codec

	runID uuid.UUID

	buf    [receiveBufferCapacity]byte
	filled int
	seq    uint64
}

// New constructs a Sniffer reading from transport and writing decoded
// frames to dumper, applying any options on top of the defaults
// (Codecs: DefaultCodecs()).
func New(transport Transport, dumper Dumper, opts ...func(*Options)) *Sniffer {
	cfg := Options{Codecs: DefaultCodecs()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Codecs == nil {
		cfg.Codecs = DefaultCodecs()
	}
	return &Sniffer{
		transport: transport,
		dumper:    dumper,
		codecs:    cfg.Codecs,
		runID:     uuid.New(),
	}
}

// WithCodecs overrides the candidate codec list.
func WithCodecs(codecs []framecodec.Codec) func(*Options) {
	return func(o *Options) { o.Codecs = codecs }
}

// RunID returns this sniffer's correlation identifier, stable for its
// lifetime, for callers that want to tag external logs. It is not passed
// to any trace hook; hooks receive only the remote label.
func (s *Sniffer) RunID() uuid.UUID { return s.runID }

// codecPass is one candidate's result against a read-only copy of the
// filled receive buffer.
type codecPass struct {
	codec     framecodec.Codec
	frames    []framecodec.Frame
	remainder int
}

// Run drives the receive loop until the transport closes (Receive
// returns 0, nil), ctx is cancelled, or Receive returns a non-nil error.
// On cancellation, Run returns ctx.Err() without draining any
// partially-filled buffer (spec §5, "Cancellation").
func (s *Sniffer) Run(ctx context.Context) error {
	remote := s.transport.Remote()
	trace := resolveTrace(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := s.receive(ctx, remote, trace)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		if err := s.processFilled(ctx, remote, trace); err != nil {
			return err
		}
	}
}

func (s *Sniffer) receive(ctx context.Context, remote string, trace *Trace) (int, error) {
	trace.ReceiveStart(remote)

	start := time.Now()
	n, err := s.transport.Receive(ctx, s.buf[s.filled:])
	d := time.Since(start)

	trace.ReceiveDone(remote, n, err, d)
	if err != nil {
		trace.Error("receive", remote, err)
		return 0, errors.Wrap(err, "sniffer: receive")
	}

	s.filled += n
	return n, nil
}

// processFilled runs the per-codec contest against the filled prefix,
// dumps the winner's frames (or the whole prefix as a fallback blob),
// and compacts the remainder to the front of the buffer. No slice into
// s.buf survives a Dump call: every frame handed to dump is an owned
// copy produced by a codec's Decode.
func (s *Sniffer) processFilled(ctx context.Context, remote string, trace *Trace) error {
	filled := s.filled

	best, ok := s.bestCodecPass(s.buf[:filled])
	if !ok {
		trace.CodecChosen(remote, "", 0, filled)
		blob := make([]byte, filled)
		copy(blob, s.buf[:filled])
		if err := s.dumpOne(ctx, remote, blob, trace); err != nil {
			return err
		}
		s.filled = 0
		return nil
	}

	trace.CodecChosen(remote, best.codec.Name(), len(best.frames), best.remainder)

	for _, frame := range best.frames {
		if err := s.dumpOne(ctx, remote, frame, trace); err != nil {
			return err
		}
	}

	s.compact(best.remainder, remote, trace)
	return nil
}

// bestCodecPass decodes as many frames as possible from each codec
// against its own local copy of filled, and returns the codec that
// produced the most frames (first codec wins ties). ok is false if no
// codec decoded anything.
func (s *Sniffer) bestCodecPass(filled []byte) (codecPass, bool) {
	var best codecPass
	bestSet := false

	for _, c := range s.codecs {
		local := append(framecodec.View(nil), filled...)

		var frames []framecodec.Frame
		for {
			frame, ok := c.Decode(&local)
			if !ok {
				break
			}
			frames = append(frames, frame)
		}
		if len(frames) == 0 {
			continue
		}

		if !bestSet || len(frames) > len(best.frames) {
			best = codecPass{codec: c, frames: frames, remainder: len(local)}
			bestSet = true
		}
	}

	return best, bestSet
}

func (s *Sniffer) dumpOne(ctx context.Context, remote string, frame []byte, trace *Trace) error {
	s.seq++
	seq := s.seq

	start := time.Now()
	err := s.dumper.Dump(ctx, DirectionRX, remote, seq, frame)
	d := time.Since(start)

	trace.FrameDumped(remote, seq, frame, err, d)
	if err != nil {
		trace.Error("dump", remote, err)
		return errors.Wrap(err, "sniffer: dump")
	}
	return nil
}

// compact copies the last remainderLen bytes of the filled buffer to its
// front. Per spec §4.11 step 6 and §9 ("Overlapping forward memmove"),
// this is always a forward-safe move: source offset (filled-remainderLen)
// is >= destination offset (0), so the built-in copy (which tolerates
// overlapping ranges by copying as if through a temporary buffer) is
// sufficient without any special-casing.
func (s *Sniffer) compact(remainderLen int, remote string, trace *Trace) {
	srcStart := s.filled - remainderLen
	copy(s.buf[:remainderLen], s.buf[srcStart:s.filled])
	s.filled = remainderLen
	trace.Compacted(remote, remainderLen)
}
