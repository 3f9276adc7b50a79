// Package autoframe implements an adaptive, auto-detecting frame codec
// (C10) that wraps a fixed list of candidate framecodec.Codec values,
// scores them against each pass's input, and locks onto a winner once it
// has proven itself consistently.
package autoframe

import (
	"github.com/pkg/errors"

	"github.com/hexframe/framewire/framecodec"
)

// Options configures a Codec.
type Options struct {
	// MaxFrameBytes bounds a single decoded frame's length during scoring.
	MaxFrameBytes int
	// MinBufferToConsider skips scoring while the view is shorter than this.
	MinBufferToConsider int
	// MaxFramesPerPass halts a candidate's scoring run at this count.
	MaxFramesPerPass int
	// MaxQueueFrames bounds how many frames from the winning pass are
	// retained; extras are still counted toward decoded but dropped.
	MaxQueueFrames int
	// RemainderPenalty is the per-byte score penalty for unconsumed bytes.
	RemainderPenalty int
	// LockAfterHits is the number of consecutive wins before locking.
	LockAfterHits int
	// MinFramesToLock is the minimum frame count a winning pass must
	// produce to count toward a lock.
	MinFramesToLock int
	// DefaultEncoder is used for Encode before a lock; if nil, the first
	// candidate is used.
	DefaultEncoder framecodec.Codec
}

func defaultOptions() Options {
	return Options{
		MaxFrameBytes:        4096,
		MinBufferToConsider:  4,
		MaxFramesPerPass:     64,
		MaxQueueFrames:       16,
		RemainderPenalty:     2,
		LockAfterHits:        3,
		MinFramesToLock:      2,
	}
}

// candidateState tracks one candidate's streak. Candidates are keyed by
// the address of their candidateState, not by configuration equality —
// two codecs built with identical parameters are distinct streak keys
// (spec §9, "Reference identity for the streak map").
type candidateState struct {
	codec  framecodec.Codec
	streak int
}

// Codec is the adaptive auto-framer (C10). See spec §4.10.
//
// Codec is not safe for concurrent use: its pending queue, streaks, and
// lock are mutated only inside Decode, by the single task that owns it
// (spec §5, "Shared resources").
type Codec struct {
	opts       Options
	candidates []*candidateState

	pending []framecodec.Frame
	locked  *candidateState

	// lastPassFrameCount is the winning pass's decoded frame count (which
	// may exceed MaxQueueFrames, the retained count), kept so Decode can
	// compare it against MinFramesToLock.
	lastPassFrameCount int
}

// New constructs a Codec wrapping candidates (which must be non-empty),
// applying any options on top of the defaults (MaxFrameBytes 4096,
// MinBufferToConsider 4, MaxFramesPerPass 64, MaxQueueFrames 16,
// RemainderPenalty 2, LockAfterHits 3, MinFramesToLock 2).
func New(candidates []framecodec.Codec, opts ...func(*Options)) (*Codec, error) {
	if len(candidates) == 0 {
		return nil, errors.Wrap(framecodec.ErrInvalidConfig, "autoframe: candidates must be non-empty")
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DefaultEncoder == nil {
		cfg.DefaultEncoder = candidates[0]
	}

	states := make([]*candidateState, len(candidates))
	for i, c := range candidates {
		states[i] = &candidateState{codec: c}
	}

	return &Codec{opts: cfg, candidates: states}, nil
}

// WithMaxFrameBytes overrides MaxFrameBytes.
func WithMaxFrameBytes(n int) func(*Options) { return func(o *Options) { o.MaxFrameBytes = n } }

// WithMinBufferToConsider overrides MinBufferToConsider.
func WithMinBufferToConsider(n int) func(*Options) {
	return func(o *Options) { o.MinBufferToConsider = n }
}

// WithMaxFramesPerPass overrides MaxFramesPerPass.
func WithMaxFramesPerPass(n int) func(*Options) { return func(o *Options) { o.MaxFramesPerPass = n } }

// WithMaxQueueFrames overrides MaxQueueFrames.
func WithMaxQueueFrames(n int) func(*Options) { return func(o *Options) { o.MaxQueueFrames = n } }

// WithRemainderPenalty overrides RemainderPenalty.
func WithRemainderPenalty(n int) func(*Options) { return func(o *Options) { o.RemainderPenalty = n } }

// WithLockAfterHits overrides LockAfterHits.
func WithLockAfterHits(n int) func(*Options) { return func(o *Options) { o.LockAfterHits = n } }

// WithMinFramesToLock overrides MinFramesToLock.
func WithMinFramesToLock(n int) func(*Options) { return func(o *Options) { o.MinFramesToLock = n } }

// WithDefaultEncoder overrides the pre-lock encoder.
func WithDefaultEncoder(c framecodec.Codec) func(*Options) {
	return func(o *Options) { o.DefaultEncoder = c }
}

// Name implements framecodec.Codec.
func (c *Codec) Name() string { return "auto" }

// Mode reports "AUTO" while unlocked, or "LOCKED:<codec-name>" once a
// candidate has locked.
func (c *Codec) Mode() string {
	if c.locked != nil {
		return "LOCKED:" + c.locked.codec.Name()
	}
	return "AUTO"
}

// Encode delegates to the locked candidate if one exists, else to
// DefaultEncoder.
func (c *Codec) Encode(payload []byte) ([]byte, error) {
	if c.locked != nil {
		return c.locked.codec.Encode(payload)
	}
	return c.opts.DefaultEncoder.Encode(payload)
}

// Decode implements framecodec.Codec per spec §4.10.
func (c *Codec) Decode(view *framecodec.View) (framecodec.Frame, bool) {
	if len(c.pending) > 0 {
		f := c.pending[0]
		c.pending = c.pending[1:]
		return f, true
	}

	if c.locked != nil {
		return c.locked.codec.Decode(view)
	}

	if len(*view) < c.opts.MinBufferToConsider {
		return nil, false
	}

	winner, frames, consumed := c.runPass(*view)
	if winner == nil {
		return nil, false
	}

	*view = (*view)[consumed:]
	if len(frames) > c.opts.MaxQueueFrames {
		frames = frames[:c.opts.MaxQueueFrames]
	}
	c.pending = append(c.pending, frames...)

	c.updateStreaks(winner)

	if winner.streak >= c.opts.LockAfterHits && c.lastPassFrameCount >= c.opts.MinFramesToLock {
		c.locked = winner
	}

	if len(c.pending) == 0 {
		return nil, false
	}
	f := c.pending[0]
	c.pending = c.pending[1:]
	return f, true
}

type passResult struct {
	decoded  int
	consumed int
	frames   []framecodec.Frame
}

// runPass scores every candidate against a local copy of view and
// returns the winner, its retained frames (capped by MaxQueueFrames by
// the caller), and bytes consumed. It returns a nil winner if no
// candidate produced a valid, non-empty pass.
func (c *Codec) runPass(view framecodec.View) (*candidateState, []framecodec.Frame, int) {
	var (
		best      *candidateState
		bestScore int
		bestRes   passResult
	)

	for _, cand := range c.candidates {
		res, ok := c.scoreCandidate(cand, view)
		if !ok {
			continue
		}
		remainder := len(view) - res.consumed
		score := res.decoded*1000 + res.consumed - remainder*c.opts.RemainderPenalty

		if best == nil || score > bestScore {
			best, bestScore, bestRes = cand, score, res
		}
	}

	if best == nil {
		return nil, nil, 0
	}
	c.lastPassFrameCount = bestRes.decoded
	return best, bestRes.frames, bestRes.consumed
}

// scoreCandidate runs cand against a local copy of view, decoding as many
// frames as possible (bounded by MaxFramesPerPass), validating each
// frame's length is in (0, MaxFrameBytes]. A candidate with an
// out-of-range frame or zero decoded frames is discarded (ok=false).
func (c *Codec) scoreCandidate(cand *candidateState, view framecodec.View) (passResult, bool) {
	local := append(framecodec.View(nil), view...)
	start := len(local)

	var res passResult
	for res.decoded < c.opts.MaxFramesPerPass {
		frame, ok := cand.codec.Decode(&local)
		if !ok {
			break
		}
		if len(frame) == 0 || len(frame) > c.opts.MaxFrameBytes {
			return passResult{}, false
		}
		res.decoded++
		if len(res.frames) < c.opts.MaxQueueFrames {
			res.frames = append(res.frames, frame)
		}
	}

	if res.decoded == 0 {
		return passResult{}, false
	}
	res.consumed = start - len(local)
	return res, true
}

// updateStreaks increments winner's streak (starting from its current
// value, default 0) and decrements every other candidate's streak,
// floored at 0.
func (c *Codec) updateStreaks(winner *candidateState) {
	winner.streak++
	for _, cand := range c.candidates {
		if cand == winner {
			continue
		}
		if cand.streak > 0 {
			cand.streak--
		}
	}
}
