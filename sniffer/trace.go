package sniffer

import (
	"context"
	"encoding/hex"
	"log"
	"time"

	"github.com/imdario/mergo"
)

// unique type to prevent assignment, mirroring the netconf client's
// context-keyed trace pattern.
type traceContextKey struct{}

// WithTrace returns a new context based on parent whose sniffer calls use
// the provided trace hooks in addition to any previously registered ones.
// Hooks on trace run before any previously registered hooks.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	if trace == nil {
		panic("nil trace")
	}
	old := TraceFromContext(ctx)
	trace.compose(old)
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// TraceFromContext returns the Trace associated with ctx, or nil.
func TraceFromContext(ctx context.Context) *Trace {
	trace, _ := ctx.Value(traceContextKey{}).(*Trace)
	return trace
}

// resolveTrace returns a Trace for ctx with every hook field populated:
// whatever ctx's registered trace defines, with any unset (nil) field
// filled in from NoOpLoggingHooks. This mirrors
// v2/snmp/managerfactory.go's `mergo.Merge(config.trace,
// NoOpLoggingHooks)` — a nil function field is an unambiguous "unset"
// sentinel, unlike a zero-valued bool or int, so mergo's default
// fill-only-empty-fields behaviour is exactly right here. Callers can
// then invoke every hook on the result unconditionally.
func resolveTrace(ctx context.Context) *Trace {
	resolved := &Trace{}
	if t := TraceFromContext(ctx); t != nil {
		*resolved = *t
	}
	_ = mergo.Merge(resolved, NoOpLoggingHooks)
	return resolved
}

// Trace defines a structure for handling sniffer observability events.
// Every field is optional; a nil field is simply not called. This
// mirrors the teacher's httptrace-style ClientTrace/SessionTrace hook
// structs rather than introducing a structured-logging dependency.
type Trace struct {
	// ReceiveStart is called before a suspend on Transport.Receive.
	ReceiveStart func(remote string)

	// ReceiveDone is called after Transport.Receive returns.
	ReceiveDone func(remote string, n int, err error, d time.Duration)

	// CodecChosen is called once per iteration after the per-codec
	// contest, reporting the winner (or "" if none decoded anything),
	// how many frames it produced, and the remaining unparsed bytes.
	CodecChosen func(remote string, name string, frames int, remainder int)

	// FrameDumped is called after each Dumper.Dump call.
	FrameDumped func(remote string, seq uint64, frame []byte, err error, d time.Duration)

	// Compacted is called after the receive buffer is compacted,
	// reporting how many bytes were kept.
	Compacted func(remote string, kept int)

	// Error is called after any error condition is detected, identifying
	// where (location) it occurred.
	Error func(location string, remote string, err error)
}

// compose modifies t such that it calls its own hooks before falling
// through to old's, for every hook old defines. If old is nil, compose
// is a no-op.
func (t *Trace) compose(old *Trace) {
	if old == nil {
		return
	}
	if old.ReceiveStart != nil {
		orig := t.ReceiveStart
		t.ReceiveStart = func(remote string) {
			if orig != nil {
				orig(remote)
			}
			old.ReceiveStart(remote)
		}
	}
	if old.ReceiveDone != nil {
		orig := t.ReceiveDone
		t.ReceiveDone = func(remote string, n int, err error, d time.Duration) {
			if orig != nil {
				orig(remote, n, err, d)
			}
			old.ReceiveDone(remote, n, err, d)
		}
	}
	if old.CodecChosen != nil {
		orig := t.CodecChosen
		t.CodecChosen = func(remote string, name string, frames int, remainder int) {
			if orig != nil {
				orig(remote, name, frames, remainder)
			}
			old.CodecChosen(remote, name, frames, remainder)
		}
	}
	if old.FrameDumped != nil {
		orig := t.FrameDumped
		t.FrameDumped = func(remote string, seq uint64, frame []byte, err error, d time.Duration) {
			if orig != nil {
				orig(remote, seq, frame, err, d)
			}
			old.FrameDumped(remote, seq, frame, err, d)
		}
	}
	if old.Compacted != nil {
		orig := t.Compacted
		t.Compacted = func(remote string, kept int) {
			if orig != nil {
				orig(remote, kept)
			}
			old.Compacted(remote, kept)
		}
	}
	if old.Error != nil {
		orig := t.Error
		t.Error = func(location, remote string, err error) {
			if orig != nil {
				orig(location, remote, err)
			}
			old.Error(location, remote, err)
		}
	}
}

// DefaultLoggingHooks logs only errors, the sensible default for
// production use.
var DefaultLoggingHooks = &Trace{
	Error: func(location, remote string, err error) {
		log.Printf("sniffer-error location:%s remote:%s err:%v\n", location, remote, err)
	},
}

// MetricLoggingHooks logs timings for receives and dumps, plus errors.
var MetricLoggingHooks = &Trace{
	ReceiveDone: func(remote string, n int, err error, d time.Duration) {
		log.Printf("sniffer-receive-done remote:%s n:%d err:%v took:%dms\n", remote, n, err, d.Milliseconds())
	},
	FrameDumped: func(remote string, seq uint64, frame []byte, err error, d time.Duration) {
		log.Printf("sniffer-frame-dumped remote:%s seq:%d n:%d err:%v took:%dms\n", remote, seq, len(frame), err, d.Milliseconds())
	},
	Error: DefaultLoggingHooks.Error,
}

// DiagnosticLoggingHooks logs every event, including frame contents as
// hex, for deep debugging. Not recommended for production: it is the
// most expensive preset.
var DiagnosticLoggingHooks = &Trace{
	ReceiveStart: func(remote string) {
		log.Printf("sniffer-receive-start remote:%s\n", remote)
	},
	ReceiveDone: MetricLoggingHooks.ReceiveDone,
	CodecChosen: func(remote string, name string, frames int, remainder int) {
		log.Printf("sniffer-codec-chosen remote:%s codec:%q frames:%d remainder:%d\n", remote, name, frames, remainder)
	},
	FrameDumped: func(remote string, seq uint64, frame []byte, err error, d time.Duration) {
		log.Printf("sniffer-frame-dumped remote:%s seq:%d err:%v took:%dms data:%s\n", remote, seq, err, d.Milliseconds(), hex.EncodeToString(frame))
	},
	Compacted: func(remote string, kept int) {
		log.Printf("sniffer-compacted remote:%s kept:%d\n", remote, kept)
	},
	Error: DefaultLoggingHooks.Error,
}

// NoOpLoggingHooks performs no logging; useful as an explicit opt-out.
var NoOpLoggingHooks = &Trace{
	ReceiveStart: func(remote string) {},
	ReceiveDone:  func(remote string, n int, err error, d time.Duration) {},
	CodecChosen:  func(remote string, name string, frames int, remainder int) {},
	FrameDumped:  func(remote string, seq uint64, frame []byte, err error, d time.Duration) {},
	Compacted:    func(remote string, kept int) {},
	Error:        func(location, remote string, err error) {},
}
