package otel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultQueueSize bounds how many encoded events may wait for the writer.
const DefaultQueueSize = 2048

type queued struct {
	line []byte
	ev   Event
}

// Logger writes events as JSONL from a background goroutine and mirrors them
// into an optional RingBuffer. Emit never blocks: when the queue is full the
// event is counted as dropped. A nil *Logger discards everything, so
// components take one without nil checks.
type Logger struct {
	out     io.Writer
	ring    *RingBuffer
	session string
	queue   chan queued

	mu      sync.RWMutex // guards closed against a concurrent send
	closed  bool
	dropped atomic.Uint64
	stopped chan struct{}
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithRing mirrors every written event into rb.
func WithRing(rb *RingBuffer) LoggerOption {
	return func(l *Logger) { l.ring = rb }
}

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) LoggerOption {
	return func(l *Logger) {
		if n > 0 {
			l.queue = make(chan queued, n)
		}
	}
}

// NewLogger starts a Logger writing to w. Close flushes and stops it.
func NewLogger(w io.Writer, opts ...LoggerOption) *Logger {
	l := &Logger{
		out:     w,
		session: uuid.NewString(),
		queue:   make(chan queued, DefaultQueueSize),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.run()
	return l
}

// NewNullLogger discards output but still feeds the ring, if any.
func NewNullLogger(opts ...LoggerOption) *Logger {
	return NewLogger(io.Discard, opts...)
}

func (l *Logger) run() {
	defer close(l.stopped)
	for q := range l.queue {
		if _, err := l.out.Write(q.line); err != nil {
			l.dropped.Add(1)
		}
		if l.ring != nil {
			l.ring.Push(q.ev)
		}
	}
}

// Emit stamps e with the time (when unset) and the session ID, then queues it.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.queue <- queued{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Error emits an error-level event carrying err's text.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	e := Event{Level: LevelError, Kind: kind, Comp: comp}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SessionID identifies this run; every event carries it.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Ring returns the attached ring buffer, or nil.
func (l *Logger) Ring() *RingBuffer {
	if l == nil {
		return nil
	}
	return l.ring
}

// Dropped counts events lost to a full queue, an encode failure, a write
// error, or an Emit after Close.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close drains the queue and stops the writer. Safe to call more than once.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.stopped
	if d := l.dropped.Load(); d > 0 {
		fmt.Fprintf(os.Stderr, "shopper: %d diagnostic events dropped in session %s\n", d, l.session)
	}
}
