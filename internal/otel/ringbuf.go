package otel

import (
	"maps"
	"sync"
	"time"
)

// DefaultRingSize is used when NewRingBuffer is given a non-positive size.
const DefaultRingSize = 512

// RingBuffer keeps the most recent events in memory for the debug overlay.
// Safe for concurrent use.
type RingBuffer struct {
	mu    sync.RWMutex
	slots []Event
	total uint64 // events ever pushed; slot for event i is i % len(slots)
}

// NewRingBuffer creates a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{slots: make([]Event, size)}
}

// Push stores e, evicting the oldest event once full. Extra is cloned so the
// caller may keep mutating its map.
func (r *RingBuffer) Push(e Event) {
	e.Extra = maps.Clone(e.Extra)
	r.mu.Lock()
	r.slots[r.total%uint64(len(r.slots))] = e
	r.total++
	r.mu.Unlock()
}

// Len returns how many events are buffered.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.held()
}

// Cap returns the capacity.
func (r *RingBuffer) Cap() int {
	return len(r.slots)
}

// Total returns how many events were ever pushed, evicted ones included.
func (r *RingBuffer) Total() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

func (r *RingBuffer) held() int {
	if r.total < uint64(len(r.slots)) {
		return int(r.total)
	}
	return len(r.slots)
}

// Last returns up to n of the newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n = min(n, r.held())
	if n == 0 {
		return nil
	}
	out := make([]Event, n)
	size := uint64(len(r.slots))
	first := r.total - uint64(n)
	for i := range out {
		out[i] = r.slots[(first+uint64(i))%size]
	}
	return out
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	return r.Last(r.Cap())
}

// LastErrors returns up to n of the newest error-level events, oldest first.
func (r *RingBuffer) LastErrors(n int) []Event {
	if n <= 0 {
		return nil
	}
	all := r.Snapshot()
	var out []Event
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		if all[i].Level == LevelError {
			out = append(out, all[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range r.Snapshot() {
		counts[e.Kind]++
	}
	return counts
}

// RequestTrace is one backend call reassembled from its api.* events.
type RequestTrace struct {
	RequestID string
	Path      string
	Started   time.Time
	Status    int
	Dur       time.Duration
	Err       string
	Done      bool
}

// Requests folds buffered api.* events into per-request traces, newest
// first, at most n. A request whose api.request event was evicted still
// appears if its completion is buffered.
func (r *RingBuffer) Requests(n int) []RequestTrace {
	if n <= 0 {
		return nil
	}
	byID := make(map[string]*RequestTrace)
	var order []string
	for _, e := range r.Snapshot() {
		if e.RequestID == "" {
			continue
		}
		switch e.Kind {
		case KindAPIRequest, KindAPIResponse, KindAPIError:
		default:
			continue
		}
		tr, ok := byID[e.RequestID]
		if !ok {
			tr = &RequestTrace{RequestID: e.RequestID, Path: e.Path, Started: e.Time}
			byID[e.RequestID] = tr
			order = append(order, e.RequestID)
		}
		if e.Path != "" {
			tr.Path = e.Path
		}
		if e.Kind == KindAPIRequest {
			tr.Started = e.Time
			continue
		}
		tr.Done = true
		if e.Status != 0 {
			tr.Status = e.Status
		}
		if e.Dur > 0 {
			tr.Dur = e.Dur
		}
		if e.Err != "" {
			tr.Err = e.Err
		}
	}

	out := make([]RequestTrace, 0, min(n, len(order)))
	for i := len(order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *byID[order[i]])
	}
	return out
}
