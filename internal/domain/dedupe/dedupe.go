// Package dedupe defines the interface for frame idempotency tracking.
// Clients may retry a frame submission; without dedupe a retried frame
// would be evaluated twice and could double-count a repetition.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen frame IDs to ensure at-most-once evaluation.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be
	// retried. Used when a frame was marked seen but its evaluation
	// never happened (unknown session, internal failure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO eviction
// ring. Frames arrive in stream order, so evicting the oldest recorded
// ID matches arrival age. The map holds each ID's current ring slot so
// that an ID unrecorded and later re-recorded is only evicted when its
// own slot comes around, not when an older stale slot does. With
// maxSize <= 0 the deduper is unbounded and keeps the map only.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // value is the ID's live ring slot, -1 when unbounded
	ring    []string       // insertion order; slots of unrecorded IDs go stale
	head    int            // next eviction slot once the ring is full
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000, // default max size
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	slot := -1
	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			slot = len(d.ring)
			d.ring = append(d.ring, id)
		} else {
			// Overwrite the oldest slot. The evicted ID only leaves the
			// map when this slot is its live one; stale slots left by
			// Unrecord or re-recording evict nothing.
			old := d.ring[d.head]
			if liveSlot, live := d.seen[old]; live && liveSlot == d.head {
				delete(d.seen, old)
				d.size.Add(-1)
			}
			slot = d.head
			d.ring[d.head] = id
			d.head = (d.head + 1) % d.maxSize
		}
	}

	d.seen[id] = slot
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
// Its ring slot goes stale and is skipped at eviction time.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
