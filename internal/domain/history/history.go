// Package history implements the bounded smoothing buffer that damps
// frame-to-frame jitter before the exercise rules threshold a
// measurement.
package history

import "gonum.org/v1/gonum/stat"

// DefaultCapacity is the number of recent frames averaged together.
const DefaultCapacity = 10

// Option applies a configuration option to a History.
type Option func(*History)

// WithCapacity sets the maximum number of samples retained.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// History keeps the most recent fixed-width measurement samples in
// insertion order. Pushing beyond capacity evicts the oldest sample.
// A History belongs to exactly one session and one active exercise;
// it is cleared, never shared, on an exercise switch.
type History struct {
	samples  [][]float64 // ring storage
	head     int         // index of the oldest sample
	size     int
	capacity int
}

// New creates an empty history with the given options.
func New(opts ...Option) *History {
	h := &History{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(h)
	}
	h.samples = make([][]float64, h.capacity)
	return h
}

// Push appends one per-frame measurement. All samples pushed between two
// Clear calls must have the same width.
func (h *History) Push(sample ...float64) {
	if h.size < h.capacity {
		h.samples[(h.head+h.size)%h.capacity] = sample
		h.size++
		return
	}
	h.samples[h.head] = sample
	h.head = (h.head + 1) % h.capacity
}

// Means returns the per-component average of the stored samples.
// Calling Means before any Push is a caller bug; it returns nil. The
// evaluation rules always push the current frame first.
func (h *History) Means() []float64 {
	if h.size == 0 {
		return nil
	}
	width := len(h.samples[h.head])
	means := make([]float64, width)
	column := make([]float64, h.size)
	for c := 0; c < width; c++ {
		for i := 0; i < h.size; i++ {
			column[i] = h.samples[(h.head+i)%h.capacity][c]
		}
		means[c] = stat.Mean(column, nil)
	}
	return means
}

// Clear empties the history. Only the session controller clears a
// history, and only on an exercise switch.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.size }

// Cap returns the configured capacity.
func (h *History) Cap() int { return h.capacity }

// Snapshot returns the stored samples oldest first. It copies the
// backing storage and is intended for inspection and tests.
func (h *History) Snapshot() [][]float64 {
	out := make([][]float64, h.size)
	for i := 0; i < h.size; i++ {
		sample := h.samples[(h.head+i)%h.capacity]
		out[i] = append([]float64(nil), sample...)
	}
	return out
}
