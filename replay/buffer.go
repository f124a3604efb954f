// Package replay stores self-play training examples: a bounded in-memory
// FIFO buffer for sampling, plus parquet shard persistence for long-term
// storage of generated data.
package replay

import (
	"errors"
	"math/rand"
	"sync"
)

// ErrInsufficientData reports sampling from an empty buffer. Recoverable:
// callers typically defer training until more self-play data exists.
var ErrInsufficientData = errors.New("insufficient training data")

// Example is one training sample: the canonical board encoding before a
// move, the search-visit policy target, and the eventual game outcome from
// the perspective of the player to move at that state.
type Example struct {
	Board  []float64
	Policy []float64
	// Value is -1, 0, or +1.
	Value float64
}

// Buffer is a bounded FIFO store of examples. Appends and samples are
// serialized by a mutex so concurrent episode workers preserve strict
// insertion order for eviction.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	items    []Example
}

// NewBuffer creates a buffer with the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("replay buffer capacity must be positive")
	}
	return &Buffer{capacity: capacity}
}

// Append adds examples in order, evicting the oldest entries once the
// length exceeds capacity.
func (b *Buffer) Append(examples ...Example) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, examples...)
	if drop := len(b.items) - b.capacity; drop > 0 {
		kept := make([]Example, b.capacity)
		copy(kept, b.items[drop:])
		b.items = kept
	}
}

// Len returns the current number of stored examples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Capacity returns the fixed maximum length.
func (b *Buffer) Capacity() int { return b.capacity }

// Sample draws batchSize examples uniformly at random with replacement.
func (b *Buffer) Sample(rng *rand.Rand, batchSize int) ([]Example, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil, ErrInsufficientData
	}
	batch := make([]Example, batchSize)
	for i := range batch {
		batch[i] = b.items[rng.Intn(len(b.items))]
	}
	return batch, nil
}

// Snapshot returns a copy of the current contents in insertion order.
func (b *Buffer) Snapshot() []Example {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Example, len(b.items))
	copy(out, b.items)
	return out
}
