// Package expreplay implements a fixed capacity experience replay
// buffer. Transitions are evicted first-in-first-out once the buffer is
// full and are sampled uniformly at random with replacement.
package expreplay

import (
	"fmt"
	"strings"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
)

// Config implements a specific configuration of a Buffer
type Config struct {
	Capacity int
}

// Validate checks a Config for validity
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("validate: capacity must be >= 1"+
			"\n\twant(>= 1)\n\thave(%v)", c.Capacity)
	}
	return nil
}

// Create creates and returns the Buffer with the specified Config.
func (c Config) Create(seed uint64) (*Buffer, error) {
	return New(c.Capacity, NewUniformSelector(seed))
}

// Buffer implements an experience replay buffer as a ring of
// transitions. Transitions are copied on the way in and on the way out
// so that neither callers nor eviction can alias buffer storage.
type Buffer struct {
	transitions     []timestep.Transition
	currentInUsePos int
	isFull          bool

	sampler Selector
}

// New creates and returns a new Buffer holding at most capacity
// transitions. The sampler determines which transitions are sampled.
func New(capacity int, sampler Selector) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("new: capacity must be >= 1"+
			"\n\twant(>= 1)\n\thave(%v)", capacity)
	}

	return &Buffer{
		transitions: make([]timestep.Transition, capacity),
		sampler:     sampler,
	}, nil
}

// Add adds a transition to the buffer. If the buffer is full, the
// oldest transition is evicted first.
func (b *Buffer) Add(t timestep.Transition) {
	b.transitions[b.currentInUsePos] = t.Clone()

	b.currentInUsePos = (b.currentInUsePos + 1) % b.Capacity()
	if b.currentInUsePos == 0 {
		b.isFull = true
	}
}

// Sample returns n transitions drawn uniformly at random with
// replacement from the buffer, so n may exceed Len. An error is
// returned if the buffer is empty or n is not positive.
func (b *Buffer) Sample(n int) ([]timestep.Transition, error) {
	if n < 1 {
		return nil, &ExpReplayError{
			Op:  "sample",
			Err: errBatchSize,
		}
	}
	if b.Len() == 0 {
		return nil, &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
	}

	indices := b.sampler.choose(n, b.Len())
	batch := make([]timestep.Transition, len(indices))
	for i, index := range indices {
		batch[i] = b.transitions[index].Clone()
	}
	return batch, nil
}

// Len returns the current number of transitions in the buffer
func (b *Buffer) Len() int {
	if b.isFull {
		return b.Capacity()
	}
	return b.currentInUsePos
}

// Capacity returns the maximum number of transitions in the buffer
func (b *Buffer) Capacity() int {
	return len(b.transitions)
}

// Contents returns copies of the transitions in the buffer, oldest
// first
func (b *Buffer) Contents() []timestep.Transition {
	contents := make([]timestep.Transition, 0, b.Len())

	start := 0
	if b.isFull {
		start = b.currentInUsePos
	}
	for i := 0; i < b.Len(); i++ {
		index := (start + i) % b.Capacity()
		contents = append(contents, b.transitions[index].Clone())
	}
	return contents
}

// String returns the string representation of the Buffer
func (b *Buffer) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Buffer{size: %d, capacity: %d}", b.Len(),
		b.Capacity())
	for _, t := range b.Contents() {
		fmt.Fprintf(&builder, "\n\t%v", t)
	}
	return builder.String()
}
