// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ringbuffer

import (
	"fmt"

	"github.com/antimetal/eventguard/pkg/errors"
)

// RingBuffer is a fixed-slot circular buffer that overwrites the oldest
// element once every slot has been written.
//
// The slot count is set at construction and never changes. The head is the
// index of the next slot Push will overwrite and is always in [0, Cap()).
//
// Note: This implementation is NOT thread-safe. If concurrent access is needed,
// synchronization must be handled externally.
type RingBuffer[T any] struct {
	data []T
	head int // next write position
	size int // number of live slots
}

// New creates a new ring buffer with the given number of slots.
func New[T any](capacity int) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", errors.ErrInvalidCapacity, capacity)
	}
	return &RingBuffer[T]{
		data: make([]T, capacity),
	}, nil
}

// Push writes item at the head and advances the head, wrapping to 0.
func (r *RingBuffer[T]) Push(item T) {
	r.data[r.head] = item
	r.head = (r.head + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
}

// Fill sets every slot to v and marks the buffer full. The head does not move.
func (r *RingBuffer[T]) Fill(v T) {
	for i := range r.data {
		r.data[i] = v
	}
	r.size = len(r.data)
}

// Each calls fn for every live slot in storage order until fn returns false.
func (r *RingBuffer[T]) Each(fn func(T) bool) {
	for _, v := range r.data[:r.Len()] {
		if !fn(v) {
			return
		}
	}
}

// GetAll returns all live elements in chronological order (oldest to newest)
func (r *RingBuffer[T]) GetAll() []T {
	if r.size == 0 {
		return []T{}
	}

	result := make([]T, r.size)

	// Not yet wrapped: live elements are 0..size-1
	if r.size < len(r.data) {
		copy(result, r.data[:r.Len()])
		return result
	}

	// Full: the oldest element sits at head
	n := copy(result, r.data[r.head:])
	copy(result[n:], r.data[:r.head])

	return result
}

// Head returns the index of the next slot to be overwritten.
func (r *RingBuffer[T]) Head() int {
	return r.head
}

// Len returns the number of live elements.
func (r *RingBuffer[T]) Len() int {
	return r.size
}

// Cap returns the slot count.
func (r *RingBuffer[T]) Cap() int {
	return len(r.data)
}
