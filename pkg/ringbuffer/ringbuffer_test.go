// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ringbuffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimetal/eventguard/pkg/errors"
	"github.com/antimetal/eventguard/pkg/ringbuffer"
)

func TestRingBuffer(t *testing.T) {
	t.Run("push and getAll", func(t *testing.T) {
		rb, err := ringbuffer.New[uint32](3)
		require.NoError(t, err)

		assert.Equal(t, []uint32{}, rb.GetAll())
		assert.Equal(t, 0, rb.Len())
		assert.Equal(t, 3, rb.Cap())
		assert.Equal(t, 0, rb.Head())

		rb.Push(1)
		assert.Equal(t, []uint32{1}, rb.GetAll())
		assert.Equal(t, 1, rb.Head())

		rb.Push(2)
		rb.Push(3)
		assert.Equal(t, []uint32{1, 2, 3}, rb.GetAll())
		assert.Equal(t, 3, rb.Len())
		assert.Equal(t, 0, rb.Head())
	})

	t.Run("overflow wraps around", func(t *testing.T) {
		rb, err := ringbuffer.New[string](3)
		require.NoError(t, err)

		rb.Push("a")
		rb.Push("b")
		rb.Push("c")
		rb.Push("d")
		assert.Equal(t, []string{"b", "c", "d"}, rb.GetAll())
		assert.Equal(t, 1, rb.Head())

		rb.Push("e")
		rb.Push("f")
		assert.Equal(t, []string{"d", "e", "f"}, rb.GetAll())
		assert.Equal(t, 0, rb.Head())
	})

	t.Run("fill keeps head", func(t *testing.T) {
		rb, err := ringbuffer.New[uint32](4)
		require.NoError(t, err)

		rb.Push(7)
		rb.Fill(9)
		assert.Equal(t, 1, rb.Head())
		assert.Equal(t, 4, rb.Len())
		assert.Equal(t, []uint32{9, 9, 9, 9}, rb.GetAll())

		rb.Push(10)
		assert.Equal(t, []uint32{9, 9, 9, 10}, rb.GetAll())
		assert.Equal(t, 2, rb.Head())
	})

	t.Run("each visits live slots", func(t *testing.T) {
		rb, err := ringbuffer.New[int](5)
		require.NoError(t, err)

		var seen []int
		rb.Each(func(v int) bool {
			seen = append(seen, v)
			return true
		})
		assert.Empty(t, seen)

		rb.Push(1)
		rb.Push(2)
		rb.Each(func(v int) bool {
			seen = append(seen, v)
			return true
		})
		assert.Equal(t, []int{1, 2}, seen)
	})

	t.Run("each stops early", func(t *testing.T) {
		rb, err := ringbuffer.New[int](3)
		require.NoError(t, err)
		rb.Fill(1)

		calls := 0
		rb.Each(func(int) bool {
			calls++
			return false
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("large buffer", func(t *testing.T) {
		rb, err := ringbuffer.New[int](1000)
		require.NoError(t, err)

		for i := 0; i < 1100; i++ {
			rb.Push(i)
		}

		result := rb.GetAll()
		assert.Len(t, result, 1000)
		assert.Equal(t, 100, result[0])
		assert.Equal(t, 1099, result[999])
		assert.Equal(t, 100, rb.Head())
	})

	t.Run("single slot buffer", func(t *testing.T) {
		rb, err := ringbuffer.New[int](1)
		require.NoError(t, err)

		rb.Push(1)
		rb.Push(2)
		assert.Equal(t, []int{2}, rb.GetAll())
		assert.Equal(t, 0, rb.Head())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		rb, err := ringbuffer.New[int](0)
		assert.Nil(t, rb)
		assert.ErrorIs(t, err, errors.ErrInvalidCapacity)
		assert.Contains(t, err.Error(), "capacity must be greater than 0, got 0")

		rb, err = ringbuffer.New[int](-5)
		assert.Nil(t, rb)
		assert.ErrorIs(t, err, errors.ErrInvalidCapacity)
		assert.Contains(t, err.Error(), "capacity must be greater than 0, got -5")
	})
}
