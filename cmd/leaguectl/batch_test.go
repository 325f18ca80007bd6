package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIDs(t *testing.T) {
	ids, err := eventIDs([]int{7, 3, 7, 12, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3, 12}, ids)

	_, err = eventIDs(nil)
	assert.ErrorContains(t, err, "--event")

	_, err = eventIDs([]int{4, 0})
	assert.ErrorContains(t, err, "--event")
}

func TestForEachEvent(t *testing.T) {
	t.Run("results keep the order of ids", func(t *testing.T) {
		ids := []int{5, 1, 9, 3}
		got, err := forEachEvent(context.Background(), ids, 4, func(ctx context.Context, eventID int) (int, error) {
			time.Sleep(time.Duration(eventID) * time.Millisecond)
			return eventID * 10, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{50, 10, 90, 30}, got)
	})

	t.Run("no more than parallel calls in flight", func(t *testing.T) {
		var inFlight, peak int32
		var mu sync.Mutex
		_, err := forEachEvent(context.Background(), []int{1, 2, 3, 4, 5, 6}, 2, func(ctx context.Context, eventID int) (struct{}, error) {
			n := atomic.AddInt32(&inFlight, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return struct{}{}, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, peak, int32(2))
	})

	t.Run("the first error names the event and cancels the rest", func(t *testing.T) {
		boom := errors.New("event not found")
		_, err := forEachEvent(context.Background(), []int{1, 2}, 1, func(ctx context.Context, eventID int) (int, error) {
			if eventID == 1 {
				return 0, boom
			}
			return 0, ctx.Err()
		})
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "league event 1")
	})
}
