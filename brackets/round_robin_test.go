package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinGenerator_GenerateSchedule(t *testing.T) {
	gen := NewRoundRobinGenerator()
	assert.Equal(t, "RoundRobin", gen.GetName())

	t.Run("every unordered pair once in seeding order", func(t *testing.T) {
		matches, err := gen.GenerateSchedule(context.Background(), GenerateScheduleParams{GroupNumber: 2, PlayerIDs: []int{10, 20, 30, 40}})
		require.NoError(t, err)
		require.Len(t, matches, 6)

		want := [][2]int{{10, 20}, {10, 30}, {10, 40}, {20, 30}, {20, 40}, {30, 40}}
		for i, m := range matches {
			assert.Equal(t, i, m.MatchOrder)
			assert.Equal(t, want[i], [2]int{m.Player1ID, m.Player2ID})
		}
		assert.Equal(t, "G2_RRM0_P10vsP20", matches[0].UID)
	})

	t.Run("n players give n(n-1)/2 matches", func(t *testing.T) {
		for n := 0; n <= 9; n++ {
			ids := make([]int, n)
			for i := range ids {
				ids[i] = i + 1
			}
			matches, err := gen.GenerateSchedule(context.Background(), GenerateScheduleParams{GroupNumber: 1, PlayerIDs: ids})
			require.NoError(t, err)
			assert.Len(t, matches, n*(n-1)/2, "n=%d", n)
		}
	})

	t.Run("duplicate player is an error", func(t *testing.T) {
		_, err := gen.GenerateSchedule(context.Background(), GenerateScheduleParams{GroupNumber: 1, PlayerIDs: []int{1, 2, 1}})
		assert.Error(t, err)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gen.GenerateSchedule(ctx, GenerateScheduleParams{GroupNumber: 1, PlayerIDs: []int{1, 2, 3}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
