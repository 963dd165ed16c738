package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	_, _, ok := q.NextPair(nil)
	assert.False(t, ok)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.AddPlayer(id))
	}
	assert.ErrorIs(t, q.AddPlayer("b"), ErrAlreadyQueued)

	first, second, ok := q.NextPair(nil)
	require.True(t, ok)
	assert.Equal(t, "a", first.PlayerID)
	assert.Equal(t, "b", second.PlayerID)
	assert.Equal(t, 1, q.Size())

	assert.True(t, q.RemovePlayer("c"))
	assert.False(t, q.RemovePlayer("c"))
	assert.Equal(t, 0, q.Size())
}

func TestQueueNextPairSkipsUnready(t *testing.T) {
	tests := []struct {
		name       string
		ready      []string
		wantOK     bool
		wantPair   []string
		wantQueued int
	}{
		{name: "nobody ready", ready: nil, wantOK: false, wantQueued: 4},
		{name: "one ready", ready: []string{"c"}, wantOK: false, wantQueued: 4},
		{name: "oldest ready pair", ready: []string{"b", "d", "c"}, wantOK: true, wantPair: []string{"b", "c"}, wantQueued: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for _, id := range []string{"a", "b", "c", "d"} {
				require.NoError(t, q.AddPlayer(id))
			}
			isReady := func(playerID string) bool {
				for _, id := range tt.ready {
					if id == playerID {
						return true
					}
				}
				return false
			}

			first, second, ok := q.NextPair(isReady)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantQueued, q.Size())
			if tt.wantOK {
				assert.Equal(t, tt.wantPair, []string{first.PlayerID, second.PlayerID})
				assert.True(t, q.RemovePlayer("a"), "skipped players keep their place")
			}
		})
	}
}
