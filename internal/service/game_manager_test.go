package service

import (
	"context"
	"testing"
	"time"

	"github.com/benbeisheim/chess-rules-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameManagerCreateAndGet(t *testing.T) {
	gm := NewGameManager()

	require.NoError(t, gm.CreateGame("g1"))
	assert.ErrorIs(t, gm.CreateGame("g1"), ErrGameExists)

	session, err := gm.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", session.ID)

	_, err = gm.GetGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.GetGameState("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.MakeMove("missing", "alice", move(4, 6, 4, 4))
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.AddPlayerToGame("missing", "alice")
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.ErrorIs(t, gm.RegisterConnection("missing", "alice", &fakeConn{}), ErrGameNotFound)
}

func TestGameManagerBoardFactory(t *testing.T) {
	gm := NewGameManager(WithBoardFactory(func() *model.Board {
		board := model.NewBoard()
		_ = board.Place(model.Position{X: 4, Y: 7}, model.NewPiece(model.King, model.White))
		_ = board.Place(model.Position{X: 4, Y: 0}, model.NewPiece(model.King, model.Black))
		return board
	}))
	require.NoError(t, gm.CreateGame("g1"))

	state, err := gm.GetGameState("g1")
	require.NoError(t, err)
	pieces := 0
	for _, row := range state.Board {
		for _, piece := range row {
			if piece != nil {
				pieces++
			}
		}
	}
	assert.Equal(t, 2, pieces)
}

func TestGameManagerPlaysMoves(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1"))

	color, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	assert.Equal(t, model.White, color)
	color, err = gm.AddPlayerToGame("g1", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.Black, color)

	state, err := gm.MakeMove("g1", "alice", move(0, 6, 0, 4))
	require.NoError(t, err)
	require.NotNil(t, state.EnPassantTarget)
	assert.Equal(t, model.Position{X: 0, Y: 5}, *state.EnPassantTarget)
	assert.Equal(t, model.Black, state.ToMove)

	moves, err := gm.LegalMoves("g1", model.Position{X: 1, Y: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Position{{X: 1, Y: 2}, {X: 1, Y: 3}}, moves)
}

func TestMatchPlayers(t *testing.T) {
	gm := NewGameManager()

	aliceCh := gm.RegisterMatchmakingChannel("alice")
	bobCh := gm.RegisterMatchmakingChannel("bob")
	require.NoError(t, gm.JoinMatchmaking("alice"))
	assert.ErrorIs(t, gm.JoinMatchmaking("alice"), ErrAlreadyQueued)
	require.NoError(t, gm.JoinMatchmaking("bob"))
	require.NoError(t, gm.JoinMatchmaking("carol"))

	assert.Equal(t, 1, gm.matchPlayers())
	assert.Equal(t, 1, gm.queue.Size(), "carol keeps waiting")

	aliceEvent, ok := <-aliceCh
	require.True(t, ok)
	bobEvent, ok := <-bobCh
	require.True(t, ok)

	assert.Equal(t, aliceEvent.GameID, bobEvent.GameID)
	assert.Equal(t, model.White, aliceEvent.Color)
	assert.Equal(t, model.Black, bobEvent.Color)

	_, ok = <-aliceCh
	assert.False(t, ok, "channel is closed after the match")

	session, err := gm.GetGame(aliceEvent.GameID)
	require.NoError(t, err)
	white, black := session.Players()
	assert.Equal(t, "alice", white)
	assert.Equal(t, "bob", black)
}

func TestMatchPlayersWaitsForChannel(t *testing.T) {
	gm := NewGameManager()

	require.NoError(t, gm.JoinMatchmaking("alice"))
	require.NoError(t, gm.JoinMatchmaking("bob"))
	aliceCh := gm.RegisterMatchmakingChannel("alice")

	assert.Equal(t, 0, gm.matchPlayers(), "bob has no channel yet")
	assert.Equal(t, 2, gm.queue.Size())
	assert.Empty(t, gm.games)

	bobCh := gm.RegisterMatchmakingChannel("bob")
	assert.Equal(t, 1, gm.matchPlayers())
	assert.Equal(t, 0, gm.queue.Size())

	aliceEvent, ok := <-aliceCh
	require.True(t, ok)
	bobEvent, ok := <-bobCh
	require.True(t, ok)
	assert.Equal(t, aliceEvent.GameID, bobEvent.GameID)
	assert.Equal(t, model.White, aliceEvent.Color)
	assert.Equal(t, model.Black, bobEvent.Color)
}

func TestRegisterMatchmakingChannelReplacesOld(t *testing.T) {
	gm := NewGameManager()

	old := gm.RegisterMatchmakingChannel("alice")
	current := gm.RegisterMatchmakingChannel("alice")

	_, ok := <-old
	assert.False(t, ok)

	gm.UnregisterMatchmakingChannel("alice")
	_, ok = <-current
	assert.False(t, ok)
}

func TestUnregisterMatchmakingLeavesQueue(t *testing.T) {
	gm := NewGameManager()
	gm.RegisterMatchmakingChannel("alice")
	require.NoError(t, gm.JoinMatchmaking("alice"))

	gm.UnregisterMatchmakingChannel("alice")
	assert.Equal(t, 0, gm.queue.Size())
}

func TestRunStopsWithContext(t *testing.T) {
	gm := NewGameManager()
	ch := gm.RegisterMatchmakingChannel("alice")
	gm.RegisterMatchmakingChannel("bob")
	require.NoError(t, gm.JoinMatchmaking("alice"))
	require.NoError(t, gm.JoinMatchmaking("bob"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case event := <-ch:
		assert.NotEmpty(t, event.GameID)
	case <-time.After(2 * time.Second):
		t.Fatal("no match delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
