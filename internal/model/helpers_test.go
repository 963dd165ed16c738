package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type placement struct {
	pos   Position
	piece *Piece
}

func at(x, y int) Position {
	return Position{X: x, Y: y}
}

func place(x, y int, pieceType PieceType, color Color) placement {
	return placement{pos: at(x, y), piece: NewPiece(pieceType, color)}
}

func newTestBoard(t *testing.T, placements ...placement) *Board {
	t.Helper()
	board := NewBoard()
	for _, p := range placements {
		require.NoError(t, board.Place(p.pos, p.piece))
	}
	return board
}

// playMoves applies each move in order and fails the test on the first one
// that is rejected.
func playMoves(t *testing.T, g *Game, moves ...SimpleMove) {
	t.Helper()
	for i, move := range moves {
		require.Truef(t, g.MakeMove(move.From, move.To), "move %d %s->%s rejected", i, move.From, move.To)
	}
}

func mv(fromX, fromY, toX, toY int) SimpleMove {
	return SimpleMove{From: at(fromX, fromY), To: at(toX, toY)}
}

func requireUnchanged(t *testing.T, before GameState, g *Game) {
	t.Helper()
	if diff := cmp.Diff(before, g.State()); diff != "" {
		t.Fatalf("game state changed (-before +after):\n%s", diff)
	}
}
