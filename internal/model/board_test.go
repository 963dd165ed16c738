package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTileOutOfRange(t *testing.T) {
	board := NewBoard()
	tests := []struct {
		name string
		x, y int
	}{
		{name: "negative x", x: -1, y: 0},
		{name: "negative y", x: 0, y: -1},
		{name: "x past edge", x: 8, y: 3},
		{name: "y past edge", x: 3, y: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, err := board.GetTile(tt.x, tt.y)
			require.ErrorIs(t, err, ErrOutOfRange)
			assert.Nil(t, tile)
		})
	}
}

func TestGetTileCoordinatesAndColor(t *testing.T) {
	board := NewBoard()
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			tile, err := board.GetTile(x, y)
			require.NoError(t, err)
			assert.Equal(t, at(x, y), tile.Position())
			assert.True(t, tile.IsEmpty())
			if (x+y)%2 == 0 {
				assert.Equal(t, White, tile.Color())
			} else {
				assert.Equal(t, Black, tile.Color())
			}
		}
	}
}

func TestStandardBoard(t *testing.T) {
	board := NewStandardBoard()

	count := map[Color]int{}
	for _, row := range board.Pieces() {
		for _, piece := range row {
			if piece != nil {
				count[piece.Color]++
			}
		}
	}
	assert.Equal(t, 16, count[White])
	assert.Equal(t, 16, count[Black])

	whiteKing, err := board.GetTile(4, 7)
	require.NoError(t, err)
	require.NotNil(t, whiteKing.Piece())
	assert.Equal(t, King, whiteKing.Piece().Type)
	assert.Equal(t, White, whiteKing.Piece().Color)

	blackQueen, err := board.GetTile(3, 0)
	require.NoError(t, err)
	require.NotNil(t, blackQueen.Piece())
	assert.Equal(t, Queen, blackQueen.Piece().Type)
	assert.Equal(t, Black, blackQueen.Piece().Color)

	for x := 0; x < BoardSize; x++ {
		tile, err := board.GetTile(x, 6)
		require.NoError(t, err)
		assert.Equal(t, Pawn, tile.Piece().Type)
		assert.False(t, tile.Piece().HasMoved)
	}
}

func TestPlace(t *testing.T) {
	board := NewBoard()
	rook := NewPiece(Rook, White)

	require.NoError(t, board.Place(at(0, 0), rook))
	assert.ErrorIs(t, board.Place(at(0, 0), NewPiece(Knight, Black)), ErrSquareOccupied)
	assert.ErrorIs(t, board.Place(at(1, 1), rook), ErrPiecePlaced)
	assert.ErrorIs(t, board.Place(at(8, 0), NewPiece(Knight, Black)), ErrOutOfRange)
}

func TestPiecesReturnsCopies(t *testing.T) {
	board := newTestBoard(t, place(2, 2, Pawn, White))

	grid := board.Pieces()
	grid[2][2].HasMoved = true
	grid[3][3] = NewPiece(Queen, Black)

	tile, err := board.GetTile(2, 2)
	require.NoError(t, err)
	assert.False(t, tile.Piece().HasMoved)
	other, err := board.GetTile(3, 3)
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
