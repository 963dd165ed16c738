package model

import "fmt"

const BoardSize = 8

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < BoardSize && position.Y >= 0 && position.Y < BoardSize
}

// Tile is one square of the board. Its coordinates and color never change;
// only the occupying piece does, and only through the owning Board.
type Tile struct {
	x, y  int
	color Color
	piece *Piece
}

func (t *Tile) X() int { return t.x }
func (t *Tile) Y() int { return t.y }
func (t *Tile) Position() Position { return Position{X: t.x, Y: t.y} }
func (t *Tile) Color() Color { return t.color }
func (t *Tile) Piece() *Piece { return t.piece }
func (t *Tile) IsEmpty() bool { return t.piece == nil }

type Board struct {
	tiles [BoardSize][BoardSize]Tile
}

// NewBoard returns an empty board. Tile color alternates by (x+y) parity and is
// only used for display.
func NewBoard() *Board {
	board := &Board{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			color := White
			if (x+y)%2 != 0 {
				color = Black
			}
			board.tiles[y][x] = Tile{x: x, y: y, color: color}
		}
	}
	return board
}

// NewStandardBoard returns a board in the standard starting position, black on
// rows 0-1 and white on rows 6-7.
func NewStandardBoard() *Board {
	board := NewBoard()
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, pieceType := range backRank {
		board.tiles[0][x].piece = NewPiece(pieceType, Black)
		board.tiles[7][x].piece = NewPiece(pieceType, White)
	}
	for x := 0; x < BoardSize; x++ {
		board.tiles[1][x].piece = NewPiece(Pawn, Black)
		board.tiles[6][x].piece = NewPiece(Pawn, White)
	}
	return board
}

func (b *Board) GetTile(x, y int) (*Tile, error) {
	if !boundaryCheck(Position{X: x, Y: y}) {
		return nil, fmt.Errorf("tile (%d,%d): %w", x, y, ErrOutOfRange)
	}
	return &b.tiles[y][x], nil
}

// Place puts a piece on an empty square during setup.
func (b *Board) Place(position Position, piece *Piece) error {
	tile, err := b.GetTile(position.X, position.Y)
	if err != nil {
		return err
	}
	if tile.piece != nil {
		return fmt.Errorf("place at %s: %w", position, ErrSquareOccupied)
	}
	if piece == nil {
		return nil
	}
	if _, found := b.find(piece); found {
		return fmt.Errorf("place at %s: %w", position, ErrPiecePlaced)
	}
	tile.piece = piece
	return nil
}

// pieceAt skips bounds checking; callers pass positions already validated.
func (b *Board) pieceAt(position Position) *Piece {
	return b.tiles[position.Y][position.X].piece
}

func (b *Board) setPiece(position Position, piece *Piece) {
	b.tiles[position.Y][position.X].piece = piece
}

func (b *Board) find(piece *Piece) (Position, bool) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b.tiles[y][x].piece == piece {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Pieces returns a copy of the occupancy grid indexed [y][x].
func (b *Board) Pieces() [][]*Piece {
	grid := make([][]*Piece, BoardSize)
	for y := 0; y < BoardSize; y++ {
		grid[y] = make([]*Piece, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if piece := b.tiles[y][x].piece; piece != nil {
				pieceCopy := *piece
				grid[y][x] = &pieceCopy
			}
		}
	}
	return grid
}
