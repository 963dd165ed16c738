package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Piece carries no position; where a piece stands is always read from the
// board. HasMoved is only meaningful for pawns and kings.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func NewPiece(pieceType PieceType, color Color) *Piece {
	return &Piece{Type: pieceType, Color: color}
}

func (p *Piece) tracksMoves() bool {
	return p.Type == Pawn || p.Type == King
}

// IsValidMove reports whether the move is geometrically legal for the piece on
// the given board. It knows nothing about turn order, check or en passant.
func (p *Piece) IsValidMove(from, to Position, board *Board) bool {
	if !boundaryCheck(from) || !boundaryCheck(to) || from == to {
		return false
	}
	switch p.Type {
	case Pawn:
		return p.isValidPawnMove(from, to, board)
	case Rook:
		return p.isValidRookMove(from, to, board)
	case Knight:
		return p.isValidKnightMove(from, to, board)
	case Bishop:
		return p.isValidBishopMove(from, to, board)
	case Queen:
		return p.isValidRookMove(from, to, board) || p.isValidBishopMove(from, to, board)
	case King:
		return p.isValidKingMove(from, to, board)
	default:
		return false
	}
}

func (p *Piece) direction() int {
	if p.Color == White {
		return -1
	}
	return 1
}

func (p *Piece) isValidPawnMove(from, to Position, board *Board) bool {
	dir := p.direction()
	dx := to.X - from.X
	dy := to.Y - from.Y

	if dx == 0 {
		switch dy {
		case dir:
			return board.pieceAt(to) == nil
		case 2 * dir:
			intermediate := Position{X: from.X, Y: from.Y + dir}
			return !p.HasMoved && board.pieceAt(intermediate) == nil && board.pieceAt(to) == nil
		}
		return false
	}

	if abs(dx) == 1 && dy == dir {
		// an empty diagonal is only provisionally legal; Game confirms it as en passant
		target := board.pieceAt(to)
		return target == nil || target.Color != p.Color
	}
	return false
}

func (p *Piece) isValidRookMove(from, to Position, board *Board) bool {
	if from.X != to.X && from.Y != to.Y {
		return false
	}
	return isPathClear(from, to, board) && p.canLandOn(to, board)
}

func (p *Piece) isValidBishopMove(from, to Position, board *Board) bool {
	if abs(to.X-from.X) != abs(to.Y-from.Y) {
		return false
	}
	return isPathClear(from, to, board) && p.canLandOn(to, board)
}

func (p *Piece) isValidKnightMove(from, to Position, board *Board) bool {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	if !((dx == 1 && dy == 2) || (dx == 2 && dy == 1)) {
		return false
	}
	return p.canLandOn(to, board)
}

func (p *Piece) isValidKingMove(from, to Position, board *Board) bool {
	// TODO: castling; needs Game to set HasMoved on rooks as well
	if max(abs(to.X-from.X), abs(to.Y-from.Y)) != 1 {
		return false
	}
	return p.canLandOn(to, board)
}

func (p *Piece) canLandOn(to Position, board *Board) bool {
	target := board.pieceAt(to)
	return target == nil || target.Color != p.Color
}

// isPathClear walks from one square toward another in unit steps, checking
// every square strictly between the two. Callers guarantee a straight or
// diagonal line.
func isPathClear(from, to Position, board *Board) bool {
	step := Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	current := Position{X: from.X + step.X, Y: from.Y + step.Y}
	for current != to {
		if board.pieceAt(current) != nil {
			return false
		}
		current = Position{X: current.X + step.X, Y: current.Y + step.Y}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
