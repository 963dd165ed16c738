package model

import (
	"fmt"
	"strings"
)

// Game owns a board and sequences moves on it. It is not safe for concurrent
// use; callers that share a Game must serialize access.
type Game struct {
	board           *Board
	currentTurn     Color
	enPassantTarget *Position
	inCheck         bool
	inCheckmate     bool
	lastMove        *SimpleMove
}

// GameState is a snapshot of a game for rendering. Pieces in it are copies.
type GameState struct {
	Board           [][]*Piece  `json:"board"`
	ToMove          Color       `json:"toMove"`
	EnPassantTarget *Position   `json:"enPassantTarget"`
	IsCheck         bool        `json:"isCheck"`
	IsCheckmate     bool        `json:"isCheckmate"`
	Status          string      `json:"status"`
	LastMove        *SimpleMove `json:"lastMove"`
}

// NewGame starts a game over an already populated board with white to move.
func NewGame(board *Board) *Game {
	g := &Game{
		board:       board,
		currentTurn: White,
	}
	g.updateStatus()
	return g
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) CurrentTurn() Color {
	return g.currentTurn
}

// EnPassantTarget returns the square a pawn may capture into en passant on
// this move, if any.
func (g *Game) EnPassantTarget() (Position, bool) {
	if g.enPassantTarget == nil {
		return Position{}, false
	}
	return *g.enPassantTarget, true
}

func (g *Game) InCheck() bool {
	return g.inCheck
}

func (g *Game) InCheckmate() bool {
	return g.inCheckmate
}

// MakeMove moves the piece on start to end if that is legal for the side to
// move, and reports whether it did. A rejected move leaves the game untouched.
func (g *Game) MakeMove(start, end Position) bool {
	if !boundaryCheck(start) || !boundaryCheck(end) {
		return false
	}
	piece := g.board.pieceAt(start)
	if piece == nil || piece.Color != g.currentTurn {
		return false
	}

	enPassant, ok := g.isCandidateMove(piece, start, end)
	if !ok {
		return false
	}

	trial := g.applyTrial(start, end, enPassant)
	if g.IsInCheck(g.currentTurn) {
		g.undoTrial(trial)
		return false
	}

	g.confirmMove(trial)
	return true
}

// isCandidateMove layers en passant on top of the piece's own geometry. A pawn
// stepping diagonally onto an empty square is only accepted as an en passant
// capture of the pawn that just made a double step.
func (g *Game) isCandidateMove(piece *Piece, start, end Position) (enPassant bool, ok bool) {
	if g.isEnPassant(piece, start, end) {
		return true, true
	}
	if !piece.IsValidMove(start, end, g.board) {
		return false, false
	}
	if piece.Type == Pawn && start.X != end.X && g.board.pieceAt(end) == nil {
		return false, false
	}
	return false, true
}

func (g *Game) isEnPassant(piece *Piece, start, end Position) bool {
	if piece.Type != Pawn || g.enPassantTarget == nil || *g.enPassantTarget != end {
		return false
	}
	if abs(end.X-start.X) != 1 || end.Y-start.Y != piece.direction() {
		return false
	}
	captured := g.board.pieceAt(Position{X: end.X, Y: start.Y})
	return captured != nil && captured.Type == Pawn && captured.Color != piece.Color
}

func (g *Game) confirmMove(trial trialMove) {
	piece := trial.moved

	g.enPassantTarget = nil
	if piece.Type == Pawn && abs(trial.to.Y-trial.from.Y) == 2 {
		g.enPassantTarget = &Position{X: trial.to.X, Y: (trial.from.Y + trial.to.Y) / 2}
	}
	if piece.tracksMoves() {
		piece.HasMoved = true
	}

	g.lastMove = &SimpleMove{From: trial.from, To: trial.to}
	g.switchTurn()
	g.updateStatus()
}

func (g *Game) switchTurn() {
	g.currentTurn = g.currentTurn.Opposite()
}

func (g *Game) updateStatus() {
	g.inCheck = g.IsInCheck(g.currentTurn)
	g.inCheckmate = g.inCheck && g.IsCheckmate(g.currentTurn)
}

func (g *Game) findKing(color Color) (Position, error) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece := g.board.tiles[y][x].piece
			if piece != nil && piece.Type == King && piece.Color == color {
				return Position{X: x, Y: y}, nil
			}
		}
	}
	return Position{}, fmt.Errorf("%s: %w", color, ErrMissingKing)
}

// IsInCheck reports whether any opposing piece could move onto color's king.
// A board without that king is never in check.
func (g *Game) IsInCheck(color Color) bool {
	kingPosition, err := g.findKing(color)
	if err != nil {
		return false
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece := g.board.tiles[y][x].piece
			if piece == nil || piece.Color == color {
				continue
			}
			if piece.IsValidMove(Position{X: x, Y: y}, kingPosition, g.board) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether color is in check and no move of its own gets
// the king out. Every candidate is tried on the board and undone.
func (g *Game) IsCheckmate(color Color) bool {
	if !g.IsInCheck(color) {
		return false
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			from := Position{X: x, Y: y}
			piece := g.board.pieceAt(from)
			if piece == nil || piece.Color != color {
				continue
			}
			if len(g.escapingMoves(piece, from, color)) > 0 {
				return false
			}
		}
	}
	return true
}

// escapingMoves lists the destinations of piece that leave color's king out
// of check.
func (g *Game) escapingMoves(piece *Piece, from Position, color Color) []Position {
	moves := []Position{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			to := Position{X: x, Y: y}
			enPassant, ok := g.isCandidateMove(piece, from, to)
			if !ok {
				continue
			}
			trial := g.applyTrial(from, to, enPassant)
			if !g.IsInCheck(color) {
				moves = append(moves, to)
			}
			g.undoTrial(trial)
		}
	}
	return moves
}

// LegalMoves returns every square MakeMove would currently accept for the
// piece on from.
func (g *Game) LegalMoves(from Position) []Position {
	if !boundaryCheck(from) {
		return []Position{}
	}
	piece := g.board.pieceAt(from)
	if piece == nil || piece.Color != g.currentTurn {
		return []Position{}
	}
	return g.escapingMoves(piece, from, g.currentTurn)
}

func (g *Game) Status() string {
	side := capitalize(string(g.currentTurn))
	switch {
	case g.inCheckmate:
		return fmt.Sprintf("%s is in checkmate!", side)
	case g.inCheck:
		return fmt.Sprintf("%s is in check!", side)
	}
	return fmt.Sprintf("%s's turn.", side)
}

func (g *Game) State() GameState {
	state := GameState{
		Board:       g.board.Pieces(),
		ToMove:      g.currentTurn,
		IsCheck:     g.inCheck,
		IsCheckmate: g.inCheckmate,
		Status:      g.Status(),
	}
	if g.enPassantTarget != nil {
		target := *g.enPassantTarget
		state.EnPassantTarget = &target
	}
	if g.lastMove != nil {
		lastMove := *g.lastMove
		state.LastMove = &lastMove
	}
	return state
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
