package model

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// trialMove records everything a tentative move touched so it can be undone
// exactly: the mover, whatever stood on the destination, and the pawn taken
// en passant if there was one.
type trialMove struct {
	from, to          Position
	moved, displaced  *Piece
	enPassant         bool
	enPassantSquare   Position
	enPassantCaptured *Piece
}

func (g *Game) applyTrial(from, to Position, enPassant bool) trialMove {
	trial := trialMove{
		from:      from,
		to:        to,
		moved:     g.board.pieceAt(from),
		displaced: g.board.pieceAt(to),
		enPassant: enPassant,
	}
	if enPassant {
		// the captured pawn sits beside the mover, in the destination's column
		trial.enPassantSquare = Position{X: to.X, Y: from.Y}
		trial.enPassantCaptured = g.board.pieceAt(trial.enPassantSquare)
		g.board.setPiece(trial.enPassantSquare, nil)
	}
	g.board.setPiece(to, trial.moved)
	g.board.setPiece(from, nil)
	return trial
}

func (g *Game) undoTrial(trial trialMove) {
	g.board.setPiece(trial.from, trial.moved)
	g.board.setPiece(trial.to, trial.displaced)
	if trial.enPassant {
		g.board.setPiece(trial.enPassantSquare, trial.enPassantCaptured)
	}
}
