package model

import "errors"

var (
	ErrOutOfRange     = errors.New("coordinate out of range")
	ErrMissingKing    = errors.New("king not found")
	ErrSquareOccupied = errors.New("square already occupied")
	ErrPiecePlaced    = errors.New("piece already on the board")
)
