package model

import "errors"

var (
	ErrInvalidSquare   = errors.New("invalid square")
	ErrIllegalMove     = errors.New("illegal move")
	ErrUndoUnavailable = errors.New("undo unavailable")
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrStaleMove       = errors.New("position changed before move was applied")
	ErrInvalidFEN      = errors.New("invalid FEN")
	ErrGameFull        = errors.New("game is full")
)
