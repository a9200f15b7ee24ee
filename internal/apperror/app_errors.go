package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNoLegalMoves    = errors.New("no legal moves")
)
