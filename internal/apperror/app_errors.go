package apperror

import "errors"

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoLegalMove  = errors.New("no legal move")
	ErrGameFinished = errors.New("game is already finished")
	ErrInputClosed  = errors.New("input closed")
)
