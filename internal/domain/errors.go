package domain

import "errors"

var (
	ErrInvalidRank     = errors.New("invalid rank")
	ErrInvalidIndex    = errors.New("invalid card index")
	ErrNotStarted      = errors.New("session not started")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNoTurn          = errors.New("no turn in progress")
	ErrRankNotDeclared = errors.New("rank not declared for this turn")
	ErrUnknownPlayer   = errors.New("player not found")
)
