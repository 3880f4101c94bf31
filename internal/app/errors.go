package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies command failures reported back to the issuing player.
type ErrorKind string

const (
	// ValidationError covers malformed input: unknown command, rank or card numbers.
	ValidationError ErrorKind = "validation"
	// StateError covers commands that are not valid in the current game state.
	StateError ErrorKind = "state"
	// NotFoundError covers references to unknown players.
	NotFoundError ErrorKind = "not_found"
)

// ErrTableClosed is returned when a command reaches a table that already stopped.
var ErrTableClosed = errors.New("table closed")

// CommandError is a player-local failure. It carries a speech key so the
// transport can show it in the table's language. No state changed.
type CommandError struct {
	Kind ErrorKind
	Key  string
	Args []any
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, fmt.Sprintf(e.Key, e.Args...))
}

func validationErr(key string, args ...any) error {
	return &CommandError{Kind: ValidationError, Key: key, Args: args}
}

func stateErr(key string, args ...any) error {
	return &CommandError{Kind: StateError, Key: key, Args: args}
}

func notFoundErr(key string, args ...any) error {
	return &CommandError{Kind: NotFoundError, Key: key, Args: args}
}
