package database

import "errors"

// Set of errors returned when a block is constructed or mined with bad input.
var (
	ErrEmptyContent      = errors.New("block content cannot be empty")
	ErrMissingPrevHash   = errors.New("previous block hash is required")
	ErrMissingHash       = errors.New("block hash is required")
	ErrInvalidDifficulty = errors.New("difficulty must be between 0 and 10")
)

// ErrNonceExhausted is returned when every nonce in a search range was tried
// without finding a hash that solves the puzzle.
var ErrNonceExhausted = errors.New("nonce space exhausted without a solution")

// IsValidationError reports whether the error is the result of bad input
// provided by the caller.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrMissingPrevHash),
		errors.Is(err, ErrMissingHash),
		errors.Is(err, ErrInvalidDifficulty):
		return true
	}
	return false
}
