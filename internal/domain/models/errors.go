package models

import "errors"

// Domain error taxonomy. Every operation returns one of these (wrapped where
// context helps) instead of aborting; callers translate them to user-facing
// text. Storage-level failures propagate separately.
var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName indicates a rabbit create collided on the unique name.
	ErrDuplicateName = errors.New("rabbit name already exists")

	// ErrSexMismatch indicates a breeding where the doe is not female or the
	// buck is not male.
	ErrSexMismatch = errors.New("sex mismatch")

	// ErrNoOpenBreeding indicates a kindling with no pending breeding for the doe.
	ErrNoOpenBreeding = errors.New("no open breeding")

	// ErrInvalidInput indicates a malformed date or number reached the core.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData indicates growth analysis with fewer than two usable
	// weight records or non-positive elapsed time.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDangerousPairing indicates a breeding blocked by the relatedness check.
	ErrDangerousPairing = errors.New("dangerous pairing")
)
