package core

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid is initialized with
	// width < 1 or height < 0.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrUninitializedGrid is returned when the grid is used before Initialize.
	ErrUninitializedGrid = errors.New("grid not initialized")

	// ErrNoSafeTypeFound is recorded when refill cycles through every type
	// without finding one that avoids a match. It is logged, never returned
	// from gameplay operations.
	ErrNoSafeTypeFound = errors.New("no non-matching tile type found")

	// ErrTooFewTypes is returned for a palette that cannot keep a board
	// free of matches. With one type every refill matches and cascades
	// never end.
	ErrTooFewTypes = errors.New("at least two tile types are required")

	ErrBoardBusy      = errors.New("board is busy")
	ErrSameTile       = errors.New("cannot swap a tile with itself")
	ErrNotAdjacent    = errors.New("tiles are not adjacent")
	ErrTileBusy       = errors.New("tile is not idle")
	ErrTileNotOnBoard = errors.New("tile is not on the board")
	ErrInvalidLayout  = errors.New("invalid layout")
)
