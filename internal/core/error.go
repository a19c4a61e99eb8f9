package core

import "errors"

// User input and rule errors. These never abort the session.
var (
	ErrInvalidSquare     = errors.New("invalid square")
	ErrInvalidFEN        = errors.New("invalid FEN")
	ErrInvalidMoveFormat = errors.New("invalid move format")
	ErrNoPiece           = errors.New("no piece at source square")
	ErrWrongColor        = errors.New("wrong color piece")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNoMovesToUndo     = errors.New("no moves to undo")
	ErrInvalidDepth      = errors.New("AI depth must be 1-5")
	ErrInvalidPerftDepth = errors.New("invalid perft depth")
	ErrNoLegalMoves      = errors.New("no legal moves available")
	ErrGameNotFound      = errors.New("game not found")
)

// ErrKingMissing signals a corrupted board and is raised by panic
var ErrKingMissing = errors.New("king missing from board")

// Search and perft depth limits
const (
	MinSearchDepth = 1
	MaxSearchDepth = 5
	MinPerftDepth  = 1
	MaxPerftDepth  = 6
)
