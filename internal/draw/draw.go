// Package draw detects threefold repetition and the fifty-move rule.
package draw

import (
	"chesscore/internal/board"
	"chesscore/internal/core"
)

// FiftyMoveLimit is the halfmove clock value at which the game is drawn
const FiftyMoveLimit = 100

// ByRepetition reports whether the current position occurred at least twice
// before within the reversible window given by the halfmove clock
func ByRepetition(b *board.Board) bool {
	history := b.PositionHistory()
	n := len(history)
	if n == 0 {
		return false
	}
	current := history[n-1]
	previous := history[:n-1]

	start := max(0, len(previous)-b.HalfmoveClock())
	count := 0
	for i := len(previous) - 1; i >= start; i-- {
		if previous[i] == current {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func ByFiftyMoves(b *board.Board) bool {
	return b.HalfmoveClock() >= FiftyMoveLimit
}

func IsDraw(b *board.Board) bool {
	return ByRepetition(b) || ByFiftyMoves(b)
}

// Status collects the draw flags for reporting
func Status(b *board.Board) core.DrawReport {
	return core.DrawReport{
		Repetition: ByRepetition(b),
		FiftyMove:  ByFiftyMoves(b),
		Clock:      b.HalfmoveClock(),
	}
}
