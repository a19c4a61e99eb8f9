package board

import (
	"fmt"

	"chesscore/internal/core"
)

// Offset is a (file, rank) step
type Offset struct {
	DF, DR int
}

var (
	KnightOffsets = [8]Offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	KingOffsets   = [8]Offset{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	RookDirections   = [4]Offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	BishopDirections = [4]Offset{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// PawnDirection is the rank step of a pawn of color c
func PawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return -1
}

// IsSquareAttacked reports whether any piece of color by attacks sq
func (b *Board) IsSquareAttacked(sq core.Square, by core.Color) bool {
	// Pawns attack diagonally forward, so look one rank behind sq from by's side
	pawn := core.NewPiece(core.Pawn, by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Shift(df, -PawnDirection(by)); ok && b.squares[from] == pawn {
			return true
		}
	}

	knight := core.NewPiece(core.Knight, by)
	for _, o := range KnightOffsets {
		if from, ok := sq.Shift(o.DF, o.DR); ok && b.squares[from] == knight {
			return true
		}
	}

	king := core.NewPiece(core.King, by)
	for _, o := range KingOffsets {
		if from, ok := sq.Shift(o.DF, o.DR); ok && b.squares[from] == king {
			return true
		}
	}

	queen := core.NewPiece(core.Queen, by)
	if b.rayHits(sq, RookDirections, core.NewPiece(core.Rook, by), queen) {
		return true
	}
	return b.rayHits(sq, BishopDirections, core.NewPiece(core.Bishop, by), queen)
}

// rayHits walks each direction to the first occupied square and tests it
func (b *Board) rayHits(sq core.Square, dirs [4]Offset, slider, queen core.Piece) bool {
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := cur.Shift(d.DF, d.DR)
			if !ok {
				break
			}
			p := b.squares[next]
			if !p.IsEmpty() {
				if p == slider || p == queen {
					return true
				}
				break
			}
			cur = next
		}
	}
	return false
}

// IsInCheck reports whether c's king is attacked. A board without that king
// is corrupt and panics.
func (b *Board) IsInCheck(c core.Color) bool {
	k, ok := b.KingSquare(c)
	if !ok {
		panic(fmt.Errorf("%w: %s", core.ErrKingMissing, c.Name()))
	}
	return b.IsSquareAttacked(k, c.Opposite())
}
