package engine

import (
	"chesscore/internal/board"
	"chesscore/internal/core"
)

// Material values indexed by core.PieceType
var pieceValues = [7]int{
	core.Pawn:   100,
	core.Knight: 320,
	core.Bishop: 330,
	core.Rook:   500,
	core.Queen:  900,
	core.King:   20000,
}

const (
	centerBonus      = 10
	advanceBonus     = 5
	kingShelterBonus = 20
)

// d4, e4, d5, e5
var centerSquares = [core.NumSquares]bool{27: true, 28: true, 35: true, 36: true}

// PieceValue returns the material value of t
func PieceValue(t core.PieceType) int {
	return pieceValues[t]
}

// Evaluate scores the position statically, positive favoring White
func Evaluate(b *board.Board) int {
	endgame := isEndgame(b)
	score := 0
	for i := 0; i < core.NumSquares; i++ {
		sq := core.Square(i)
		p := b.At(sq)
		if p.IsEmpty() {
			continue
		}

		v := pieceValues[p.Type]
		if centerSquares[sq] {
			v += centerBonus
		}
		switch p.Type {
		case core.Pawn:
			advance := sq.Rank()
			if p.Color == core.ColorBlack {
				advance = 7 - sq.Rank()
			}
			v += advance * advanceBonus
		case core.King:
			if !endgame {
				v += kingShelter(sq, p.Color)
			}
		}

		if p.Color == core.ColorWhite {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

// kingShelter rewards a king tucked toward a corner of its back rank
func kingShelter(sq core.Square, c core.Color) int {
	homeRank := 0
	if c == core.ColorBlack {
		homeRank = 7
	}
	if sq.Rank() == homeRank && (sq.File() <= 2 || sq.File() >= 5) {
		return kingShelterBonus
	}
	return -kingShelterBonus
}

func isEndgame(b *board.Board) bool {
	pieces, queens := 0, 0
	for i := 0; i < core.NumSquares; i++ {
		p := b.At(core.Square(i))
		if p.IsEmpty() || p.Type == core.Pawn || p.Type == core.King {
			continue
		}
		pieces++
		if p.Type == core.Queen {
			queens++
		}
	}
	return pieces <= 4 || (pieces <= 6 && queens == 0)
}
