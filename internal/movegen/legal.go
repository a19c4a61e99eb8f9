package movegen

import (
	"fmt"

	"chesscore/internal/board"
	"chesscore/internal/core"
)

// LegalMoves filters the pseudo-legal moves of color down to those that do
// not leave its own king in check. b is restored before returning.
func LegalMoves(b *board.Board, color core.Color) []core.Move {
	if b.Turn() != color {
		b = b.Clone()
		b.SetTurn(color)
	}

	pseudo := PseudoLegalMoves(b, color)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if b.MakeMove(m) != nil {
			continue
		}
		safe := !b.IsInCheck(color)
		b.UndoMove()
		if safe {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves stops at the first legal move found
func HasLegalMoves(b *board.Board, color core.Color) bool {
	if b.Turn() != color {
		b = b.Clone()
		b.SetTurn(color)
	}

	for _, m := range PseudoLegalMoves(b, color) {
		if b.MakeMove(m) != nil {
			continue
		}
		safe := !b.IsInCheck(color)
		b.UndoMove()
		if safe {
			return true
		}
	}
	return false
}

func IsCheckmate(b *board.Board, color core.Color) bool {
	return b.IsInCheck(color) && !HasLegalMoves(b, color)
}

func IsStalemate(b *board.Board, color core.Color) bool {
	return !b.IsInCheck(color) && !HasLegalMoves(b, color)
}

// FindMove resolves coordinate input against the legal moves of the side to
// move. Without a promotion letter a promoting pawn becomes a Queen.
func FindMove(b *board.Board, from, to core.Square, promo core.PieceType) (core.Move, error) {
	want := promo
	if want == core.NoPieceType {
		want = core.Queen
	}
	for _, m := range LegalMoves(b, b.Turn()) {
		if m.From != from || m.To != to {
			continue
		}
		switch {
		case m.Promotion == core.NoPieceType && promo == core.NoPieceType:
			return m, nil
		case m.Promotion != core.NoPieceType && m.Promotion == want:
			return m, nil
		}
	}
	return core.Move{}, fmt.Errorf("%w: %s%s", core.ErrIllegalMove, from, to)
}
