// Package movegen produces pseudo-legal and legal moves for a board.
// All functions are stateless; legality checks mutate the board temporarily
// and always restore it before returning.
package movegen

import (
	"chesscore/internal/board"
	"chesscore/internal/core"
)

// PseudoLegalMoves lists moves for color ignoring whether the mover's king
// is left in check. Castling is fully checked here, including attacked squares.
func PseudoLegalMoves(b *board.Board, color core.Color) []core.Move {
	moves := make([]core.Move, 0, 48)
	for i := 0; i < core.NumSquares; i++ {
		sq := core.Square(i)
		p := b.At(sq)
		if p.IsEmpty() || p.Color != color {
			continue
		}
		switch p.Type {
		case core.Pawn:
			moves = pawnMoves(b, sq, color, moves)
		case core.Knight:
			moves = stepMoves(b, sq, p, board.KnightOffsets, moves)
		case core.Bishop:
			moves = slideMoves(b, sq, p, board.BishopDirections[:], moves)
		case core.Rook:
			moves = slideMoves(b, sq, p, board.RookDirections[:], moves)
		case core.Queen:
			moves = slideMoves(b, sq, p, board.RookDirections[:], moves)
			moves = slideMoves(b, sq, p, board.BishopDirections[:], moves)
		case core.King:
			moves = stepMoves(b, sq, p, board.KingOffsets, moves)
			moves = castleMoves(b, sq, color, moves)
		}
	}
	return moves
}

func pawnMoves(b *board.Board, from core.Square, color core.Color, moves []core.Move) []core.Move {
	dir := board.PawnDirection(color)
	startRank, lastRank := 1, 7
	if color == core.ColorBlack {
		startRank, lastRank = 6, 0
	}

	add := func(to core.Square, captured core.PieceType) {
		if to.Rank() == lastRank {
			for _, promo := range core.PromotionTypes {
				moves = append(moves, core.Move{From: from, To: to, Piece: core.Pawn, Captured: captured, Promotion: promo})
			}
			return
		}
		moves = append(moves, core.Move{From: from, To: to, Piece: core.Pawn, Captured: captured})
	}

	if one, ok := from.Shift(0, dir); ok && b.At(one).IsEmpty() {
		add(one, core.NoPieceType)
		if from.Rank() == startRank {
			if two, ok := one.Shift(0, dir); ok && b.At(two).IsEmpty() {
				moves = append(moves, core.Move{From: from, To: two, Piece: core.Pawn})
			}
		}
	}

	ep, hasEP := b.EnPassant()
	for _, df := range [2]int{-1, 1} {
		to, ok := from.Shift(df, dir)
		if !ok {
			continue
		}
		target := b.At(to)
		switch {
		case !target.IsEmpty() && target.Color != color && target.Type != core.King:
			add(to, target.Type)
		case target.IsEmpty() && hasEP && to == ep:
			moves = append(moves, core.Move{From: from, To: to, Piece: core.Pawn, Captured: core.Pawn, EnPassant: true})
		}
	}
	return moves
}

func stepMoves(b *board.Board, from core.Square, p core.Piece, offsets [8]board.Offset, moves []core.Move) []core.Move {
	for _, o := range offsets {
		to, ok := from.Shift(o.DF, o.DR)
		if !ok {
			continue
		}
		target := b.At(to)
		if target.IsEmpty() {
			moves = append(moves, core.Move{From: from, To: to, Piece: p.Type})
		} else if target.Color != p.Color && target.Type != core.King {
			moves = append(moves, core.Move{From: from, To: to, Piece: p.Type, Captured: target.Type})
		}
	}
	return moves
}

func slideMoves(b *board.Board, from core.Square, p core.Piece, dirs []board.Offset, moves []core.Move) []core.Move {
	for _, d := range dirs {
		cur := from
		for {
			to, ok := cur.Shift(d.DF, d.DR)
			if !ok {
				break
			}
			target := b.At(to)
			if target.IsEmpty() {
				moves = append(moves, core.Move{From: from, To: to, Piece: p.Type})
				cur = to
				continue
			}
			if target.Color != p.Color && target.Type != core.King {
				moves = append(moves, core.Move{From: from, To: to, Piece: p.Type, Captured: target.Type})
			}
			break
		}
	}
	return moves
}

// castleRule describes one castling option
type castleRule struct {
	right   board.CastlingRights
	color   core.Color
	king    core.Square
	kingTo  core.Square
	rook    core.Square
	empty   []core.Square // between king and rook
	transit core.Square   // square the king crosses
}

var castleRules = [4]castleRule{
	{board.WhiteKingside, core.ColorWhite, core.E1, core.G1, core.H1, []core.Square{core.F1, core.G1}, core.F1},
	{board.WhiteQueenside, core.ColorWhite, core.E1, core.C1, core.A1, []core.Square{core.D1, core.C1, core.NewSquare(1, 0)}, core.D1},
	{board.BlackKingside, core.ColorBlack, core.E8, core.G8, core.H8, []core.Square{core.F8, core.G8}, core.F8},
	{board.BlackQueenside, core.ColorBlack, core.E8, core.C8, core.A8, []core.Square{core.D8, core.C8, core.NewSquare(1, 7)}, core.D8},
}

func castleMoves(b *board.Board, from core.Square, color core.Color, moves []core.Move) []core.Move {
	rights := b.CastlingRights()
	enemy := color.Opposite()

next:
	for _, r := range castleRules {
		if r.color != color || from != r.king || !rights.Has(r.right) {
			continue
		}
		if b.At(r.rook) != core.NewPiece(core.Rook, color) {
			continue
		}
		for _, sq := range r.empty {
			if !b.At(sq).IsEmpty() {
				continue next
			}
		}
		for _, sq := range [3]core.Square{r.king, r.transit, r.kingTo} {
			if b.IsSquareAttacked(sq, enemy) {
				continue next
			}
		}
		moves = append(moves, core.Move{From: r.king, To: r.kingTo, Piece: core.King, Castle: true})
	}
	return moves
}
