// Package perft counts move-tree leaves to validate move generation.
package perft

import (
	"cmp"
	"slices"

	"chesscore/internal/board"
	"chesscore/internal/movegen"
)

// DivideEntry is the subtree size below one root move
type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Count returns the number of leaf nodes depth plies below b
func Count(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := movegen.LegalMoves(b, b.Turn())
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		b.MakeMove(m)
		nodes += Count(b, depth-1)
		b.UndoMove()
	}
	return nodes
}

// Divide splits Count by root move, sorted by move text
func Divide(b *board.Board, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}

	var entries []DivideEntry
	for _, m := range movegen.LegalMoves(b, b.Turn()) {
		b.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m.UCI(), Nodes: Count(b, depth-1)})
		b.UndoMove()
	}
	sortEntries(entries)
	return entries
}

// Total sums the entries of a divide
func Total(entries []DivideEntry) uint64 {
	var n uint64
	for _, e := range entries {
		n += e.Nodes
	}
	return n
}

func sortEntries(entries []DivideEntry) {
	slices.SortFunc(entries, func(a, b DivideEntry) int {
		return cmp.Compare(a.Move, b.Move)
	})
}
