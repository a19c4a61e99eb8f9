package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/movegen"
)

const (
	// MateScore is the base magnitude of a forced mate; remaining depth is
	// added so a quicker mate scores higher for the winner
	MateScore = 100000
	infinity  = 1 << 30
)

type SearchResult struct {
	Move    core.Move
	HasMove bool
	Score   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	IsMate  bool
}

// Searcher runs fixed-depth minimax with alpha-beta pruning.
// The node counter is reset on every search.
type Searcher struct {
	nodes uint64
}

func New() *Searcher {
	return &Searcher{}
}

// FindBestMove searches the side to move to depth plies. The board is
// mutated during the search and restored before returning.
func (s *Searcher) FindBestMove(b *board.Board, depth int) (SearchResult, error) {
	if depth < core.MinSearchDepth || depth > core.MaxSearchDepth {
		return SearchResult{}, fmt.Errorf("%w: got %d", core.ErrInvalidDepth, depth)
	}

	start := time.Now()
	s.nodes = 0
	result := SearchResult{Depth: depth}

	moves := movegen.LegalMoves(b, b.Turn())
	if len(moves) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}
	orderMoves(moves)

	maximizing := b.Turn() == core.ColorWhite
	alpha, beta := -infinity, infinity
	bestScore := infinity
	if maximizing {
		bestScore = -infinity
	}

	for _, m := range moves {
		if err := b.MakeMove(m); err != nil {
			return SearchResult{}, fmt.Errorf("search: applying %s: %w", m.UCI(), err)
		}
		score := s.minimax(b, depth-1, alpha, beta)
		b.UndoMove()

		if maximizing && score > bestScore || !maximizing && score < bestScore || !result.HasMove {
			bestScore = score
			result.Move = m
			result.HasMove = true
		}
		if maximizing {
			alpha = max(alpha, score)
		} else {
			beta = min(beta, score)
		}
	}

	result.Score = bestScore
	result.IsMate = bestScore >= MateScore || bestScore <= -MateScore
	result.Nodes = s.nodes
	result.Elapsed = time.Since(start)
	return result, nil
}

// Nodes returns the node count of the last search
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) minimax(b *board.Board, depth, alpha, beta int) int {
	s.nodes++

	if depth == 0 {
		return Evaluate(b)
	}

	color := b.Turn()
	maximizing := color == core.ColorWhite
	moves := movegen.LegalMoves(b, color)

	if len(moves) == 0 {
		if !b.IsInCheck(color) {
			return 0
		}
		if maximizing {
			return -(MateScore + depth)
		}
		return MateScore + depth
	}
	orderMoves(moves)

	if maximizing {
		best := -infinity
		for _, m := range moves {
			b.MakeMove(m)
			v := s.minimax(b, depth-1, alpha, beta)
			b.UndoMove()
			best = max(best, v)
			alpha = max(alpha, v)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := infinity
	for _, m := range moves {
		b.MakeMove(m)
		v := s.minimax(b, depth-1, alpha, beta)
		b.UndoMove()
		best = min(best, v)
		beta = min(beta, v)
		if beta <= alpha {
			break
		}
	}
	return best
}

// orderMoves puts promotions and captures of valuable pieces first.
// The sort is stable so equal keys keep generation order.
func orderMoves(moves []core.Move) {
	slices.SortStableFunc(moves, func(a, b core.Move) int {
		return cmp.Compare(moveKey(b), moveKey(a))
	})
}

func moveKey(m core.Move) int {
	key := 0
	if m.IsCapture() {
		key += pieceValues[m.Captured]*10 - pieceValues[m.Piece]/10
	}
	if m.Promotion != core.NoPieceType {
		key += pieceValues[m.Promotion]
	}
	return key
}
