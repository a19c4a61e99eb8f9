package game

import (
	"fmt"
	"time"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/draw"
	"chesscore/internal/movegen"
)

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move      string
	Player    core.Color
	GameState core.State
	Computer  bool
	Score     int
	Depth     int
	Nodes     uint64
	Elapsed   time.Duration
}

// Game pairs a live board with the metadata needed to report on it
type Game struct {
	board      *board.Board
	initialFEN string
	state      core.State
	lastResult *MoveResult
}

// New starts a game from initialFEN, or the standard position when empty
func New(initialFEN string) (*Game, error) {
	if initialFEN == "" {
		initialFEN = board.StartingFEN
	}

	b, err := board.ParseFEN(initialFEN)
	if err != nil {
		return nil, err
	}

	g := &Game{
		board:      b,
		initialFEN: b.FEN(),
	}
	g.state = g.Evaluate()
	return g, nil
}

func (g *Game) Board() *board.Board {
	return g.board
}

// Apply plays a move produced by the move generator and refreshes the state
func (g *Game) Apply(m core.Move) error {
	if err := g.board.MakeMove(m); err != nil {
		return err
	}
	g.state = g.Evaluate()
	return nil
}

// Evaluate classifies the current position. Mate and stalemate take
// precedence over the draw rules.
func (g *Game) Evaluate() core.State {
	turn := g.board.Turn()
	if !movegen.HasLegalMoves(g.board, turn) {
		if g.board.IsInCheck(turn) {
			return core.Winner(turn)
		}
		return core.StateStalemate
	}
	if draw.ByRepetition(g.board) {
		return core.StateDrawRepetition
	}
	if draw.ByFiftyMoves(g.board) {
		return core.StateDrawFiftyMove
	}
	return core.StateOngoing
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) CurrentFEN() string {
	return g.board.FEN()
}

func (g *Game) NextTurn() core.Color {
	return g.board.Turn()
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := g.board.HistoryLen()
	if availableMoves == 0 {
		return core.ErrNoMovesToUndo
	}
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	for i := 0; i < count; i++ {
		if err := g.board.UndoMove(); err != nil {
			return err
		}
	}
	g.state = g.Evaluate()
	g.lastResult = nil
	return nil
}

// Moves returns the UCI text of every applied move
func (g *Game) Moves() []string {
	history := g.board.MoveHistory()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.UCI()
	}
	return moves
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) InitialFEN() string {
	return g.initialFEN
}
