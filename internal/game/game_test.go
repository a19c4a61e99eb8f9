package game

import (
	"errors"
	"testing"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/movegen"
)

func apply(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, text := range moves {
		from, to, promo, err := core.ParseMove(text)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", text, err)
		}
		m, err := movegen.FindMove(g.Board(), from, to, promo)
		if err != nil {
			t.Fatalf("FindMove(%q): %v", text, err)
		}
		if err := g.Apply(m); err != nil {
			t.Fatalf("Apply(%q): %v", text, err)
		}
	}
}

func TestNewGame(t *testing.T) {
	g, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if g.InitialFEN() != board.StartingFEN {
		t.Errorf("InitialFEN = %q, want start position", g.InitialFEN())
	}
	if g.State() != core.StateOngoing || g.NextTurn() != core.ColorWhite {
		t.Errorf("state %s turn %v, want ongoing white", g.State(), g.NextTurn())
	}

	if _, err := New("not a fen"); !errors.Is(err, core.ErrInvalidFEN) {
		t.Errorf("New(bad FEN) error = %v, want ErrInvalidFEN", err)
	}
}

func TestGameStates(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  core.State
	}{
		{"fool's mate", "", []string{"f2f3", "e7e5", "g2g4", "d8h4"}, core.StateBlackWins},
		{"scholar's mate", "", []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"}, core.StateWhiteWins},
		{"stalemate", "7k/8/5Q2/6K1/8/8/8/8 w - - 0 1", []string{"f6f7"}, core.StateStalemate},
		{"repetition", "", []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}, core.StateDrawRepetition},
		{"fifty moves", "4k3/8/8/8/8/8/8/4K2R w K - 99 80", []string{"h1h2"}, core.StateDrawFiftyMove},
		{"ongoing", "", []string{"e2e4"}, core.StateOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.fen)
			if err != nil {
				t.Fatal(err)
			}
			apply(t, g, tt.moves...)
			if g.State() != tt.want {
				t.Errorf("State = %s, want %s", g.State(), tt.want)
			}
			if g.Evaluate() != tt.want {
				t.Errorf("Evaluate = %s, want %s", g.Evaluate(), tt.want)
			}
		})
	}
}

func TestCheckmateOutranksFiftyMoves(t *testing.T) {
	// Mate delivered on the move that reaches the fifty-move limit
	g, err := New("6k1/5ppp/8/8/8/8/8/R5K1 w - - 99 80")
	if err != nil {
		t.Fatal(err)
	}
	apply(t, g, "a1a8")
	if g.State() != core.StateWhiteWins {
		t.Errorf("State = %s, want white wins", g.State())
	}
}

func TestUndoMoves(t *testing.T) {
	g, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.UndoMoves(1); !errors.Is(err, core.ErrNoMovesToUndo) {
		t.Errorf("undo on fresh game = %v, want ErrNoMovesToUndo", err)
	}

	apply(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	g.SetLastResult(&MoveResult{Move: "d8h4", GameState: g.State()})
	if g.State() != core.StateBlackWins {
		t.Fatalf("State = %s, want black wins", g.State())
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatal(err)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("State after undo = %s, want ongoing", g.State())
	}
	if g.LastResult() != nil {
		t.Error("undo should clear the last result")
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2"
	if g.CurrentFEN() != want {
		t.Errorf("FEN after undo = %q, want %q", g.CurrentFEN(), want)
	}

	if err := g.UndoMoves(5); err == nil {
		t.Error("undoing more moves than played should fail")
	}
	if err := g.UndoMoves(0); err == nil {
		t.Error("undo count 0 should fail")
	}
	if err := g.UndoMoves(3); err != nil {
		t.Fatal(err)
	}
	if g.CurrentFEN() != board.StartingFEN {
		t.Errorf("FEN after full undo = %q", g.CurrentFEN())
	}
}

func TestMoves(t *testing.T) {
	g, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	apply(t, g, "e2e4", "e7e5", "g1f3")
	got := g.Moves()
	want := []string{"e2e4", "e7e5", "g1f3"}
	if len(got) != len(want) {
		t.Fatalf("Moves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Moves[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
