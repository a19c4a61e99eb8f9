package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"chesscore/internal/board"
	"chesscore/internal/core"
	"chesscore/internal/storage"
)

func newTestService(t *testing.T, fen string) (*Service, string) {
	t.Helper()
	svc, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Close() })

	id := svc.GenerateGameID()
	if err := svc.NewGame(id, fen); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return svc, id
}

func TestMakeMoveErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want error
	}{
		{"too short", "", "e2e", core.ErrInvalidMoveFormat},
		{"punctuation", "", "e2-e4", core.ErrInvalidMoveFormat},
		{"off board", "", "e9e4", core.ErrInvalidMoveFormat},
		{"bad promotion", "", "e2e4k", core.ErrInvalidMoveFormat},
		{"empty square", "", "e4e5", core.ErrNoPiece},
		{"wrong color", "", "e7e5", core.ErrWrongColor},
		{"blocked pawn", "", "e2e5", core.ErrIllegalMove},
		{"into check", "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1", "e1d2", core.ErrIllegalMove},
		{"promotion letter on rook move", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a7q", core.ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, id := newTestService(t, tt.fen)
			before, _ := svc.ExportFEN(id)

			_, err := svc.MakeMove(id, core.MoveRequest{Move: tt.move})
			if !errors.Is(err, tt.want) {
				t.Fatalf("MakeMove(%q) error = %v, want %v", tt.move, err, tt.want)
			}
			if after, _ := svc.ExportFEN(id); after != before {
				t.Errorf("failed move changed the position: %s", after)
			}
		})
	}
}

func TestMakeMove(t *testing.T) {
	svc, id := newTestService(t, "")

	result, err := svc.MakeMove(id, core.MoveRequest{Move: "e2e4"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Move != "e2e4" || result.Player != core.ColorWhite || result.Computer {
		t.Errorf("result = %+v", result)
	}
	if result.GameState != core.StateOngoing {
		t.Errorf("GameState = %s, want ongoing", result.GameState)
	}

	fen, _ := svc.ExportFEN(id)
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; fen != want {
		t.Errorf("FEN = %q, want %q", fen, want)
	}

	if _, err := svc.MakeMove("missing", core.MoveRequest{Move: "e7e5"}); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("unknown game error = %v, want ErrGameNotFound", err)
	}
}

func TestMakeMovePromotion(t *testing.T) {
	tests := []struct {
		move string
		want string
	}{
		{"b7b8", "1Q2k3/8/8/8/8/8/8/4K3 b - - 0 1"},
		{"b7b8n", "1N2k3/8/8/8/8/8/8/4K3 b - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.move, func(t *testing.T) {
			svc, id := newTestService(t, "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
			if _, err := svc.MakeMove(id, core.MoveRequest{Move: tt.move}); err != nil {
				t.Fatal(err)
			}
			if fen, _ := svc.ExportFEN(id); fen != tt.want {
				t.Errorf("FEN = %q, want %q", fen, tt.want)
			}
		})
	}
}

func TestMakeMoveReportsMate(t *testing.T) {
	svc, id := newTestService(t, "")
	for _, m := range []string{"f2f3", "e7e5", "g2g4"} {
		if _, err := svc.MakeMove(id, core.MoveRequest{Move: m}); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
	result, err := svc.MakeMove(id, core.MoveRequest{Move: "d8h4"})
	if err != nil {
		t.Fatal(err)
	}
	if result.GameState != core.StateBlackWins || result.Player != core.ColorBlack {
		t.Errorf("result = %+v, want black wins", result)
	}

	if state, _ := svc.Status(id); state != core.StateBlackWins {
		t.Errorf("Status = %s, want black wins", state)
	}
	if _, err := svc.ComputerMove(id, core.AIRequest{Depth: 2}); !errors.Is(err, core.ErrNoLegalMoves) {
		t.Errorf("ComputerMove on mated side = %v, want ErrNoLegalMoves", err)
	}
}

func TestComputerMove(t *testing.T) {
	svc, id := newTestService(t, "")

	for _, depth := range []int{0, 6} {
		if _, err := svc.ComputerMove(id, core.AIRequest{Depth: depth}); !errors.Is(err, core.ErrInvalidDepth) {
			t.Errorf("depth %d error = %v, want ErrInvalidDepth", depth, err)
		}
	}

	result, err := svc.ComputerMove(id, core.AIRequest{Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Computer || result.Depth != 2 || result.Nodes == 0 {
		t.Errorf("result = %+v", result)
	}
	g, err := svc.GetGame(id)
	if err != nil {
		t.Fatal(err)
	}
	if g.NextTurn() != core.ColorBlack || g.LastResult() != result {
		t.Errorf("turn after computer move = %v, want black", g.NextTurn())
	}
}

func TestUndo(t *testing.T) {
	svc, id := newTestService(t, "")
	if err := svc.Undo(id); !errors.Is(err, core.ErrNoMovesToUndo) {
		t.Errorf("undo on fresh game = %v, want ErrNoMovesToUndo", err)
	}

	hash, _ := svc.Hash(id)
	if _, err := svc.MakeMove(id, core.MoveRequest{Move: "g1f3"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Undo(id); err != nil {
		t.Fatal(err)
	}
	if got, _ := svc.Hash(id); got != hash {
		t.Errorf("hash after undo = %016x, want %016x", got, hash)
	}
	if fen, _ := svc.ExportFEN(id); fen != board.StartingFEN {
		t.Errorf("FEN after undo = %q", fen)
	}
}

func TestLoadFEN(t *testing.T) {
	svc, id := newTestService(t, "")

	for _, fen := range []string{"", "not a fen", "8/8/8/8/8/8/8/8 w - - 0 1"} {
		if err := svc.LoadFEN(id, core.FENRequest{FEN: fen}); !errors.Is(err, core.ErrInvalidFEN) {
			t.Errorf("LoadFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
	if fen, _ := svc.ExportFEN(id); fen != board.StartingFEN {
		t.Errorf("rejected FEN replaced the game: %s", fen)
	}

	want := "4k3/8/8/8/8/8/8/4K2R w K - 3 40"
	if err := svc.LoadFEN(id, core.FENRequest{FEN: want}); err != nil {
		t.Fatal(err)
	}
	if fen, _ := svc.ExportFEN(id); fen != want {
		t.Errorf("FEN = %q, want %q", fen, want)
	}
	if history, _ := svc.PositionHistory(id); len(history) != 1 {
		t.Errorf("history after load has %d entries, want 1", len(history))
	}
}

func TestReports(t *testing.T) {
	svc, id := newTestService(t, "")

	if score, err := svc.Evaluate(id); err != nil || score != 0 {
		t.Errorf("Evaluate = %d %v, want 0", score, err)
	}
	for _, m := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"} {
		if _, err := svc.MakeMove(id, core.MoveRequest{Move: m}); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}

	report, err := svc.Draws(id)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Repetition || report.FiftyMove || report.Clock != 8 {
		t.Errorf("Draws = %+v", report)
	}
	history, _ := svc.PositionHistory(id)
	if len(history) != 9 || history[0] != history[8] {
		t.Errorf("history = %x, want 9 entries starting and ending on the start hash", history)
	}
	if state, _ := svc.Status(id); state != core.StateDrawRepetition {
		t.Errorf("Status = %s, want draw by repetition", state)
	}

	// Play continues after a draw
	if _, err := svc.MakeMove(id, core.MoveRequest{Move: "e2e4"}); err != nil {
		t.Errorf("move after draw: %v", err)
	}
}

func TestReportsDuringPlay(t *testing.T) {
	svc, id := newTestService(t, "")
	afterKnight := "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for iter := 0; iter < 50; iter++ {
			if _, err := svc.MakeMove(id, core.MoveRequest{Move: "g1f3"}); err != nil {
				t.Errorf("MakeMove: %v", err)
				return
			}
			if err := svc.Undo(id); err != nil {
				t.Errorf("Undo: %v", err)
				return
			}
		}
	}()

	for iter := 0; iter < 4; iter++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 50; iter++ {
				if state, err := svc.Status(id); err != nil || state != core.StateOngoing {
					t.Errorf("Status = %s %v", state, err)
					return
				}
				fen, err := svc.ExportFEN(id)
				if err != nil || (fen != board.StartingFEN && fen != afterKnight) {
					t.Errorf("ExportFEN = %q %v", fen, err)
					return
				}
				if _, err := svc.Draws(id); err != nil {
					t.Errorf("Draws: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if fen, _ := svc.ExportFEN(id); fen != board.StartingFEN {
		t.Errorf("final FEN = %q", fen)
	}
}

func TestPerftAndDivide(t *testing.T) {
	svc, id := newTestService(t, "")

	for _, depth := range []int{0, 7} {
		if _, err := svc.Perft(id, core.PerftRequest{Depth: depth}); !errors.Is(err, core.ErrInvalidPerftDepth) {
			t.Errorf("Perft depth %d error = %v", depth, err)
		}
		if _, err := svc.Divide(context.Background(), id, core.PerftRequest{Depth: depth}); !errors.Is(err, core.ErrInvalidPerftDepth) {
			t.Errorf("Divide depth %d error = %v", depth, err)
		}
	}

	report, err := svc.Perft(id, core.PerftRequest{Depth: 3})
	if err != nil {
		t.Fatal(err)
	}
	if report.Nodes != 8902 || report.Depth != 3 {
		t.Errorf("Perft = %+v, want 8902 nodes", report)
	}

	svc.SetDivideWorkers(0)
	entries, err := svc.Divide(context.Background(), id, core.PerftRequest{Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	if len(entries) != 20 || total != 400 {
		t.Errorf("Divide: %d entries, total %d", len(entries), total)
	}
}

func TestGameLifecycle(t *testing.T) {
	svc, id := newTestService(t, "")

	if err := svc.NewGame(id, ""); err == nil {
		t.Error("duplicate game id accepted")
	}
	if err := svc.DeleteGame(id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetGame(id); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("GetGame after delete = %v", err)
	}
	if err := svc.DeleteGame(id); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("second delete = %v", err)
	}
	if svc.GetStorageHealth() != "disabled" {
		t.Errorf("storage health = %s, want disabled", svc.GetStorageHealth())
	}
	if a, b := svc.GenerateGameID(), svc.GenerateGameID(); a == b {
		t.Error("generated ids collide")
	}
}

func TestServiceArchivesMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatal(err)
	}

	svc, err := New(store)
	if err != nil {
		t.Fatal(err)
	}
	if svc.GetStorageHealth() != "ok" {
		t.Errorf("storage health = %s, want ok", svc.GetStorageHealth())
	}

	id := svc.GenerateGameID()
	if err := svc.NewGame(id, ""); err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "a7a6"} {
		if _, err := svc.MakeMove(id, core.MoveRequest{Move: m}); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
	if err := svc.Undo(id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MakeMove(id, core.MoveRequest{Move: "d8h4"}); err != nil {
		t.Fatal(err)
	}

	// Close flushes the write queue
	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	games, err := reopened.QueryGames(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].Result != core.StateBlackWins.String() {
		t.Fatalf("games = %+v, want one black win", games)
	}
	if games[0].InitialFEN != board.StartingFEN {
		t.Errorf("initial FEN = %q", games[0].InitialFEN)
	}

	moves, err := reopened.QueryMoves(id)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"f2f3", "e7e5", "g2g4", "d8h4"}
	if len(moves) != len(want) {
		t.Fatalf("archived %d moves, want %d", len(moves), len(want))
	}
	for i, m := range moves {
		if m.MoveUCI != want[i] || m.MoveNumber != i+1 {
			t.Errorf("move %d = %s (#%d), want %s", i, m.MoveUCI, m.MoveNumber, want[i])
		}
		if len(m.HashAfterMove) != 16 {
			t.Errorf("move %d hash %q is not 16 hex digits", i, m.HashAfterMove)
		}
	}
	if moves[3].PlayerColor != "b" {
		t.Errorf("last move color = %s, want b", moves[3].PlayerColor)
	}
}
