package service

import (
	"context"
	"fmt"
	"time"

	"chesscore/internal/core"
	"chesscore/internal/draw"
	"chesscore/internal/engine"
	"chesscore/internal/game"
	"chesscore/internal/movegen"
	"chesscore/internal/perft"
	"chesscore/internal/storage"
)

// LoadFEN validates the request and starts game id from that position.
// An existing game under id is replaced only when the FEN decodes.
func (s *Service) LoadFEN(id string, req core.FENRequest) error {
	if err := validateRequest(req, core.ErrInvalidFEN); err != nil {
		return err
	}
	if _, err := game.New(req.FEN); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()

	return s.NewGame(id, req.FEN)
}

// MakeMove validates a coordinate move from the player and applies it
func (s *Service) MakeMove(gameID string, req core.MoveRequest) (*game.MoveResult, error) {
	if err := validateRequest(req, core.ErrInvalidMoveFormat); err != nil {
		return nil, err
	}
	from, to, promo, err := core.ParseMove(req.Move)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	b := g.Board()

	p, err := b.Piece(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidMoveFormat, err)
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", core.ErrNoPiece, from)
	}
	if p.Color != b.Turn() {
		return nil, fmt.Errorf("%w: %s", core.ErrWrongColor, from)
	}

	m, err := movegen.FindMove(b, from, to, promo)
	if err != nil {
		return nil, err
	}

	result := &game.MoveResult{Player: b.Turn()}
	if err := s.apply(gameID, g, m, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ComputerMove searches the side to move and plays the best move found
func (s *Service) ComputerMove(gameID string, req core.AIRequest) (*game.MoveResult, error) {
	if err := validateRequest(req, core.ErrInvalidDepth); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	b := g.Board()

	search, err := engine.New().FindBestMove(b, req.Depth)
	if err != nil {
		return nil, err
	}
	if !search.HasMove {
		return nil, core.ErrNoLegalMoves
	}

	result := &game.MoveResult{
		Player:   b.Turn(),
		Computer: true,
		Score:    search.Score,
		Depth:    search.Depth,
		Nodes:    search.Nodes,
		Elapsed:  search.Elapsed,
	}
	if err := s.apply(gameID, g, search.Move, result); err != nil {
		return nil, err
	}
	return result, nil
}

// apply plays m, fills in result and persists the move. Caller holds s.mu.
func (s *Service) apply(gameID string, g *game.Game, m core.Move, result *game.MoveResult) error {
	if err := g.Apply(m); err != nil {
		return err
	}

	result.Move = m.UCI()
	result.GameState = g.State()
	g.SetLastResult(result)

	if s.store != nil {
		b := g.Board()
		s.store.RecordMove(storage.MoveRecord{
			GameID:        gameID,
			MoveNumber:    b.HistoryLen(),
			MoveUCI:       result.Move,
			FENAfterMove:  b.FEN(),
			HashAfterMove: fmt.Sprintf("%016x", b.Hash()),
			PlayerColor:   result.Player.String(),
			MoveTimeUTC:   time.Now().UTC(),
		})
		if result.GameState.IsOver() {
			s.store.RecordResult(gameID, result.GameState.String())
		}
	}
	return nil
}

// Undo takes back the last move
func (s *Service) Undo(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	if err := g.UndoMoves(1); err != nil {
		return err
	}

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, g.Board().HistoryLen())
		s.store.RecordResult(gameID, g.State().String())
	}
	return nil
}

// readGame runs fn on the game's board under the read lock
func (s *Service) readGame(gameID string, fn func(*game.Game)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}
	fn(g)
	return nil
}

// ExportFEN encodes the current position
func (s *Service) ExportFEN(gameID string) (fen string, err error) {
	err = s.readGame(gameID, func(g *game.Game) { fen = g.CurrentFEN() })
	return fen, err
}

// Evaluate returns the static evaluation, positive for White
func (s *Service) Evaluate(gameID string) (score int, err error) {
	err = s.readGame(gameID, func(g *game.Game) { score = engine.Evaluate(g.Board()) })
	return score, err
}

// Hash returns the Zobrist hash of the current position
func (s *Service) Hash(gameID string) (hash uint64, err error) {
	err = s.readGame(gameID, func(g *game.Game) { hash = g.Board().Hash() })
	return hash, err
}

func (s *Service) Draws(gameID string) (report core.DrawReport, err error) {
	err = s.readGame(gameID, func(g *game.Game) { report = draw.Status(g.Board()) })
	return report, err
}

// PositionHistory lists the hashes of every position in the game, oldest first
func (s *Service) PositionHistory(gameID string) (hashes []uint64, err error) {
	err = s.readGame(gameID, func(g *game.Game) { hashes = g.Board().PositionHistory() })
	return hashes, err
}

// Status reclassifies the current position. Legality checks make and unmake
// moves on the live board, so this takes the write lock.
func (s *Service) Status(gameID string) (core.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return core.StateOngoing, err
	}
	return g.Evaluate(), nil
}

// Perft counts leaf nodes below the current position
func (s *Service) Perft(gameID string, req core.PerftRequest) (core.PerftReport, error) {
	if err := validateRequest(req, core.ErrInvalidPerftDepth); err != nil {
		return core.PerftReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return core.PerftReport{}, err
	}

	start := time.Now()
	nodes := perft.Count(g.Board(), req.Depth)
	return core.PerftReport{
		Depth:     req.Depth,
		Nodes:     nodes,
		ElapsedMS: time.Since(start).Milliseconds(),
	}, nil
}

// Divide reports perft per root move, spreading root moves over workers
func (s *Service) Divide(ctx context.Context, gameID string, req core.PerftRequest) ([]perft.DivideEntry, error) {
	if err := validateRequest(req, core.ErrInvalidPerftDepth); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	return perft.ParallelDivide(ctx, g.Board(), req.Depth, s.workers)
}
