package service

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/storage"

	"github.com/google/uuid"
)

// Service owns every live game and routes persistence to the optional store
type Service struct {
	games   map[string]*game.Game
	mu      sync.RWMutex
	store   *storage.Store // nil if persistence disabled
	workers int            // divide worker count
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games:   make(map[string]*game.Game),
		store:   store,
		workers: runtime.NumCPU(),
	}, nil
}

// SetDivideWorkers bounds the goroutines used by Divide
func (s *Service) SetDivideWorkers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = max(n, 1)
}

// NewGame registers a game starting from fen, or the standard position when empty
func (s *Service) NewGame(id, fen string) error {
	g, err := game.New(fen)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}
	s.games[id] = g

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			InitialFEN:   g.InitialFEN(),
			Result:       g.State().String(),
			StartTimeUTC: time.Now().UTC(),
		})
	}

	return nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return g, nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	delete(s.games, gameID)
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close cleans up resources
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		return s.store.Close()
	}

	return nil
}

// lookup must be called with s.mu held
func (s *Service) lookup(gameID string) (*game.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return g, nil
}
