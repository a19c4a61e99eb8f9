// Package settings persists REPL preferences and outcome tallies in a
// badger key-value store. Values are JSON documents under fixed keys.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chesscore/internal/core"
)

const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// DefaultDepth is the search depth used by a bare "ai" command
const DefaultDepth = 3

// Preferences stores the view options that survive restarts
type Preferences struct {
	Theme        string    `json:"theme"`
	Verbose      bool      `json:"verbose"`
	DefaultDepth int       `json:"default_depth"`
	LastUsed     time.Time `json:"last_used"`
}

func DefaultPreferences() *Preferences {
	return &Preferences{
		Theme:        "off",
		DefaultDepth: DefaultDepth,
	}
}

// Stats tallies finished games by outcome
type Stats struct {
	Games      int `json:"games"`
	WhiteWins  int `json:"white_wins"`
	BlackWins  int `json:"black_wins"`
	Stalemates int `json:"stalemates"`
	Draws      int `json:"draws"`
}

type Store struct {
	db *badger.DB
}

// Open opens the store in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadPreferences returns defaults when nothing was saved yet
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	if prefs.DefaultDepth < core.MinSearchDepth || prefs.DefaultDepth > core.MaxSearchDepth {
		prefs.DefaultDepth = DefaultDepth
	}
	return prefs, nil
}

func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now().UTC()
	return s.put(keyPreferences, prefs)
}

func (s *Store) LoadStats() (*Stats, error) {
	stats := &Stats{}
	if err := s.get(keyStats, stats); err != nil {
		return &Stats{}, err
	}
	return stats, nil
}

// RecordOutcome adds a finished game to the tallies. Ongoing states are ignored.
func (s *Store) RecordOutcome(state core.State) error {
	if !state.IsOver() {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := &Stats{}
		if err := readJSON(txn, keyStats, stats); err != nil {
			return err
		}

		stats.Games++
		switch state {
		case core.StateWhiteWins:
			stats.WhiteWins++
		case core.StateBlackWins:
			stats.BlackWins++
		case core.StateStalemate:
			stats.Stalemates++
		default:
			stats.Draws++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, key, v)
	})
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// readJSON leaves v untouched when key is absent
func readJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
