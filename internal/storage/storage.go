package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize  = 1000
	shutdownTimeout = 2 * time.Second
)

// Store archives games and moves in SQLite. Writes are queued and applied by
// a single writer goroutine; reads go straight to the database.
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore opens the database and starts the async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	// Foreign keys are a per-connection setting, so they go in the DSN
	dsn := dataSourceName
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the db subcommands read while a session is writing
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// One writer goroutine; a few readers for queries
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain what is already queued, bounded by the shutdown timeout
			deadline := time.After(shutdownTimeout)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs one queued write in its own transaction
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
	}
}

// enqueue hands fn to the writer without blocking. Writes are dropped when
// the store is degraded or the queue is full.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}

	select {
	case s.writeChan <- fn:
	default:
		log.Printf("Storage write queue full, dropping %s", what)
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	if record.Result == "" {
		record.Result = "ongoing"
	}
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO games (game_id, initial_fen, result, start_time_utc) VALUES (?, ?, ?, ?)`,
			record.GameID, record.InitialFEN, record.Result, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move_uci, fen_after_move, hash_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.MoveUCI,
			record.FENAfterMove, record.HashAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores the game outcome
func (s *Store) RecordResult(gameID, result string) {
	s.enqueue("result update", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET result = ? WHERE game_id = ?`, result, gameID)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo operation", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close flushes queued writes and closes the database. Safe to call twice.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
		}

		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// QueryGames retrieves games, all of them when gameID is empty or "*"
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT game_id, initial_fen, result, start_time_utc FROM games WHERE 1=1`

	var args []any
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.InitialFEN, &g.Result, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves retrieves the moves of one game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move_uci, fen_after_move, hash_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveUCI,
			&m.FENAfterMove, &m.HashAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
