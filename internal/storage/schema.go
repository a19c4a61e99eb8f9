package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string    `db:"game_id"`
	InitialFEN   string    `db:"initial_fen"`
	Result       string    `db:"result"` // core.State text, "ongoing" until the game ends
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID        int64     `db:"move_id"`
	GameID        string    `db:"game_id"`
	MoveNumber    int       `db:"move_number"`
	MoveUCI       string    `db:"move_uci"`
	FENAfterMove  string    `db:"fen_after_move"`
	HashAfterMove string    `db:"hash_after_move"` // 16 hex digits
	PlayerColor   string    `db:"player_color"`    // "w" or "b"
	MoveTimeUTC   time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	result TEXT NOT NULL DEFAULT 'ongoing',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_uci TEXT NOT NULL,
	fen_after_move TEXT NOT NULL,
	hash_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_moves_hash ON moves(hash_after_move);
`
