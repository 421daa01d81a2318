package storage

import "time"

// GameRecord represents a row in the games table.
type GameRecord struct {
	GameID       string    `db:"game_id"`
	Level        int       `db:"level"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table. Move is the 4-character
// from/to pair, Mover the side that played it, Captured the taken piece
// letter or empty, BoardAfter the 64-character flat board after the move.
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	Move        string    `db:"move"`
	Mover       string    `db:"mover"`
	Captured    string    `db:"captured"`
	BoardAfter  string    `db:"board_after"`
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	level INTEGER NOT NULL CHECK(level BETWEEN 1 AND 3),
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	mover TEXT NOT NULL CHECK(mover IN ('w', 'b')),
	captured TEXT NOT NULL DEFAULT '',
	board_after TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time_utc);
`
