// Package storage persists games and their move history to SQLite. All
// writes go through a single async writer goroutine; when a write fails the
// store degrades and silently drops further writes, so gameplay never blocks
// on the database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
)

// Store handles SQLite database operations with async writes.
type Store struct {
	db        *sql.DB
	path      string
	writeChan chan func(*sql.Tx) error
	healthy   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewStore opens the database and starts the async writer. WAL journaling is
// enabled in dev mode.
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()
	return s, nil
}

// writerLoop applies queued writes one transaction at a time. On shutdown it
// drains whatever is already queued, bounded by the drain timeout.
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			deadline := time.After(drainTimeout)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthy.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}
		case fn := <-s.writeChan:
			if !s.healthy.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("storage degraded: failed to begin transaction: %v", err)
		s.healthy.Store(false)
		return
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("storage degraded: write failed: %v", err)
		s.healthy.Store(false)
		return
	}
	if err := tx.Commit(); err != nil {
		log.Printf("storage degraded: failed to commit: %v", err)
		s.healthy.Store(false)
	}
}

// enqueue hands a write to the async writer. Writes are dropped when the
// store is degraded or the queue is full.
func (s *Store) enqueue(label string, fn func(*sql.Tx) error) {
	if !s.healthy.Load() {
		return
	}
	select {
	case s.writeChan <- fn:
	default:
		log.Printf("storage write queue full, dropping %s", label)
	}
}

// RecordNewGame asynchronously inserts a game row.
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO games (game_id, level, start_time_utc) VALUES (?, ?, ?)`,
			record.GameID, record.Level, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously inserts a move row.
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO moves (game_id, move_number, move, mover, captured, board_after, move_time_utc)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.Move, record.Mover,
			record.Captured, record.BoardAfter, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordLevelChange asynchronously updates a game's level.
func (s *Store) RecordLevelChange(gameID string, level int) {
	s.enqueue("level change", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET level = ? WHERE game_id = ?`, level, gameID)
		return err
	})
}

// DeleteGame asynchronously removes a game row; its moves cascade.
func (s *Store) DeleteGame(gameID string) {
	s.enqueue("game deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// IsHealthy reports whether the store is still accepting writes.
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

// Close stops the writer, waits for queued writes within the drain timeout
// and closes the database.
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		log.Printf("warning: storage writer shutdown timeout, some writes may be lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema.
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

// DeleteDB closes the store and removes the database file.
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	return nil
}

// QueryGames retrieves game rows, newest first. An empty or "*" gameID
// matches all games.
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT game_id, level, start_time_utc FROM games`
	var args []any
	if gameID != "" && gameID != "*" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY start_time_utc DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.Level, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return games, nil
}

// QueryMoves retrieves a game's move history in move order.
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(
		`SELECT move_id, game_id, move_number, move, mover, captured, board_after, move_time_utc
		 FROM moves WHERE game_id = ? ORDER BY move_number`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move,
			&m.Mover, &m.Captured, &m.BoardAfter, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}
