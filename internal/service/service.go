// Package service manages the live games behind the HTTP transport: a
// registry of sessions, per-game access tokens and optional persistence.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"

	"simplechess/internal/core"
	"simplechess/internal/engine"
	"simplechess/internal/game"
	"simplechess/internal/storage"
)

// Sentinel errors, mapped to API error codes by the transport layer.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidLevel = errors.New("invalid level")
	ErrGameOver     = errors.New("game is over")
)

// Game tokens outlive any reasonable correspondence game.
const tokenTTL = 7 * 24 * time.Hour

// session pairs a game with its own lock, so operations on one game
// serialize while distinct games run concurrently, and tracks how many
// half-moves have been recorded.
type session struct {
	mu    sync.Mutex
	game  *game.Game
	moves int
}

// Service is the game registry with optional persistence.
type Service struct {
	mu       sync.RWMutex
	games    map[string]*session
	store    *storage.Store // nil if persistence disabled
	tokenKey []byte
}

// New creates a service. store may be nil; tokenKey signs the per-game
// bearer tokens.
func New(store *storage.Store, tokenKey []byte) *Service {
	return &Service{
		games:    make(map[string]*session),
		store:    store,
		tokenKey: tokenKey,
	}
}

// Snapshot is a point-in-time view of a game handed to transports.
type Snapshot struct {
	GameID        string
	Board         string // 64 chars, a8 first, '.' for empty
	Turn          string // "w" or "b"
	Level         core.Level
	State         core.State
	LastMove      string
	InCheck       bool
	WhiteCaptures string
	BlackCaptures string
}

// CreateGame registers a new game at the given level and returns its
// snapshot plus the bearer token that authorizes moves on it.
func (s *Service) CreateGame(level core.Level) (Snapshot, string, error) {
	if !level.Valid() {
		return Snapshot{}, "", fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	s.mu.Lock()
	id, err := s.uniqueGameID()
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, "", err
	}
	sess := &session{game: game.New(level)}
	s.games[id] = sess
	s.mu.Unlock()

	token, err := auth.GenerateHS256Token(s.tokenKey, id, map[string]any{"scope": "game"}, tokenTTL)
	if err != nil {
		s.mu.Lock()
		delete(s.games, id)
		s.mu.Unlock()
		return Snapshot{}, "", fmt.Errorf("failed to issue game token: %w", err)
	}

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			Level:        int(level),
			StartTimeUTC: time.Now().UTC(),
		})
	}
	return snapshotOf(id, sess.game), token, nil
}

// ValidateGameToken checks a bearer token and returns the game ID it was
// issued for.
func (s *Service) ValidateGameToken(token string) (string, error) {
	gameID, _, err := auth.ValidateHS256Token(s.tokenKey, token)
	if err != nil {
		return "", err
	}
	return gameID, nil
}

// GetGame returns the current snapshot of a game.
func (s *Service) GetGame(gameID string) (Snapshot, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(gameID, sess.game), nil
}

// LegalMoves lists the legal moves of the side to move.
func (s *Service) LegalMoves(gameID string) ([]string, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.LegalMoves(), nil
}

// PlayerMove validates and applies a player's move.
func (s *Service) PlayerMove(gameID, move string) (Snapshot, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if g.Status().Over() {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrGameOver, gameID)
	}
	mover := g.Turn().String()
	before := len(g.WhiteCaptures())
	if !g.PlayerMove(move) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}
	s.recordMove(gameID, sess, move, mover, lastCapture(g.WhiteCaptures(), before))
	return snapshotOf(gameID, g), nil
}

// AIMove runs the engine for the side to move and applies its reply. The
// search blocks the calling goroutine; other games are unaffected.
func (s *Service) AIMove(gameID string) (Snapshot, string, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if g.Status().Over() {
		return Snapshot{}, "", fmt.Errorf("%w: %s", ErrGameOver, gameID)
	}
	mover := g.Turn().String()
	before := len(g.BlackCaptures())
	move, err := g.AIMove()
	if err != nil {
		return Snapshot{}, "", err
	}
	s.recordMove(gameID, sess, move, mover, lastCapture(g.BlackCaptures(), before))
	return snapshotOf(gameID, g), move, nil
}

// SetLevel changes a game's difficulty.
func (s *Service) SetLevel(gameID string, level core.Level) (Snapshot, error) {
	if !level.Valid() {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	sess, err := s.session(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.game.SetLevel(level)
	if s.store != nil {
		s.store.RecordLevelChange(gameID, int(level))
	}
	return snapshotOf(gameID, sess.game), nil
}

// DeleteGame removes a game from the registry and, when persistence is
// enabled, its stored history.
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(s.games, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

// GameCount reports the number of live games.
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// StorageHealth returns the storage component status for health reporting.
func (s *Service) StorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close drops all games and closes the storage if enabled.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*session)
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Service) session(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

// uniqueGameID generates a game ID, retrying on the unlikely UUID collision.
// Callers must hold the registry write lock.
func (s *Service) uniqueGameID() (string, error) {
	const maxAttempts = 10
	for i := 0; i < maxAttempts; i++ {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id, nil
		}
	}
	return "", errors.New("failed to generate a unique game ID")
}

// recordMove persists one half-move. The session lock must be held.
func (s *Service) recordMove(gameID string, sess *session, move, mover, captured string) {
	sess.moves++
	if s.store == nil {
		return
	}
	s.store.RecordMove(storage.MoveRecord{
		GameID:      gameID,
		MoveNumber:  sess.moves,
		Move:        move,
		Mover:       mover,
		Captured:    captured,
		BoardAfter:  sess.game.BoardString(),
		MoveTimeUTC: time.Now().UTC(),
	})
}

// lastCapture returns the newly appended capture letter, or "" when the
// capture list did not grow.
func lastCapture(caps []engine.Piece, before int) string {
	if len(caps) <= before {
		return ""
	}
	return string(byte(caps[len(caps)-1]))
}

func capturesString(caps []engine.Piece) string {
	b := make([]byte, len(caps))
	for i, p := range caps {
		b[i] = byte(p)
	}
	return string(b)
}

func snapshotOf(id string, g *game.Game) Snapshot {
	return Snapshot{
		GameID:        id,
		Board:         g.BoardString(),
		Turn:          g.Turn().String(),
		Level:         g.Level(),
		State:         g.Status(),
		LastMove:      g.LastMove(),
		InCheck:       g.InCheck(),
		WhiteCaptures: capturesString(g.WhiteCaptures()),
		BlackCaptures: capturesString(g.BlackCaptures()),
	}
}
