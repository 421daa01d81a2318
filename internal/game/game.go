// Package game provides the playing-session controller: one position, one
// searcher with its private transposition table, capture bookkeeping and the
// difficulty configuration. Front ends talk to Game; only Game talks to the
// engine.
package game

import (
	"fmt"

	"simplechess/internal/core"
	"simplechess/internal/engine"
)

// Difficulty settings per level: search depth in plies and the probability
// that the engine blunders a move.
const (
	easyDepth     = 2
	easyBlunder   = 0.35
	mediumDepth   = 4
	mediumBlunder = 0.0
	hardDepth     = 6
	hardBlunder   = 0.0
)

// When one side is ahead by more than this many centipawns the engine
// searches two plies deeper.
const imbalanceThreshold = 1500

// Game is a single playing session. The capture lists assume the
// conventional roles: PlayerMove feeds the white capture list and AIMove the
// black one. A Game is not safe for concurrent use.
type Game struct {
	pos      engine.Position
	searcher *engine.Searcher

	level   core.Level
	depth   int
	blunder float64

	whiteCaps []engine.Piece // pieces captured via PlayerMove
	blackCaps []engine.Piece // pieces captured via AIMove
	lastMove  string
}

// New starts a game from the standard position at the given level.
func New(level core.Level) *Game {
	g := &Game{
		pos:      *engine.StartingPosition(),
		searcher: engine.NewSearcher(),
	}
	g.SetLevel(level)
	return g
}

// SetLevel applies the difficulty settings and clears the searcher's
// transposition table, so scores from the previous depth configuration never
// leak into the next. Any level other than easy or medium selects hard.
func (g *Game) SetLevel(level core.Level) {
	switch level {
	case core.LevelEasy:
		g.depth, g.blunder = easyDepth, easyBlunder
	case core.LevelMedium:
		g.depth, g.blunder = mediumDepth, mediumBlunder
	default:
		level = core.LevelHard
		g.depth, g.blunder = hardDepth, hardBlunder
	}
	g.level = level
	g.searcher.Table().Clear()
}

// Level returns the active difficulty level.
func (g *Game) Level() core.Level { return g.level }

// Turn returns the side to move.
func (g *Game) Turn() engine.Side { return g.pos.Turn }

// LastMove returns the display text of the most recent move, e.g.
// "You: e2-e4" or "AI: e7e5". Empty before the first move.
func (g *Game) LastMove() string { return g.lastMove }

// LegalMoves returns the legal moves for the side to move as 4-character
// from/to pairs.
func (g *Game) LegalMoves() []string {
	moves := g.pos.LegalMoves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// PlayerMove applies a move given as a 4-character from/to pair such as
// "e2e4". It returns false and leaves the position untouched when the string
// is malformed or does not name a legal move for the side to move. A capture
// is appended to the white capture list.
func (g *Game) PlayerMove(s string) bool {
	if len(s) != 4 {
		return false
	}
	from, err := engine.ParseSquare(s[:2])
	if err != nil {
		return false
	}
	to, err := engine.ParseSquare(s[2:])
	if err != nil {
		return false
	}
	for _, m := range g.pos.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		g.pos.Make(m)
		if m.IsCapture() {
			g.whiteCaps = append(g.whiteCaps, m.Captured)
		}
		g.lastMove = fmt.Sprintf("You: %s-%s", s[:2], s[2:])
		return true
	}
	return false
}

// AIMove searches for and applies the engine's move for the side to move,
// returning its 4-character encoding. The configured depth gains two plies
// when the material balance exceeds the imbalance threshold either way. A
// capture is appended to the black capture list. When the position has no
// legal moves the error wraps engine.ErrNoLegalMoves.
func (g *Game) AIMove() (string, error) {
	depth := g.depth
	if bal := g.pos.Evaluate(); bal > imbalanceThreshold || bal < -imbalanceThreshold {
		depth += 2
	}
	m, err := g.searcher.BestMove(&g.pos, depth, g.blunder)
	if err != nil {
		return "", fmt.Errorf("ai move: %w", err)
	}
	g.pos.Make(m)
	if m.IsCapture() {
		g.blackCaps = append(g.blackCaps, m.Captured)
	}
	mv := m.String()
	g.lastMove = "AI: " + mv
	return mv, nil
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool { return g.pos.InCheck(g.pos.Turn) }

// IsCheckmate reports whether the side to move is checkmated.
func (g *Game) IsCheckmate() bool {
	return g.InCheck() && len(g.pos.LegalMoves()) == 0
}

// IsStalemate reports whether the side to move has no legal moves while not
// in check.
func (g *Game) IsStalemate() bool {
	return !g.InCheck() && len(g.pos.LegalMoves()) == 0
}

// Status derives the lifecycle state: a checkmated side loses, no-moves
// without check is stalemate, anything else is ongoing.
func (g *Game) Status() core.State {
	switch {
	case g.IsCheckmate():
		if g.pos.Turn == engine.White {
			return core.StateBlackWins
		}
		return core.StateWhiteWins
	case g.IsStalemate():
		return core.StateStalemate
	default:
		return core.StateOngoing
	}
}

// Board64 returns the raw board: 64 bytes, a8 through h1, piece letters with
// 0 for empty squares.
func (g *Game) Board64() [64]byte {
	var out [64]byte
	for i, pc := range g.pos.Board {
		out[i] = byte(pc)
	}
	return out
}

// BoardString returns the 64-character board with '.' for empty squares.
func (g *Game) BoardString() string { return g.pos.FlatBoard() }

// WhiteCaptures returns a copy of the pieces captured by PlayerMove, in
// capture order.
func (g *Game) WhiteCaptures() []engine.Piece {
	return append([]engine.Piece(nil), g.whiteCaps...)
}

// BlackCaptures returns a copy of the pieces captured by AIMove, in capture
// order.
func (g *Game) BlackCaptures() []engine.Piece {
	return append([]engine.Piece(nil), g.blackCaps...)
}

// TableLen reports the size of the searcher's transposition table.
func (g *Game) TableLen() int { return g.searcher.Table().Len() }
