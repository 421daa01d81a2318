package engine

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

const (
	// mateScore anchors checkmate: a mated node scores -mateScore plus the
	// remaining depth at which the mate was detected.
	mateScore = 100000

	// infinity bounds the search window and sits far outside any score the
	// evaluation or mate arithmetic can produce.
	infinity = 1000000000
)

// ErrNoLegalMoves is returned by BestMove when the side to move has no legal
// moves, i.e. the game already ended in checkmate or stalemate.
var ErrNoLegalMoves = errors.New("no legal moves in position")

// Searcher runs fixed-depth negamax searches with alpha-beta pruning. Each
// searcher owns its transposition table and random source, so two searchers
// never share cached scores. A searcher must not be used from multiple
// goroutines at once.
type Searcher struct {
	table *TransTable
	rng   *rand.Rand
}

// NewSearcher returns a searcher with an empty table and a time-seeded
// random source.
func NewSearcher() *Searcher {
	return &Searcher{
		table: NewTransTable(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Table returns the searcher's transposition table, exposed so callers can
// clear it when the search configuration changes.
func (s *Searcher) Table() *TransTable { return s.table }

// Search scores the position with fail-hard alpha-beta negamax: the result
// is from the mover's perspective, and a fail-high branch returns beta
// itself. Checkmate scores -mateScore+depth, stalemate 0; both terminals are
// cached. Leaf evaluations are returned without caching.
func (s *Searcher) Search(p *Position, depth, alpha, beta int) int {
	if score, ok := s.table.Lookup(p, depth); ok {
		return score
	}
	if depth == 0 {
		return p.Evaluate()
	}

	moves := p.LegalMoves()
	if len(moves) == 0 {
		score := 0
		if p.InCheck(p.Turn) {
			score = -mateScore + depth
		}
		s.table.Store(p, depth, score)
		return score
	}
	orderMoves(p, moves)

	best := -infinity
	for _, m := range moves {
		p.Make(m)
		score := -s.Search(p, depth-1, -beta, -alpha)
		p.Unmake(m)
		if score >= beta {
			s.table.Store(p, depth, beta)
			return beta
		}
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
	}
	s.table.Store(p, depth, best)
	return best
}

// BestMove picks a move for the side to move by searching each root move
// with a full window at depth-1. Root moves are tried in capture-first
// order; when blunderProb is positive, each candidate first undergoes an
// independent Bernoulli trial that, on success, returns that candidate
// immediately without searching it or the rest of the list. BestMove returns
// ErrNoLegalMoves if the position has no legal moves.
func (s *Searcher) BestMove(p *Position, depth int, blunderProb float64) (Move, error) {
	moves := p.LegalMoves()
	if len(moves) == 0 {
		return Move{}, ErrNoLegalMoves
	}
	orderMoves(p, moves)

	best := moves[0]
	bestScore := -infinity
	for _, m := range moves {
		if blunderProb > 0 && s.rng.Float64() < blunderProb {
			return m, nil
		}
		p.Make(m)
		score := -s.Search(p, depth-1, -infinity, infinity)
		p.Unmake(m)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, nil
}

// orderMoves sorts captures toward the front by most-valuable-victim,
// least-valuable-attacker: victim value minus attacker value, descending.
// Quiet moves score zero, so a capture that loses material sorts behind
// them.
func orderMoves(p *Position, moves []Move) {
	sort.Slice(moves, func(i, j int) bool {
		return captureGain(p, moves[i]) > captureGain(p, moves[j])
	})
}

func captureGain(p *Position, m Move) int {
	if m.Captured == Empty {
		return 0
	}
	return m.Captured.Value() - p.Board[m.From].Value()
}
