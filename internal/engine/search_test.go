package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// plainNegamax is an unpruned, uncached reference search used to validate
// the alpha-beta implementation on full windows.
func plainNegamax(p *Position, depth int) int {
	if depth == 0 {
		return p.Evaluate()
	}
	moves := p.LegalMoves()
	if len(moves) == 0 {
		if p.InCheck(p.Turn) {
			return -mateScore + depth
		}
		return 0
	}
	best := -infinity
	for _, m := range moves {
		p.Make(m)
		if score := -plainNegamax(p, depth-1); score > best {
			best = score
		}
		p.Unmake(m)
	}
	return best
}

func searchFixtures(t *testing.T) map[string]*Position {
	return map[string]*Position{
		"start": StartingPosition(),
		"rook under attack": mustPosition(t, White,
			"....k...",
			"........",
			"..n.....",
			"...q....",
			"....R...",
			"........",
			"........",
			"....K...",
		),
		"black promotes": mustPosition(t, Black,
			"....k...",
			"....p...",
			"........",
			"...Q....",
			"........",
			"........",
			".......p",
			"....K...",
		),
		"mate threat": mustPosition(t, White,
			".......k",
			"........",
			".....KQ.",
			"........",
			"........",
			"........",
			"........",
			"........",
		),
	}
}

func TestSearchMatchesPlainNegamaxOnFullWindow(t *testing.T) {
	for name, p := range searchFixtures(t) {
		for depth := 1; depth <= 2; depth++ {
			s := NewSearcher()
			pos := *p
			got := s.Search(&pos, depth, -infinity, infinity)

			ref := *p
			want := plainNegamax(&ref, depth)
			if got != want {
				t.Errorf("%s at depth %d: Search = %d, plain negamax = %d", name, depth, got, want)
			}
		}
	}
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	for name, p := range searchFixtures(t) {
		s := NewSearcher()
		before := *p
		s.Search(p, 3, -infinity, infinity)
		if diff := cmp.Diff(before, *p); diff != "" {
			t.Errorf("%s: Search mutated the position (-want +got):\n%s", name, diff)
		}
	}
}

func TestSearchDepthZeroIsEvaluation(t *testing.T) {
	s := NewSearcher()
	p := mustPosition(t, White,
		"....k...",
		"....p...",
		"........",
		"........",
		"........",
		"........",
		"....N...",
		"....K...",
	)
	if got := s.Search(p, 0, -infinity, infinity); got != p.Evaluate() {
		t.Errorf("depth-0 search = %d, want evaluation %d", got, p.Evaluate())
	}
	if s.Table().Len() != 0 {
		t.Errorf("depth-0 search cached %d entries, want 0", s.Table().Len())
	}
}

func TestSearchReturnsPlantedTableScore(t *testing.T) {
	s := NewSearcher()
	p := StartingPosition()
	s.Table().Store(p, 3, 4242)
	if got := s.Search(p, 3, -infinity, infinity); got != 4242 {
		t.Errorf("Search ignored the cached score: got %d, want 4242", got)
	}
}

func TestSearchScoresCheckmate(t *testing.T) {
	p := mustPosition(t, Black,
		".......k",
		"......Q.",
		".....K..",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	s := NewSearcher()
	want := -mateScore + 3
	if got := s.Search(p, 3, -infinity, infinity); got != want {
		t.Errorf("mated position at depth 3 = %d, want %d", got, want)
	}
	if got, ok := s.Table().Lookup(p, 3); !ok || got != want {
		t.Errorf("mate score not cached: (%d, %v)", got, ok)
	}
}

func TestSearchScoresStalemate(t *testing.T) {
	p := mustPosition(t, Black,
		"k.......",
		"........",
		".Q......",
		"........",
		"........",
		"........",
		"........",
		".......K",
	)
	s := NewSearcher()
	if got := s.Search(p, 2, -infinity, infinity); got != 0 {
		t.Errorf("stalemate at depth 2 = %d, want 0", got)
	}
	if got, ok := s.Table().Lookup(p, 2); !ok || got != 0 {
		t.Errorf("stalemate score not cached: (%d, %v)", got, ok)
	}
}

func TestBestMoveErrorsWithoutLegalMoves(t *testing.T) {
	mated := mustPosition(t, Black,
		".......k",
		"......Q.",
		".....K..",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	if _, err := NewSearcher().BestMove(mated, 4, 0); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("checkmate: err = %v, want ErrNoLegalMoves", err)
	}

	stale := mustPosition(t, Black,
		"k.......",
		"........",
		".Q......",
		"........",
		"........",
		"........",
		"........",
		".......K",
	)
	if _, err := NewSearcher().BestMove(stale, 4, 0); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("stalemate: err = %v, want ErrNoLegalMoves", err)
	}
}

func TestBestMoveDeliversMateInOne(t *testing.T) {
	p := mustPosition(t, White,
		".......k",
		"........",
		".....KQ.",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	s := NewSearcher()
	m, err := s.BestMove(p, 2, 0)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	p.Make(m)
	if !p.InCheck(Black) || len(p.LegalMoves()) != 0 {
		t.Errorf("move %s did not deliver mate", m)
	}
}

func TestBestMoveTakesHangingQueen(t *testing.T) {
	p := mustPosition(t, White,
		"q...k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K...",
	)
	s := NewSearcher()
	m, err := s.BestMove(p, 2, 0)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	if got := m.String(); got != "a1a8" {
		t.Errorf("BestMove = %s, want a1a8", got)
	}
	if m.Captured != BlackQueen {
		t.Errorf("captured = %c, want q", m.Captured)
	}
}

func TestBestMoveScoreMatchesBruteForce(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"..n.....",
		"...q....",
		"....R...",
		"........",
		"........",
		"....K...",
	)
	s := NewSearcher()
	got, err := s.BestMove(p, 2, 0)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}

	// The chosen move must achieve the best one-reply score even if several
	// moves tie and ordering picks a different one of them.
	best := -infinity
	for _, m := range p.LegalMoves() {
		p.Make(m)
		if score := -plainNegamax(p, 1); score > best {
			best = score
		}
		p.Unmake(m)
	}
	p.Make(got)
	chosen := -plainNegamax(p, 1)
	p.Unmake(got)
	if chosen != best {
		t.Errorf("chosen move scores %d, best achievable is %d", chosen, best)
	}
}

func TestBestMoveCertainBlunderReturnsFirstOrderedMove(t *testing.T) {
	// The only capture on the board wins a queen for a pawn, so it sorts
	// first; with blunder probability 1 it is returned without any search.
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"...q....",
		"....P...",
		"........",
		"........",
		"....K...",
	)
	s := NewSearcher()
	m, err := s.BestMove(p, 6, 1)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	if got := m.String(); got != "e4d5" {
		t.Errorf("certain blunder returned %s, want the first ordered move e4d5", got)
	}
	if s.Table().Len() != 0 {
		t.Errorf("blundered move ran a search: %d cached entries", s.Table().Len())
	}
}

func TestBestMoveBlunderTrialIsPerMove(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"..n.....",
		"...q....",
		"....R...",
		"........",
		"........",
		"....K...",
	)
	const seed, prob = 42, 0.5

	// Replay the draw sequence: the searcher consumes one draw per candidate
	// until a trial fires.
	ordered := p.LegalMoves()
	orderMoves(p, ordered)
	rng := rand.New(rand.NewSource(seed))
	fireAt := -1
	for i := range ordered {
		if rng.Float64() < prob {
			fireAt = i
			break
		}
	}

	s := &Searcher{table: NewTransTable(), rng: rand.New(rand.NewSource(seed))}
	got, err := s.BestMove(p, 2, prob)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}

	if fireAt >= 0 {
		if got != ordered[fireAt] {
			t.Errorf("blunder fired at move %d (%s), BestMove returned %s", fireAt, ordered[fireAt], got)
		}
		return
	}
	ref := &Searcher{table: NewTransTable(), rng: rand.New(rand.NewSource(seed))}
	want, err := ref.BestMove(p, 2, 0)
	if err != nil {
		t.Fatalf("reference BestMove returned error: %v", err)
	}
	if got != want {
		t.Errorf("no trial fired: BestMove = %s, want search result %s", got, want)
	}
}

func TestBestMoveWithoutBlunderIsDeterministic(t *testing.T) {
	// With blunder probability 0 the random source is never consulted, so
	// searchers with different seeds must agree.
	p := mustPosition(t, White,
		"....k...",
		"........",
		"..n.....",
		"...q....",
		"....R...",
		"........",
		"........",
		"....K...",
	)
	first, err := NewSearcher().BestMove(p, 3, 0)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	second, err := NewSearcher().BestMove(p, 3, 0)
	if err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	if first != second {
		t.Errorf("searchers disagree without blunders: %s vs %s", first, second)
	}
}

func TestBestMoveLeavesPositionUntouched(t *testing.T) {
	p := StartingPosition()
	before := *p
	if _, err := NewSearcher().BestMove(p, 3, 0); err != nil {
		t.Fatalf("BestMove returned error: %v", err)
	}
	if diff := cmp.Diff(before, *p); diff != "" {
		t.Errorf("BestMove mutated the position (-want +got):\n%s", diff)
	}
}

func TestOrderMovesRanksCapturesByGain(t *testing.T) {
	// Pawn takes queen gains 800 and sorts first, rook takes queen gains 400
	// and sorts second, quiet moves score 0, and rook takes pawn loses 400
	// so it sorts behind the quiet moves.
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"...q....",
		"....P...",
		"p..R....",
		"........",
		"....K...",
	)
	moves := p.PseudoLegalMoves()
	orderMoves(p, moves)

	if got := moves[0].String(); got != "e4d5" {
		t.Errorf("first ordered move = %s, want e4d5", got)
	}
	if got := moves[1].String(); got != "d3d5" {
		t.Errorf("second ordered move = %s, want d3d5", got)
	}
	if got := moves[len(moves)-1].String(); got != "d3a3" {
		t.Errorf("last ordered move = %s, want d3a3", got)
	}
	for _, m := range moves[2 : len(moves)-1] {
		if m.IsCapture() {
			t.Errorf("capture %s ordered among quiet moves", m)
		}
	}
}
