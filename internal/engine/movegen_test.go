package engine

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func findMove(moves []Move, s string) (Move, bool) {
	for _, m := range moves {
		if m.String() == s {
			return m, true
		}
	}
	return Move{}, false
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	p := StartingPosition()
	if got := len(p.PseudoLegalMoves()); got != 20 {
		t.Errorf("pseudo-legal moves at start = %d, want 20", got)
	}
	if got := len(p.LegalMoves()); got != 20 {
		t.Errorf("legal moves at start = %d, want 20", got)
	}
}

func TestPawnPushes(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....P...",
		"....K...",
	)
	moves := moveStrings(p.PseudoLegalMoves())
	for _, want := range []string{"e2e3", "e2e4"} {
		if !contains(moves, want) {
			t.Errorf("missing pawn push %s in %v", want, moves)
		}
	}

	// A piece on the intermediate square blocks both the single and the
	// double push.
	blocked := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"....n...",
		"....P...",
		"....K...",
	)
	for _, m := range blocked.PseudoLegalMoves() {
		if m.From == sq(t, "e2") {
			t.Errorf("blocked pawn generated %s", m)
		}
	}

	// Off the start rank only the single push remains.
	advanced := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"....P...",
		"........",
		"....K...",
	)
	got := moveStrings(advanced.PseudoLegalMoves())
	if !contains(got, "e3e4") || contains(got, "e3e5") {
		t.Errorf("pawn on e3 generated %v", got)
	}
}

func TestPawnCapturesAreDiagonalOnly(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"...rnr..",
		"....P...",
		"........",
		"....K...",
	)
	moves := moveStrings(p.PseudoLegalMoves())
	for _, want := range []string{"e3d4", "e3f4"} {
		if !contains(moves, want) {
			t.Errorf("missing pawn capture %s in %v", want, moves)
		}
	}
	if contains(moves, "e3e4") {
		t.Error("pawn captured straight ahead")
	}
}

func TestPawnCaptureDoesNotWrapFiles(t *testing.T) {
	// A rook on a4 sits at the flat index a naive h4 capture offset would
	// reach by wrapping around the board edge.
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"r......P",
		"........",
		"........",
		"....K...",
	)
	for _, m := range p.PseudoLegalMoves() {
		if m.From == sq(t, "h4") && m.To == sq(t, "a4") {
			t.Error("pawn h4 captured a4 across the board edge")
		}
	}
}

func TestBlackPawnMovesDown(t *testing.T) {
	p := mustPosition(t, Black,
		"....k...",
		"...p....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	)
	moves := moveStrings(p.PseudoLegalMoves())
	for _, want := range []string{"d7d6", "d7d5"} {
		if !contains(moves, want) {
			t.Errorf("missing black pawn push %s in %v", want, moves)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestKnightMovesRespectBoardEdge(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"N...K...",
	)
	got := moveStrings(p.PseudoLegalMoves())
	for _, want := range []string{"a1b3", "a1c2"} {
		if !contains(got, want) {
			t.Errorf("missing knight move %s in %v", want, got)
		}
	}
	for _, m := range p.PseudoLegalMoves() {
		if m.From == sq(t, "a1") && m.To != sq(t, "b3") && m.To != sq(t, "c2") {
			t.Errorf("knight a1 generated off-board move %s", m)
		}
	}
}

func TestSliderMovesStopAtPieces(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"R..p....",
		"........",
		"........",
		"....K...",
	)
	moves := p.PseudoLegalMoves()
	if _, ok := findMove(moves, "a4d4"); !ok {
		t.Error("rook a4 should capture the pawn on d4")
	}
	if _, ok := findMove(moves, "a4e4"); ok {
		t.Error("rook a4 moved through the pawn on d4")
	}
	if _, ok := findMove(moves, "a4a8"); !ok {
		t.Error("rook a4 should reach a8 on the open file")
	}

	capture, _ := findMove(moves, "a4d4")
	if capture.Captured != BlackPawn {
		t.Errorf("capture on d4 recorded %c, want p", capture.Captured)
	}
}

func TestGeneratedMovesNeverLandOnOwnPieces(t *testing.T) {
	positions := map[string]*Position{
		"start": StartingPosition(),
		"tangled middlegame": mustPosition(t, White,
			"r..qk..r",
			".pp.ppbp",
			"..n...p.",
			"p..p....",
			"...P.B..",
			"..N.PN..",
			"PPP..PPP",
			"R..QK..R",
		),
		"black to move": mustPosition(t, Black,
			"r..qk..r",
			".pp.ppbp",
			"..n...p.",
			"p..p....",
			"...P.B..",
			"..N.PN..",
			"PPP..PPP",
			"R..QK..R",
		),
	}
	for name, p := range positions {
		for _, m := range p.PseudoLegalMoves() {
			if !p.Board[m.From].Belongs(p.Turn) {
				t.Errorf("%s: move %s does not start on a piece of the side to move", name, m)
			}
			if occ := p.Board[m.To]; occ != Empty && occ.Belongs(p.Turn) {
				t.Errorf("%s: move %s lands on an own piece", name, m)
			}
			if m.Captured != p.Board[m.To] {
				t.Errorf("%s: move %s records captured %c, square holds %c", name, m, m.Captured, p.Board[m.To])
			}
		}
	}
}

func TestKingCaptureIsNeverGenerated(t *testing.T) {
	p := mustPosition(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"....R...",
		"........",
		"........",
		"....K...",
	)
	for _, m := range p.PseudoLegalMoves() {
		if m.To == sq(t, "e8") {
			t.Errorf("generated a king capture: %s", m)
		}
	}
}

func TestLegalMovesExcludePinnedPiece(t *testing.T) {
	p := mustPosition(t, White,
		"....r..k",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....N...",
		"....K...",
	)
	for _, m := range p.LegalMoves() {
		if m.From == sq(t, "e2") {
			t.Errorf("pinned knight moved: %s", m)
		}
	}
}

func TestLegalMovesUnderCheckAreEvasions(t *testing.T) {
	p := mustPosition(t, White,
		"k...r...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	)
	if !p.InCheck(White) {
		t.Fatal("white king should start in check")
	}
	want := []string{"e1d1", "e1d2", "e1f1", "e1f2"}
	got := moveStrings(p.LegalMoves())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("evasions mismatch (-want +got):\n%s", diff)
	}
}

func TestLegalMovesLeavePositionUntouched(t *testing.T) {
	p := mustPosition(t, Black,
		"....k...",
		"....p...",
		"........",
		"...Q....",
		"........",
		"........",
		"........",
		"....K...",
	)
	before := *p
	p.LegalMoves()
	if diff := cmp.Diff(before, *p); diff != "" {
		t.Errorf("LegalMoves mutated the position (-want +got):\n%s", diff)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []*Position{
		StartingPosition(),
		mustPosition(t, White,
			"r..qk...",
			".P..p...",
			"........",
			"...p....",
			"....P...",
			"..N.....",
			"......P.",
			"R...K..n",
		),
		mustPosition(t, Black,
			"....k...",
			"....p...",
			"........",
			"...Q....",
			"........",
			"........",
			".......p",
			"....K...",
		),
	}
	for i, p := range positions {
		before := *p
		for _, m := range p.LegalMoves() {
			p.Make(m)
			p.Unmake(m)
			if diff := cmp.Diff(before, *p); diff != "" {
				t.Fatalf("position %d: make/unmake of %s did not restore (-want +got):\n%s", i, m, diff)
			}
		}
	}
}

func TestMakeAppliesMove(t *testing.T) {
	p := StartingPosition()
	m, ok := findMove(p.LegalMoves(), "e2e4")
	if !ok {
		t.Fatal("e2e4 missing from the starting position")
	}
	p.Make(m)
	if p.Board[sq(t, "e4")] != WhitePawn {
		t.Error("pawn did not land on e4")
	}
	if p.Board[sq(t, "e2")] != Empty {
		t.Error("e2 was not vacated")
	}
	if p.Turn != Black {
		t.Error("turn did not pass to Black")
	}
}

func TestPromotionMoves(t *testing.T) {
	p := mustPosition(t, White,
		"r...k...",
		".P......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	)
	moves := p.PseudoLegalMoves()

	push, ok := findMove(moves, "b7b8")
	if !ok {
		t.Fatal("promotion push b7b8 not generated")
	}
	if push.Promo != 'q' {
		t.Errorf("push promotion kind = %c, want q", push.Promo)
	}

	capt, ok := findMove(moves, "b7a8")
	if !ok {
		t.Fatal("promotion capture b7a8 not generated")
	}
	if capt.Promo != 'q' || capt.Captured != BlackRook {
		t.Errorf("capture promotion = kind %c captured %c, want q and r", capt.Promo, capt.Captured)
	}

	p.Make(push)
	if p.Board[sq(t, "b8")] != WhiteQueen {
		t.Errorf("promoted piece = %c, want Q", p.Board[sq(t, "b8")])
	}
	p.Unmake(push)
	if p.Board[sq(t, "b7")] != WhitePawn {
		t.Errorf("unmake restored %c on b7, want P", p.Board[sq(t, "b7")])
	}
	if p.Board[sq(t, "b8")] != Empty {
		t.Error("unmake left a piece on b8")
	}
}

func TestBlackPromotion(t *testing.T) {
	p := mustPosition(t, Black,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"......p.",
		"....K...",
	)
	m, ok := findMove(p.PseudoLegalMoves(), "g2g1")
	if !ok {
		t.Fatal("promotion push g2g1 not generated")
	}
	if m.Promo != 'q' {
		t.Errorf("promotion kind = %c, want q", m.Promo)
	}
	p.Make(m)
	if p.Board[sq(t, "g1")] != BlackQueen {
		t.Errorf("promoted piece = %c, want q", p.Board[sq(t, "g1")])
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
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
	if !p.InCheck(Black) {
		t.Fatal("black king should be in check")
	}
	if got := p.LegalMoves(); len(got) != 0 {
		t.Errorf("checkmated side has moves: %v", moveStrings(got))
	}
}

func TestStalemateHasNoLegalMovesAndNoCheck(t *testing.T) {
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
	if p.InCheck(Black) {
		t.Fatal("stalemated king must not be in check")
	}
	if got := p.LegalMoves(); len(got) != 0 {
		t.Errorf("stalemated side has moves: %v", moveStrings(got))
	}
}
