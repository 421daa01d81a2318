package engine

// Step offsets on the flat board. Every use must pair an offset with a file
// or rank guard, because adding an offset near the a- or h-file can wrap to
// the adjacent rank while staying inside 0..63.
var (
	knightOffsets = [8]int{-17, -15, -10, -6, 6, 10, 15, 17}
	bishopOffsets = [4]int{-9, -7, 7, 9}
	rookOffsets   = [4]int{-8, -1, 1, 8}
	kingOffsets   = [8]int{-9, -8, -7, -1, 1, 7, 8, 9}
)

// IsAttacked reports whether any piece of side by attacks target. Sliding
// rays stop at the first occupied square.
func (p *Position) IsAttacked(target Square, by Side) bool {
	// A pawn attacks diagonally forward, so the attacking pawn sits one rank
	// behind the target from its own point of view: below for White, above
	// for Black.
	pawnDir := 8
	if by == Black {
		pawnDir = -8
	}
	for _, dx := range [2]int{-1, 1} {
		sq := target + Square(pawnDir+dx)
		if !sq.OnBoard() || absInt(sq.File()-target.File()) != 1 {
			continue
		}
		if pc := p.Board[sq]; pc.Belongs(by) && pc.Kind() == 'p' {
			return true
		}
	}

	for _, d := range knightOffsets {
		sq := target + Square(d)
		if !sq.OnBoard() || absInt(sq.File()-target.File()) > 2 {
			continue
		}
		if pc := p.Board[sq]; pc.Belongs(by) && pc.Kind() == 'n' {
			return true
		}
	}

	// Diagonal rays: bishops and queens. Each step must change the file by
	// exactly one or the ray has wrapped around the board edge.
	for _, d := range bishopOffsets {
		prev := target
		for sq := target + Square(d); sq.OnBoard() && absInt(sq.File()-prev.File()) == 1; prev, sq = sq, sq+Square(d) {
			pc := p.Board[sq]
			if pc == Empty {
				continue
			}
			if pc.Belongs(by) && (pc.Kind() == 'b' || pc.Kind() == 'q') {
				return true
			}
			break
		}
	}

	// Straight rays: rooks and queens. Horizontal steps must stay on the
	// starting rank; vertical steps cannot wrap.
	for _, d := range rookOffsets {
		prev := target
		for sq := target + Square(d); sq.OnBoard() && !(sq.Rank() != prev.Rank() && (d == -1 || d == 1)); prev, sq = sq, sq+Square(d) {
			pc := p.Board[sq]
			if pc == Empty {
				continue
			}
			if pc.Belongs(by) && (pc.Kind() == 'r' || pc.Kind() == 'q') {
				return true
			}
			break
		}
	}

	for _, d := range kingOffsets {
		sq := target + Square(d)
		if !sq.OnBoard() || absInt(sq.File()-target.File()) > 1 {
			continue
		}
		if pc := p.Board[sq]; pc.Belongs(by) && pc.Kind() == 'k' {
			return true
		}
	}

	return false
}

// KingSquare returns the square of side's king, or -1 if the king is absent.
func (p *Position) KingSquare(side Side) Square {
	want := BlackKing
	if side == White {
		want = WhiteKing
	}
	for sq := Square(0); sq < 64; sq++ {
		if p.Board[sq] == want {
			return sq
		}
	}
	return -1
}

// InCheck reports whether side's king is attacked by the opponent.
func (p *Position) InCheck(side Side) bool {
	ks := p.KingSquare(side)
	if !ks.OnBoard() {
		return false
	}
	return p.IsAttacked(ks, side.Opponent())
}
