package engine

// Move is a from/to square pair carrying the captured piece and the
// promotion kind, which is everything Unmake needs to restore the position
// exactly.
type Move struct {
	From     Square
	To       Square
	Captured Piece
	Promo    byte // promotion kind, 'q' or 0
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool { return m.Captured != Empty }

// String returns the 4-character from/to encoding, e.g. "e2e4".
func (m Move) String() string { return m.From.String() + m.To.String() }

// Make applies m to the position: the moving piece (promoted if Promo is
// set) lands on m.To, m.From empties, and the side to move flips. The
// captured piece is taken from the move itself, so Make(m) followed by
// Unmake(m) restores the position byte for byte.
func (p *Position) Make(m Move) {
	pc := p.Board[m.From]
	if m.Promo != 0 {
		if pc.IsWhite() {
			pc = Piece(m.Promo + 'A' - 'a')
		} else {
			pc = Piece(m.Promo)
		}
	}
	p.Board[m.To] = pc
	p.Board[m.From] = Empty
	p.Turn = p.Turn.Opponent()
}

// Unmake reverses m. The position must be exactly the one Make(m) produced.
func (p *Position) Unmake(m Move) {
	p.Turn = p.Turn.Opponent()
	pc := p.Board[m.To]
	if m.Promo != 0 {
		if pc.IsWhite() {
			pc = WhitePawn
		} else {
			pc = BlackPawn
		}
	}
	p.Board[m.From] = pc
	p.Board[m.To] = m.Captured
}
