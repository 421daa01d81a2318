package engine

// PseudoLegalMoves generates every move that obeys piece movement rules for
// the side to move, without testing whether the mover's king is left in
// check. King captures are never generated.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if !pc.Belongs(p.Turn) {
			continue
		}
		switch pc.Kind() {
		case 'p':
			moves = p.pawnMoves(moves, sq, pc)
		case 'n':
			moves = p.stepMoves(moves, sq, pc, knightOffsets[:], 2)
		case 'b':
			moves = p.slideMoves(moves, sq, pc, bishopOffsets[:])
		case 'r':
			moves = p.slideMoves(moves, sq, pc, rookOffsets[:])
		case 'q':
			moves = p.slideMoves(moves, sq, pc, bishopOffsets[:])
			moves = p.slideMoves(moves, sq, pc, rookOffsets[:])
		case 'k':
			moves = p.stepMoves(moves, sq, pc, kingOffsets[:], 1)
		}
	}
	return moves
}

// LegalMoves filters PseudoLegalMoves down to moves that leave the mover's
// own king safe. Each candidate is made, probed and unmade, so the position
// is unchanged when the call returns.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))
	us := p.Turn
	for _, m := range pseudo {
		p.Make(m)
		if !p.InCheck(us) {
			legal = append(legal, m)
		}
		p.Unmake(m)
	}
	return legal
}

// appendMove records a move from -> to capturing whatever occupies the
// target square. Moves onto a king are dropped: check detection relies on
// the king staying on the board through make/unmake.
func (p *Position) appendMove(moves []Move, from, to Square, promo byte) []Move {
	victim := p.Board[to]
	if victim != Empty && victim.Kind() == 'k' {
		return moves
	}
	return append(moves, Move{From: from, To: to, Captured: victim, Promo: promo})
}

func (p *Position) pawnMoves(moves []Move, from Square, pc Piece) []Move {
	dir, startRank := 8, 1
	if pc.IsWhite() {
		dir, startRank = -8, 6
	}

	if to := from + Square(dir); to.OnBoard() && p.Board[to] == Empty {
		moves = p.appendMove(moves, from, to, promoKind(to))
		if from.Rank() == startRank {
			if dbl := from + Square(2*dir); dbl.OnBoard() && p.Board[dbl] == Empty {
				moves = p.appendMove(moves, from, dbl, 0)
			}
		}
	}

	for _, dx := range [2]int{-1, 1} {
		to := from + Square(dir+dx)
		if !to.OnBoard() || absInt(to.File()-from.File()) != 1 {
			continue
		}
		victim := p.Board[to]
		if victim == Empty || victim.IsWhite() == pc.IsWhite() {
			continue
		}
		moves = p.appendMove(moves, from, to, promoKind(to))
	}
	return moves
}

// stepMoves generates single-step moves for knights and kings. maxFileDist
// rejects offsets that wrapped around the board edge: 2 for knights, 1 for
// kings.
func (p *Position) stepMoves(moves []Move, from Square, pc Piece, offsets []int, maxFileDist int) []Move {
	for _, d := range offsets {
		to := from + Square(d)
		if !to.OnBoard() || absInt(to.File()-from.File()) > maxFileDist {
			continue
		}
		if victim := p.Board[to]; victim == Empty || victim.IsWhite() != pc.IsWhite() {
			moves = p.appendMove(moves, from, to, 0)
		}
	}
	return moves
}

// slideMoves generates sliding moves along the given ray offsets, stopping
// at the board edge, a wraparound, or the first occupied square (included if
// it holds an enemy piece).
func (p *Position) slideMoves(moves []Move, from Square, pc Piece, offsets []int) []Move {
	for _, d := range offsets {
		horizontal := d == -1 || d == 1
		diagonal := d == -9 || d == -7 || d == 7 || d == 9
		prev := from
		for to := from + Square(d); to.OnBoard(); prev, to = to, to+Square(d) {
			if diagonal && absInt(to.File()-prev.File()) != 1 {
				break
			}
			if horizontal && to.Rank() != prev.Rank() {
				break
			}
			victim := p.Board[to]
			if victim == Empty {
				moves = p.appendMove(moves, from, to, 0)
				continue
			}
			if victim.IsWhite() != pc.IsWhite() {
				moves = p.appendMove(moves, from, to, 0)
			}
			break
		}
	}
	return moves
}

// promoKind returns 'q' when to lies on the final rank for either side;
// promotion is always to a queen.
func promoKind(to Square) byte {
	if r := to.Rank(); r == 0 || r == 7 {
		return 'q'
	}
	return 0
}
