package engine

// Evaluate returns the material balance in centipawns from the perspective
// of the side to move: positive means the mover is ahead. No positional
// terms, material only.
func (p *Position) Evaluate() int {
	score := 0
	for _, pc := range p.Board {
		switch {
		case pc == Empty:
		case pc.IsWhite():
			score += pc.Value()
		default:
			score -= pc.Value()
		}
	}
	if p.Turn == Black {
		return -score
	}
	return score
}
