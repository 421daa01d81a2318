package engine

// ttKey identifies a search node by the full board contents, the side to
// move and the remaining depth. Two positions that differ only in how they
// were reached share a key.
type ttKey struct {
	board [64]Piece
	turn  Side
	depth int
}

type ttEntry struct {
	depth int
	score int
}

// TransTable caches exact search scores keyed by position and depth. Entries
// under the same key are overwritten in place; nothing is evicted until
// Clear. Each table belongs to one searcher and is not safe for concurrent
// use.
type TransTable struct {
	entries map[ttKey]ttEntry
}

// NewTransTable returns an empty table.
func NewTransTable() *TransTable {
	return &TransTable{entries: make(map[ttKey]ttEntry)}
}

// Lookup returns the cached score for the position at the given remaining
// depth. A hit is reported only if the stored entry was searched at least as
// deep as requested.
func (t *TransTable) Lookup(p *Position, depth int) (int, bool) {
	e, ok := t.entries[ttKey{board: p.Board, turn: p.Turn, depth: depth}]
	if !ok || e.depth < depth {
		return 0, false
	}
	return e.score, true
}

// Store records score for the position at the given remaining depth,
// replacing any previous entry under the same key.
func (t *TransTable) Store(p *Position, depth, score int) {
	t.entries[ttKey{board: p.Board, turn: p.Turn, depth: depth}] = ttEntry{depth: depth, score: score}
}

// Clear drops every entry.
func (t *TransTable) Clear() {
	t.entries = make(map[ttKey]ttEntry)
}

// Len returns the number of cached entries.
func (t *TransTable) Len() int { return len(t.entries) }
