// Package engine implements the chess rules and the search used by the game
// controller: board representation, move generation, legality filtering,
// material evaluation and a fixed-depth alpha-beta search with a
// transposition table.
//
// The board is a flat 64-square array indexed from a8 (0) to h1 (63), ranks
// top to bottom. Castling, en passant and under-promotion are not part of the
// rule set; promotion always yields a queen.
package engine

import "fmt"

// Side identifies a player.
type Side uint8

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "w"
	}
	return "b"
}

// Piece is a case-tagged piece byte: uppercase for White, lowercase for
// Black, zero for an empty square.
type Piece byte

const (
	Empty Piece = 0

	WhitePawn   Piece = 'P'
	WhiteKnight Piece = 'N'
	WhiteBishop Piece = 'B'
	WhiteRook   Piece = 'R'
	WhiteQueen  Piece = 'Q'
	WhiteKing   Piece = 'K'

	BlackPawn   Piece = 'p'
	BlackKnight Piece = 'n'
	BlackBishop Piece = 'b'
	BlackRook   Piece = 'r'
	BlackQueen  Piece = 'q'
	BlackKing   Piece = 'k'
)

// IsWhite reports whether p is a white piece. Empty squares are neither
// white nor black.
func (p Piece) IsWhite() bool { return p >= 'A' && p <= 'Z' }

// IsBlack reports whether p is a black piece.
func (p Piece) IsBlack() bool { return p >= 'a' && p <= 'z' }

// Belongs reports whether p is a piece of side s.
func (p Piece) Belongs(s Side) bool {
	if s == White {
		return p.IsWhite()
	}
	return p.IsBlack()
}

// Kind returns the lowercase piece letter regardless of color, or 0 for
// empty.
func (p Piece) Kind() byte {
	if p.IsWhite() {
		return byte(p) + 'a' - 'A'
	}
	return byte(p)
}

// Piece material values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Value returns the material value of p in centipawns, 0 for empty.
func (p Piece) Value() int {
	switch p.Kind() {
	case 'p':
		return PawnValue
	case 'n':
		return KnightValue
	case 'b':
		return BishopValue
	case 'r':
		return RookValue
	case 'q':
		return QueenValue
	case 'k':
		return KingValue
	}
	return 0
}

// Square indexes the board from a8 (0), across each rank, to h1 (63).
type Square int

// File returns the file index, 0 for the a-file through 7 for the h-file.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank index counted from the top of the board: rank 8 is
// 0, rank 1 is 7.
func (sq Square) Rank() int { return int(sq) >> 3 }

// OnBoard reports whether sq is a valid board index.
func (sq Square) OnBoard() bool { return sq >= 0 && sq < 64 }

// String returns the algebraic name of the square, e.g. "e4".
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '8' - byte(sq.Rank())})
}

// ParseSquare parses an algebraic square name such as "e2".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	return Square(int('8'-s[1])*8 + int(s[0]-'a')), nil
}

// Position is a board plus the side to move. It is copyable by assignment;
// Make and Unmake mutate it in place.
type Position struct {
	Board [64]Piece
	Turn  Side
}

// StartingPosition returns the standard initial position with White to move.
func StartingPosition() *Position {
	p := &Position{Turn: White}
	back := [8]Piece{'r', 'n', 'b', 'q', 'k', 'b', 'n', 'r'}
	for f := 0; f < 8; f++ {
		p.Board[f] = back[f]
		p.Board[8+f] = BlackPawn
		p.Board[48+f] = WhitePawn
		p.Board[56+f] = back[f] + 'A' - 'a'
	}
	return p
}

// FlatBoard returns the 64-character serialization of the board, a8 first,
// with '.' marking empty squares.
func (p *Position) FlatBoard() string {
	out := make([]byte, 64)
	for i, pc := range p.Board {
		if pc == Empty {
			out[i] = '.'
		} else {
			out[i] = byte(pc)
		}
	}
	return string(out)
}

// ParseBoard builds a position from a 64-character flat board string as
// produced by FlatBoard, with '.' (or space) for empty squares, and the side
// to move.
func ParseBoard(flat string, turn Side) (*Position, error) {
	if len(flat) != 64 {
		return nil, fmt.Errorf("board string must be 64 characters, got %d", len(flat))
	}
	p := &Position{Turn: turn}
	for i := 0; i < 64; i++ {
		c := flat[i]
		switch c {
		case '.', ' ':
			continue
		case 'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k':
			p.Board[i] = Piece(c)
		default:
			return nil, fmt.Errorf("invalid piece %q at index %d", c, i)
		}
	}
	return p, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
