// Package core holds the shared vocabulary of the module: difficulty levels,
// game lifecycle states, API request/response types and error codes.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Level selects the engine difficulty. It controls search depth and blunder
// probability inside the game package.
type Level int

const (
	LevelEasy Level = iota + 1
	LevelMedium
	LevelHard
)

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool { return l >= LevelEasy && l <= LevelHard }

func (l Level) String() string {
	switch l {
	case LevelEasy:
		return "easy"
	case LevelMedium:
		return "medium"
	case LevelHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseLevel accepts a level number ("1".."3") or name ("easy", "medium",
// "hard").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return LevelEasy, nil
	case "medium":
		return LevelMedium, nil
	case "hard":
		return LevelHard, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Level(n).Valid() {
		return 0, fmt.Errorf("invalid level %q (want 1-3 or easy/medium/hard)", s)
	}
	return Level(n), nil
}

// State is the lifecycle state of a game.
type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "White wins"
	case StateBlackWins:
		return "Black wins"
	case StateStalemate:
		return "Stalemate"
	default:
		return "Ongoing"
	}
}

// Code returns the wire form of the state used in API responses.
func (s State) Code() string {
	switch s {
	case StateWhiteWins:
		return "white_wins"
	case StateBlackWins:
		return "black_wins"
	case StateStalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Over reports whether the game has ended.
func (s State) Over() bool { return s != StateOngoing }
