package core

// Request types

type CreateGameRequest struct {
	Level int `json:"level" validate:"required,min=1,max=3"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,len=4"` // from/to pair, e.g. "e2e4"
}

type LevelRequest struct {
	Level int `json:"level" validate:"required,min=1,max=3"`
}

// Response types

type GameResponse struct {
	GameID        string `json:"gameId"`
	Token         string `json:"token,omitempty"` // only on creation
	Board         string `json:"board"`           // 64 chars, a8 first, '.' for empty
	Turn          string `json:"turn"`            // "w" or "b"
	Level         int    `json:"level"`
	State         string `json:"state"` // "ongoing", "white_wins", "black_wins", "stalemate"
	LastMove      string `json:"lastMove,omitempty"`
	InCheck       bool   `json:"inCheck"`
	WhiteCaptures string `json:"whiteCaptures"` // piece letters in capture order
	BlackCaptures string `json:"blackCaptures"`
}

type MovesResponse struct {
	Moves []string `json:"moves"`
}

type BoardResponse struct {
	Board string `json:"board"`
	ASCII string `json:"ascii"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
