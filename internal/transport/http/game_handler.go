package http

import (
	"errors"
	"fmt"
	"strings"

	"simplechess/internal/core"
	"simplechess/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGame creates a new game at the requested difficulty and issues its
// bearer token.
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	req := *(validatedBody.(*core.CreateGameRequest))

	snap, token, err := h.svc.CreateGame(core.Level(req.Level))
	if err != nil {
		return serviceError(c, err)
	}

	resp := gameResponse(snap)
	resp.Token = token // returned once; clients must keep it

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetGame retrieves current game state
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	snap, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(gameResponse(snap))
}

// GetMoves lists the legal moves for the side to move.
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	moves, err := h.svc.LegalMoves(gameID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(core.MovesResponse{Moves: moves})
}

// MakeMove submits a move for the side to move.
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	req := *(validatedBody.(*core.MoveRequest))

	snap, err := h.svc.PlayerMove(gameID, req.Move)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(gameResponse(snap))
}

// AIMove runs the engine for the side to move and returns the updated state.
// The search blocks this request; other games are served concurrently.
func (h *HTTPHandler) AIMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	snap, _, err := h.svc.AIMove(gameID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(gameResponse(snap))
}

// SetLevel changes a game's difficulty mid-game.
func (h *HTTPHandler) SetLevel(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	// Ensure middleware validation ran
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	// Retrieve validated parsed body
	validatedBody := c.Locals("validatedBody")
	if validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	req := *(validatedBody.(*core.LevelRequest))

	snap, err := h.svc.SetLevel(gameID, core.Level(req.Level))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(gameResponse(snap))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if err := h.svc.DeleteGame(gameID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns the flat board plus an ASCII rendering.
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	snap, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(core.BoardResponse{
		Board: snap.Board,
		ASCII: asciiBoard(snap.Board),
	})
}

// Helper: map service errors to HTTP responses with stable error codes.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	case errors.Is(err, service.ErrInvalidMove):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid move",
			Code:    core.ErrInvalidMove,
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidLevel):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid level",
			Code:    core.ErrInvalidLevel,
			Details: "level must be 1 (easy), 2 (medium) or 3 (hard)",
		})
	case errors.Is(err, service.ErrGameOver):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "game is over",
			Code:    core.ErrGameOver,
			Details: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error:   "internal server error",
			Code:    core.ErrInternalError,
			Details: err.Error(),
		})
	}
}

// Helper: shared 400 for malformed game IDs.
func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// Helper: convert a service snapshot to the wire shape.
func gameResponse(s service.Snapshot) core.GameResponse {
	return core.GameResponse{
		GameID:        s.GameID,
		Board:         s.Board,
		Turn:          s.Turn,
		Level:         int(s.Level),
		State:         s.State.Code(),
		LastMove:      s.LastMove,
		InCheck:       s.InCheck,
		WhiteCaptures: s.WhiteCaptures,
		BlackCaptures: s.BlackCaptures,
	}
}

// Helper: render the flat board with file and rank labels.
func asciiBoard(board string) string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			sb.WriteByte(board[r*8+f])
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
