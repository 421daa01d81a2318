// Package cli implements the terminal view for local games: command
// parsing, themed board rendering and user-facing messages.
package cli

import (
	"fmt"
	"io"
	"strings"

	"simplechess/internal/core"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdLevel
	CmdMove
	CmdAI
	CmdBoard
	CmdMoves
	CmdCaps
	CmdTheme
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {
		lightBg: "",
		darkBg:  "",
		white:   "",
		black:   "",
		reset:   "",
	},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

type CLI struct {
	output io.Writer
	theme  ColorTheme
}

func New(output io.Writer) *CLI {
	return &CLI{
		output: output,
		theme:  ThemeOff,
	}
}

// Parse turns one input line into a command. Anything that is not a known
// keyword is treated as a move and left to the game to validate.
func (c *CLI) Parse(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "level":
		return &Command{Type: CmdLevel, Args: args}
	case "ai":
		return &Command{Type: CmdAI}
	case "board":
		return &Command{Type: CmdBoard}
	case "moves":
		return &Command{Type: CmdMoves}
	case "caps", "captures":
		return &Command{Type: CmdCaps}
	case "theme", "color":
		return &Command{Type: CmdTheme, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{cmd}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard renders a flat board (a8 first, 0 for empty squares).
func (c *CLI) DisplayBoard(b [64]byte) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := b[r*8+f]

			if c.theme == ThemeOff {
				// No colors, just show piece or space
				if piece == 0 {
					sb.WriteString("  ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", piece))
				}
			} else {
				// Apply theme colors
				bg := theme.darkBg
				if (r+f)%2 == 0 {
					bg = theme.lightBg
				}

				if piece == 0 {
					sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				} else {
					color := theme.black
					if piece >= 'A' && piece <= 'Z' {
						color = theme.white
					}
					sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, piece, theme.reset))
				}
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	c.ShowMessage(sb.String())
}

// ShowMoves prints the legal move list in rows of ten.
func (c *CLI) ShowMoves(moves []string) {
	if len(moves) == 0 {
		c.ShowMessage("No legal moves.")
		return
	}
	c.ShowMessage(fmt.Sprintf("Legal moves (%d):", len(moves)))
	for i := 0; i < len(moves); i += 10 {
		end := i + 10
		if end > len(moves) {
			end = len(moves)
		}
		c.ShowMessage("  " + strings.Join(moves[i:end], " "))
	}
}

// ShowCaptures prints both capture lists as spaced piece letters.
func (c *CLI) ShowCaptures(white, black string) {
	c.ShowMessage(fmt.Sprintf("You captured: %s", formatCaptures(white)))
	c.ShowMessage(fmt.Sprintf("AI captured:  %s", formatCaptures(black)))
}

func formatCaptures(caps string) string {
	if caps == "" {
		return "(none)"
	}
	return strings.Join(strings.Split(caps, ""), " ")
}

func (c *CLI) ShowThinking(level core.Level) {
	c.ShowMessage(fmt.Sprintf("AI is thinking (%s)...", level))
}

func (c *CLI) ShowAIMove(move string) {
	c.ShowMessage(fmt.Sprintf("AI plays: %s", move))
}

func (c *CLI) ShowCheck() {
	c.ShowMessage("Check!")
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", state))
	c.ShowMessage("Start a new game with 'new'.")
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [level]      - Start a new game (level: 1-3 or easy|medium|hard)
  level <1-3>      - Change difficulty mid-game (clears engine memory)
  <move>           - Make a move (e.g., e2e4); the AI replies
  ai               - Make the engine move for the side to move
  board            - Redraw the board
  moves            - List legal moves
  caps             - Show captured pieces
  theme <name>     - Set board color theme (off|brown|green|gray)
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new [level], level <1-3>, <move>, ai, board, moves, caps, theme, help/?, quit/exit")
	c.ShowMessage("Moves use from-to squares, e.g. 'e2e4'. The AI answers automatically.")
	c.ShowMessage("")
}
