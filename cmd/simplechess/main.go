// Package main implements the interactive terminal game against the engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"simplechess/internal/cli"
	"simplechess/internal/core"
	"simplechess/internal/engine"
	"simplechess/internal/game"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		levelFlag = flag.String("level", "medium", "Difficulty: 1-3 or easy|medium|hard")
		themeFlag = flag.String("theme", "auto", "Board theme: auto|off|brown|green|gray")
	)
	flag.Parse()

	level, err := core.ParseLevel(*levelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -level: %v\n", err)
		os.Exit(1)
	}

	view := cli.New(os.Stdout)
	if err := applyTheme(view, *themeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -theme: %v\n", err)
		os.Exit(1)
	}

	// Initialize readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chess> ",
		HistoryFile:     ".simplechess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	g := game.New(level)

	view.ShowWelcome()
	view.ShowMessage(fmt.Sprintf("New game at level %s. You play white.", g.Level()))
	view.DisplayBoard(g.Board64())

	for {
		rl.SetPrompt(fmt.Sprintf("chess [%s]> ", g.Turn()))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		cmd := view.Parse(line)
		switch cmd.Type {
		case cli.CmdNone:
			continue

		case cli.CmdQuit:
			return

		case cli.CmdHelp:
			view.ShowHelp()

		case cli.CmdNew:
			lvl := g.Level()
			if len(cmd.Args) > 0 {
				parsed, err := core.ParseLevel(cmd.Args[0])
				if err != nil {
					view.ShowError(err)
					continue
				}
				lvl = parsed
			}
			g = game.New(lvl)
			view.ShowMessage(fmt.Sprintf("New game at level %s. You play white.", g.Level()))
			view.DisplayBoard(g.Board64())

		case cli.CmdLevel:
			if len(cmd.Args) == 0 {
				view.ShowMessage(fmt.Sprintf("Current level: %s", g.Level()))
				continue
			}
			lvl, err := core.ParseLevel(cmd.Args[0])
			if err != nil {
				view.ShowError(err)
				continue
			}
			g.SetLevel(lvl)
			view.ShowMessage(fmt.Sprintf("Level set to %s (engine memory cleared).", g.Level()))

		case cli.CmdTheme:
			if len(cmd.Args) == 0 {
				view.ShowMessage(fmt.Sprintf("Current theme: %s", view.Theme()))
				continue
			}
			if err := view.SetTheme(cli.ColorTheme(cmd.Args[0])); err != nil {
				view.ShowError(err)
				continue
			}
			view.DisplayBoard(g.Board64())

		case cli.CmdBoard:
			view.DisplayBoard(g.Board64())

		case cli.CmdMoves:
			view.ShowMoves(g.LegalMoves())

		case cli.CmdCaps:
			view.ShowCaptures(capturesOf(g.WhiteCaptures()), capturesOf(g.BlackCaptures()))

		case cli.CmdAI:
			aiReply(view, g)

		case cli.CmdMove:
			if g.Status().Over() {
				view.ShowGameOver(g.Status())
				continue
			}
			move := cmd.Args[0]
			if !g.PlayerMove(move) {
				view.ShowError(fmt.Errorf("invalid move %q (try 'moves')", move))
				continue
			}
			view.DisplayBoard(g.Board64())
			if g.Status().Over() {
				view.ShowGameOver(g.Status())
				continue
			}
			// The engine answers automatically.
			aiReply(view, g)
		}
	}
}

// aiReply runs the engine for the side to move and reports the outcome.
func aiReply(view *cli.CLI, g *game.Game) {
	if g.Status().Over() {
		view.ShowGameOver(g.Status())
		return
	}

	view.ShowThinking(g.Level())
	move, err := g.AIMove()
	if err != nil {
		view.ShowError(err)
		return
	}

	view.ShowAIMove(move)
	view.DisplayBoard(g.Board64())

	if g.Status().Over() {
		view.ShowGameOver(g.Status())
		return
	}
	if g.InCheck() {
		view.ShowCheck()
	}
}

// applyTheme resolves "auto" against the terminal and applies the theme.
func applyTheme(view *cli.CLI, name string) error {
	theme := cli.ColorTheme(name)
	if name == "auto" {
		theme = cli.ThemeOff
		if term.IsTerminal(int(os.Stdout.Fd())) {
			theme = cli.ThemeBrown
		}
	}
	return view.SetTheme(theme)
}

func capturesOf(caps []engine.Piece) string {
	b := make([]byte, len(caps))
	for i, p := range caps {
		b[i] = byte(p)
	}
	return string(b)
}
