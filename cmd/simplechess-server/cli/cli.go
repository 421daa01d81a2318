// Package cli implements the db administration mini-app of the server
// binary: schema setup, deletion and game history queries.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"simplechess/internal/storage"
)

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Printf("Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Printf("Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	moves := fs.Bool("moves", false, "Also list stored moves (requires a specific -gameId)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}
	if *moves && (*gameID == "" || *gameID == "*") {
		return fmt.Errorf("-moves requires a specific -gameId")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tLevel\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 64))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%d\t%s\n",
			g.GameID,
			g.Level,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nFound %d game(s)\n", len(games))

	if !*moves {
		return nil
	}

	records, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("move query failed: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("\nNo moves recorded")
		return nil
	}

	fmt.Println()
	mw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(mw, "#\tMove\tMover\tCaptured\tTime")
	fmt.Fprintln(mw, strings.Repeat("-", 48))

	for _, m := range records {
		captured := m.Captured
		if captured == "" {
			captured = "-"
		}
		fmt.Fprintf(mw, "%d\t%s\t%s\t%s\t%s\n",
			m.MoveNumber,
			m.Move,
			m.Mover,
			captured,
			m.MoveTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	mw.Flush()

	fmt.Printf("\n%d move(s)\n", len(records))
	return nil
}
