// Package main implements the game API daemon with optional SQLite
// persistence and a db administration mini-app.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simplechess/cmd/simplechess-server/cli"
	"simplechess/internal/service"
	"simplechess/internal/storage"
	"simplechess/internal/transport/http"
)

const gracefulShutdownTimeout = time.Second * 5

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	// Command-line flags
	var (
		host        = flag.String("host", "localhost", "API server host")
		port        = flag.Int("port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed token secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	// Validate PID flags
	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	// Manage PID file if requested
	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// Storage is optional; without it games live in memory only.
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// Game token secret management
	var tokenSecret []byte
	if *dev {
		// Fixed secret in dev mode for testing consistency
		tokenSecret = []byte("dev-secret-minimum-32-characters-long")
		log.Printf("Using fixed token secret (dev mode)")
	} else {
		// Generate cryptographically secure secret
		tokenSecret = make([]byte, 32)
		if _, err := rand.Read(tokenSecret); err != nil {
			log.Fatalf("Failed to generate token secret: %v", err)
		}
		log.Printf("Token secret generated (game tokens valid until restart)")
	}

	// The service owns the store from here on and closes it on shutdown.
	svc := service.New(store, tokenSecret)
	app := http.NewFiberApp(svc, *dev)

	addr := fmt.Sprintf("%s:%d", *host, *port)

	// Start API server in a goroutine
	go func() {
		log.Printf("Chess API server starting...")
		log.Printf("Listening on: http://%s", addr)
		if *dev {
			log.Printf("Rate limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate limit: 10 requests/second per IP")
		}
		if *storagePath != "" {
			log.Printf("Storage: enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: disabled")
		}
		log.Printf("Endpoints: http://%s/api/v1/games", addr)
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown of HTTP server with timeout
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Closing the service drains the storage write queue.
	if err := svc.Close(); err != nil {
		log.Printf("Service close error: %v", err)
	}

	log.Println("Server exited")
}
