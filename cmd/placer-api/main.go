// Command placer-api serves the placement run HTTP API backed by a SQLite
// run-history database, following the teacher's analytics-server command.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/dagplacer/space4ai-placer/internal/api"
	"github.com/dagplacer/space4ai-placer/internal/store"
)

func main() {
	var (
		dbPath = flag.String("db", "placer.db", "Path to SQLite database file")
		port   = flag.String("port", "8080", "Port to run API server on")
	)
	flag.Parse()

	dbDir := filepath.Dir(*dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	log.Printf("Connecting to database at %s", *dbPath)
	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := store.NewRepository(db)

	log.Printf("Starting placer API server on port %s", *port)
	server := api.NewServer(repo, *port)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
