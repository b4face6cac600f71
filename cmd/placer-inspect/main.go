// Command placer-inspect prints a summary of runs recorded in a placer
// run-history database, adapted from the teacher's root-level check_db.go
// debug utility.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dagplacer/space4ai-placer/internal/store"
)

func main() {
	dbPath := flag.String("db", "placer.db", "Path to SQLite database file")
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := store.NewRepository(db)

	runs, err := repo.ListRuns()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	fmt.Printf("Found %d runs in database:\n\n", len(runs))

	for _, run := range runs {
		fmt.Printf("ID: %s\n", run.ID)
		fmt.Printf("Config: %s\n", run.ConfigPath)
		fmt.Printf("Status: %s\n", run.Status)
		fmt.Printf("Start Time: %s\n", run.StartTime.Format("2006-01-02 15:04:05"))
		if run.EndTime != nil {
			fmt.Printf("End Time: %s\n", run.EndTime.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))

		sols, err := repo.GetEliteSolutions(run.ID)
		if err == nil {
			fmt.Printf("Elite Solutions: %d\n", len(sols))
		}

		trials, err := repo.GetTrialLogs(run.ID, "")
		if err == nil {
			fmt.Printf("Trial Log Entries: %d\n", len(trials))
		}

		fmt.Println("---")
	}
}
