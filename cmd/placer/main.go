// Command placer runs Random Greedy construction followed by Local Search
// refinement against a system configuration file and writes the best
// feasible placement found to disk, following the teacher's flag-based
// cmd/main.go entrypoint style.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/ioconfig"
	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/search"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
)

// Exit codes per the driver's I/O contract: 0 on at least one feasible
// solution found, non-zero on no feasible result, invalid arguments, or
// I/O failures.
const (
	exitOK             = 0
	exitInvalidArgs    = 1
	exitIOFailure      = 2
	exitNoFeasibleFound = 3
)

func main() {
	var (
		configPath      = flag.String("config", "", "Path to the system configuration file (JSON, or YAML with a .yaml/.yml extension)")
		outputPath      = flag.String("output", "solution.json", "Path to write the best feasible solution to")
		maxIterations   = flag.Int("max-it", 200, "Number of Random Greedy construction trials")
		numTopSolutions = flag.Int("top", 5, "Size of the elite set to retain")
		localIterations = flag.Int("local-it", 500, "Number of Local Search iterations applied to each elite seed")
		parallel        = flag.Int("parallel", 4, "Number of concurrent Random Greedy and Local Search workers")
		reproducible    = flag.Bool("reproducible", false, "Use deterministic per-trial RNG seeding")
	)
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "placer: -config is required")
		os.Exit(exitInvalidArgs)
	}

	sys, cfg, err := sysmodel.LoadConfigFile(*configPath)
	if err != nil {
		log.Printf("placer: loading config: %v", err)
		os.Exit(exitInvalidArgs)
	}

	table, err := performance.Build(sys, cfg)
	if err != nil {
		log.Printf("placer: building performance table: %v", err)
		os.Exit(exitInvalidArgs)
	}

	driverCfg := search.DriverConfig{
		RandomGreedy: search.RandomGreedyConfig{
			MaxIterations:   *maxIterations,
			NumTopSolutions: *numTopSolutions,
			Reproducible:    *reproducible,
			Parallel:        *parallel,
		},
		LocalSearchIterations: *localIterations,
		Reproducible:          *reproducible,
		Parallel:              *parallel,
	}

	elite := search.SearchDriver(sys, table, driverCfg)
	if elite.Size() == 0 {
		log.Printf("placer: no feasible solution found within %d trials", *maxIterations)
		os.Exit(exitNoFeasibleFound)
	}

	best, _ := elite.Get(0)
	report := evaluator.Check(sys, best.Solution, table)
	if err := ioconfig.WriteFile(sys, best.Solution, report, *outputPath); err != nil {
		log.Printf("placer: writing solution: %v", err)
		os.Exit(exitIOFailure)
	}

	log.Printf("placer: best feasible solution cost=%.4f written to %s", best.Cost, *outputPath)
	os.Exit(exitOK)
}
