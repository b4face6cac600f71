package search

import (
	"sync"

	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
)

// DriverConfig bundles the knobs for a full Random Greedy + Local Search
// run.
type DriverConfig struct {
	RandomGreedy          RandomGreedyConfig
	LocalSearchIterations int
	// LocalSearchTopSolutions bounds the size of the post-refinement elite
	// set. <=0 defaults to cfg.RandomGreedy.NumTopSolutions, so a caller
	// that wants the same K through both phases doesn't need to repeat it.
	LocalSearchTopSolutions int
	Reproducible            bool
	Parallel                int // LocalSearch worker goroutines; <=1 runs sequentially
}

// SearchDriver runs Random Greedy to build an elite set of feasible
// placements, then runs Local Search on every seed in that elite set in
// parallel, merging every refined result into a second, independently
// sized EliteResult — each RandomGreedy seed gets its own refinement pass
// rather than only the single best one.
func SearchDriver(sys *sysmodel.SystemData, table *performance.Table, cfg DriverConfig) *EliteResult {
	outcome := RandomGreedy(sys, table, cfg.RandomGreedy)
	if outcome.Elite.Size() == 0 {
		return outcome.Elite
	}
	if cfg.LocalSearchIterations <= 0 {
		return outcome.Elite
	}

	topK := cfg.LocalSearchTopSolutions
	if topK <= 0 {
		topK = cfg.RandomGreedy.NumTopSolutions
	}
	refinedElite := NewEliteResult(topK)

	seeds := outcome.Elite.All()
	workers := cfg.Parallel
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := seeds[i]
				sel, ok := outcome.Selection[seed.Solution]
				if !ok {
					refinedElite.Add(seed)
					continue
				}
				ls := NewLocalSearch(sys, table, sel, seed.Solution, seed.Cost, cfg.Reproducible, fixedInitialSeed+int64(i+1)*seedAddingFactor)
				refined, refinedCost := ls.Run(cfg.LocalSearchIterations)
				refinedElite.Add(Result{Solution: refined, Cost: refinedCost})
			}
		}()
	}
	for i := range seeds {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return refinedElite
}
