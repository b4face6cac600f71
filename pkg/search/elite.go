// Package search implements the Random Greedy multi-start constructor and
// the Local Search refinement pass described by the original RandomGreedyDT
// and LocalSearch algorithms, plus the EliteResult top-K container and the
// SearchDriver that orchestrates them.
package search

import (
	"log"
	"sort"
	"sync"

	"github.com/dagplacer/space4ai-placer/pkg/solution"
)

// Result pairs a feasible SolutionData with its total cost, the unit
// EliteResult sorts and bounds by.
type Result struct {
	Solution *solution.SolutionData
	Cost     float64
}

// EliteResult keeps the best MaxSolutions results seen so far, sorted
// ascending by cost, thread-safe for concurrent trial submission.
type EliteResult struct {
	mu      sync.Mutex
	max     int
	results []Result
}

// NewEliteResult allocates a container bounded to max solutions.
func NewEliteResult(max int) *EliteResult {
	return &EliteResult{max: max, results: make([]Result, 0, max)}
}

// Add inserts r, keeping the slice sorted by ascending cost and trimmed to
// at most max entries — mirroring EliteResult::add's push-sort-trim.
func (e *EliteResult) Add(r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.results = append(e.results, r)
	sort.SliceStable(e.results, func(i, j int) bool { return e.results[i].Cost < e.results[j].Cost })
	if len(e.results) > e.max {
		e.results = e.results[:e.max]
	}
}

// Size returns the number of solutions currently held.
func (e *EliteResult) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.results)
}

// Get returns the solution of the given rank (0 = best). If rank is beyond
// the number of solutions held, it warns and returns the worst available
// one instead, matching EliteResult::print_solution's behaviour.
func (e *EliteResult) Get(rank int) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.results) == 0 {
		log.Printf("search: EliteResult.Get: no feasible solution present")
		return Result{}, false
	}
	if rank >= len(e.results) {
		log.Printf("search: EliteResult.Get: rank %d bigger than available solutions, returning rank %d", rank, len(e.results)-1)
		rank = len(e.results) - 1
	}
	return e.results[rank], true
}

// All returns every held result, best first. The caller must not mutate
// the returned slice's Solution values.
func (e *EliteResult) All() []Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Result, len(e.results))
	copy(out, e.results)
	return out
}
