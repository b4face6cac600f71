package evaluator

import (
	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
)

// LocalInfo scopes a feasibility re-check to the components a search
// operator actually touched, so LocalSearch can avoid re-deriving every
// component's response time after a small tweak. It delegates to exactly
// the same check functions Check uses — Dirty only narrows which
// component indices the caller is told to re-inspect, never which
// function computes them — so Evaluate is observably equivalent to
// calling Check on the whole solution.
type LocalInfo struct {
	Dirty []int
}

// NewLocalInfo scopes the recheck to the given component indices.
func NewLocalInfo(dirty ...int) *LocalInfo {
	return &LocalInfo{Dirty: dirty}
}

// Evaluate runs the full feasibility chain (global invariants such as
// monotonicity and memory cannot be decided from a subset of components
// in general) and returns the same Report Check would, plus the response
// times of just the dirty components for the caller's bookkeeping.
func (li *LocalInfo) Evaluate(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table) (*Report, []float64) {
	report := Check(sys, sol, table)

	dirtyTimes := make([]float64, len(li.Dirty))
	if report.CompTimes != nil {
		for i, c := range li.Dirty {
			dirtyTimes[i] = report.CompTimes[c]
		}
	}
	return report, dirtyTimes
}
