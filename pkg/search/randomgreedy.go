package search

import (
	"log"
	"math/rand"
	"sync"

	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

const (
	fixedInitialSeed = int64(121298)
	seedAddingFactor = int64(1000)
)

// RandomGreedyConfig controls a multi-start construction run.
type RandomGreedyConfig struct {
	MaxIterations   int
	NumTopSolutions int
	Reproducible    bool
	Parallel        int // number of worker goroutines; <=1 runs sequentially

	// FixedResources, when non-nil, puts every trial in runtime mode: any
	// Edge/VM resource it marks is treated as already committed from a
	// prior solution. Every computational layer it represents is locked
	// to that resource instead of being re-rolled at random.
	FixedResources *FixedResources
}

// RandomGreedyOutcome is the result of a full multi-start run: the bounded
// elite set, and — for every feasible trial — the SelectedResources it used,
// keyed by the trial's solution pointer (consumed by the SearchDriver to
// seed LocalSearch for each elite seed).
type RandomGreedyOutcome struct {
	Elite     *EliteResult
	Selection map[*solution.SolutionData]*SelectedResources
}

// RandomGreedy runs cfg.MaxIterations independent randomized construction
// trials and returns the cfg.NumTopSolutions cheapest feasible ones.
// Trials are deterministic under cfg.Reproducible: trial i always seeds its
// RNG with fixedInitialSeed + (i+1)*seedAddingFactor, so rerunning with the
// same configuration reproduces the same elite set regardless of how many
// workers ran concurrently.
func RandomGreedy(sys *sysmodel.SystemData, table *performance.Table, cfg RandomGreedyConfig) *RandomGreedyOutcome {
	elite := NewEliteResult(cfg.NumTopSolutions)
	selection := make(map[*solution.SolutionData]*SelectedResources)
	var selMu sync.Mutex

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
			for it := range jobs {
				sol, sel, cost, feasible := randomGreedyTrial(sys, table, it, cfg.Reproducible, cfg.FixedResources)
				if !feasible {
					continue
				}
				elite.Add(Result{Solution: sol, Cost: cost})
				selMu.Lock()
				selection[sol] = sel
				selMu.Unlock()
			}
		}()
	}
	for it := 0; it < cfg.MaxIterations; it++ {
		jobs <- it
	}
	close(jobs)
	wg.Wait()

	return &RandomGreedyOutcome{Elite: elite, Selection: selection}
}

func randomGreedyTrial(sys *sysmodel.SystemData, table *performance.Table, trial int, reproducible bool, fixed *FixedResources) (*solution.SolutionData, *SelectedResources, float64, bool) {
	state := Fresh
	var rng *rand.Rand
	if reproducible {
		rng = rand.New(rand.NewSource(fixedInitialSeed + int64(trial+1)*seedAddingFactor))
	} else {
		rng = rand.New(rand.NewSource(fixedInitialSeed ^ int64(trial)))
	}

	sol, sel := createRandomInitialSolution(sys, rng, fixed)
	state = PlacementDone

	report := evaluator.Check(sys, sol, table)
	if !report.Feasible {
		state = Infeasible
		log.Printf("search: random greedy trial %d: %s (%v)", trial, state, report.Violation)
		return nil, nil, 0, false
	}
	state = Feasible

	preShrink := sol
	sol = shrinkClusterSizes(sys, sol, table)
	state = Shrunk

	final := evaluator.Check(sys, sol, table)
	if !final.Feasible {
		// Shrinking should only ever preserve or improve feasibility; a
		// regression here means a logic error upstream, so fall back to
		// the pre-shrink feasible solution rather than lose the trial.
		sol, final = preShrink, report
	}
	state = Submitted
	log.Printf("search: random greedy trial %d: %s, cost=%.4f", trial, state, final.Cost)

	return sol, sel, final.Cost, true
}

// createRandomInitialSolution builds one random feasible-attempt placement:
// pick one candidate resource per computational layer, then for every
// component pick a random deployment and, for each of its partitions, a
// random resource from the candidate set — Edge/VM restricted to the
// layer picks, FaaS weighted 50/50 against Edge/VM when both are viable,
// mirroring LocalSearch's change_deployment operator. Finally it samples
// one shared cluster size per committed Edge/VM resource.
//
// In runtime mode (fixed != nil), the Edge candidate set is pre-set to
// exactly fixed's Edge set — no new Edge resource is ever candidate-picked
// at random, so every resulting solution's Edge usage is a subset of it.
// VM candidates are pre-set to fixed's previously selected VMs, but a
// computational layer not already represented there still gets a fresh
// random VM pick; only an already-represented layer is forbidden a new one.
func createRandomInitialSolution(sys *sysmodel.SystemData, rng *rand.Rand, fixed *FixedResources) (*solution.SolutionData, *SelectedResources) {
	sol := solution.New(sys)
	sel := NewSelectedResources(sys.NumberResources(typemodel.Edge), sys.NumberResources(typemodel.VM))

	// Runtime mode's Edge lock-in: the candidate Edge set is pre-set to
	// exactly the fixed Edge set, full stop — every produced solution's
	// Edge usage stays a subset of it, no new Edge resource is ever
	// candidate-picked at random.
	if fixed != nil {
		for res, ok := range fixed.Edge() {
			if ok {
				sel.Select(typemodel.Edge, res)
			}
		}
	} else {
		for _, cl := range sys.Layers(typemodel.Edge) {
			if len(cl.ResIndices) == 0 {
				continue
			}
			pick := cl.ResIndices[rng.Intn(len(cl.ResIndices))]
			sel.Select(typemodel.Edge, pick)
		}
	}

	// VMs are pre-set to the previously selected set, but a computational
	// layer not already represented there still gets a fresh random pick
	// — only already-represented layers are forbidden a new VM pick.
	for _, cl := range sys.Layers(typemodel.VM) {
		if len(cl.ResIndices) == 0 {
			continue
		}

		represented := false
		if fixed != nil {
			for _, res := range cl.ResIndices {
				if fixed.Selected(typemodel.VM, res) {
					sel.Select(typemodel.VM, res)
					represented = true
				}
			}
		}
		if represented {
			continue
		}

		pick := cl.ResIndices[rng.Intn(len(cl.ResIndices))]
		sel.Select(typemodel.VM, pick)
	}

	for c := 0; c < sys.NumComponents(); c++ {
		comp := sys.Component(c)
		dep := comp.Deployments[rng.Intn(len(comp.Deployments))]

		for _, part := range dep.PartitionIndices {
			type candidate struct {
				kind typemodel.Kind
				res  int
			}
			var edgeVM []candidate
			for _, kind := range []typemodel.Kind{typemodel.Edge, typemodel.VM} {
				for res := 0; res < sys.NumberResources(kind); res++ {
					if sel.Selected(kind, res) && sys.Compatibility().Allowed(c, part, kind, res) {
						edgeVM = append(edgeVM, candidate{kind, res})
					}
				}
			}

			var faas []candidate
			faasProb := 1.0
			if len(edgeVM) > 0 {
				faasProb = 0.5
			}
			for res := 0; res < sys.NumberResources(typemodel.FaaS); res++ {
				if rng.Float64() < faasProb && sys.Compatibility().Allowed(c, part, typemodel.FaaS, res) {
					faas = append(faas, candidate{typemodel.FaaS, res})
				}
			}

			// When edgeVM is empty, faasProb is 1 so every compatible FaaS
			// resource is included deterministically — candidates is only
			// empty if no FaaS resource is compatible and none of the
			// partition's compatible Edge/VM resources was selected. The
			// partition is then left unassigned, and the trial fails the
			// feasibility check as an incomplete assignment.
			candidates := append(edgeVM, faas...)
			if len(candidates) == 0 {
				continue
			}
			chosen := candidates[rng.Intn(len(candidates))]
			sol.Assign(c, part, chosen.kind, chosen.res, 1)
		}
	}

	alreadySized := map[typemodel.Kind]map[int]bool{
		typemodel.Edge: {},
		typemodel.VM:   {},
	}
	for c := 0; c < sys.NumComponents(); c++ {
		for _, pl := range sol.UsedResources(c) {
			if pl.Kind != typemodel.Edge && pl.Kind != typemodel.VM {
				continue
			}
			if alreadySized[pl.Kind][pl.ResIdx] {
				sol.Assign(c, pl.PartIdx, pl.Kind, pl.ResIdx, sol.NUsed(pl.Kind, pl.ResIdx))
				continue
			}
			avail := sys.AllResources().NumberAvail(pl.Kind, pl.ResIdx)
			replicas := 1 + rng.Intn(avail)
			sol.Assign(c, pl.PartIdx, pl.Kind, pl.ResIdx, replicas)
			alreadySized[pl.Kind][pl.ResIdx] = true
		}
	}

	return sol, sel
}

// shrinkClusterSizes repeatedly decrements the cluster size of every
// multi-replica Edge/VM resource by one as long as the solution remains
// feasible, mirroring reduce_cluster_size's do/while loop.
func shrinkClusterSizes(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table) *solution.SolutionData {
	best := sol
	for _, kind := range []typemodel.Kind{typemodel.Edge, typemodel.VM} {
		for res := 0; res < sys.NumberResources(kind); res++ {
			if best.NUsed(kind, res) <= 1 {
				continue
			}
			for {
				n := best.NUsed(kind, res)
				if n <= 1 {
					break
				}
				comp, part, ok := anyPlacementOn(sys, best, kind, res)
				if !ok {
					break
				}
				trial := best.Clone()
				trial.Resize(comp, part, n-1)
				if !evaluator.Check(sys, trial, table).Feasible {
					break
				}
				best = trial
			}
		}
	}
	return best
}

// anyPlacementOn finds one (component, partition) currently placed on
// (kind, res); every such placement shares the same cluster size, so any
// one of them is a valid handle for Resize.
func anyPlacementOn(sys *sysmodel.SystemData, sol *solution.SolutionData, kind typemodel.Kind, res int) (int, int, bool) {
	for c := 0; c < sys.NumComponents(); c++ {
		for _, pl := range sol.UsedResources(c) {
			if pl.Kind == kind && pl.ResIdx == res {
				return c, pl.PartIdx, true
			}
		}
	}
	return 0, 0, false
}
