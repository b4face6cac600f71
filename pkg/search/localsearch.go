package search

import (
	"math/rand"

	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// LocalSearch explores the neighbourhood of an initial feasible solution
// with three operators, applied in fixed order every iteration:
// migrate_vm_to_edge, migrate_faas_to_vm, change_deployment. The first two
// accept any feasibility-preserving move that does not raise the cost
// (equal cost is accepted); the third requires a strict cost improvement.
//
// Deviation from the original: migration_tweaking there explicitly skips
// the colocation check (recorded as a TODO in the original source,
// "ASK ARDAGNA"). This implementation always checks colocation, since the
// contract this module honours treats it as an invariant that must hold
// after every accepted operator, not only after change_deployment.
type LocalSearch struct {
	sys       *sysmodel.SystemData
	table     *performance.Table
	selection *SelectedResources
	rng       *rand.Rand

	best *solution.SolutionData
	cost float64

	VMToEdgeCount        int
	FaaSToVMCount        int
	ChangeDeploymentCount int
}

// NewLocalSearch seeds a search from an initial feasible solution.
func NewLocalSearch(sys *sysmodel.SystemData, table *performance.Table, sel *SelectedResources, initial *solution.SolutionData, initialCost float64, reproducible bool, seed int64) *LocalSearch {
	var rng *rand.Rand
	if reproducible {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(seed ^ 0x5bd1e995))
	}
	return &LocalSearch{sys: sys, table: table, selection: sel, rng: rng, best: initial, cost: initialCost}
}

// Run performs maxIt iterations and returns the best solution found.
func (ls *LocalSearch) Run(maxIt int) (*solution.SolutionData, float64) {
	for it := 0; it < maxIt; it++ {
		ls.migrateVMToEdge()
		ls.migrateFaaSToVM()
		ls.changeDeployment()
	}
	return ls.best, ls.cost
}

// migrateVMToEdge scans one random component's placement chain and tries
// to move every VM partition found before the first FaaS partition onto a
// selected Edge resource.
func (ls *LocalSearch) migrateVMToEdge() {
	comp := ls.rng.Intn(ls.sys.NumComponents())
	placements := ls.best.UsedResources(comp)

	for _, pl := range placements {
		if pl.Kind == typemodel.FaaS {
			return
		}
		if pl.Kind == typemodel.VM {
			if ls.migrationTweak(comp, pl.PartIdx, typemodel.Edge, ls.selection.Edge()) {
				ls.VMToEdgeCount++
			}
		}
	}
}

// migrateFaaSToVM scans one random component's placement chain and tries
// to move every FaaS partition onto a selected VM resource.
func (ls *LocalSearch) migrateFaaSToVM() {
	comp := ls.rng.Intn(ls.sys.NumComponents())
	placements := ls.best.UsedResources(comp)

	for _, pl := range placements {
		if pl.Kind == typemodel.FaaS {
			if ls.migrationTweak(comp, pl.PartIdx, typemodel.VM, ls.selection.VMs()) {
				ls.FaaSToVMCount++
			}
		}
	}
}

// migrationTweak tries to move (comp, part) onto one random resource drawn
// from the intersection of newKind-compatible and selected resources.
// Accepted when the result is feasible and costs no more than the current
// best; an equal-cost move is accepted.
func (ls *LocalSearch) migrationTweak(comp, part int, newKind typemodel.Kind, selected []bool) bool {
	var candidates []int
	for res, ok := range selected {
		if ok && ls.sys.Compatibility().Allowed(comp, part, newKind, res) {
			candidates = append(candidates, res)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	newRes := candidates[ls.rng.Intn(len(candidates))]

	trial := ls.best.Clone()
	replicas := 1
	if newKind.HasReplicas() {
		if n := trial.NUsed(newKind, newRes); n > 0 {
			replicas = n
		}
	}
	trial.Assign(comp, part, newKind, newRes, replicas)

	report := evaluator.Check(ls.sys, trial, ls.table)
	if !report.Feasible || report.Cost > ls.cost {
		return false
	}

	ls.best = trial
	ls.cost = report.Cost
	return true
}

// changeDeployment picks a random component and a random deployment other
// than its current one, reassigns every partition of the new deployment to
// a candidate resource (Edge/VM restricted to the selection, FaaS weighted
// 50/50 against Edge/VM when both are viable), and accepts the move only
// if it is feasible and strictly cheaper than the current best.
func (ls *LocalSearch) changeDeployment() {
	comp := ls.rng.Intn(ls.sys.NumComponents())
	component := ls.sys.Component(comp)
	if len(component.Deployments) < 2 {
		return
	}

	current := ls.best.UsedResources(comp)
	depIdx := ls.rng.Intn(len(component.Deployments))
	if len(current) > 0 && len(component.Deployments[depIdx].PartitionIndices) > 0 &&
		component.Deployments[depIdx].PartitionIndices[0] == current[0].PartIdx {
		depIdx = (depIdx + 1) % len(component.Deployments)
	}
	dep := component.Deployments[depIdx]

	trial := ls.best.Clone()
	for _, pl := range current {
		trial.Unassign(comp, pl.PartIdx)
	}

	for _, part := range dep.PartitionIndices {
		type candidate struct {
			kind typemodel.Kind
			res  int
		}
		var edgeVM []candidate
		for _, kind := range []typemodel.Kind{typemodel.Edge, typemodel.VM} {
			selected := ls.selection.Edge()
			if kind == typemodel.VM {
				selected = ls.selection.VMs()
			}
			for res, ok := range selected {
				if ok && ls.sys.Compatibility().Allowed(comp, part, kind, res) {
					edgeVM = append(edgeVM, candidate{kind, res})
				}
			}
		}

		var faas []candidate
		faasProb := 1.0
		if len(edgeVM) > 0 {
			faasProb = 0.5
		}
		for res := 0; res < ls.sys.NumberResources(typemodel.FaaS); res++ {
			if ls.rng.Float64() < faasProb && ls.sys.Compatibility().Allowed(comp, part, typemodel.FaaS, res) {
				faas = append(faas, candidate{typemodel.FaaS, res})
			}
		}

		candidates := append(edgeVM, faas...)
		if len(candidates) == 0 {
			return // dead end: leave best untouched
		}
		chosen := candidates[ls.rng.Intn(len(candidates))]

		replicas := 1
		if chosen.kind.HasReplicas() {
			if n := trial.NUsed(chosen.kind, chosen.res); n > 0 {
				replicas = n
			}
		}
		trial.Assign(comp, part, chosen.kind, chosen.res, replicas)
	}

	report := evaluator.Check(ls.sys, trial, ls.table)
	if report.Feasible && report.Cost < ls.cost {
		ls.best = trial
		ls.cost = report.Cost
		ls.ChangeDeploymentCount++
	}
}
