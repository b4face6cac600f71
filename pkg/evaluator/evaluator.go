package evaluator

import (
	"errors"
	"math"

	"github.com/dagplacer/space4ai-placer/pkg/performance"
	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// Report is the outcome of a full feasibility check: the response time of
// every component, the response time of every global path, and — only if
// Feasible — the total cost.
type Report struct {
	Feasible   bool
	Violation  error
	CompTimes  []float64
	PathTimes  []float64
	Cost       float64
}

// Check runs the full feasibility chain in the same order as the original
// implementation: assignment sanity, colocation, memory, monotonicity,
// local constraints, global constraints. It stops at the first violation,
// matching check_feasibility's early-exit behaviour.
func Check(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table) *Report {
	if err := checkAssignments(sys, sol); err != nil {
		return &Report{Violation: err}
	}
	if err := checkColocation(sys, sol); err != nil {
		return &Report{Violation: err}
	}
	if err := checkMemory(sys, sol); err != nil {
		return &Report{Violation: err}
	}
	if err := checkMonotonicity(sys, sol); err != nil {
		return &Report{Violation: err}
	}

	compTimes, err := checkLocalConstraints(sys, sol, table)
	if err != nil {
		return &Report{Violation: err, CompTimes: compTimes}
	}

	pathTimes, err := checkGlobalConstraints(sys, sol, compTimes)
	if err != nil {
		return &Report{Violation: err, CompTimes: compTimes, PathTimes: pathTimes}
	}

	return &Report{
		Feasible:  true,
		CompTimes: compTimes,
		PathTimes: pathTimes,
		Cost:      Cost(sys, sol, table),
	}
}

// checkAssignments verifies every placement is compatible, every
// resource's committed replica count does not exceed what is available,
// and each component's placements cover exactly the partitions of one of
// its deployments.
func checkAssignments(sys *sysmodel.SystemData, sol *solution.SolutionData) error {
	for c := 0; c < sys.NumComponents(); c++ {
		seen := make(map[int]bool)
		for _, pl := range sol.UsedResources(c) {
			if seen[pl.PartIdx] {
				return &InvalidAssignment{Comp: c, Part: pl.PartIdx, Reason: "assigned more than once"}
			}
			seen[pl.PartIdx] = true

			if !sys.Compatibility().Allowed(c, pl.PartIdx, pl.Kind, pl.ResIdx) {
				return &CompatibilityViolation{Comp: c, Part: pl.PartIdx}
			}

			y := sol.YHat(c, pl.PartIdx, pl.Kind, pl.ResIdx)
			if y > sys.AllResources().NumberAvail(pl.Kind, pl.ResIdx) {
				return &InvalidAssignment{Comp: c, Part: pl.PartIdx, Reason: "cluster size exceeds available replicas"}
			}
		}
		complete := false
		for _, dep := range sys.Component(c).Deployments {
			if len(dep.PartitionIndices) != len(seen) {
				continue
			}
			complete = true
			for _, p := range dep.PartitionIndices {
				if !seen[p] {
					complete = false
					break
				}
			}
			if complete {
				break
			}
		}
		if !complete {
			return &InvalidAssignment{Comp: c, Part: -1, Reason: "not every partition of one deployment is assigned"}
		}
	}
	return nil
}

// checkColocation verifies that resources marked AllowColocation=false host
// at most one partition across the whole solution.
func checkColocation(sys *sysmodel.SystemData, sol *solution.SolutionData) error {
	for _, kind := range []typemodel.Kind{typemodel.Edge, typemodel.VM} {
		for res := 0; res < sys.NumberResources(kind); res++ {
			if sys.AllResources().Resource(kind, res).AllowColocation {
				continue
			}
			count := 0
			for c := 0; c < sys.NumComponents(); c++ {
				for _, pl := range sol.UsedResources(c) {
					if pl.Kind == kind && pl.ResIdx == res {
						count++
						if count > 1 {
							return &ColocationViolation{Comp: c, Part: pl.PartIdx}
						}
					}
				}
			}
		}
	}
	return nil
}

// checkMemory verifies the sum of partition memory footprints on each
// resource does not exceed its capacity (scaled by cluster size for
// Edge/VM; FaaS capacity is per-instance).
func checkMemory(sys *sysmodel.SystemData, sol *solution.SolutionData) error {
	for _, kind := range typemodel.Kinds() {
		occupied := make([]float64, sys.NumberResources(kind))
		for c := 0; c < sys.NumComponents(); c++ {
			for _, pl := range sol.UsedResources(c) {
				if pl.Kind != kind {
					continue
				}
				occupied[pl.ResIdx] += sys.Component(c).Partition(pl.PartIdx).Memory
			}
		}
		for res, used := range occupied {
			if used == 0 {
				continue
			}
			r := sys.AllResources().Resource(kind, res)
			capacity := r.Memory
			if kind != typemodel.FaaS {
				capacity = float64(sol.NUsed(kind, res)) * r.Memory
			}
			if used > capacity {
				return &MemoryViolation{Used: used, Capacity: capacity}
			}
		}
	}
	return nil
}

// checkMonotonicity verifies that, within each component, no partition
// placed on Edge has a higher chain index than a partition already moved
// to VM or FaaS (spec: placements cannot move back toward Edge).
func checkMonotonicity(sys *sysmodel.SystemData, sol *solution.SolutionData) error {
	for c := 0; c < sys.NumComponents(); c++ {
		maxEdgeIdx := -1
		minCloudFaaSIdx := math.MaxInt32
		for _, pl := range sol.UsedResources(c) {
			switch pl.Kind {
			case typemodel.Edge:
				if pl.PartIdx > maxEdgeIdx {
					maxEdgeIdx = pl.PartIdx
				}
			case typemodel.VM, typemodel.FaaS:
				if pl.PartIdx < minCloudFaaSIdx {
					minCloudFaaSIdx = pl.PartIdx
				}
			}
		}
		if maxEdgeIdx >= 0 && minCloudFaaSIdx < math.MaxInt32 && maxEdgeIdx > minCloudFaaSIdx {
			return &MonotonicityViolation{Comp: c}
		}
	}
	return nil
}

// componentResponseTime sums the predicted response time of every
// partition in a component's used-resources chain, plus the network delay
// incurred whenever two consecutive partitions land on different
// resources.
func componentResponseTime(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table, comp int) (float64, error) {
	placements := sol.UsedResources(comp)
	var total float64
	for i, pl := range placements {
		rt, err := performance.Predict(sys, sol, table, comp, pl.PartIdx, pl.Kind, pl.ResIdx)
		if err != nil {
			var over *performance.ErrOverUtilized
			if errors.As(err, &over) {
				return 0, &UtilisationOverload{U: over.U}
			}
			return 0, err
		}
		total += rt

		if i+1 < len(placements) {
			next := placements[i+1]
			if next.Kind != pl.Kind || next.ResIdx != pl.ResIdx {
				dataSize := sys.Component(comp).Partition(pl.PartIdx).DataSize
				delay, err := sys.NetworkDelay(pl.Kind, pl.ResIdx, next.Kind, next.ResIdx, dataSize)
				if err != nil {
					return 0, err
				}
				total += delay
			}
		}
	}
	return total, nil
}

// checkLocalConstraints computes every component's response time and
// verifies it against its local constraint.
func checkLocalConstraints(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table) ([]float64, error) {
	times := make([]float64, sys.NumComponents())
	for c := range times {
		rt, err := componentResponseTime(sys, sol, table, c)
		if err != nil {
			return times, err
		}
		times[c] = rt

		lc := sys.LocalConstraint(c)
		if rt > lc.MaxResTime {
			return times, &LocalResponseViolation{Comp: c, ResTime: rt, MaxResTime: lc.MaxResTime}
		}
	}
	return times, nil
}

// checkGlobalConstraints sums the precomputed component response times
// along each named path, adding the network delay between components that
// land on different resources, and verifies the sum against the path's
// global constraint.
func checkGlobalConstraints(sys *sysmodel.SystemData, sol *solution.SolutionData, compTimes []float64) ([]float64, error) {
	gcs := sys.GlobalConstraints()
	times := make([]float64, len(gcs))

	for i, gc := range gcs {
		var sum float64
		for j, c := range gc.CompIdxs {
			sum += compTimes[c]

			if j+1 < len(gc.CompIdxs) {
				next := gc.CompIdxs[j+1]
				last := sol.UsedResources(c)
				first := sol.UsedResources(next)
				if len(last) == 0 || len(first) == 0 {
					continue
				}
				lp := last[len(last)-1]
				fp := first[0]
				if lp.Kind != fp.Kind || lp.ResIdx != fp.ResIdx {
					dataSize := sys.Component(c).Partition(lp.PartIdx).DataSize
					delay, err := sys.NetworkDelay(lp.Kind, lp.ResIdx, fp.Kind, fp.ResIdx, dataSize)
					if err != nil {
						return times, err
					}
					sum += delay
				}
			}
		}
		times[i] = sum

		if sum > gc.MaxResTime {
			return times, &GlobalResponseViolation{PathName: gc.PathName, ResTime: sum, MaxResTime: gc.MaxResTime}
		}
	}
	return times, nil
}

// Cost computes the total deployment cost: for Edge/VM, cluster_size *
// unit_cost, counted once per resource regardless of how many partitions
// colocate on it; for FaaS, unit_cost * warm_demand * part_lambda * the
// billing horizon (spec §3/§6 Time).
func Cost(sys *sysmodel.SystemData, sol *solution.SolutionData, table *performance.Table) float64 {
	done := make(map[typemodel.Kind]map[int]bool)
	for _, k := range typemodel.Kinds() {
		done[k] = make(map[int]bool)
	}

	var total float64
	for c := 0; c < sys.NumComponents(); c++ {
		for _, pl := range sol.UsedResources(c) {
			if done[pl.Kind][pl.ResIdx] {
				continue
			}
			done[pl.Kind][pl.ResIdx] = true

			r := sys.AllResources().Resource(pl.Kind, pl.ResIdx)
			switch pl.Kind {
			case typemodel.Edge, typemodel.VM:
				total += float64(sol.YHat(c, pl.PartIdx, pl.Kind, pl.ResIdx)) * r.Cost
			case typemodel.FaaS:
				m := table.Get(c, pl.PartIdx, pl.Kind, pl.ResIdx)
				partLambda := sys.Component(c).Partition(pl.PartIdx).PartLambda
				total += r.Cost * m.DemandWarm * partLambda * sys.Time()
			}
		}
	}
	return total
}
