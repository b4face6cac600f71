// Package performance predicts the response time of one (component,
// partition) running on one resource, and aggregates the queueing
// utilization of a resource across every partition colocated on it.
//
// Grounded on src/Performance/PerformanceModels.{hpp,cpp} of the original
// implementation: QTPE (queue-theoretic, Edge/VM) and the two Faas variants
// (Pacsltk dynamic, and a precomputed static demand).
package performance

import (
	"fmt"

	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// ErrOverUtilized signals utilization >= 1 for a resource: the M/M/1
// response-time formula has no finite answer there, and the caller should
// treat the placement as infeasible rather than trust the returned value.
type ErrOverUtilized struct {
	Kind typemodel.Kind
	Res  int
	U    float64
}

func (e *ErrOverUtilized) Error() string {
	return fmt.Sprintf("performance: resource %s/%d utilization %.4f >= 1", e.Kind, e.Res, e.U)
}

// ColdStartPredictor abstracts the FaaS cold-start analytic model (PACSLTK)
// behind an interface boundary, per spec §4.1's note that the embedded
// interpreter concern is out of scope: implementations may compute the
// model in-process or simply look up a precomputed value.
type ColdStartPredictor interface {
	// Predict returns the expected response time for a partition with the
	// given arrival rate, warm/cold demand and platform idle-kill timeout.
	Predict(partLambda, demandWarm, demandCold, idleTimeBeforeKill float64) (float64, error)
}

// AnalyticColdStart implements ColdStartPredictor with the closed-form
// PACSLTK approximation: the probability of a cold start is the fraction of
// the idle-kill window during which the platform has already scaled down,
// modelled as an M/M/1-with-vacations style blend of the warm and cold
// demands.
type AnalyticColdStart struct{}

// Predict computes the blended response time.
func (AnalyticColdStart) Predict(partLambda, demandWarm, demandCold, idleTimeBeforeKill float64) (float64, error) {
	if partLambda <= 0 {
		return demandCold, nil
	}
	// Mean inter-arrival time vs. the idle-kill window determines how often
	// a request finds the platform already scaled to zero.
	interArrival := 1 / partLambda
	pCold := interArrival / (interArrival + idleTimeBeforeKill)
	if pCold > 1 {
		pCold = 1
	}
	return pCold*demandCold + (1-pCold)*demandWarm, nil
}

// StaticColdStart implements ColdStartPredictor by returning a value fixed
// at construction time — used when the Performance config section already
// carries a precomputed per-partition demand (Performance.model ==
// "PACSLTKSTATIC").
type StaticColdStart struct {
	Demand float64
}

// Predict ignores its arguments and returns the precomputed demand.
func (s StaticColdStart) Predict(float64, float64, float64, float64) (float64, error) {
	return s.Demand, nil
}

// Model is the tagged variant of a single (component, partition, resource)
// performance entry, mirroring BasePerformanceModel's subclasses.
type Model struct {
	Kind typemodel.Kind

	// Edge/VM only.
	Demand float64

	// FaaS only.
	DemandWarm, DemandCold, IdleTimeBeforeKill float64
	Predictor                                  ColdStartPredictor
}

// Table is the (component, partition, resource-kind, resource) -> Model
// tensor built once from the configuration's Performance/DemandMatrix
// section and shared immutably, just like sysmodel.SystemData.
type Table struct {
	models [][][typemodel.KindCount][]*Model
}

// NewTable allocates an empty table shaped like sys.
func NewTable(sys *sysmodel.SystemData) *Table {
	t := &Table{models: make([][][typemodel.KindCount][]*Model, sys.NumComponents())}
	for c := 0; c < sys.NumComponents(); c++ {
		t.models[c] = make([][typemodel.KindCount][]*Model, sys.NumPartitions(c))
		for p := range t.models[c] {
			for _, k := range typemodel.Kinds() {
				t.models[c][p][k] = make([]*Model, sys.NumberResources(k))
			}
		}
	}
	return t
}

// Set installs the model for (comp, part, kind, res).
func (t *Table) Set(comp, part int, kind typemodel.Kind, res int, m *Model) {
	t.models[comp][part][kind][res] = m
}

// Get returns the model installed for (comp, part, kind, res), or nil if
// that combination was never compatible.
func (t *Table) Get(comp, part int, kind typemodel.Kind, res int) *Model {
	return t.models[comp][part][kind][res]
}

// Utilization computes the aggregate queueing utilization of resource
// (kind, res): the sum, over every partition currently placed there, of
// demand * part_lambda / cluster_size. Only meaningful for Edge/VM; FaaS
// resources are never shared in the queueing sense (spec §3/§4).
func Utilization(sys *sysmodel.SystemData, sol *solution.SolutionData, table *Table, kind typemodel.Kind, res int) float64 {
	n := sol.NUsed(kind, res)
	if n == 0 {
		return 0
	}
	var u float64
	for c := 0; c < sys.NumComponents(); c++ {
		for _, pl := range sol.UsedResources(c) {
			if pl.Kind != kind || pl.ResIdx != res {
				continue
			}
			m := table.Get(c, pl.PartIdx, kind, res)
			if m == nil {
				continue
			}
			lambda := sys.Component(c).Partition(pl.PartIdx).PartLambda
			u += m.Demand * lambda / float64(n)
		}
	}
	return u
}

// Predict returns the response time of partition part of component comp
// placed on (kind, res), given the rest of the current solution (needed to
// compute the resource's shared utilization for Edge/VM).
func Predict(sys *sysmodel.SystemData, sol *solution.SolutionData, table *Table, comp, part int, kind typemodel.Kind, res int) (float64, error) {
	m := table.Get(comp, part, kind, res)
	if m == nil {
		return 0, fmt.Errorf("performance: no model for component %d partition %d on %s/%d", comp, part, kind, res)
	}

	switch kind {
	case typemodel.Edge, typemodel.VM:
		u := Utilization(sys, sol, table, kind, res)
		if u >= 1 {
			return 0, &ErrOverUtilized{Kind: kind, Res: res, U: u}
		}
		return m.Demand / (1 - u), nil
	case typemodel.FaaS:
		lambda := sys.Component(comp).Partition(part).PartLambda
		return m.Predictor.Predict(lambda, m.DemandWarm, m.DemandCold, m.IdleTimeBeforeKill)
	default:
		return 0, fmt.Errorf("performance: unknown resource kind %v", kind)
	}
}
