// Package sysmodel holds the immutable problem instance: the DAG of
// components, their partitions and deployments, the resource fleet,
// compatibility mask, network domains and constraints. A *SystemData is
// built once from configuration (see config.go) and never mutated again —
// it is shared by immutable reference across every search worker.
package sysmodel

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// SystemData is the fully-loaded, immutable problem instance.
type SystemData struct {
	lambda float64 // external arrival rate to the root component
	time   float64 // billing horizon T for FaaS cost integration

	dag        DAG
	components []Component

	allResources *AllResources
	layers       *layerSet
	network      *networkIndex

	compat *CompatibilityMask

	localConstraints  []LocalConstraint  // indexed by component
	globalConstraints []GlobalConstraint

	compNameToIdx map[string]int
	// partNameToIdx maps "<component><partition>" to a global partition
	// index within that component, mirroring the original's concatenated
	// lookup key (System::SystemData::part_name_to_part_idx).
	partNameToIdx map[string]int
	resNameToRef  map[string]resRef
	gcNameToIdx   map[string]int
}

type resRef struct {
	kind typemodel.Kind
	idx  int
}

// Lambda returns the external arrival rate to the root component.
func (s *SystemData) Lambda() float64 { return s.lambda }

// Time returns the FaaS billing horizon.
func (s *SystemData) Time() float64 { return s.time }

// DAG returns the transition-probability matrix.
func (s *SystemData) DAG() *DAG { return &s.dag }

// Components returns every component in topological order.
func (s *SystemData) Components() []Component { return s.components }

// Component returns the component at idx.
func (s *SystemData) Component(idx int) *Component { return &s.components[idx] }

// NumComponents returns the number of components in the DAG.
func (s *SystemData) NumComponents() int { return len(s.components) }

// NumPartitions returns how many partitions component comp has.
func (s *SystemData) NumPartitions(comp int) int { return len(s.components[comp].Partitions) }

// NumberResources returns how many resources of kind k were loaded.
func (s *SystemData) NumberResources(k typemodel.Kind) int { return s.allResources.NumberResources(k) }

// AllResources exposes the resource catalogs.
func (s *SystemData) AllResources() *AllResources { return s.allResources }

// Layers returns the computational layers of kind k.
func (s *SystemData) Layers(k typemodel.Kind) []ComputationalLayer { return s.layers.Layers(k) }

// Compatibility exposes the compatibility mask.
func (s *SystemData) Compatibility() *CompatibilityMask { return s.compat }

// LocalConstraint returns the response-time cap for component compIdx.
func (s *SystemData) LocalConstraint(compIdx int) LocalConstraint { return s.localConstraints[compIdx] }

// GlobalConstraints returns every named end-to-end path constraint.
func (s *SystemData) GlobalConstraints() []GlobalConstraint { return s.globalConstraints }

// ComponentIndex resolves a component name to its topological index.
func (s *SystemData) ComponentIndex(name string) (int, bool) {
	idx, ok := s.compNameToIdx[name]
	return idx, ok
}

// NetworkDelay returns the minimum transfer time of s bytes between the
// computational layers of two resources, or NoNetworkDomainError.
// Two endpoints on the exact same resource instance incur zero delay.
func (s *SystemData) NetworkDelay(k1 typemodel.Kind, r1 int, k2 typemodel.Kind, r2 int, bytes float64) (float64, error) {
	if k1 == k2 && r1 == r2 {
		return 0, nil
	}
	cl1 := s.allResources.Resource(k1, r1).Layer
	cl2 := s.allResources.Resource(k2, r2).Layer
	return s.network.Delay(cl1, cl2, bytes)
}
