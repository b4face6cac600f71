package search

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// SelectedResources records the Edge and VM resources a RandomGreedy trial
// picked as design-time candidates — one resource per computational layer
// — so LocalSearch's migration operators only ever consider resources
// already deemed worth deploying to, not the whole fleet.
//
// The same type plays a second, runtime-mode role: a caller re-solving
// after some Edge/VM resources are already committed from a prior solution
// passes that commitment in as FixedResources, pre-seeding the candidate
// set RandomGreedy would otherwise pick at random. FixedResources and
// design-time SelectedResources share one representation because both are
// "which Edge/VM resource is this computational layer allowed to place
// on" masks; only who populates them differs.
type SelectedResources struct {
	edge []bool // edge[resIdx] = true if selected
	vms  []bool
}

// FixedResources is the runtime-mode counterpart of SelectedResources: the
// Edge/VM resources a prior solution already committed to, which a new
// RandomGreedy run must respect rather than re-roll. A nil *FixedResources
// means no resource is fixed, i.e. ordinary design-time search.
type FixedResources = SelectedResources

// NewFixedResources builds a FixedResources mask sized for the fleet, with
// every entry named in fixedEdge/fixedVM marked fixed.
func NewFixedResources(numEdge, numVM int, fixedEdge, fixedVM []int) *FixedResources {
	f := NewSelectedResources(numEdge, numVM)
	for _, idx := range fixedEdge {
		f.Select(typemodel.Edge, idx)
	}
	for _, idx := range fixedVM {
		f.Select(typemodel.VM, idx)
	}
	return f
}

// NewSelectedResources allocates a selection mask sized for the fleet.
func NewSelectedResources(numEdge, numVM int) *SelectedResources {
	return &SelectedResources{edge: make([]bool, numEdge), vms: make([]bool, numVM)}
}

// Select marks resIdx of kind as a design-time candidate. Only Edge and VM
// selections are tracked; FaaS resources are always implicitly candidates.
func (s *SelectedResources) Select(kind typemodel.Kind, resIdx int) {
	switch kind {
	case typemodel.Edge:
		s.edge[resIdx] = true
	case typemodel.VM:
		s.vms[resIdx] = true
	}
}

// Selected reports whether resIdx of kind was chosen as a candidate.
func (s *SelectedResources) Selected(kind typemodel.Kind, resIdx int) bool {
	switch kind {
	case typemodel.Edge:
		return s.edge[resIdx]
	case typemodel.VM:
		return s.vms[resIdx]
	case typemodel.FaaS:
		return true
	default:
		return false
	}
}

// Edge returns the Edge selection mask.
func (s *SelectedResources) Edge() []bool { return s.edge }

// VMs returns the VM selection mask.
func (s *SelectedResources) VMs() []bool { return s.vms }
