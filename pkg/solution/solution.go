// Package solution holds the mutable placement state explored by the search
// algorithms: which (component, partition) runs on which resource, at what
// cluster size. A *SolutionData is always evaluated against an immutable
// *sysmodel.SystemData passed in by the caller — it never stores a reference
// to the system it was built from.
package solution

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// Placement records that partition PartIdx of some component runs on
// resource ResIdx of kind Kind.
type Placement struct {
	PartIdx int
	Kind    typemodel.Kind
	ResIdx  int
}

// SolutionData is the candidate assignment under construction or evaluation.
// yHat[comp][kind][part][res] holds the cluster size (replica count) chosen
// for that cell, 0 where unassigned. used[comp] lists only the placements
// actually made for that component, kept sorted by PartIdx. nUsed[kind][res]
// is the cluster size currently committed to that physical resource — shared
// by every partition colocated on it.
type SolutionData struct {
	numParts [][]int // numParts[comp] partition count, used to size yHat rows
	yHat     [][][typemodel.KindCount][]int
	used     [][]Placement
	nUsed    [typemodel.KindCount][]int
}

// SystemShape is the minimal information needed to size a SolutionData:
// how many partitions each component has, and how many resources of each
// kind exist. Implemented by *sysmodel.SystemData.
type SystemShape interface {
	NumComponents() int
	NumPartitions(comp int) int
	NumberResources(kind typemodel.Kind) int
}

// New allocates an empty SolutionData sized for sys, with every cell
// unassigned.
func New(sys SystemShape) *SolutionData {
	numComp := sys.NumComponents()
	s := &SolutionData{
		numParts: make([][]int, numComp),
		yHat:     make([][][typemodel.KindCount][]int, numComp),
		used:     make([][]Placement, numComp),
	}
	for k := range s.nUsed {
		s.nUsed[k] = make([]int, sys.NumberResources(typemodel.Kind(k)))
	}
	for c := 0; c < numComp; c++ {
		numP := sys.NumPartitions(c)
		s.yHat[c] = make([][typemodel.KindCount][]int, numP)
		for p := 0; p < numP; p++ {
			for k := range typemodel.Kinds() {
				s.yHat[c][p][k] = make([]int, sys.NumberResources(typemodel.Kind(k)))
			}
		}
	}
	return s
}

// Clone deep-copies the solution so a search worker can explore a tweak
// without mutating the original.
func (s *SolutionData) Clone() *SolutionData {
	out := &SolutionData{
		yHat: make([][][typemodel.KindCount][]int, len(s.yHat)),
		used: make([][]Placement, len(s.used)),
	}
	for c := range s.yHat {
		out.yHat[c] = make([][typemodel.KindCount][]int, len(s.yHat[c]))
		for p := range s.yHat[c] {
			for k := 0; k < int(typemodel.KindCount); k++ {
				row := make([]int, len(s.yHat[c][p][k]))
				copy(row, s.yHat[c][p][k])
				out.yHat[c][p][k] = row
			}
		}
	}
	for c := range s.used {
		out.used[c] = append([]Placement(nil), s.used[c]...)
	}
	for k := range s.nUsed {
		out.nUsed[k] = append([]int(nil), s.nUsed[k]...)
	}
	return out
}

// YHat returns the cluster size assigned to (comp, part, kind, res), 0 if
// unassigned.
func (s *SolutionData) YHat(comp, part int, kind typemodel.Kind, res int) int {
	return s.yHat[comp][part][kind][res]
}

// UsedResources returns the placements made for comp, sorted by PartIdx.
func (s *SolutionData) UsedResources(comp int) []Placement { return s.used[comp] }

// NUsed returns the cluster size currently committed to (kind, res) across
// every component colocated there.
func (s *SolutionData) NUsed(kind typemodel.Kind, res int) int { return s.nUsed[kind][res] }

// PlacementOf returns the placement for (comp, part) and true, or false if
// that partition is currently unassigned.
func (s *SolutionData) PlacementOf(comp, part int) (Placement, bool) {
	for _, pl := range s.used[comp] {
		if pl.PartIdx == part {
			return pl, true
		}
	}
	return Placement{}, false
}

// Assign places partition part of comp onto (kind, res) with the given
// cluster size, replacing any previous placement for that partition.
// FaaS assignments must always pass replicas=1.
func (s *SolutionData) Assign(comp, part int, kind typemodel.Kind, res, replicas int) {
	s.clear(comp, part)

	s.yHat[comp][part][kind][res] = replicas
	s.nUsed[kind][res] = replicas

	inserted := false
	list := s.used[comp]
	for i, pl := range list {
		if pl.PartIdx > part {
			list = append(list, Placement{})
			copy(list[i+1:], list[i:])
			list[i] = Placement{PartIdx: part, Kind: kind, ResIdx: res}
			inserted = true
			break
		}
	}
	if !inserted {
		list = append(list, Placement{PartIdx: part, Kind: kind, ResIdx: res})
	}
	s.used[comp] = list
}

// Unassign removes any placement for (comp, part). If no other partition of
// any component remains on the vacated resource, its cluster size resets
// to 0.
func (s *SolutionData) Unassign(comp, part int) {
	s.clear(comp, part)
}

// Resize changes the cluster size of whatever resource (comp, part) is
// currently placed on, affecting every partition colocated there. It is a
// no-op if (comp, part) is unassigned.
func (s *SolutionData) Resize(comp, part int, replicas int) {
	pl, ok := s.PlacementOf(comp, part)
	if !ok {
		return
	}
	s.nUsed[pl.Kind][pl.ResIdx] = replicas
	for c := range s.used {
		for _, p := range s.used[c] {
			if p.Kind == pl.Kind && p.ResIdx == pl.ResIdx {
				s.yHat[c][p.PartIdx][pl.Kind][pl.ResIdx] = replicas
			}
		}
	}
}

func (s *SolutionData) clear(comp, part int) {
	pl, ok := s.PlacementOf(comp, part)
	if !ok {
		return
	}
	for k := 0; k < int(typemodel.KindCount); k++ {
		for r := range s.yHat[comp][part][k] {
			s.yHat[comp][part][k][r] = 0
		}
	}

	list := s.used[comp]
	for i, p := range list {
		if p.PartIdx == part {
			s.used[comp] = append(list[:i], list[i+1:]...)
			break
		}
	}

	stillUsed := false
	for c := range s.used {
		for _, p := range s.used[c] {
			if p.Kind == pl.Kind && p.ResIdx == pl.ResIdx {
				stillUsed = true
			}
		}
	}
	if !stillUsed {
		s.nUsed[pl.Kind][pl.ResIdx] = 0
	}
}

// Complete reports whether every partition of every component has been
// assigned to some resource.
func (s *SolutionData) Complete(sys SystemShape) bool {
	for c := 0; c < sys.NumComponents(); c++ {
		if len(s.used[c]) != sys.NumPartitions(c) {
			return false
		}
	}
	return true
}
