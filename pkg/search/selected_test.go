package search

import (
	"testing"

	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

func TestSelectedResourcesTracksEdgeAndVM(t *testing.T) {
	s := NewSelectedResources(2, 3)

	if s.Selected(typemodel.Edge, 0) {
		t.Error("nothing selected yet")
	}
	s.Select(typemodel.Edge, 0)
	s.Select(typemodel.VM, 2)

	if !s.Selected(typemodel.Edge, 0) {
		t.Error("expected edge resource 0 to be selected")
	}
	if s.Selected(typemodel.Edge, 1) {
		t.Error("edge resource 1 was never selected")
	}
	if !s.Selected(typemodel.VM, 2) {
		t.Error("expected vm resource 2 to be selected")
	}
}

func TestSelectedResourcesFaaSAlwaysSelected(t *testing.T) {
	s := NewSelectedResources(1, 1)
	if !s.Selected(typemodel.FaaS, 0) || !s.Selected(typemodel.FaaS, 42) {
		t.Error("FaaS resources must always report selected, regardless of index")
	}
}

func TestSelectedResourcesMasks(t *testing.T) {
	s := NewSelectedResources(2, 2)
	s.Select(typemodel.Edge, 1)
	s.Select(typemodel.VM, 0)

	if got := s.Edge(); !got[1] || got[0] {
		t.Errorf("Edge() mask = %v, want [false true]", got)
	}
	if got := s.VMs(); !got[0] || got[1] {
		t.Errorf("VMs() mask = %v, want [true false]", got)
	}
}

func TestNewFixedResourcesMarksGivenIndices(t *testing.T) {
	f := NewFixedResources(3, 2, []int{0, 2}, []int{1})

	if !f.Selected(typemodel.Edge, 0) || !f.Selected(typemodel.Edge, 2) {
		t.Error("expected edge resources 0 and 2 to be fixed")
	}
	if f.Selected(typemodel.Edge, 1) {
		t.Error("edge resource 1 was not fixed")
	}
	if !f.Selected(typemodel.VM, 1) {
		t.Error("expected vm resource 1 to be fixed")
	}
	if f.Selected(typemodel.VM, 0) {
		t.Error("vm resource 0 was not fixed")
	}
}
