package sysmodel

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// ComputationalLayer is a named bag of resources of a single kind.
// Tie-breaking sampling within a layer is uniform (spec §3).
type ComputationalLayer struct {
	Name       string
	Kind       typemodel.Kind
	ResIndices []int // indices into the matching ResourceCatalog
}

// layerSet groups computational layers by kind, and resolves a layer name
// to its members regardless of kind (used by network-domain resolution).
type layerSet struct {
	byKind    [typemodel.KindCount][]ComputationalLayer
	nameToRef map[string]struct {
		kind typemodel.Kind
		idx  int
	}
}

func newLayerSet() *layerSet {
	return &layerSet{nameToRef: make(map[string]struct {
		kind typemodel.Kind
		idx  int
	})}
}

func (ls *layerSet) add(cl ComputationalLayer) {
	idx := len(ls.byKind[cl.Kind])
	ls.byKind[cl.Kind] = append(ls.byKind[cl.Kind], cl)
	ls.nameToRef[cl.Name] = struct {
		kind typemodel.Kind
		idx  int
	}{cl.Kind, idx}
}

func (ls *layerSet) get(name string) (ComputationalLayer, bool) {
	ref, ok := ls.nameToRef[name]
	if !ok {
		return ComputationalLayer{}, false
	}
	return ls.byKind[ref.kind][ref.idx], true
}

// Layers returns all computational layers of the given kind.
func (ls *layerSet) Layers(k typemodel.Kind) []ComputationalLayer { return ls.byKind[k] }
