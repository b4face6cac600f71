package sysmodel

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// CompatibilityMask is the 4-D boolean tensor M[comp][kind][part][res],
// true iff component c's partition p may run on resource r of kind k.
type CompatibilityMask struct {
	// mask[comp][kind][part][res]
	mask [][][typemodel.KindCount][]bool
}

func newCompatibilityMask(numComp int) *CompatibilityMask {
	return &CompatibilityMask{mask: make([][][typemodel.KindCount][]bool, numComp)}
}

func (m *CompatibilityMask) initComponent(compIdx int, numParts int, allResources *AllResources) {
	m.mask[compIdx] = make([][typemodel.KindCount][]bool, numParts)
	for p := 0; p < numParts; p++ {
		for _, k := range typemodel.Kinds() {
			m.mask[compIdx][p][k] = make([]bool, allResources.NumberResources(k))
		}
	}
}

func (m *CompatibilityMask) set(compIdx, partIdx int, k typemodel.Kind, resIdx int) {
	m.mask[compIdx][partIdx][k][resIdx] = true
}

// Allowed reports whether partition part of component comp may run on
// resource (kind, res).
func (m *CompatibilityMask) Allowed(comp, part int, kind typemodel.Kind, res int) bool {
	return m.mask[comp][part][kind][res]
}
