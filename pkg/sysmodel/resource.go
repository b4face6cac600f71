package sysmodel

import "github.com/dagplacer/space4ai-placer/pkg/typemodel"

// Resource describes one deployable unit of compute, as loaded from the
// EdgeResources / CloudResources / FaaSResources sections of the
// configuration file.
type Resource struct {
	Name        string
	Description string
	Layer       string // computational-layer name this resource belongs to
	Cost        float64
	Memory      float64

	// Edge and VM only.
	NumberAvail int // available replica count, >= 1
	NCores      int

	// FaaS only.
	TransitionCost     float64
	IdleTimeBeforeKill float64

	// AllowColocation reports whether more than one partition may run on
	// this resource simultaneously. Defaults to true; Edge/VM resources
	// set it explicitly in configuration when the hosted runtime cannot
	// multiplex requests (spec invariant: colocation restrictions).
	AllowColocation bool
}

// ResourceCatalog holds all resources of a given kind, indexed compactly
// (index position is the stable resource index used throughout the
// placement tensors).
type ResourceCatalog struct {
	kind      typemodel.Kind
	resources []Resource
	nameToIdx map[string]int
}

func newResourceCatalog(kind typemodel.Kind) *ResourceCatalog {
	return &ResourceCatalog{kind: kind, nameToIdx: make(map[string]int)}
}

func (c *ResourceCatalog) add(r Resource) (int, error) {
	if _, exists := c.nameToIdx[r.Name]; exists {
		return 0, errInconsistent("duplicate resource name " + r.Name)
	}
	idx := len(c.resources)
	c.resources = append(c.resources, r)
	c.nameToIdx[r.Name] = idx
	return idx, nil
}

// Len returns the number of resources of this kind.
func (c *ResourceCatalog) Len() int { return len(c.resources) }

// Get returns the resource at idx.
func (c *ResourceCatalog) Get(idx int) *Resource { return &c.resources[idx] }

// IndexOf returns the index of the named resource, or false if absent.
func (c *ResourceCatalog) IndexOf(name string) (int, bool) {
	idx, ok := c.nameToIdx[name]
	return idx, ok
}

// AllResources is the compact per-kind collection of ResourceCatalog,
// mirroring the original's all_resources facade (Resources.hpp).
type AllResources struct {
	catalogs [typemodel.KindCount]*ResourceCatalog
}

func newAllResources() *AllResources {
	a := &AllResources{}
	for _, k := range typemodel.Kinds() {
		a.catalogs[k] = newResourceCatalog(k)
	}
	return a
}

// NumberResources returns how many resources of kind k were loaded.
func (a *AllResources) NumberResources(k typemodel.Kind) int { return a.catalogs[k].Len() }

// Resource returns the resource at (k, idx).
func (a *AllResources) Resource(k typemodel.Kind, idx int) *Resource { return a.catalogs[k].Get(idx) }

// Catalog exposes the raw per-kind catalog, e.g. for iteration.
func (a *AllResources) Catalog(k typemodel.Kind) *ResourceCatalog { return a.catalogs[k] }

// NumberAvail returns the available replica count of (k, idx); 1 for FaaS.
func (a *AllResources) NumberAvail(k typemodel.Kind, idx int) int {
	if k == typemodel.FaaS {
		return 1
	}
	return a.catalogs[k].Get(idx).NumberAvail
}
