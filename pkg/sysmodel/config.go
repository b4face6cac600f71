package sysmodel

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// Config is the top-level JSON configuration object (spec §6).
type Config struct {
	Lambda                float64                                   `json:"Lambda"`
	Time                  float64                                   `json:"Time"`
	DirectedAcyclicGraph  map[string]DAGNodeConfig                  `json:"DirectedAcyclicGraph"`
	Components            map[string]map[string]map[string]PartitionConfig `json:"Components"`
	EdgeResources         map[string]map[string]ResourceConfig      `json:"EdgeResources"`
	CloudResources        map[string]map[string]ResourceConfig      `json:"CloudResources"`
	FaaSResources         map[string]map[string]FaaSResourceConfig  `json:"FaaSResources"`
	CompatibilityMatrix   map[string]map[string][]string            `json:"CompatibilityMatrix"`
	NetworkTechnology     map[string]NetworkConfig                  `json:"NetworkTechnology"`
	LocalConstraints      map[string]LocalConstraintConfig          `json:"LocalConstraints"`
	GlobalConstraints     map[string]GlobalConstraintConfig         `json:"GlobalConstraints"`
	Performance           map[string]map[string]map[string]PerformanceConfig `json:"Performance,omitempty"`
	DemandMatrix          map[string]map[string]map[string]float64  `json:"DemandMatrix,omitempty"`
}

// DAGNodeConfig lists, for one component, the successors and the
// corresponding transition probabilities.
type DAGNodeConfig struct {
	Next                 []string  `json:"next"`
	TransitionProbability []float64 `json:"transition_probability"`
}

// PartitionConfig is one partition entry nested under a deployment.
type PartitionConfig struct {
	Memory             float64 `json:"memory"`
	EarlyExitProbability float64 `json:"early_exit_probability"`
	Next               string  `json:"next"`
	DataSize           float64 `json:"data_size"`
}

// ResourceConfig is an Edge or VM resource entry.
type ResourceConfig struct {
	Description     string  `json:"description,omitempty"`
	Cost            float64 `json:"cost"`
	Memory          float64 `json:"memory"`
	Number          int     `json:"number"`
	NCores          int     `json:"n_cores,omitempty"`
	AllowColocation *bool   `json:"allow_colocation,omitempty"`
}

// FaaSResourceConfig is a FaaS resource entry. TransitionCost is read only
// from the resource entry itself; a transition_cost key at the enclosing
// computational-layer level is not recognised, and LoadConfig rejects such
// a configuration with a parse error.
type FaaSResourceConfig struct {
	Description        string  `json:"description,omitempty"`
	Cost               float64 `json:"cost"`
	Memory             float64 `json:"memory"`
	IdleTimeBeforeKill float64 `json:"idle_time_before_kill"`
	TransitionCost     float64 `json:"transition_cost,omitempty"`
}

// NetworkConfig describes a single network domain.
type NetworkConfig struct {
	ComputationalLayers []string `json:"computationallayers"`
	AccessDelay         float64  `json:"AccessDelay"`
	Bandwidth           float64  `json:"Bandwidth"`
}

// LocalConstraintConfig caps a component's own response time.
type LocalConstraintConfig struct {
	LocalResTime float64 `json:"local_res_time"`
}

// GlobalConstraintConfig caps an end-to-end path response time.
type GlobalConstraintConfig struct {
	Components  []string `json:"components"`
	GlobalResTime float64 `json:"global_res_time"`
}

// PerformanceConfig is one (component,partition,resource) performance
// model entry.
type PerformanceConfig struct {
	Model      string  `json:"model"`
	Demand     float64 `json:"demand,omitempty"`
	DemandWarm float64 `json:"demandWarm,omitempty"`
	DemandCold float64 `json:"demandCold,omitempty"`
}

// LoadConfig parses and validates the JSON configuration and builds the
// immutable SystemData. The raw Performance/DemandMatrix section is
// returned unprocessed for pkg/performance to build the PerformanceModel
// tensor, since that requires the exact same name->index resolution this
// function has just performed.
func LoadConfig(data []byte) (*SystemData, *Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("sysmodel: parsing config: %w", err)
	}

	if cfg.Lambda <= 0 {
		return nil, nil, errBadValue("Lambda", "must be positive")
	}
	if len(cfg.DirectedAcyclicGraph) == 0 {
		return nil, nil, errMissingField("DirectedAcyclicGraph")
	}
	if len(cfg.Components) == 0 {
		return nil, nil, errMissingField("Components")
	}
	if cfg.Performance == nil && cfg.DemandMatrix == nil {
		return nil, nil, errInconsistent("exactly one of Performance or DemandMatrix must be provided")
	}
	if cfg.Performance != nil && cfg.DemandMatrix != nil {
		return nil, nil, errInconsistent("Performance and DemandMatrix are mutually exclusive")
	}

	// Stable, deterministic component name ordering before topological
	// renumbering (map iteration order in Go is randomized).
	names := make([]string, 0, len(cfg.DirectedAcyclicGraph))
	for name := range cfg.DirectedAcyclicGraph {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToOld := make(map[string]int, len(names))
	for i, n := range names {
		nameToOld[n] = i
	}

	edges := make(map[int][]int) // old producer idx -> old successor idxs
	oldT := make([][]float64, len(names))
	for i := range oldT {
		oldT[i] = make([]float64, len(names))
	}

	for name, node := range cfg.DirectedAcyclicGraph {
		producer := nameToOld[name]
		if len(node.Next) != len(node.TransitionProbability) {
			return nil, nil, errInconsistent("DAG node " + name + ": next/transition_probability length mismatch")
		}
		for i, succName := range node.Next {
			succ, ok := nameToOld[succName]
			if !ok {
				return nil, nil, errInconsistent("DAG references unknown component " + succName)
			}
			edges[producer] = append(edges[producer], succ)
			oldT[succ][producer] = node.TransitionProbability[i]
		}
	}

	oldToNew, err := topoOrder(len(names), edges)
	if err != nil {
		return nil, nil, err
	}

	numComp := len(names)
	newT := make([][]float64, numComp)
	for i := range newT {
		newT[i] = make([]float64, numComp)
	}
	newNameByIdx := make([]string, numComp)
	for oldI := 0; oldI < numComp; oldI++ {
		newI := oldToNew[oldI]
		newNameByIdx[newI] = names[oldI]
		for oldJ := 0; oldJ < numComp; oldJ++ {
			newT[oldToNew[oldI]][oldToNew[oldJ]] = oldT[oldI][oldJ]
		}
	}

	dag := DAG{T: newT}
	if err := dag.ValidateTopology(); err != nil {
		return nil, nil, err
	}

	lambdas, err := dag.propagateLambda(cfg.Lambda)
	if err != nil {
		return nil, nil, err
	}

	compNameToIdx := make(map[string]int, numComp)
	for i, n := range newNameByIdx {
		compNameToIdx[n] = i
	}

	allResources := newAllResources()
	layers := newLayerSet()
	resNameToRef := make(map[string]resRef)

	if err := loadEdgeOrVM(cfg.EdgeResources, typemodel.Edge, allResources, layers, resNameToRef); err != nil {
		return nil, nil, err
	}
	if err := loadEdgeOrVM(cfg.CloudResources, typemodel.VM, allResources, layers, resNameToRef); err != nil {
		return nil, nil, err
	}
	if err := loadFaaS(cfg.FaaSResources, allResources, layers, resNameToRef); err != nil {
		return nil, nil, err
	}

	network := newNetworkIndex()
	for name, nc := range cfg.NetworkTechnology {
		ld := map[string]bool{}
		for _, cl := range nc.ComputationalLayers {
			ld[cl] = true
		}
		network.add(NetworkDomain{Name: name, Layers: ld, AccessDelay: nc.AccessDelay, Bandwidth: nc.Bandwidth})
	}

	components := make([]Component, numComp)
	partNameToIdx := make(map[string]int)
	compat := newCompatibilityMask(numComp)

	for newIdx, name := range newNameByIdx {
		depsCfg, ok := cfg.Components[name]
		if !ok {
			return nil, nil, errInconsistent("component " + name + " has no deployment definitions")
		}

		depNames := make([]string, 0, len(depsCfg))
		for d := range depsCfg {
			depNames = append(depNames, d)
		}
		sort.Strings(depNames)

		comp := Component{Name: name, Lambda: lambdas[newIdx]}
		var deployments []Deployment

		for _, depName := range depNames {
			partsCfg := depsCfg[depName]
			order, err := orderPartitionChain(partsCfg)
			if err != nil {
				return nil, nil, fmt.Errorf("component %s deployment %s: %w", name, depName, err)
			}

			indices := make([]int, 0, len(order))
			for _, partName := range order {
				pc := partsCfg[partName]
				pIdx := len(comp.Partitions)
				comp.Partitions = append(comp.Partitions, Partition{
					Name:          partName,
					Memory:        pc.Memory,
					EarlyExitProb: pc.EarlyExitProbability,
					Next:          pc.Next,
					DataSize:      pc.DataSize,
				})
				indices = append(indices, pIdx)
				partNameToIdx[name+partName] = pIdx
			}

			deployments = append(deployments, Deployment{Name: depName, PartitionIndices: indices})
		}

		comp.Deployments = deployments
		for _, dep := range deployments {
			comp.computePartitionLambdas(dep)
		}

		compat.initComponent(newIdx, len(comp.Partitions), allResources)
		components[newIdx] = comp
	}

	// Compatibility matrix: component -> partition -> [resource names].
	for compName, perPart := range cfg.CompatibilityMatrix {
		compIdx, ok := compNameToIdx[compName]
		if !ok {
			return nil, nil, errInconsistent("CompatibilityMatrix references unknown component " + compName)
		}
		for partName, resNames := range perPart {
			partIdx, ok := partNameToIdx[compName+partName]
			if !ok {
				return nil, nil, errInconsistent("CompatibilityMatrix references unknown partition " + compName + "/" + partName)
			}
			anyCompatible := false
			for _, resName := range resNames {
				ref, ok := resNameToRef[resName]
				if !ok {
					return nil, nil, errInconsistent("CompatibilityMatrix references unknown resource " + resName)
				}
				compat.set(compIdx, partIdx, ref.kind, ref.idx)
				anyCompatible = true
			}
			if !anyCompatible {
				// Open question (a): an empty compatibility list for a
				// partition makes RandomGreedy's placement step
				// impossible to satisfy (FaaS candidature alone is not
				// enough if FaaS itself is excluded). We resolve it at
				// load time as ConfigInconsistent rather than leaving it
				// undefined.
				return nil, nil, errInconsistent("partition " + compName + "/" + partName + " is compatible with no resource")
			}
		}
	}

	// A partition absent from CompatibilityMatrix is just as unplaceable
	// as one listed with an empty resource list.
	for c, comp := range components {
		for p := range comp.Partitions {
			placeable := false
			for _, k := range typemodel.Kinds() {
				for r := 0; r < allResources.NumberResources(k); r++ {
					placeable = placeable || compat.Allowed(c, p, k, r)
				}
			}
			if !placeable {
				return nil, nil, errInconsistent("partition " + comp.Name + "/" + comp.Partitions[p].Name + " is compatible with no resource")
			}
		}
	}

	localConstraints := make([]LocalConstraint, numComp)
	for i := range localConstraints {
		localConstraints[i] = defaultLocalConstraint(i)
	}
	for name, lc := range cfg.LocalConstraints {
		idx, ok := compNameToIdx[name]
		if !ok {
			return nil, nil, errInconsistent("LocalConstraints references unknown component " + name)
		}
		localConstraints[idx] = LocalConstraint{CompIdx: idx, MaxResTime: lc.LocalResTime}
	}

	gcNameToIdx := make(map[string]int)
	globalConstraints := make([]GlobalConstraint, 0, len(cfg.GlobalConstraints))
	gcNames := make([]string, 0, len(cfg.GlobalConstraints))
	for n := range cfg.GlobalConstraints {
		gcNames = append(gcNames, n)
	}
	sort.Strings(gcNames)
	for _, pathName := range gcNames {
		gc := cfg.GlobalConstraints[pathName]
		idxs := make([]int, 0, len(gc.Components))
		for _, cn := range gc.Components {
			idx, ok := compNameToIdx[cn]
			if !ok {
				return nil, nil, errInconsistent("GlobalConstraints path " + pathName + " references unknown component " + cn)
			}
			idxs = append(idxs, idx)
		}
		gcNameToIdx[pathName] = len(globalConstraints)
		globalConstraints = append(globalConstraints, GlobalConstraint{PathName: pathName, CompIdxs: idxs, MaxResTime: gc.GlobalResTime})
	}

	sys := &SystemData{
		lambda:            cfg.Lambda,
		time:              cfg.Time,
		dag:               dag,
		components:        components,
		allResources:      allResources,
		layers:            layers,
		network:           network,
		compat:            compat,
		localConstraints:  localConstraints,
		globalConstraints: globalConstraints,
		compNameToIdx:     compNameToIdx,
		partNameToIdx:     partNameToIdx,
		resNameToRef:      resNameToRef,
		gcNameToIdx:       gcNameToIdx,
	}

	return sys, &cfg, nil
}

func loadEdgeOrVM(section map[string]map[string]ResourceConfig, kind typemodel.Kind, all *AllResources, layers *layerSet, resNameToRef map[string]resRef) error {
	clNames := make([]string, 0, len(section))
	for n := range section {
		clNames = append(clNames, n)
	}
	sort.Strings(clNames)

	for _, clName := range clNames {
		resNames := make([]string, 0, len(section[clName]))
		for n := range section[clName] {
			resNames = append(resNames, n)
		}
		sort.Strings(resNames)

		var cl ComputationalLayer
		cl.Name = clName
		cl.Kind = kind

		for _, resName := range resNames {
			rc := section[clName][resName]
			if rc.Number < 1 {
				return errBadValue(resName+".number", "must be >= 1")
			}
			allowColoc := true
			if rc.AllowColocation != nil {
				allowColoc = *rc.AllowColocation
			}
			idx, err := all.catalogs[kind].add(Resource{
				Name: resName, Description: rc.Description, Layer: clName,
				Cost: rc.Cost, Memory: rc.Memory, NumberAvail: rc.Number, NCores: rc.NCores,
				AllowColocation: allowColoc,
			})
			if err != nil {
				return err
			}
			resNameToRef[resName] = resRef{kind: kind, idx: idx}
			cl.ResIndices = append(cl.ResIndices, idx)
		}
		layers.add(cl)
	}
	return nil
}

func loadFaaS(section map[string]map[string]FaaSResourceConfig, all *AllResources, layers *layerSet, resNameToRef map[string]resRef) error {
	clNames := make([]string, 0, len(section))
	for n := range section {
		clNames = append(clNames, n)
	}
	sort.Strings(clNames)

	for _, clName := range clNames {
		resNames := make([]string, 0, len(section[clName]))
		for n := range section[clName] {
			resNames = append(resNames, n)
		}
		sort.Strings(resNames)

		var cl ComputationalLayer
		cl.Name = clName
		cl.Kind = typemodel.FaaS

		for _, resName := range resNames {
			rc := section[clName][resName]
			idx, err := all.catalogs[typemodel.FaaS].add(Resource{
				Name: resName, Description: rc.Description, Layer: clName,
				Cost: rc.Cost, Memory: rc.Memory,
				IdleTimeBeforeKill: rc.IdleTimeBeforeKill, TransitionCost: rc.TransitionCost,
				AllowColocation: true,
			})
			if err != nil {
				return err
			}
			resNameToRef[resName] = resRef{kind: typemodel.FaaS, idx: idx}
			cl.ResIndices = append(cl.ResIndices, idx)
		}
		layers.add(cl)
	}
	return nil
}

// orderPartitionChain returns partition names of a deployment ordered by
// the linear chain established by each partition's `next` field: the head
// is whichever name is never itself referenced as another partition's
// `next` within the same deployment.
func orderPartitionChain(parts map[string]PartitionConfig) ([]string, error) {
	referenced := make(map[string]bool, len(parts))
	for _, p := range parts {
		if _, isPart := parts[p.Next]; isPart {
			referenced[p.Next] = true
		}
	}

	var head string
	heads := 0
	for name := range parts {
		if !referenced[name] {
			head = name
			heads++
		}
	}
	if heads != 1 {
		return nil, fmt.Errorf("deployment does not define a single linear partition chain (found %d heads)", heads)
	}

	order := make([]string, 0, len(parts))
	cur := head
	seen := make(map[string]bool, len(parts))
	for {
		if seen[cur] {
			return nil, fmt.Errorf("partition chain contains a cycle at %q", cur)
		}
		seen[cur] = true
		order = append(order, cur)
		next := parts[cur].Next
		if _, isPart := parts[next]; !isPart {
			break // next names the following component, chain ends here
		}
		cur = next
	}

	if len(order) != len(parts) {
		return nil, fmt.Errorf("partition chain does not cover all %d declared partitions", len(parts))
	}

	return order, nil
}

// ResourceIndex resolves a resource name to (kind, index).
func (s *SystemData) ResourceIndex(name string) (typemodel.Kind, int, bool) {
	ref, ok := s.resNameToRef[name]
	if !ok {
		return 0, 0, false
	}
	return ref.kind, ref.idx, true
}

// PartitionIndex resolves a (component, partition) name pair to the global
// partition index within that component.
func (s *SystemData) PartitionIndex(compName, partName string) (int, bool) {
	idx, ok := s.partNameToIdx[compName+partName]
	return idx, ok
}

// GlobalConstraintIndex resolves a path name to its index.
func (s *SystemData) GlobalConstraintIndex(name string) (int, bool) {
	idx, ok := s.gcNameToIdx[name]
	return idx, ok
}
