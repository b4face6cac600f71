package performance

import (
	"fmt"

	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// Build constructs the performance Table from the raw configuration section
// returned alongside sysmodel.LoadConfig, resolving every component,
// partition and resource name against sys. Exactly one of cfg.Performance
// or cfg.DemandMatrix must be set, as already validated by LoadConfig.
func Build(sys *sysmodel.SystemData, cfg *sysmodel.Config) (*Table, error) {
	table := NewTable(sys)

	if cfg.Performance != nil {
		if err := buildFromPerformance(sys, cfg, table); err != nil {
			return nil, err
		}
		return table, nil
	}
	if err := buildFromDemandMatrix(sys, cfg, table); err != nil {
		return nil, err
	}
	return table, nil
}

func buildFromPerformance(sys *sysmodel.SystemData, cfg *sysmodel.Config, table *Table) error {
	for compName, perPart := range cfg.Performance {
		compIdx, ok := sys.ComponentIndex(compName)
		if !ok {
			return fmt.Errorf("performance: Performance references unknown component %q", compName)
		}
		for partName, perRes := range perPart {
			partIdx, ok := sys.PartitionIndex(compName, partName)
			if !ok {
				return fmt.Errorf("performance: Performance references unknown partition %s/%s", compName, partName)
			}
			for resName, pc := range perRes {
				kind, resIdx, ok := sys.ResourceIndex(resName)
				if !ok {
					return fmt.Errorf("performance: Performance references unknown resource %q", resName)
				}
				if !sys.Compatibility().Allowed(compIdx, partIdx, kind, resIdx) {
					continue
				}

				m, err := modelFor(sys, cfg, compIdx, partIdx, kind, resIdx, pc)
				if err != nil {
					return err
				}
				table.Set(compIdx, partIdx, kind, resIdx, m)
			}
		}
	}
	return nil
}

func modelFor(sys *sysmodel.SystemData, cfg *sysmodel.Config, compIdx, partIdx int, kind typemodel.Kind, resIdx int, pc sysmodel.PerformanceConfig) (*Model, error) {
	switch kind {
	case typemodel.Edge, typemodel.VM:
		return &Model{Kind: kind, Demand: pc.Demand}, nil
	case typemodel.FaaS:
		res := sys.AllResources().Resource(typemodel.FaaS, resIdx)
		m := &Model{
			Kind:               typemodel.FaaS,
			DemandWarm:         pc.DemandWarm,
			DemandCold:         pc.DemandCold,
			IdleTimeBeforeKill: res.IdleTimeBeforeKill,
		}
		switch pc.Model {
		case "PACSLTKSTATIC":
			lambda := sys.Component(compIdx).Partition(partIdx).PartLambda
			v, err := AnalyticColdStart{}.Predict(lambda, pc.DemandWarm, pc.DemandCold, res.IdleTimeBeforeKill)
			if err != nil {
				return nil, err
			}
			m.Predictor = StaticColdStart{Demand: v}
		default:
			m.Predictor = AnalyticColdStart{}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("performance: unknown resource kind %v", kind)
	}
}

// buildFromDemandMatrix supports the simplified configuration variant where
// only a raw (component, partition, resource) -> demand value is given,
// with no FaaS warm/cold split. It only populates Edge/VM cells; a FaaS
// compatibility entry without a matching Performance section is left
// unmodeled and will surface as a missing-model error if ever selected.
func buildFromDemandMatrix(sys *sysmodel.SystemData, cfg *sysmodel.Config, table *Table) error {
	for compName, perPart := range cfg.DemandMatrix {
		compIdx, ok := sys.ComponentIndex(compName)
		if !ok {
			return fmt.Errorf("performance: DemandMatrix references unknown component %q", compName)
		}
		for partName, perRes := range perPart {
			partIdx, ok := sys.PartitionIndex(compName, partName)
			if !ok {
				return fmt.Errorf("performance: DemandMatrix references unknown partition %s/%s", compName, partName)
			}
			for resName, demand := range perRes {
				kind, resIdx, ok := sys.ResourceIndex(resName)
				if !ok {
					return fmt.Errorf("performance: DemandMatrix references unknown resource %q", resName)
				}
				if kind == typemodel.FaaS {
					continue
				}
				if !sys.Compatibility().Allowed(compIdx, partIdx, kind, resIdx) {
					continue
				}
				table.Set(compIdx, partIdx, kind, resIdx, &Model{Kind: kind, Demand: demand})
			}
		}
	}
	return nil
}
