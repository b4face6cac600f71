// Package ioconfig encodes a placement result to the JSON schema the
// original implementation's Solution::to_json produces, so downstream
// tooling built against that format keeps working unchanged.
package ioconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

// ResourceJSON is one deployed (computational-layer, resource) entry under
// a partition.
type ResourceJSON struct {
	Description        string   `json:"description"`
	Cost                float64  `json:"cost"`
	Memory              float64  `json:"memory"`
	Number              *int     `json:"number,omitempty"`
	IdleTimeBeforeKill  *float64 `json:"idle_time_before_kill,omitempty"`
	TransitionCost      *float64 `json:"transition_cost,omitempty"`
}

// GlobalConstraintJSON mirrors one entry of the output schema's
// global_constraints object.
type GlobalConstraintJSON struct {
	Components               []string `json:"components"`
	PathResponseTime         float64  `json:"path_response_time"`
	PathResponseTimeThreshold float64  `json:"path_response_time_threshold"`
}

// SolutionJSON is the full output document (spec §6's output schema).
type SolutionJSON struct {
	Lambda            float64                                         `json:"Lambda"`
	Components        map[string]map[string]json.RawMessage          `json:"components"`
	GlobalConstraints map[string]GlobalConstraintJSON                 `json:"global_constraints"`
	TotalCost         float64                                         `json:"total_cost"`
}

// Encode converts a feasible Report's solution into the output JSON
// document.
func Encode(sys *sysmodel.SystemData, sol *solution.SolutionData, report *evaluator.Report) (*SolutionJSON, error) {
	if !report.Feasible {
		return nil, fmt.Errorf("ioconfig: cannot encode an infeasible solution")
	}

	doc := &SolutionJSON{
		Lambda:            sys.Lambda(),
		Components:        make(map[string]map[string]json.RawMessage),
		GlobalConstraints: make(map[string]GlobalConstraintJSON),
		TotalCost:         report.Cost,
	}

	for c := 0; c < sys.NumComponents(); c++ {
		comp := sys.Component(c)
		partEntries := make(map[string]json.RawMessage)

		for _, pl := range sol.UsedResources(c) {
			part := comp.Partition(pl.PartIdx)
			res := sys.AllResources().Resource(pl.Kind, pl.ResIdx)
			layers := sys.Layers(pl.Kind)
			clName := ""
			for _, l := range layers {
				for _, idx := range l.ResIndices {
					if idx == pl.ResIdx {
						clName = l.Name
					}
				}
			}

			y := sol.YHat(c, pl.PartIdx, pl.Kind, pl.ResIdx)
			cost := res.Cost * float64(y)

			rj := ResourceJSON{Description: res.Description, Cost: cost, Memory: res.Memory}
			if pl.Kind == typemodel.FaaS {
				idle := res.IdleTimeBeforeKill
				trans := res.TransitionCost
				rj.IdleTimeBeforeKill = &idle
				rj.TransitionCost = &trans
			} else {
				n := y
				rj.Number = &n
			}

			entry := map[string]map[string]ResourceJSON{clName: {res.Name: rj}}
			raw, err := json.Marshal(entry)
			if err != nil {
				return nil, fmt.Errorf("ioconfig: encoding %s/%s: %w", comp.Name, part.Name, err)
			}
			partEntries[part.Name] = raw
		}

		rtRaw, _ := json.Marshal(report.CompTimes[c])
		thresholdRaw, _ := json.Marshal(sys.LocalConstraint(c).MaxResTime)
		partEntries["response_time"] = rtRaw
		partEntries["response_time_threshold"] = thresholdRaw

		doc.Components[comp.Name] = partEntries
	}

	for i, gc := range sys.GlobalConstraints() {
		names := make([]string, len(gc.CompIdxs))
		for j, idx := range gc.CompIdxs {
			names[j] = sys.Component(idx).Name
		}
		doc.GlobalConstraints[gc.PathName] = GlobalConstraintJSON{
			Components:                names,
			PathResponseTime:          report.PathTimes[i],
			PathResponseTimeThreshold: gc.MaxResTime,
		}
	}

	return doc, nil
}

// Decode parses a previously-written solution document.
func Decode(data []byte) (*SolutionJSON, error) {
	var doc SolutionJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ioconfig: parsing solution: %w", err)
	}
	return &doc, nil
}

// ReadFile loads and parses a solution document from disk.
func ReadFile(path string) (*SolutionJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ioconfig: reading %s: %w", path, err)
	}
	return Decode(data)
}

// WriteFile encodes the solution and writes it to path as indented JSON.
func WriteFile(sys *sysmodel.SystemData, sol *solution.SolutionData, report *evaluator.Report, path string) error {
	doc, err := Encode(sys, sol, report)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ioconfig: marshaling solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ioconfig: writing %s: %w", path, err)
	}
	return nil
}
