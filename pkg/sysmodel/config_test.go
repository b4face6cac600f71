package sysmodel

import (
	"strings"
	"testing"

	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

const minimalConfigJSON = `{
  "Lambda": 2.0,
  "Time": 3600,
  "DirectedAcyclicGraph": {
    "A": {"next": ["B"], "transition_probability": [1.0]},
    "B": {"next": [], "transition_probability": []}
  },
  "Components": {
    "A": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 100}}},
    "B": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 0}}}
  },
  "EdgeResources": {
    "edgeLayer": {"edgeRes": {"cost": 1.0, "memory": 1000, "number": 2}}
  },
  "CloudResources": {
    "cloudLayer": {"vmRes": {"cost": 2.0, "memory": 4000, "number": 3}}
  },
  "FaaSResources": {
    "faasLayer": {"faasRes": {"cost": 0.5, "memory": 2000, "idle_time_before_kill": 600}}
  },
  "CompatibilityMatrix": {
    "A": {"p1": ["edgeRes", "vmRes", "faasRes"]},
    "B": {"p1": ["edgeRes", "vmRes", "faasRes"]}
  },
  "NetworkTechnology": {
    "net1": {"computationallayers": ["edgeLayer", "cloudLayer", "faasLayer"], "AccessDelay": 0.01, "Bandwidth": 1000000}
  },
  "LocalConstraints": {},
  "GlobalConstraints": {
    "pathAB": {"components": ["A", "B"], "global_res_time": 5.0}
  },
  "Performance": {
    "A": {"p1": {
      "edgeRes": {"model": "PACSLTK", "demand": 0.1},
      "vmRes": {"model": "PACSLTK", "demand": 0.05},
      "faasRes": {"model": "PACSLTK", "demandWarm": 0.02, "demandCold": 0.5}
    }},
    "B": {"p1": {
      "edgeRes": {"model": "PACSLTK", "demand": 0.1},
      "vmRes": {"model": "PACSLTK", "demand": 0.05},
      "faasRes": {"model": "PACSLTK", "demandWarm": 0.02, "demandCold": 0.5}
    }}
  }
}`

func TestLoadConfigMinimal(t *testing.T) {
	sys, cfg, err := LoadConfig([]byte(minimalConfigJSON))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Lambda != 2.0 {
		t.Errorf("Lambda = %v, want 2.0", cfg.Lambda)
	}
	if sys.NumComponents() != 2 {
		t.Fatalf("NumComponents = %d, want 2", sys.NumComponents())
	}

	// A must precede B in topological order (A -> B).
	aIdx, ok := sys.ComponentIndex("A")
	if !ok {
		t.Fatal("component A not found")
	}
	bIdx, ok := sys.ComponentIndex("B")
	if !ok {
		t.Fatal("component B not found")
	}
	if aIdx >= bIdx {
		t.Errorf("topological order violated: A=%d, B=%d", aIdx, bIdx)
	}
	if err := sys.DAG().ValidateTopology(); err != nil {
		t.Errorf("ValidateTopology: %v", err)
	}

	// lambda propagation: A is root (lambda=2.0), B receives all of A's rate.
	if sys.Component(aIdx).Lambda != 2.0 {
		t.Errorf("A.Lambda = %v, want 2.0", sys.Component(aIdx).Lambda)
	}
	if sys.Component(bIdx).Lambda != 2.0 {
		t.Errorf("B.Lambda = %v, want 2.0", sys.Component(bIdx).Lambda)
	}

	if sys.NumberResources(typemodel.Edge) != 1 || sys.NumberResources(typemodel.VM) != 1 || sys.NumberResources(typemodel.FaaS) != 1 {
		t.Errorf("unexpected resource counts: edge=%d vm=%d faas=%d",
			sys.NumberResources(typemodel.Edge), sys.NumberResources(typemodel.VM), sys.NumberResources(typemodel.FaaS))
	}

	edgeKind, edgeIdx, ok := sys.ResourceIndex("edgeRes")
	if !ok || edgeKind != typemodel.Edge || edgeIdx != 0 {
		t.Errorf("ResourceIndex(edgeRes) = %v, %v, %v", edgeKind, edgeIdx, ok)
	}

	pIdx, ok := sys.PartitionIndex("A", "p1")
	if !ok || pIdx != 0 {
		t.Errorf("PartitionIndex(A,p1) = %d, %v, want 0, true", pIdx, ok)
	}

	if !sys.Compatibility().Allowed(aIdx, pIdx, typemodel.Edge, edgeIdx) {
		t.Error("expected A/p1 compatible with edgeRes")
	}

	gcIdx, ok := sys.GlobalConstraintIndex("pathAB")
	if !ok || sys.GlobalConstraints()[gcIdx].MaxResTime != 5.0 {
		t.Errorf("GlobalConstraintIndex(pathAB) wrong: idx=%d ok=%v", gcIdx, ok)
	}

	// Network delay between different layers should be positive; within
	// the same resource instance it must be zero.
	d, err := sys.NetworkDelay(typemodel.Edge, 0, typemodel.VM, 0, 1000)
	if err != nil {
		t.Fatalf("NetworkDelay: %v", err)
	}
	if d <= 0 {
		t.Errorf("NetworkDelay across layers should be positive, got %v", d)
	}
	same, err := sys.NetworkDelay(typemodel.Edge, 0, typemodel.Edge, 0, 1000)
	if err != nil || same != 0 {
		t.Errorf("NetworkDelay within same resource = %v, %v, want 0, nil", same, err)
	}
}

func TestLoadConfigRejectsNonPositiveLambda(t *testing.T) {
	bad := strings.Replace(minimalConfigJSON, `"Lambda": 2.0,`, `"Lambda": 0,`, 1)
	if _, _, err := LoadConfig([]byte(bad)); err == nil {
		t.Error("expected error for non-positive Lambda")
	}
}

func TestLoadConfigRejectsEmptyCompatibility(t *testing.T) {
	bad := strings.Replace(minimalConfigJSON,
		`"A": {"p1": ["edgeRes", "vmRes", "faasRes"]},`,
		`"A": {"p1": []},`, 1)
	if _, _, err := LoadConfig([]byte(bad)); err == nil {
		t.Error("expected ConfigInconsistent for a partition with no compatible resource")
	}
}

func TestLoadConfigRejectsBothPerformanceSources(t *testing.T) {
	withDemand := strings.Replace(minimalConfigJSON,
		`"LocalConstraints": {},`,
		`"LocalConstraints": {}, "DemandMatrix": {"A": {"p1": {"edgeRes": 0.1}}},`, 1)
	if _, _, err := LoadConfig([]byte(withDemand)); err == nil {
		t.Error("expected error when both Performance and DemandMatrix are set")
	}
}

func TestLoadConfigRejectsCyclicDAG(t *testing.T) {
	cyclic := `{
	  "Lambda": 1.0, "Time": 1,
	  "DirectedAcyclicGraph": {
	    "A": {"next": ["B"], "transition_probability": [1.0]},
	    "B": {"next": ["A"], "transition_probability": [1.0]}
	  },
	  "Components": {
	    "A": {"d1": {"p1": {"memory": 1, "early_exit_probability": 0, "next": "end", "data_size": 0}}},
	    "B": {"d1": {"p1": {"memory": 1, "early_exit_probability": 0, "next": "end", "data_size": 0}}}
	  },
	  "EdgeResources": {}, "CloudResources": {}, "FaaSResources": {},
	  "CompatibilityMatrix": {}, "NetworkTechnology": {},
	  "LocalConstraints": {}, "GlobalConstraints": {},
	  "Performance": {"A": {"p1": {}}, "B": {"p1": {}}}
	}`
	_, _, err := LoadConfig([]byte(cyclic))
	if err == nil {
		t.Fatal("expected error for a cyclic DAG")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("expected a cycle-related error, got: %v", err)
	}
}
