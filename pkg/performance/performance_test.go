package performance

import (
	"math"
	"testing"

	"github.com/dagplacer/space4ai-placer/pkg/solution"
	"github.com/dagplacer/space4ai-placer/pkg/sysmodel"
	"github.com/dagplacer/space4ai-placer/pkg/typemodel"
)

const fixtureJSON = `{
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

const demandMatrixJSON = `{
  "Lambda": 1.0,
  "Time": 3600,
  "DirectedAcyclicGraph": {
    "A": {"next": [], "transition_probability": []}
  },
  "Components": {
    "A": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 0}}}
  },
  "EdgeResources": {
    "edgeLayer": {"edgeRes": {"cost": 1.0, "memory": 1000, "number": 2}}
  },
  "CloudResources": {},
  "FaaSResources": {},
  "CompatibilityMatrix": {"A": {"p1": ["edgeRes"]}},
  "NetworkTechnology": {
    "net1": {"computationallayers": ["edgeLayer"], "AccessDelay": 0.01, "Bandwidth": 1000000}
  },
  "LocalConstraints": {},
  "GlobalConstraints": {},
  "DemandMatrix": {"A": {"p1": {"edgeRes": 0.2}}}
}`

func buildFixture(t *testing.T) (*sysmodel.SystemData, *Table) {
	t.Helper()
	sys, cfg, err := sysmodel.LoadConfig([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	table, err := Build(sys, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return sys, table
}

func TestBuildFromPerformancePopulatesEdgeVMAndFaaS(t *testing.T) {
	sys, table := buildFixture(t)
	edgeIdx, ok := sys.PartitionIndex("A", "p1")
	if !ok {
		t.Fatal("partition A/p1 not found")
	}
	compIdx, _ := sys.ComponentIndex("A")

	m := table.Get(compIdx, edgeIdx, typemodel.Edge, 0)
	if m == nil || m.Demand != 0.1 {
		t.Fatalf("Edge model = %+v, want Demand=0.1", m)
	}
	faas := table.Get(compIdx, edgeIdx, typemodel.FaaS, 0)
	if faas == nil || faas.DemandWarm != 0.02 || faas.DemandCold != 0.5 {
		t.Fatalf("FaaS model = %+v", faas)
	}
	if faas.Predictor == nil {
		t.Error("FaaS model must carry a ColdStartPredictor")
	}
}

func TestBuildFromDemandMatrixPopulatesEdge(t *testing.T) {
	sys, cfg, err := sysmodel.LoadConfig([]byte(demandMatrixJSON))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	table, err := Build(sys, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	compIdx, _ := sys.ComponentIndex("A")
	partIdx, _ := sys.PartitionIndex("A", "p1")

	m := table.Get(compIdx, partIdx, typemodel.Edge, 0)
	if m == nil || m.Demand != 0.2 {
		t.Fatalf("Edge model from demand matrix = %+v, want Demand=0.2", m)
	}
}

func TestUtilizationAggregatesColocatedPartitions(t *testing.T) {
	sys, table := buildFixture(t)
	sol := solution.New(sys)
	sol.Assign(0, 0, typemodel.VM, 0, 1)
	sol.Assign(1, 0, typemodel.VM, 0, 1)

	u := Utilization(sys, sol, table, typemodel.VM, 0)
	wantPerPartition := 0.05 * 2.0 // demand * lambda, lambda unchanged by early-exit=0 chain
	want := wantPerPartition * 2   // two colocated partitions, cluster size 1
	if math.Abs(u-want) > 1e-9 {
		t.Errorf("Utilization = %v, want %v", u, want)
	}
}

func TestUtilizationZeroWhenResourceUnused(t *testing.T) {
	sys, table := buildFixture(t)
	sol := solution.New(sys)
	if u := Utilization(sys, sol, table, typemodel.Edge, 0); u != 0 {
		t.Errorf("Utilization on an unused resource = %v, want 0", u)
	}
}

func TestPredictEdgeVMDividesByOneMinusUtilization(t *testing.T) {
	sys, table := buildFixture(t)
	sol := solution.New(sys)
	sol.Assign(0, 0, typemodel.Edge, 0, 1)

	rt, err := Predict(sys, sol, table, 0, 0, typemodel.Edge, 0)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	u := Utilization(sys, sol, table, typemodel.Edge, 0)
	want := 0.1 / (1 - u)
	if math.Abs(rt-want) > 1e-9 {
		t.Errorf("Predict = %v, want %v", rt, want)
	}
}

func TestPredictFaaSUsesColdStartPredictor(t *testing.T) {
	sys, table := buildFixture(t)
	sol := solution.New(sys)
	sol.Assign(0, 0, typemodel.FaaS, 0, 1)

	rt, err := Predict(sys, sol, table, 0, 0, typemodel.FaaS, 0)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if rt <= 0 {
		t.Errorf("FaaS predicted response time = %v, want > 0", rt)
	}
}

func TestPredictOverUtilizedReturnsError(t *testing.T) {
	overloaded := `{
  "Lambda": 2.0, "Time": 3600,
  "DirectedAcyclicGraph": {
    "A": {"next": ["B"], "transition_probability": [1.0]},
    "B": {"next": [], "transition_probability": []}
  },
  "Components": {
    "A": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 100}}},
    "B": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 0}}}
  },
  "EdgeResources": {"edgeLayer": {"edgeRes": {"cost": 1.0, "memory": 1000, "number": 2}}},
  "CloudResources": {}, "FaaSResources": {},
  "CompatibilityMatrix": {"A": {"p1": ["edgeRes"]}, "B": {"p1": ["edgeRes"]}},
  "NetworkTechnology": {"net1": {"computationallayers": ["edgeLayer"], "AccessDelay": 0.01, "Bandwidth": 1000000}},
  "LocalConstraints": {}, "GlobalConstraints": {},
  "Performance": {
    "A": {"p1": {"edgeRes": {"model": "PACSLTK", "demand": 0.6}}},
    "B": {"p1": {"edgeRes": {"model": "PACSLTK", "demand": 0.6}}}
  }
}`
	sys, cfg, err := sysmodel.LoadConfig([]byte(overloaded))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	table, err := Build(sys, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sol := solution.New(sys)
	sol.Assign(0, 0, typemodel.Edge, 0, 1)
	sol.Assign(1, 0, typemodel.Edge, 0, 1)

	u := Utilization(sys, sol, table, typemodel.Edge, 0)
	if u < 1 {
		t.Fatalf("fixture does not actually overload the resource: u=%v", u)
	}

	_, err = Predict(sys, sol, table, 0, 0, typemodel.Edge, 0)
	if _, ok := err.(*ErrOverUtilized); !ok {
		t.Errorf("expected *ErrOverUtilized, got %v", err)
	}
}

func TestAnalyticColdStartBlendsWarmAndCold(t *testing.T) {
	p := AnalyticColdStart{}
	v, err := p.Predict(0, 1.0, 9.0, 100)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if v != 9.0 {
		t.Errorf("Predict with zero arrival rate = %v, want the cold demand 9.0", v)
	}

	v2, err := p.Predict(1000, 1.0, 9.0, 0.001)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if v2 <= 1.0 || v2 >= 9.0 {
		t.Errorf("Predict with high arrival rate and tiny idle window = %v, want strictly between warm and cold demand", v2)
	}
}

func TestBuildFromPerformanceUsesStaticColdStartForPACSLTKSTATIC(t *testing.T) {
	staticJSON := `{
  "Lambda": 2.0, "Time": 3600,
  "DirectedAcyclicGraph": {"A": {"next": [], "transition_probability": []}},
  "Components": {
    "A": {"d1": {"p1": {"memory": 10, "early_exit_probability": 0, "next": "end", "data_size": 0}}}
  },
  "EdgeResources": {}, "CloudResources": {},
  "FaaSResources": {"faasLayer": {"faasRes": {"cost": 0.5, "memory": 2000, "idle_time_before_kill": 600}}},
  "CompatibilityMatrix": {"A": {"p1": ["faasRes"]}},
  "NetworkTechnology": {"net1": {"computationallayers": ["faasLayer"], "AccessDelay": 0.01, "Bandwidth": 1000000}},
  "LocalConstraints": {}, "GlobalConstraints": {},
  "Performance": {
    "A": {"p1": {"faasRes": {"model": "PACSLTKSTATIC", "demandWarm": 0.02, "demandCold": 0.5}}}
  }
}`
	sys, cfg, err := sysmodel.LoadConfig([]byte(staticJSON))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	table, err := Build(sys, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	compIdx, _ := sys.ComponentIndex("A")
	partIdx, _ := sys.PartitionIndex("A", "p1")

	m := table.Get(compIdx, partIdx, typemodel.FaaS, 0)
	if m == nil {
		t.Fatal("FaaS model not found")
	}
	static, ok := m.Predictor.(StaticColdStart)
	if !ok {
		t.Fatalf("Predictor = %T, want StaticColdStart (model string %q must select the static predictor)", m.Predictor, "PACSLTKSTATIC")
	}

	lambda := sys.Component(compIdx).Partition(partIdx).PartLambda
	want, err := AnalyticColdStart{}.Predict(lambda, 0.02, 0.5, 600)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if static.Demand != want {
		t.Errorf("StaticColdStart.Demand = %v, want %v (precomputed at load time)", static.Demand, want)
	}
}

func TestStaticColdStartIgnoresArguments(t *testing.T) {
	s := StaticColdStart{Demand: 3.14}
	v, err := s.Predict(999, 1, 2, 3)
	if err != nil || v != 3.14 {
		t.Errorf("StaticColdStart.Predict = %v, %v, want 3.14, nil", v, err)
	}
}

func TestErrOverUtilizedMessage(t *testing.T) {
	e := &ErrOverUtilized{Kind: typemodel.VM, Res: 2, U: 1.5}
	if got := e.Error(); got == "" {
		t.Error("Error() must not be empty")
	}
}
