package search

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dagplacer/space4ai-placer/pkg/evaluator"
	"github.com/dagplacer/space4ai-placer/pkg/performance"
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
      "edgeRes": {"model": "PACSLTK", "demand": 0.01},
      "vmRes": {"model": "PACSLTK", "demand": 0.005},
      "faasRes": {"model": "PACSLTK", "demandWarm": 0.01, "demandCold": 0.2}
    }},
    "B": {"p1": {
      "edgeRes": {"model": "PACSLTK", "demand": 0.01},
      "vmRes": {"model": "PACSLTK", "demand": 0.005},
      "faasRes": {"model": "PACSLTK", "demandWarm": 0.01, "demandCold": 0.2}
    }}
  }
}`

// DriverTestSuite exercises the stateful RandomGreedy + LocalSearch +
// SearchDriver engine end to end, in the style of the teacher's
// suite.Suite-based engine tests.
type DriverTestSuite struct {
	suite.Suite
	sys   *sysmodel.SystemData
	table *performance.Table
}

func TestDriverTestSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}

func (s *DriverTestSuite) SetupTest() {
	sys, cfg, err := sysmodel.LoadConfig([]byte(fixtureJSON))
	s.Require().NoError(err)
	table, err := performance.Build(sys, cfg)
	s.Require().NoError(err)
	s.sys = sys
	s.table = table
}

func (s *DriverTestSuite) TestRandomGreedyFindsFeasibleSolutions() {
	outcome := RandomGreedy(s.sys, s.table, RandomGreedyConfig{
		MaxIterations:   20,
		NumTopSolutions: 3,
		Reproducible:    true,
		Parallel:        2,
	})

	s.Require().NotZero(outcome.Elite.Size(), "expected at least one feasible trial out of 20")
	for _, r := range outcome.Elite.All() {
		report := evaluator.Check(s.sys, r.Solution, s.table)
		s.True(report.Feasible, "elite solution is not actually feasible: %v", report.Violation)
		s.Equal(report.Cost, r.Cost, "recorded cost must match recomputed cost")
	}
}

func (s *DriverTestSuite) TestRandomGreedyReproducibleIsDeterministic() {
	cfg := RandomGreedyConfig{MaxIterations: 10, NumTopSolutions: 5, Reproducible: true, Parallel: 1}

	first := RandomGreedy(s.sys, s.table, cfg)
	second := RandomGreedy(s.sys, s.table, cfg)

	firstCosts := make([]float64, 0)
	for _, r := range first.Elite.All() {
		firstCosts = append(firstCosts, r.Cost)
	}
	secondCosts := make([]float64, 0)
	for _, r := range second.Elite.All() {
		secondCosts = append(secondCosts, r.Cost)
	}
	s.Equal(firstCosts, secondCosts, "reproducible runs with the same config must agree")
}

func (s *DriverTestSuite) TestSearchDriverProducesFeasibleBest() {
	elite := SearchDriver(s.sys, s.table, DriverConfig{
		RandomGreedy: RandomGreedyConfig{
			MaxIterations:   15,
			NumTopSolutions: 3,
			Reproducible:    true,
			Parallel:        2,
		},
		LocalSearchIterations: 5,
		Reproducible:          true,
	})

	s.Require().NotZero(elite.Size(), "expected SearchDriver to find a feasible solution")
	best, ok := elite.Get(0)
	s.Require().True(ok)
	report := evaluator.Check(s.sys, best.Solution, s.table)
	s.True(report.Feasible, "refined best solution is not feasible: %v", report.Violation)
}

func (s *DriverTestSuite) TestRandomGreedyRespectsFixedResources() {
	kind, idx, ok := s.sys.ResourceIndex("edgeRes")
	s.Require().True(ok)
	s.Require().Equal(typemodel.Edge, kind)

	fixed := NewFixedResources(s.sys.NumberResources(typemodel.Edge), s.sys.NumberResources(typemodel.VM), []int{idx}, nil)

	outcome := RandomGreedy(s.sys, s.table, RandomGreedyConfig{
		MaxIterations:   10,
		NumTopSolutions: 3,
		Reproducible:    true,
		Parallel:        2,
		FixedResources:  fixed,
	})
	s.Require().NotZero(outcome.Elite.Size(), "expected at least one feasible trial with fixed resources")

	for _, r := range outcome.Elite.All() {
		sel := outcome.Selection[r.Solution]
		s.Require().NotNil(sel)
		s.True(sel.Edge()[idx], "fixed edge resource must remain selected in every trial")
	}
}

func (s *DriverTestSuite) TestSearchDriverRefinesEverySeed() {
	elite := SearchDriver(s.sys, s.table, DriverConfig{
		RandomGreedy: RandomGreedyConfig{
			MaxIterations:   15,
			NumTopSolutions: 3,
			Reproducible:    true,
			Parallel:        2,
		},
		LocalSearchIterations:   4,
		LocalSearchTopSolutions: 3,
		Reproducible:            true,
		Parallel:                2,
	})

	s.Require().NotZero(elite.Size())
	for _, r := range elite.All() {
		report := evaluator.Check(s.sys, r.Solution, s.table)
		s.True(report.Feasible, "every refined seed must remain feasible: %v", report.Violation)
	}
}

func (s *DriverTestSuite) TestLocalSearchNeverWorsensCost() {
	outcome := RandomGreedy(s.sys, s.table, RandomGreedyConfig{
		MaxIterations:   10,
		NumTopSolutions: 1,
		Reproducible:    true,
		Parallel:        1,
	})
	s.Require().NotZero(outcome.Elite.Size(), "expected a feasible seed for local search")
	seed, _ := outcome.Elite.Get(0)
	sel := outcome.Selection[seed.Solution]

	ls := NewLocalSearch(s.sys, s.table, sel, seed.Solution, seed.Cost, true, fixedInitialSeed)
	_, refinedCost := ls.Run(30)

	s.LessOrEqual(refinedCost, seed.Cost, "local search must never worsen the seed's cost")
}
