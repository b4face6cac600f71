package search

import "testing"

func TestTrialStateString(t *testing.T) {
	cases := map[TrialState]string{
		Fresh:         "fresh",
		PlacementDone: "placement_done",
		Infeasible:    "infeasible",
		Feasible:      "feasible",
		Shrunk:        "shrunk",
		Submitted:     "submitted",
		TrialState(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("TrialState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
